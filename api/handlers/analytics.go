package handlers

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/openrms/records-api/api"
	"github.com/openrms/records-api/config"
	"github.com/openrms/records-api/databases"
	"github.com/openrms/records-api/models"
)

// Analytics exported for testing purposes
type Analytics struct {
	Calls databases.CallDatabase
	Units databases.UnitDatabase
}

// analyticsSummary is the response shape of the summary endpoint
type analyticsSummary struct {
	CallsByStatus        map[string]int64 `json:"callsByStatus"`
	CallsByPriority      map[string]int64 `json:"callsByPriority"`
	UnitsByStatus        map[string]int64 `json:"unitsByStatus"`
	AvgResolutionSeconds float64          `json:"avgResolutionSeconds"`
	ResolvedSampleSize   int              `json:"resolvedSampleSize"`
}

// SummaryHandler aggregates call and unit counts for the dashboard widgets
func (a Analytics) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	summary := analyticsSummary{
		CallsByStatus:   map[string]int64{},
		CallsByPriority: map[string]int64{},
		UnitsByStatus:   map[string]int64{},
	}

	for _, status := range []string{models.CallStatusPending, models.CallStatusDispatched, models.CallStatusResolved} {
		count, err := a.Calls.CountDocuments(ctx, bson.M{"call.status": status})
		if err != nil {
			config.ErrorStatus("failed to count calls", http.StatusInternalServerError, w, err)
			return
		}
		summary.CallsByStatus[status] = count
	}

	for _, priority := range []string{models.CallPriorityLow, models.CallPriorityMedium, models.CallPriorityHigh} {
		count, err := a.Calls.CountDocuments(ctx, bson.M{"call.priority": priority})
		if err != nil {
			config.ErrorStatus("failed to count calls", http.StatusInternalServerError, w, err)
			return
		}
		summary.CallsByPriority[priority] = count
	}

	for _, status := range []string{models.UnitStatusAvailable, models.UnitStatusResponding, models.UnitStatusUnavailable} {
		count, err := a.Units.CountDocuments(ctx, bson.M{"unit.status": status})
		if err != nil {
			config.ErrorStatus("failed to count units", http.StatusInternalServerError, w, err)
			return
		}
		summary.UnitsByStatus[status] = count
	}

	// Average resolution time over the most recent resolved calls
	resolved, err := a.Calls.Find(ctx, bson.M{"call.status": models.CallStatusResolved},
		databases.NewPaginate(500, 0).GetPaginatedOpts())
	if err != nil {
		config.ErrorStatus("failed to get resolved calls", http.StatusInternalServerError, w, err)
		return
	}
	var total time.Duration
	var n int
	for _, call := range resolved {
		if call.Details.ResolvedAt == nil {
			continue
		}
		total += call.Details.ResolvedAt.Time().Sub(call.Details.CreatedAt.Time())
		n++
	}
	if n > 0 {
		summary.AvgResolutionSeconds = total.Seconds() / float64(n)
	}
	summary.ResolvedSampleSize = n

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(summary)
}

// ExportCallsHandler streams the call ledger as CSV or JSON, filtered by an
// optional date range
func (a Analytics) ExportCallsHandler(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "json" {
		config.ErrorStatus("format must be csv or json", http.StatusBadRequest, w, nil)
		return
	}

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["call.status"] = status
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	calls, err := a.Calls.Find(ctx, filter)
	if err != nil {
		config.ErrorStatus("failed to get calls for export", http.StatusInternalServerError, w, err)
		return
	}
	if calls == nil {
		calls = []models.Call{}
	}

	if format == "json" {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="calls.json"`)
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(calls)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="calls.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	cw.Write([]string{"id", "status", "priority", "location", "description", "assignedUnits", "createdAt", "resolvedAt"})
	for _, call := range calls {
		resolvedAt := ""
		if call.Details.ResolvedAt != nil {
			resolvedAt = call.Details.ResolvedAt.Time().UTC().Format(time.RFC3339)
		}
		cw.Write([]string{
			call.ID,
			call.Details.Status,
			call.Details.Priority,
			call.Details.Location,
			call.Details.Description,
			strings.Join(call.Details.AssignedUnits, ";"),
			call.Details.CreatedAt.Time().UTC().Format(time.RFC3339),
			resolvedAt,
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		// The 200 and part of the body are already on the wire
		zap.S().Errorw("failed to write csv export",
			"rows", len(calls),
			"error", err)
	}
}
