package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/openrms/records-api/api"
	"github.com/openrms/records-api/config"
	"github.com/openrms/records-api/databases"
	"github.com/openrms/records-api/models"
)

// Report exported for testing purposes
type Report struct {
	RDB databases.ReportDatabase
}

// CreateReportHandler creates a new analyst report
func (rp Report) CreateReportHandler(w http.ResponseWriter, r *http.Request) {
	var report models.Report
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if report.Title == "" || report.Body == "" {
		config.ErrorStatus("title and body are required", http.StatusBadRequest, w, nil)
		return
	}

	report.ID = primitive.NewObjectID()
	report.CreatedAt = primitive.NewDateTimeFromTime(time.Now())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	_, err := rp.RDB.InsertOne(ctx, report)
	if err != nil {
		config.ErrorStatus("failed to create report", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "report created successfully",
		"report":  report,
	})
}

// FetchReportsHandler returns reports, optionally filtered by category or call
func (rp Report) FetchReportsHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 0 {
		page = 0
	}

	filter := bson.M{}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
	}
	if callID := r.URL.Query().Get("callId"); callID != "" {
		filter["relatedCallId"] = callID
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	opts := databases.NewPaginate(limit, page).GetPaginatedOpts()
	reports, err := rp.RDB.Find(ctx, filter, opts)
	if err != nil {
		config.ErrorStatus("failed to fetch reports", http.StatusInternalServerError, w, err)
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(reports)
}
