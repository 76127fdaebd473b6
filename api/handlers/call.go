package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/openrms/records-api/api"
	"github.com/openrms/records-api/config"
	"github.com/openrms/records-api/databases"
	"github.com/openrms/records-api/dispatch"
	"github.com/openrms/records-api/models"
)

// Call exported for testing purposes
type Call struct {
	DB     databases.CallDatabase
	Ledger dispatch.CallLedger
}

// CallHandler returns calls, optionally filtered by status and priority
func (c Call) CallHandler(w http.ResponseWriter, r *http.Request) {
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
	if status := r.URL.Query().Get("status"); status != "" {
		filter["call.status"] = status
	}
	if priority := r.URL.Query().Get("priority"); priority != "" {
		if !models.ValidPriority(priority) {
			config.ErrorStatus("invalid priority value", http.StatusBadRequest, w, nil)
			return
		}
		filter["call.priority"] = priority
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	opts := databases.NewPaginate(limit, page).GetPaginatedOpts()
	dbResp, err := c.DB.Find(ctx, filter, opts)
	if err != nil {
		config.ErrorStatus("failed to get calls", http.StatusInternalServerError, w, err)
		return
	}
	// The dashboard expects an array even when the page is empty
	if dbResp == nil {
		dbResp = []models.Call{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CallByIDHandler returns a call by ID
func (c Call) CallByIDHandler(w http.ResponseWriter, r *http.Request) {
	callID := mux.Vars(r)["call_id"]
	zap.S().Debugf("call_id: %v", callID)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	call, err := c.Ledger.GetByID(ctx, callID)
	if err != nil {
		writeDispatchError(w, err)
		return
	}

	b, err := json.Marshal(call)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateCallHandler logs a new emergency call in the pending state
func (c Call) CreateCallHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody models.CallDetails
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	call, err := c.Ledger.Create(ctx, requestBody)
	if err != nil {
		writeDispatchError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "call created successfully",
		"call":    call,
	})
}
