package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/openrms/records-api/api"
	"github.com/openrms/records-api/config"
	"github.com/openrms/records-api/dispatch"
)

// Dispatch exported for testing purposes
type Dispatch struct {
	Coordinator dispatch.Dispatcher
}

type dispatchRequest struct {
	UnitIDs []string `json:"unitIds"`
}

// DispatchCallHandler assigns units to a pending call
func (d Dispatch) DispatchCallHandler(w http.ResponseWriter, r *http.Request) {
	callID := mux.Vars(r)["call_id"]

	var req dispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	call, err := d.Coordinator.Dispatch(ctx, callID, req.UnitIDs)
	if err != nil {
		writeDispatchError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "call dispatched successfully",
		"call":    call,
	})
}

// ResolveCallHandler closes a dispatched call and releases its units
func (d Dispatch) ResolveCallHandler(w http.ResponseWriter, r *http.Request) {
	callID := mux.Vars(r)["call_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	call, err := d.Coordinator.Resolve(ctx, callID)
	if err != nil {
		writeDispatchError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "call resolved successfully",
		"call":    call,
	})
}

// writeDispatchError maps the coordinator's error types onto HTTP statuses
func writeDispatchError(w http.ResponseWriter, err error) {
	var (
		validationErr      *dispatch.ValidationError
		notFoundErr        *dispatch.NotFoundError
		invalidTransErr    *dispatch.InvalidTransitionError
		alreadyAssignedErr *dispatch.AlreadyAssignedError
		emptySelectionErr  *dispatch.EmptySelectionError
		conflictErr        *dispatch.ConflictError
		transientErr       *dispatch.TransientError
	)
	switch {
	case errors.As(err, &validationErr):
		config.ErrorStatus("invalid request", http.StatusBadRequest, w, err)
	case errors.As(err, &emptySelectionErr):
		config.ErrorStatus("no units selected", http.StatusBadRequest, w, err)
	case errors.As(err, &notFoundErr):
		config.ErrorStatus("not found", http.StatusNotFound, w, err)
	case errors.As(err, &invalidTransErr):
		config.ErrorStatus("invalid state transition", http.StatusConflict, w, err)
	case errors.As(err, &alreadyAssignedErr):
		config.ErrorStatus("unit already assigned", http.StatusConflict, w, err)
	case errors.As(err, &conflictErr):
		config.ErrorStatus("conflicting concurrent update, retry", http.StatusConflict, w, err)
	case errors.As(err, &transientErr):
		config.ErrorStatus("storage temporarily unavailable", http.StatusServiceUnavailable, w, err)
	default:
		config.ErrorStatus("internal error", http.StatusInternalServerError, w, err)
	}
}
