package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/openrms/records-api/api/handlers"
	"github.com/openrms/records-api/dispatch"
	"github.com/openrms/records-api/dispatch/mocks"
	"github.com/openrms/records-api/models"
)

func TestDispatch_DispatchCallHandler(t *testing.T) {
	coordinator := &mocks.Dispatcher{}
	dispatched := &models.Call{
		ID: "608cafe595eb9dc05379b7f4",
		Details: models.CallDetails{
			Status:        models.CallStatusDispatched,
			AssignedUnits: []string{"unit-1"},
		},
	}
	coordinator.On("Dispatch", mock.Anything, "608cafe595eb9dc05379b7f4", []string{"unit-1"}).
		Return(dispatched, nil)

	d := handlers.Dispatch{Coordinator: coordinator}

	req, err := http.NewRequest("POST", "/api/v1/call/608cafe595eb9dc05379b7f4/dispatch",
		strings.NewReader(`{"unitIds": ["unit-1"]}`))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"call_id": "608cafe595eb9dc05379b7f4"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(d.DispatchCallHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "call dispatched successfully")
	coordinator.AssertExpectations(t)
}

func TestDispatch_DispatchCallHandlerBadBody(t *testing.T) {
	coordinator := &mocks.Dispatcher{}
	d := handlers.Dispatch{Coordinator: coordinator}

	req, _ := http.NewRequest("POST", "/api/v1/call/1234/dispatch", strings.NewReader(`{not json`))
	req = mux.SetURLVars(req, map[string]string{"call_id": "1234"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(d.DispatchCallHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	coordinator.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatch_DispatchCallHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"empty selection", &dispatch.EmptySelectionError{}, http.StatusBadRequest},
		{"validation", &dispatch.ValidationError{Field: "priority", Reason: "bad"}, http.StatusBadRequest},
		{"call not found", &dispatch.NotFoundError{Entity: "call", ID: "1234"}, http.StatusNotFound},
		{"invalid transition", &dispatch.InvalidTransitionError{CallID: "1234", From: "resolved", To: "dispatched"}, http.StatusConflict},
		{"unit busy", &dispatch.AlreadyAssignedError{UnitIDs: []string{"unit-1"}}, http.StatusConflict},
		{"write conflict", &dispatch.ConflictError{Entity: "call", ID: "1234"}, http.StatusConflict},
		{"storage down", &dispatch.TransientError{Op: "dispatch call", Err: errors.New("socket timeout")}, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			coordinator := &mocks.Dispatcher{}
			coordinator.On("Dispatch", mock.Anything, "1234", []string{"unit-1"}).Return(nil, tc.err)

			d := handlers.Dispatch{Coordinator: coordinator}

			req, _ := http.NewRequest("POST", "/api/v1/call/1234/dispatch",
				strings.NewReader(`{"unitIds": ["unit-1"]}`))
			req = mux.SetURLVars(req, map[string]string{"call_id": "1234"})

			rr := httptest.NewRecorder()
			http.HandlerFunc(d.DispatchCallHandler).ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)
		})
	}
}

func TestDispatch_ResolveCallHandler(t *testing.T) {
	coordinator := &mocks.Dispatcher{}
	resolved := &models.Call{
		ID:      "608cafe595eb9dc05379b7f4",
		Details: models.CallDetails{Status: models.CallStatusResolved},
	}
	coordinator.On("Resolve", mock.Anything, "608cafe595eb9dc05379b7f4").Return(resolved, nil)

	d := handlers.Dispatch{Coordinator: coordinator}

	req, _ := http.NewRequest("POST", "/api/v1/call/608cafe595eb9dc05379b7f4/resolve", nil)
	req = mux.SetURLVars(req, map[string]string{"call_id": "608cafe595eb9dc05379b7f4"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(d.ResolveCallHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "call resolved successfully")
}

func TestDispatch_ResolveCallHandlerNotDispatched(t *testing.T) {
	coordinator := &mocks.Dispatcher{}
	coordinator.On("Resolve", mock.Anything, "1234").
		Return(nil, &dispatch.InvalidTransitionError{CallID: "1234", From: models.CallStatusPending, To: models.CallStatusResolved})

	d := handlers.Dispatch{Coordinator: coordinator}

	req, _ := http.NewRequest("POST", "/api/v1/call/1234/resolve", nil)
	req = mux.SetURLVars(req, map[string]string{"call_id": "1234"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(d.ResolveCallHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}
