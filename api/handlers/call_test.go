package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/openrms/records-api/api/handlers"
	"github.com/openrms/records-api/databases"
	dbmocks "github.com/openrms/records-api/databases/mocks"
	"github.com/openrms/records-api/dispatch"
	"github.com/openrms/records-api/dispatch/mocks"
	"github.com/openrms/records-api/models"
)

func callsCursor(calls []models.Call) *dbmocks.CursorHelper {
	cursor := &dbmocks.CursorHelper{}
	cursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.Call)
		*arg = calls
	})
	return cursor
}

func TestCall_CreateCallHandler(t *testing.T) {
	ledger := &mocks.CallLedger{}
	created := &models.Call{
		ID: "608cafe595eb9dc05379b7f4",
		Details: models.CallDetails{
			CallerName:  "Jane Doe",
			CallerPhone: "555-0100",
			Location:    "4th and Main",
			Description: "robbery",
			Priority:    models.CallPriorityHigh,
			Status:      models.CallStatusPending,
		},
	}
	ledger.On("Create", mock.Anything, mock.Anything).Return(created, nil)

	c := handlers.Call{Ledger: ledger}

	body := `{"callerName":"Jane Doe","callerPhone":"555-0100","location":"4th and Main","description":"robbery","priority":"high"}`
	req, _ := http.NewRequest("POST", "/api/v1/calls", strings.NewReader(body))

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.CreateCallHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), "call created successfully")
}

func TestCall_CreateCallHandlerValidationFailure(t *testing.T) {
	ledger := &mocks.CallLedger{}
	ledger.On("Create", mock.Anything, mock.Anything).
		Return(nil, &dispatch.ValidationError{Field: "callerName", Reason: "must not be empty"})

	c := handlers.Call{Ledger: ledger}

	req, _ := http.NewRequest("POST", "/api/v1/calls", strings.NewReader(`{"priority":"high"}`))

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.CreateCallHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCall_CallByIDHandlerNotFound(t *testing.T) {
	ledger := &mocks.CallLedger{}
	ledger.On("GetByID", mock.Anything, "missing").
		Return(nil, &dispatch.NotFoundError{Entity: "call", ID: "missing"})

	c := handlers.Call{Ledger: ledger}

	req, _ := http.NewRequest("GET", "/api/v1/call/missing", nil)
	req = mux.SetURLVars(req, map[string]string{"call_id": "missing"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.CallByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCall_CallByIDHandler(t *testing.T) {
	ledger := &mocks.CallLedger{}
	call := &models.Call{ID: "608cafe595eb9dc05379b7f4", Details: models.CallDetails{Status: models.CallStatusPending}}
	ledger.On("GetByID", mock.Anything, "608cafe595eb9dc05379b7f4").Return(call, nil)

	c := handlers.Call{Ledger: ledger}

	req, _ := http.NewRequest("GET", "/api/v1/call/608cafe595eb9dc05379b7f4", nil)
	req = mux.SetURLVars(req, map[string]string{"call_id": "608cafe595eb9dc05379b7f4"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.CallByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "608cafe595eb9dc05379b7f4")
}

func TestCall_CallHandlerFiltersByStatus(t *testing.T) {
	db := &dbmocks.DatabaseHelper{}
	conn := &dbmocks.CollectionHelper{}

	calls := []models.Call{
		{ID: "1", Details: models.CallDetails{Status: models.CallStatusPending, Priority: models.CallPriorityHigh}},
	}

	db.On("Collection", "calls").Return(conn)
	conn.On("Find", mock.Anything, mock.Anything, mock.Anything).
		Return(databases.CursorHelper(callsCursor(calls)), nil)

	c := handlers.Call{DB: databases.NewCallDatabase(db)}

	req, _ := http.NewRequest("GET", "/api/v1/calls?status=pending", nil)

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.CallHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"pending"`)
}

func TestCall_CallHandlerRejectsBadPriority(t *testing.T) {
	db := &dbmocks.DatabaseHelper{}
	c := handlers.Call{DB: databases.NewCallDatabase(db)}

	req, _ := http.NewRequest("GET", "/api/v1/calls?priority=urgent", nil)

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.CallHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	db.AssertNotCalled(t, "Collection", mock.Anything)
}
