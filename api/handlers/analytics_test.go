package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/openrms/records-api/api/handlers"
	"github.com/openrms/records-api/databases"
	dbmocks "github.com/openrms/records-api/databases/mocks"
	"github.com/openrms/records-api/models"
)

func TestAnalytics_SummaryHandler(t *testing.T) {
	db := &dbmocks.DatabaseHelper{}
	callConn := &dbmocks.CollectionHelper{}
	unitConn := &dbmocks.CollectionHelper{}

	created := primitive.NewDateTimeFromTime(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	resolvedAt := primitive.NewDateTimeFromTime(time.Date(2024, 5, 1, 12, 10, 0, 0, time.UTC))
	resolved := []models.Call{
		{ID: "1", Details: models.CallDetails{
			Status:     models.CallStatusResolved,
			CreatedAt:  created,
			ResolvedAt: &resolvedAt,
		}},
	}

	db.On("Collection", "calls").Return(callConn)
	db.On("Collection", "units").Return(unitConn)
	callConn.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(3), nil)
	unitConn.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(2), nil)
	callConn.On("Find", mock.Anything, mock.Anything, mock.Anything).
		Return(databases.CursorHelper(callsCursor(resolved)), nil)

	a := handlers.Analytics{
		Calls: databases.NewCallDatabase(db),
		Units: databases.NewUnitDatabase(db),
	}

	req, _ := http.NewRequest("GET", "/api/v1/analytics/summary", nil)

	rr := httptest.NewRecorder()
	http.HandlerFunc(a.SummaryHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"callsByStatus"`)
	assert.Contains(t, rr.Body.String(), `"avgResolutionSeconds":600`)
	assert.Contains(t, rr.Body.String(), `"resolvedSampleSize":1`)
}

func TestAnalytics_ExportCallsHandlerCSV(t *testing.T) {
	db := &dbmocks.DatabaseHelper{}
	conn := &dbmocks.CollectionHelper{}

	created := primitive.NewDateTimeFromTime(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	calls := []models.Call{
		{ID: "call-1", Details: models.CallDetails{
			Status:        models.CallStatusDispatched,
			Priority:      models.CallPriorityHigh,
			Location:      "4th and Main",
			Description:   "robbery",
			AssignedUnits: []string{"unit-1", "unit-2"},
			CreatedAt:     created,
		}},
	}

	db.On("Collection", "calls").Return(conn)
	conn.On("Find", mock.Anything, mock.Anything).
		Return(databases.CursorHelper(callsCursor(calls)), nil)

	a := handlers.Analytics{Calls: databases.NewCallDatabase(db)}

	req, _ := http.NewRequest("GET", "/api/v1/analytics/export?format=csv", nil)

	rr := httptest.NewRecorder()
	http.HandlerFunc(a.ExportCallsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "calls.csv")
	assert.Contains(t, rr.Body.String(), "id,status,priority,location,description,assignedUnits,createdAt,resolvedAt")
	assert.Contains(t, rr.Body.String(), "unit-1;unit-2")
	assert.Contains(t, rr.Body.String(), "2024-05-01T12:00:00Z")
}

func TestAnalytics_ExportCallsHandlerJSON(t *testing.T) {
	db := &dbmocks.DatabaseHelper{}
	conn := &dbmocks.CollectionHelper{}

	db.On("Collection", "calls").Return(conn)
	conn.On("Find", mock.Anything, mock.Anything).
		Return(databases.CursorHelper(callsCursor(nil)), nil)

	a := handlers.Analytics{Calls: databases.NewCallDatabase(db)}

	req, _ := http.NewRequest("GET", "/api/v1/analytics/export?format=json", nil)

	rr := httptest.NewRecorder()
	http.HandlerFunc(a.ExportCallsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `[]`, rr.Body.String())
}

// brokenPipeWriter simulates a client that disconnects mid-download: every
// body write fails after the status line has gone out.
type brokenPipeWriter struct {
	header      http.Header
	statusCalls []int
}

func (b *brokenPipeWriter) Header() http.Header {
	if b.header == nil {
		b.header = http.Header{}
	}
	return b.header
}

func (b *brokenPipeWriter) WriteHeader(status int) {
	b.statusCalls = append(b.statusCalls, status)
}

func (b *brokenPipeWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestAnalytics_ExportCallsHandlerClientGoneMidCSV(t *testing.T) {
	db := &dbmocks.DatabaseHelper{}
	conn := &dbmocks.CollectionHelper{}

	db.On("Collection", "calls").Return(conn)
	conn.On("Find", mock.Anything, mock.Anything).
		Return(databases.CursorHelper(callsCursor([]models.Call{{ID: "call-1"}})), nil)

	a := handlers.Analytics{Calls: databases.NewCallDatabase(db)}

	req, _ := http.NewRequest("GET", "/api/v1/analytics/export?format=csv", nil)

	w := &brokenPipeWriter{}
	http.HandlerFunc(a.ExportCallsHandler).ServeHTTP(w, req)

	// The 200 already went out; the write failure must not produce a second
	// status write.
	assert.Equal(t, []int{http.StatusOK}, w.statusCalls)
}

func TestAnalytics_ExportCallsHandlerBadFormat(t *testing.T) {
	db := &dbmocks.DatabaseHelper{}
	a := handlers.Analytics{Calls: databases.NewCallDatabase(db)}

	req, _ := http.NewRequest("GET", "/api/v1/analytics/export?format=xml", nil)

	rr := httptest.NewRecorder()
	http.HandlerFunc(a.ExportCallsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	db.AssertNotCalled(t, "Collection", mock.Anything)
}
