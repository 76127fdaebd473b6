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
	"github.com/openrms/records-api/dispatch/mocks"
	"github.com/openrms/records-api/models"
)

func TestUnit_AvailableUnitsHandler(t *testing.T) {
	registry := &mocks.UnitRegistry{}
	registry.On("ListAvailable", mock.Anything).Return([]models.Unit{
		{ID: "unit-1", Details: models.UnitDetails{Name: "Adam-12", Type: models.UnitTypePatrol, Status: models.UnitStatusAvailable}},
	}, nil)

	u := handlers.Unit{Registry: registry}

	req, _ := http.NewRequest("GET", "/api/v1/units/available", nil)

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.AvailableUnitsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Adam-12")
}

func TestUnit_CreateUnitHandler(t *testing.T) {
	db := &dbmocks.DatabaseHelper{}
	conn := &dbmocks.CollectionHelper{}
	insertResult := &dbmocks.InsertOneResultHelper{}

	db.On("Collection", "units").Return(conn)
	conn.On("InsertOne", mock.Anything, mock.Anything).
		Return(databases.InsertOneResultHelper(insertResult), nil)

	u := handlers.Unit{DB: databases.NewUnitDatabase(db)}

	body := `{"name":"Adam-12","type":"patrol","location":"station 3"}`
	req, _ := http.NewRequest("POST", "/api/v1/unit", strings.NewReader(body))

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.CreateUnitHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), "unit created successfully")
	conn.AssertExpectations(t)
}

func TestUnit_CreateUnitHandlerBadType(t *testing.T) {
	db := &dbmocks.DatabaseHelper{}
	u := handlers.Unit{DB: databases.NewUnitDatabase(db)}

	body := `{"name":"Adam-12","type":"helicopter"}`
	req, _ := http.NewRequest("POST", "/api/v1/unit", strings.NewReader(body))

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.CreateUnitHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	db.AssertNotCalled(t, "Collection", mock.Anything)
}

func TestUnit_UpdateUnitHandlerRejectsStatusWrites(t *testing.T) {
	db := &dbmocks.DatabaseHelper{}
	u := handlers.Unit{DB: databases.NewUnitDatabase(db)}

	req, _ := http.NewRequest("PUT", "/api/v1/unit/unit-1", strings.NewReader(`{"status":"responding"}`))
	req = mux.SetURLVars(req, map[string]string{"unit_id": "unit-1"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.UpdateUnitHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "unit status can only change through dispatch")
	db.AssertNotCalled(t, "Collection", mock.Anything)
}

func TestUnit_UpdateUnitHandlerNotFound(t *testing.T) {
	db := &dbmocks.DatabaseHelper{}
	conn := &dbmocks.CollectionHelper{}
	updateResult := &dbmocks.UpdateResultHelper{}

	db.On("Collection", "units").Return(conn)
	conn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(databases.UpdateResultHelper(updateResult), nil)
	updateResult.On("MatchedCount").Return(int64(0))

	u := handlers.Unit{DB: databases.NewUnitDatabase(db)}

	req, _ := http.NewRequest("PUT", "/api/v1/unit/ghost", strings.NewReader(`{"name":"Adam-13"}`))
	req = mux.SetURLVars(req, map[string]string{"unit_id": "ghost"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.UpdateUnitHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUnit_DeleteUnitHandlerRespondingConflict(t *testing.T) {
	db := &dbmocks.DatabaseHelper{}
	conn := &dbmocks.CollectionHelper{}
	singleResult := &dbmocks.SingleResultHelper{}

	db.On("Collection", "units").Return(conn)
	conn.On("FindOne", mock.Anything, mock.Anything).Return(databases.SingleResultHelper(singleResult))
	singleResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Unit)
		(*arg).ID = "unit-1"
		(*arg).Details.Status = models.UnitStatusResponding
	})

	u := handlers.Unit{DB: databases.NewUnitDatabase(db)}

	req, _ := http.NewRequest("DELETE", "/api/v1/unit/unit-1", nil)
	req = mux.SetURLVars(req, map[string]string{"unit_id": "unit-1"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.DeleteUnitHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	conn.AssertNotCalled(t, "DeleteOne", mock.Anything, mock.Anything)
}

func TestUnit_DeleteUnitHandler(t *testing.T) {
	db := &dbmocks.DatabaseHelper{}
	conn := &dbmocks.CollectionHelper{}
	singleResult := &dbmocks.SingleResultHelper{}

	db.On("Collection", "units").Return(conn)
	conn.On("FindOne", mock.Anything, mock.Anything).Return(databases.SingleResultHelper(singleResult))
	singleResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Unit)
		(*arg).ID = "unit-1"
		(*arg).Details.Status = models.UnitStatusAvailable
	})
	conn.On("DeleteOne", mock.Anything, mock.Anything).Return(nil)

	u := handlers.Unit{DB: databases.NewUnitDatabase(db)}

	req, _ := http.NewRequest("DELETE", "/api/v1/unit/unit-1", nil)
	req = mux.SetURLVars(req, map[string]string{"unit_id": "unit-1"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.DeleteUnitHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "unit deleted successfully")
}
