package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/openrms/records-api/api/handlers"
	"github.com/openrms/records-api/databases"
	dbmocks "github.com/openrms/records-api/databases/mocks"
)

func TestOfficer_CreateOfficerHandler(t *testing.T) {
	db := &dbmocks.DatabaseHelper{}
	conn := &dbmocks.CollectionHelper{}
	insertResult := &dbmocks.InsertOneResultHelper{}

	db.On("Collection", "officers").Return(conn)
	conn.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)
	conn.On("InsertOne", mock.Anything, mock.Anything).
		Return(databases.InsertOneResultHelper(insertResult), nil)

	o := handlers.Officer{DB: databases.NewOfficerDatabase(db)}

	body := `{"name":"John Smith","badgeNumber":"4412","department":"patrol"}`
	req, _ := http.NewRequest("POST", "/api/v1/officer", strings.NewReader(body))

	rr := httptest.NewRecorder()
	http.HandlerFunc(o.CreateOfficerHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), "officer created successfully")
}

func TestOfficer_CreateOfficerHandlerDuplicateBadge(t *testing.T) {
	db := &dbmocks.DatabaseHelper{}
	conn := &dbmocks.CollectionHelper{}

	db.On("Collection", "officers").Return(conn)
	conn.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(1), nil)

	o := handlers.Officer{DB: databases.NewOfficerDatabase(db)}

	body := `{"name":"John Smith","badgeNumber":"4412","department":"patrol"}`
	req, _ := http.NewRequest("POST", "/api/v1/officer", strings.NewReader(body))

	rr := httptest.NewRecorder()
	http.HandlerFunc(o.CreateOfficerHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	conn.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestOfficer_CreateOfficerHandlerMissingBadge(t *testing.T) {
	db := &dbmocks.DatabaseHelper{}
	o := handlers.Officer{DB: databases.NewOfficerDatabase(db)}

	req, _ := http.NewRequest("POST", "/api/v1/officer", strings.NewReader(`{"name":"John Smith"}`))

	rr := httptest.NewRecorder()
	http.HandlerFunc(o.CreateOfficerHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	db.AssertNotCalled(t, "Collection", mock.Anything)
}
