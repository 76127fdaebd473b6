package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/openrms/records-api/api"
	"github.com/openrms/records-api/config"
	"github.com/openrms/records-api/databases"
	"github.com/openrms/records-api/dispatch"
	"github.com/openrms/records-api/models"
)

// Unit exported for testing purposes
type Unit struct {
	DB       databases.UnitDatabase
	Registry dispatch.UnitRegistry
}

// UnitHandler returns units, optionally filtered by status and type
func (u Unit) UnitHandler(w http.ResponseWriter, r *http.Request) {
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
		filter["unit.status"] = status
	}
	if unitType := r.URL.Query().Get("type"); unitType != "" {
		filter["unit.type"] = unitType
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	opts := databases.NewPaginate(limit, page).GetPaginatedOpts()
	dbResp, err := u.DB.Find(ctx, filter, opts)
	if err != nil {
		config.ErrorStatus("failed to get units", http.StatusInternalServerError, w, err)
		return
	}
	if dbResp == nil {
		dbResp = []models.Unit{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AvailableUnitsHandler returns the units a dispatcher can assign right now
func (u Unit) AvailableUnitsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	units, err := u.Registry.ListAvailable(ctx)
	if err != nil {
		writeDispatchError(w, err)
		return
	}

	b, err := json.Marshal(units)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// UnitByIDHandler returns a unit by ID
func (u Unit) UnitByIDHandler(w http.ResponseWriter, r *http.Request) {
	unitID := mux.Vars(r)["unit_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	unit, err := u.DB.FindOne(ctx, bson.M{"_id": unitID})
	if err != nil {
		config.ErrorStatus("failed to get unit by ID", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(unit)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateUnitHandler registers a new response unit as available
func (u Unit) CreateUnitHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody models.UnitDetails
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if requestBody.Name == "" {
		config.ErrorStatus("unit name is required", http.StatusBadRequest, w, nil)
		return
	}
	if !models.ValidUnitType(requestBody.Type) {
		config.ErrorStatus("invalid unit type", http.StatusBadRequest, w, nil)
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	requestBody.Status = models.UnitStatusAvailable
	requestBody.CreatedAt = now
	requestBody.UpdatedAt = now

	newUnit := bson.M{
		"_id":  primitive.NewObjectID().Hex(),
		"unit": requestBody,
		"__v":  0,
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	_, err := u.DB.InsertOne(ctx, newUnit)
	if err != nil {
		config.ErrorStatus("failed to create unit", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "unit created successfully",
		"unit":    newUnit,
	})
}

// UpdateUnitHandler updates a unit's descriptive fields. Status is owned by
// the dispatch coordinator and cannot be set here.
func (u Unit) UpdateUnitHandler(w http.ResponseWriter, r *http.Request) {
	unitID := mux.Vars(r)["unit_id"]

	var requestBody map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if _, ok := requestBody["status"]; ok {
		config.ErrorStatus("unit status can only change through dispatch", http.StatusBadRequest, w, nil)
		return
	}
	if t, ok := requestBody["type"].(string); ok && !models.ValidUnitType(t) {
		config.ErrorStatus("invalid unit type", http.StatusBadRequest, w, nil)
		return
	}

	requestBody["updatedAt"] = primitive.NewDateTimeFromTime(time.Now())

	updateFields := bson.M{}
	for key, value := range requestBody {
		updateFields["unit."+key] = value
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	matched, err := u.DB.UpdateOne(ctx, bson.M{"_id": unitID}, bson.M{"$set": updateFields, "$inc": bson.M{"__v": 1}})
	if err != nil {
		config.ErrorStatus("failed to update unit", http.StatusInternalServerError, w, err)
		return
	}
	if matched == 0 {
		config.ErrorStatus("unit not found", http.StatusNotFound, w, nil)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "unit updated successfully"})
}

// DeleteUnitHandler removes a unit from the registry. A unit that is
// responding to a call cannot be deleted.
func (u Unit) DeleteUnitHandler(w http.ResponseWriter, r *http.Request) {
	unitID := mux.Vars(r)["unit_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	unit, err := u.DB.FindOne(ctx, bson.M{"_id": unitID})
	if err != nil {
		config.ErrorStatus("unit not found", http.StatusNotFound, w, err)
		return
	}
	if unit.Details.Status == models.UnitStatusResponding {
		config.ErrorStatus("unit is responding to a call", http.StatusConflict, w, nil)
		return
	}

	if err := u.DB.DeleteOne(ctx, bson.M{"_id": unitID}); err != nil {
		config.ErrorStatus("failed to delete unit", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "unit deleted successfully"})
}
