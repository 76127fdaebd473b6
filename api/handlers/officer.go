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
	"github.com/openrms/records-api/models"
)

// Officer exported for testing purposes
type Officer struct {
	DB databases.OfficerDatabase
}

// OfficerHandler returns officers, optionally filtered by department
func (o Officer) OfficerHandler(w http.ResponseWriter, r *http.Request) {
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
	if department := r.URL.Query().Get("department"); department != "" {
		filter["officer.department"] = department
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["officer.status"] = status
	}
	if name := r.URL.Query().Get("name"); name != "" {
		filter["officer.name"] = bson.M{"$regex": name, "$options": "i"}
	}
	if badge := r.URL.Query().Get("badgeNumber"); badge != "" {
		filter["officer.badgeNumber"] = badge
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	opts := databases.NewPaginate(limit, page).GetPaginatedOpts()
	dbResp, err := o.DB.Find(ctx, filter, opts)
	if err != nil {
		config.ErrorStatus("failed to get officers", http.StatusInternalServerError, w, err)
		return
	}
	if dbResp == nil {
		dbResp = []models.Officer{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// OfficerByIDHandler returns an officer by ID
func (o Officer) OfficerByIDHandler(w http.ResponseWriter, r *http.Request) {
	officerID := mux.Vars(r)["officer_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	officer, err := o.DB.FindOne(ctx, bson.M{"_id": officerID})
	if err != nil {
		config.ErrorStatus("failed to get officer by ID", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(officer)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateOfficerHandler creates a new officer record
func (o Officer) CreateOfficerHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody models.OfficerDetails
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if requestBody.Name == "" || requestBody.BadgeNumber == "" {
		config.ErrorStatus("name and badgeNumber are required", http.StatusBadRequest, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	// Badge numbers are unique per department
	existing, err := o.DB.CountDocuments(ctx, bson.M{
		"officer.badgeNumber": requestBody.BadgeNumber,
		"officer.department":  requestBody.Department,
	})
	if err != nil {
		config.ErrorStatus("failed to check badge number", http.StatusInternalServerError, w, err)
		return
	}
	if existing > 0 {
		config.ErrorStatus("badge number already in use", http.StatusConflict, w, nil)
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	if requestBody.Status == "" {
		requestBody.Status = "active"
	}
	requestBody.CreatedAt = now
	requestBody.UpdatedAt = now

	newOfficer := bson.M{
		"_id":     primitive.NewObjectID().Hex(),
		"officer": requestBody,
		"__v":     0,
	}

	_, err = o.DB.InsertOne(ctx, newOfficer)
	if err != nil {
		config.ErrorStatus("failed to create officer", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "officer created successfully",
		"officer": newOfficer,
	})
}

// UpdateOfficerHandler updates an officer by ID
func (o Officer) UpdateOfficerHandler(w http.ResponseWriter, r *http.Request) {
	officerID := mux.Vars(r)["officer_id"]

	var requestBody map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	requestBody["updatedAt"] = primitive.NewDateTimeFromTime(time.Now())

	updateFields := bson.M{}
	for key, value := range requestBody {
		updateFields["officer."+key] = value
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	matched, err := o.DB.UpdateOne(ctx, bson.M{"_id": officerID}, bson.M{"$set": updateFields, "$inc": bson.M{"__v": 1}})
	if err != nil {
		config.ErrorStatus("failed to update officer", http.StatusInternalServerError, w, err)
		return
	}
	if matched == 0 {
		config.ErrorStatus("officer not found", http.StatusNotFound, w, nil)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "officer updated successfully"})
}

// DeleteOfficerHandler deletes an officer by ID
func (o Officer) DeleteOfficerHandler(w http.ResponseWriter, r *http.Request) {
	officerID := mux.Vars(r)["officer_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := o.DB.DeleteOne(ctx, bson.M{"_id": officerID}); err != nil {
		config.ErrorStatus("failed to delete officer", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "officer deleted successfully"})
}
