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

// Criminal exported for testing purposes
type Criminal struct {
	DB databases.CriminalDatabase
}

// CriminalHandler returns criminal records, with an optional name search
func (c Criminal) CriminalHandler(w http.ResponseWriter, r *http.Request) {
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
	if name := r.URL.Query().Get("name"); name != "" {
		filter["$or"] = []bson.M{
			{"criminal.firstName": bson.M{"$regex": name, "$options": "i"}},
			{"criminal.lastName": bson.M{"$regex": name, "$options": "i"}},
			{"criminal.alias": bson.M{"$regex": name, "$options": "i"}},
		}
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	opts := databases.NewPaginate(limit, page).GetPaginatedOpts()
	dbResp, err := c.DB.Find(ctx, filter, opts)
	if err != nil {
		config.ErrorStatus("failed to get criminal records", http.StatusInternalServerError, w, err)
		return
	}
	if dbResp == nil {
		dbResp = []models.Criminal{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CriminalByIDHandler returns a criminal record by ID
func (c Criminal) CriminalByIDHandler(w http.ResponseWriter, r *http.Request) {
	criminalID := mux.Vars(r)["criminal_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	criminal, err := c.DB.FindOne(ctx, bson.M{"_id": criminalID})
	if err != nil {
		config.ErrorStatus("failed to get criminal record by ID", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(criminal)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateCriminalHandler creates a new criminal record
func (c Criminal) CreateCriminalHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody models.CriminalDetails
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if requestBody.FirstName == "" || requestBody.LastName == "" {
		config.ErrorStatus("firstName and lastName are required", http.StatusBadRequest, w, nil)
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	requestBody.CreatedAt = now
	requestBody.UpdatedAt = now
	if requestBody.Charges == nil {
		requestBody.Charges = []models.ChargeEntry{}
	}

	newCriminal := bson.M{
		"_id":      primitive.NewObjectID().Hex(),
		"criminal": requestBody,
		"__v":      0,
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	_, err := c.DB.InsertOne(ctx, newCriminal)
	if err != nil {
		config.ErrorStatus("failed to create criminal record", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":  "criminal record created successfully",
		"criminal": newCriminal,
	})
}

// UpdateCriminalHandler updates a criminal record by ID
func (c Criminal) UpdateCriminalHandler(w http.ResponseWriter, r *http.Request) {
	criminalID := mux.Vars(r)["criminal_id"]

	var requestBody map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	requestBody["updatedAt"] = primitive.NewDateTimeFromTime(time.Now())

	updateFields := bson.M{}
	for key, value := range requestBody {
		updateFields["criminal."+key] = value
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	matched, err := c.DB.UpdateOne(ctx, bson.M{"_id": criminalID}, bson.M{"$set": updateFields, "$inc": bson.M{"__v": 1}})
	if err != nil {
		config.ErrorStatus("failed to update criminal record", http.StatusInternalServerError, w, err)
		return
	}
	if matched == 0 {
		config.ErrorStatus("criminal record not found", http.StatusNotFound, w, nil)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "criminal record updated successfully"})
}

// AddChargeHandler files a new charge against a criminal record
func (c Criminal) AddChargeHandler(w http.ResponseWriter, r *http.Request) {
	criminalID := mux.Vars(r)["criminal_id"]

	var newCharge models.ChargeEntry
	if err := json.NewDecoder(r.Body).Decode(&newCharge); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if newCharge.Charge == "" {
		config.ErrorStatus("charge is required", http.StatusBadRequest, w, nil)
		return
	}

	newCharge.ID = primitive.NewObjectID().Hex()
	newCharge.FiledAt = primitive.NewDateTimeFromTime(time.Now())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	update := bson.M{
		"$push": bson.M{"criminal.charges": newCharge},
		"$set":  bson.M{"criminal.updatedAt": primitive.NewDateTimeFromTime(time.Now())},
		"$inc":  bson.M{"__v": 1},
	}
	matched, err := c.DB.UpdateOne(ctx, bson.M{"_id": criminalID}, update)
	if err != nil {
		config.ErrorStatus("failed to add charge", http.StatusInternalServerError, w, err)
		return
	}
	if matched == 0 {
		config.ErrorStatus("criminal record not found", http.StatusNotFound, w, nil)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "charge added successfully",
		"charge":  newCharge,
	})
}

// DeleteCriminalHandler deletes a criminal record by ID
func (c Criminal) DeleteCriminalHandler(w http.ResponseWriter, r *http.Request) {
	criminalID := mux.Vars(r)["criminal_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := c.DB.DeleteOne(ctx, bson.M{"_id": criminalID}); err != nil {
		config.ErrorStatus("failed to delete criminal record", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "criminal record deleted successfully"})
}
