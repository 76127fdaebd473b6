package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/openrms/records-api/api"
	"github.com/openrms/records-api/config"
	"github.com/openrms/records-api/databases"
	"github.com/openrms/records-api/models"
)

// WantedPerson exported for testing purposes
type WantedPerson struct {
	DB     databases.WantedPersonDatabase
	CrimDB databases.CriminalDatabase
}

// FetchWantedPersonsHandler returns a paginated list of wanted person entries
func (wp WantedPerson) FetchWantedPersonsHandler(w http.ResponseWriter, r *http.Request) {
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

	status := r.URL.Query().Get("status")
	if status == "" {
		status = "active"
	}

	skip := int64(page * limit)
	limit64 := int64(limit)

	filter := bson.M{"wanted.status": status}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	// Run Find and CountDocuments in parallel
	type findResult struct {
		data []models.WantedPerson
		err  error
	}
	type countResult struct {
		count int64
		err   error
	}

	findCh := make(chan findResult, 1)
	countCh := make(chan countResult, 1)

	go func() {
		opts := options.Find().
			SetLimit(limit64).
			SetSkip(skip).
			SetSort(bson.D{{Key: "wanted.listOrder", Value: 1}})
		data, err := wp.DB.Find(ctx, filter, opts)
		findCh <- findResult{data: data, err: err}
	}()

	go func() {
		count, err := wp.DB.CountDocuments(ctx, filter)
		countCh <- countResult{count: count, err: err}
	}()

	fr := <-findCh
	cr := <-countCh

	if fr.err != nil {
		config.ErrorStatus("failed to fetch wanted persons", http.StatusInternalServerError, w, fr.err)
		return
	}
	if cr.err != nil {
		config.ErrorStatus("failed to count wanted persons", http.StatusInternalServerError, w, cr.err)
		return
	}

	data := fr.data
	if data == nil {
		data = []models.WantedPerson{}
	}

	totalCount := cr.count
	totalPages := int64(0)
	if limit > 0 {
		totalPages = (totalCount + int64(limit) - 1) / int64(limit)
	}

	response := map[string]interface{}{
		"data": data,
		"pagination": map[string]interface{}{
			"currentPage": page,
			"limit":       limit,
			"totalCount":  totalCount,
			"totalPages":  totalPages,
			"hasNext":     int64(page+1) < totalPages,
			"hasPrev":     page > 0,
		},
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// GetWantedPersonByIDHandler retrieves a single wanted person entry by its ID
func (wp WantedPerson) GetWantedPersonByIDHandler(w http.ResponseWriter, r *http.Request) {
	entryID := mux.Vars(r)["entry_id"]

	eID, err := primitive.ObjectIDFromHex(entryID)
	if err != nil {
		config.ErrorStatus("invalid entry ID", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	entry, err := wp.DB.FindOne(ctx, bson.M{"_id": eID})
	if err != nil {
		config.ErrorStatus("failed to find wanted person entry", http.StatusNotFound, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(entry)
}

// createWantedPersonRequest holds the expected request body for creating an entry
type createWantedPersonRequest struct {
	CriminalID    string   `json:"criminalID"`
	Charges       []string `json:"charges"`
	Description   string   `json:"description"`
	AddedByUserID string   `json:"addedByUserID"`
	Stars         int      `json:"stars"`
}

// CreateWantedPersonHandler adds a criminal to the wanted persons list
func (wp WantedPerson) CreateWantedPersonHandler(w http.ResponseWriter, r *http.Request) {
	var req createWantedPersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if req.CriminalID == "" {
		config.ErrorStatus("criminalID is required", http.StatusBadRequest, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	// One active entry per criminal
	uniqueFilter := bson.M{
		"wanted.criminalID": req.CriminalID,
		"wanted.status":     "active",
	}
	existing, _ := wp.DB.FindOne(ctx, uniqueFilter)
	if existing != nil {
		config.ErrorStatus("this person is already on the wanted list", http.StatusConflict, w, nil)
		return
	}

	criminal, err := wp.CrimDB.FindOne(ctx, bson.M{"_id": req.CriminalID})
	if err != nil {
		config.ErrorStatus("failed to find criminal record", http.StatusNotFound, w, err)
		return
	}

	snapshot := buildCriminalSnapshot(criminal)

	// Determine next list order
	count, err := wp.DB.CountDocuments(ctx, bson.M{"wanted.status": "active"})
	if err != nil {
		zap.S().Warnf("failed to count existing entries for list order: %v", err)
		count = 0
	}

	stars := req.Stars
	if stars < 1 || stars > 5 {
		stars = 5
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	entry := models.WantedPerson{
		ID: primitive.NewObjectID(),
		Details: models.WantedPersonDetails{
			CriminalID:       req.CriminalID,
			ListOrder:        int(count) + 1,
			Stars:            stars,
			Charges:          req.Charges,
			Description:      req.Description,
			Status:           "active",
			AddedByUserID:    req.AddedByUserID,
			CriminalSnapshot: snapshot,
			CreatedAt:        now,
			UpdatedAt:        now,
		},
	}

	if entry.Details.Charges == nil {
		entry.Details.Charges = []string{}
	}

	_, err = wp.DB.InsertOne(ctx, entry)
	if err != nil {
		config.ErrorStatus("failed to create wanted person entry", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "wanted person entry created successfully",
		"id":      entry.ID.Hex(),
		"data":    entry,
	})
}

// UpdateWantedPersonHandler updates an existing wanted person entry
func (wp WantedPerson) UpdateWantedPersonHandler(w http.ResponseWriter, r *http.Request) {
	entryID := mux.Vars(r)["entry_id"]

	eID, err := primitive.ObjectIDFromHex(entryID)
	if err != nil {
		config.ErrorStatus("invalid entry ID", http.StatusBadRequest, w, err)
		return
	}

	var updatedFields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updatedFields); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	update := bson.M{}
	for key, value := range updatedFields {
		update["wanted."+key] = value
	}
	update["wanted.updatedAt"] = primitive.NewDateTimeFromTime(time.Now())

	// Refresh the snapshot from the entry's criminal record
	existing, err := wp.DB.FindOne(ctx, bson.M{"_id": eID})
	if err == nil && existing.Details.CriminalID != "" {
		criminal, err := wp.CrimDB.FindOne(ctx, bson.M{"_id": existing.Details.CriminalID})
		if err == nil {
			update["wanted.criminalSnapshot"] = buildCriminalSnapshot(criminal)
		}
	}

	filter := bson.M{"_id": eID}
	err = wp.DB.UpdateOne(ctx, filter, bson.M{"$set": update, "$inc": bson.M{"__v": 1}})
	if err != nil {
		config.ErrorStatus("failed to update wanted person entry", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "wanted person entry updated successfully"})
}

// DeleteWantedPersonHandler deletes a wanted person entry
func (wp WantedPerson) DeleteWantedPersonHandler(w http.ResponseWriter, r *http.Request) {
	entryID := mux.Vars(r)["entry_id"]

	eID, err := primitive.ObjectIDFromHex(entryID)
	if err != nil {
		config.ErrorStatus("invalid entry ID", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := wp.DB.DeleteOne(ctx, bson.M{"_id": eID}); err != nil {
		config.ErrorStatus("failed to delete wanted person entry", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "wanted person entry deleted successfully"})
}

// buildCriminalSnapshot creates a map of criminal fields for denormalized storage
func buildCriminalSnapshot(criminal *models.Criminal) map[string]interface{} {
	return map[string]interface{}{
		"firstName": criminal.Details.FirstName,
		"lastName":  criminal.Details.LastName,
		"alias":     criminal.Details.Alias,
		"birthday":  criminal.Details.Birthday,
		"gender":    criminal.Details.Gender,
		"address":   criminal.Details.Address,
		"photoURL":  criminal.Details.PhotoURL,
	}
}
