package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/openrms/records-api/api"
	"github.com/openrms/records-api/config"
	"github.com/openrms/records-api/databases"
	"github.com/openrms/records-api/models"
)

// User exported for testing purposes
type User struct {
	DB databases.UserDatabase
}

// UserCreateHandler creates a dashboard user account
func (u User) UserCreateHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody models.UserDetails
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if requestBody.Email == "" || requestBody.Password == "" {
		config.ErrorStatus("email and password are required", http.StatusBadRequest, w, nil)
		return
	}
	switch requestBody.Role {
	case "dispatcher", "analyst", "admin":
	case "":
		requestBody.Role = "dispatcher"
	default:
		config.ErrorStatus("invalid role", http.StatusBadRequest, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	existing, err := u.DB.Find(ctx, bson.M{"user.email": requestBody.Email})
	if err != nil {
		config.ErrorStatus("failed to check existing email", http.StatusInternalServerError, w, err)
		return
	}
	if len(existing) > 0 {
		config.ErrorStatus("email already registered", http.StatusConflict, w, nil)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(requestBody.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}
	requestBody.Password = string(hashed)

	now := primitive.NewDateTimeFromTime(time.Now())
	requestBody.CreatedAt = now
	requestBody.UpdatedAt = now

	newUser := bson.M{
		"_id":  primitive.NewObjectID().Hex(),
		"user": requestBody,
		"__v":  0,
	}

	_, err = u.DB.InsertOne(ctx, newUser)
	if err != nil {
		config.ErrorStatus("failed to create user", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "user created successfully",
		"_id":     newUser["_id"],
	})
}

// UserHandler returns a user by ID with the password hash removed
func (u User) UserHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	user, err := u.DB.FindOne(ctx, bson.M{"_id": userID})
	if err != nil {
		config.ErrorStatus("failed to get user by ID", http.StatusNotFound, w, err)
		return
	}

	user.Details.Password = ""

	b, err := json.Marshal(user)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
