package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Officer holds the structure for the officers collection in mongo
type Officer struct {
	ID      string         `json:"_id" bson:"_id"`
	Details OfficerDetails `json:"officer" bson:"officer"`
	Version int32          `json:"__v" bson:"__v"`
}

// OfficerDetails holds the structure for the inner officer structure as
// defined in the officers collection in mongo
type OfficerDetails struct {
	Name        string             `json:"name" bson:"name"`
	BadgeNumber string             `json:"badgeNumber" bson:"badgeNumber"`
	Rank        string             `json:"rank" bson:"rank"`
	Department  string             `json:"department" bson:"department"`
	Status      string             `json:"status" bson:"status"` // "active", "suspended", "retired"
	Email       string             `json:"email" bson:"email"`
	PhotoURL    string             `json:"photoURL" bson:"photoURL"`
	CreatedAt   primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt   primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}
