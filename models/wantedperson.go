package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// WantedPerson holds the structure for the wanted_persons collection in MongoDB
type WantedPerson struct {
	ID      primitive.ObjectID  `json:"_id" bson:"_id"`
	Details WantedPersonDetails `json:"wanted" bson:"wanted"`
	Version int32               `json:"__v" bson:"__v"`
}

// WantedPersonDetails holds the structure for the inner wanted person details
type WantedPersonDetails struct {
	CriminalID       string                 `json:"criminalID" bson:"criminalID"`
	ListOrder        int                    `json:"listOrder" bson:"listOrder"`
	Stars            int                    `json:"stars" bson:"stars"`
	Charges          []string               `json:"charges" bson:"charges"`
	Description      string                 `json:"description" bson:"description"`
	Status           string                 `json:"status" bson:"status"` // "active", "captured", "removed"
	AddedByUserID    string                 `json:"addedByUserID" bson:"addedByUserID"`
	CriminalSnapshot map[string]interface{} `json:"criminalSnapshot" bson:"criminalSnapshot"`
	CreatedAt        primitive.DateTime     `json:"createdAt" bson:"createdAt"`
	UpdatedAt        primitive.DateTime     `json:"updatedAt" bson:"updatedAt"`
}
