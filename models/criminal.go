package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Criminal holds the structure for the criminals collection in mongo
type Criminal struct {
	ID      string          `json:"_id" bson:"_id"`
	Details CriminalDetails `json:"criminal" bson:"criminal"`
	Version int32           `json:"__v" bson:"__v"`
}

// CriminalDetails holds the structure for the inner criminal structure as
// defined in the criminals collection in mongo
type CriminalDetails struct {
	FirstName string             `json:"firstName" bson:"firstName"`
	LastName  string             `json:"lastName" bson:"lastName"`
	Alias     string             `json:"alias" bson:"alias"`
	Birthday  string             `json:"birthday" bson:"birthday"`
	Gender    string             `json:"gender" bson:"gender"`
	Address   string             `json:"address" bson:"address"`
	PhotoURL  string             `json:"photoURL" bson:"photoURL"`
	Charges   []ChargeEntry      `json:"charges" bson:"charges"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// ChargeEntry holds a single charge filed against a criminal record
type ChargeEntry struct {
	ID               string             `json:"_id" bson:"_id"`
	Charge           string             `json:"charge" bson:"charge"`
	Notes            string             `json:"notes" bson:"notes"`
	FiledByOfficerID string             `json:"filedByOfficerID" bson:"filedByOfficerID"`
	FiledAt          primitive.DateTime `json:"filedAt" bson:"filedAt"`
}
