package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Report represents an analyst report submission
type Report struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title         string             `bson:"title" json:"title"`
	Body          string             `bson:"body" json:"body"`
	Category      string             `bson:"category" json:"category"`
	RelatedCallID string             `bson:"relatedCallId" json:"relatedCallId"`
	SubmittedByID string             `bson:"submittedById" json:"submittedById"`
	CreatedAt     primitive.DateTime `bson:"createdAt" json:"createdAt"`
}
