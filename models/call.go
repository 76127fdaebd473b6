package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Call statuses. Transitions are monotonic: pending -> dispatched -> resolved.
const (
	CallStatusPending    = "pending"
	CallStatusDispatched = "dispatched"
	CallStatusResolved   = "resolved"
)

// Call priorities accepted on intake.
const (
	CallPriorityLow    = "low"
	CallPriorityMedium = "medium"
	CallPriorityHigh   = "high"
)

// Call holds the structure for the calls collection in mongo
type Call struct {
	ID      string      `json:"_id" bson:"_id"`
	Details CallDetails `json:"call" bson:"call"`
	Version int32       `json:"__v" bson:"__v"`
}

// CallDetails holds the structure for the inner call structure as
// defined in the calls collection in mongo
type CallDetails struct {
	CallerName    string              `json:"callerName" bson:"callerName"`
	CallerPhone   string              `json:"callerPhone" bson:"callerPhone"`
	Location      string              `json:"location" bson:"location"`
	Description   string              `json:"description" bson:"description"`
	Priority      string              `json:"priority" bson:"priority"`
	Status        string              `json:"status" bson:"status"`
	AssignedUnits []string            `json:"assignedUnits" bson:"assignedUnits"`
	CreatedByID   string              `json:"createdByID" bson:"createdByID"`
	CreatedAt     primitive.DateTime  `json:"createdAt" bson:"createdAt"`
	UpdatedAt     primitive.DateTime  `json:"updatedAt" bson:"updatedAt"`
	ResolvedAt    *primitive.DateTime `json:"resolvedAt,omitempty" bson:"resolvedAt,omitempty"`
	EscalatedAt   *primitive.DateTime `json:"escalatedAt,omitempty" bson:"escalatedAt,omitempty"`
}

// ValidPriority reports whether p is one of the accepted call priorities.
func ValidPriority(p string) bool {
	switch p {
	case CallPriorityLow, CallPriorityMedium, CallPriorityHigh:
		return true
	}
	return false
}
