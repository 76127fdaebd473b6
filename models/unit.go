package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Unit statuses. A unit is responding iff it is assigned to exactly one
// open (non-resolved) call.
const (
	UnitStatusAvailable   = "available"
	UnitStatusResponding  = "responding"
	UnitStatusUnavailable = "unavailable"
)

// Unit types
const (
	UnitTypePatrol    = "patrol"
	UnitTypeAmbulance = "ambulance"
	UnitTypeFire      = "fire"
	UnitTypeSwat      = "swat"
)

// Unit holds the structure for the units collection in mongo
type Unit struct {
	ID      string      `json:"_id" bson:"_id"`
	Details UnitDetails `json:"unit" bson:"unit"`
	Version int32       `json:"__v" bson:"__v"`
}

// UnitDetails holds the structure for the inner unit structure as
// defined in the units collection in mongo
type UnitDetails struct {
	Name      string             `json:"name" bson:"name"`
	Type      string             `json:"type" bson:"type"`
	Status    string             `json:"status" bson:"status"`
	Location  string             `json:"location" bson:"location"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// ValidUnitType reports whether t is one of the accepted unit types.
func ValidUnitType(t string) bool {
	switch t {
	case UnitTypePatrol, UnitTypeAmbulance, UnitTypeFire, UnitTypeSwat:
		return true
	}
	return false
}
