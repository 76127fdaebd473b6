package dispatch

// go generate: mockery --name UnitRegistry

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/openrms/records-api/databases"
	"github.com/openrms/records-api/models"
)

// LocationReturning is the location written to a unit when it is released
// from a resolved call.
const LocationReturning = "returning to station"

// UnitRegistry tracks response units and their availability. Unit status is
// mutated only through MarkResponding and Release; the registry mirrors the
// assignments held on the call ledger.
type UnitRegistry interface {
	ListAvailable(ctx context.Context) ([]models.Unit, error)
	MarkResponding(ctx context.Context, unitIDs []string, destination string) error
	Release(ctx context.Context, unitIDs []string, location string) error
}

type unitRegistry struct {
	units databases.UnitDatabase
	db    databases.DatabaseHelper
}

// NewUnitRegistry initializes a unit registry over the units collection
func NewUnitRegistry(db databases.DatabaseHelper) UnitRegistry {
	return &unitRegistry{
		units: databases.NewUnitDatabase(db),
		db:    db,
	}
}

func (r *unitRegistry) ListAvailable(ctx context.Context) ([]models.Unit, error) {
	units, err := r.units.Find(ctx, bson.M{"unit.status": models.UnitStatusAvailable})
	if err != nil {
		return nil, wrapStoreErr("list available units", err)
	}
	if units == nil {
		units = []models.Unit{}
	}
	return units, nil
}

// MarkResponding flips every given unit from available to responding in a
// single transaction. If any unit is unknown or not available the whole
// write aborts, so a unit can never be double-dispatched.
func (r *unitRegistry) MarkResponding(ctx context.Context, unitIDs []string, destination string) error {
	now := primitive.NewDateTimeFromTime(time.Now())
	_, err := r.db.Client().WithTransaction(ctx, func(sc context.Context) (interface{}, error) {
		filter := bson.M{
			"_id":         bson.M{"$in": unitIDs},
			"unit.status": models.UnitStatusAvailable,
		}
		update := bson.M{
			"$set": bson.M{
				"unit.status":    models.UnitStatusResponding,
				"unit.location":  destination,
				"unit.updatedAt": now,
			},
			"$inc": bson.M{"__v": 1},
		}
		matched, err := r.units.UpdateMany(sc, filter, update)
		if err != nil {
			return nil, wrapStoreErr("mark units responding", err)
		}
		if matched != int64(len(unitIDs)) {
			// Returning an error aborts the transaction, so the units that
			// did match are rolled back with it.
			return nil, r.classifyMarkFailure(sc, unitIDs)
		}
		return nil, nil
	})
	return err
}

// Release returns the given units to available. Releasing a unit that is
// already available is a no-op for that unit, so retries are safe.
func (r *unitRegistry) Release(ctx context.Context, unitIDs []string, location string) error {
	if missing, err := r.findMissing(ctx, unitIDs); err != nil {
		return err
	} else if len(missing) > 0 {
		return &NotFoundError{Entity: "unit", ID: missing[0]}
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	filter := bson.M{
		"_id":         bson.M{"$in": unitIDs},
		"unit.status": models.UnitStatusResponding,
	}
	update := bson.M{
		"$set": bson.M{
			"unit.status":    models.UnitStatusAvailable,
			"unit.location":  location,
			"unit.updatedAt": now,
		},
		"$inc": bson.M{"__v": 1},
	}
	if _, err := r.units.UpdateMany(ctx, filter, update); err != nil {
		return wrapStoreErr("release units", err)
	}
	return nil
}

// classifyMarkFailure explains a partial match: either some units do not
// exist, or some exist but are not available.
func (r *unitRegistry) classifyMarkFailure(ctx context.Context, unitIDs []string) error {
	missing, err := r.findMissing(ctx, unitIDs)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return &NotFoundError{Entity: "unit", ID: missing[0]}
	}

	busy, err := r.units.Find(ctx, bson.M{
		"_id":         bson.M{"$in": unitIDs},
		"unit.status": bson.M{"$ne": models.UnitStatusAvailable},
	})
	if err != nil {
		return wrapStoreErr("find busy units", err)
	}
	busyIDs := make([]string, 0, len(busy))
	for _, u := range busy {
		busyIDs = append(busyIDs, u.ID)
	}
	if len(busyIDs) == 0 {
		// The state moved under us between the update and this read.
		return &ConflictError{Entity: "unit", ID: unitIDs[0]}
	}
	return &AlreadyAssignedError{UnitIDs: busyIDs}
}

func (r *unitRegistry) findMissing(ctx context.Context, unitIDs []string) ([]string, error) {
	existing, err := r.units.Find(ctx, bson.M{"_id": bson.M{"$in": unitIDs}})
	if err != nil {
		return nil, wrapStoreErr("find units", err)
	}
	known := make(map[string]bool, len(existing))
	for _, u := range existing {
		known[u.ID] = true
	}
	var missing []string
	for _, id := range unitIDs {
		if !known[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
