package dispatch

// go generate: mockery --name CallLedger

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openrms/records-api/databases"
	"github.com/openrms/records-api/models"
)

// CallLedger tracks emergency calls and their lifecycle state. It is the
// source of truth for which units are assigned to a call. Calls are never
// deleted; resolved calls stay on record.
type CallLedger interface {
	Create(ctx context.Context, details models.CallDetails) (*models.Call, error)
	GetByID(ctx context.Context, id string) (*models.Call, error)
	SetDispatched(ctx context.Context, id string, unitIDs []string) (*models.Call, error)
	SetResolved(ctx context.Context, id string) (*models.Call, []string, error)
}

type callLedger struct {
	db databases.CallDatabase
}

// NewCallLedger initializes a call ledger over the calls collection
func NewCallLedger(db databases.DatabaseHelper) CallLedger {
	return &callLedger{db: databases.NewCallDatabase(db)}
}

// Create validates the intake payload, assigns an id and stores the call as
// pending.
func (l *callLedger) Create(ctx context.Context, details models.CallDetails) (*models.Call, error) {
	if err := validateIntake(details); err != nil {
		return nil, err
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	details.Status = models.CallStatusPending
	details.AssignedUnits = []string{}
	details.CreatedAt = now
	details.UpdatedAt = now
	details.ResolvedAt = nil

	call := &models.Call{
		ID:      primitive.NewObjectID().Hex(),
		Details: details,
		Version: 0,
	}

	doc := bson.M{
		"_id":  call.ID,
		"call": call.Details,
		"__v":  call.Version,
	}
	if _, err := l.db.InsertOne(ctx, doc); err != nil {
		return nil, wrapStoreErr("insert call", err)
	}
	return call, nil
}

func (l *callLedger) GetByID(ctx context.Context, id string) (*models.Call, error) {
	call, err := l.db.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{Entity: "call", ID: id}
		}
		return nil, wrapStoreErr("find call", err)
	}
	return call, nil
}

// SetDispatched moves a pending call to dispatched and records the assigned
// units. The write is conditioned on the call still being pending, so two
// concurrent dispatchers cannot both succeed.
func (l *callLedger) SetDispatched(ctx context.Context, id string, unitIDs []string) (*models.Call, error) {
	now := primitive.NewDateTimeFromTime(time.Now())
	filter := bson.M{"_id": id, "call.status": models.CallStatusPending}
	update := bson.M{
		"$set": bson.M{
			"call.status":        models.CallStatusDispatched,
			"call.assignedUnits": unitIDs,
			"call.updatedAt":     now,
		},
		"$inc": bson.M{"__v": 1},
	}

	matched, err := l.db.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, wrapStoreErr("dispatch call", err)
	}
	if matched == 0 {
		return nil, l.classifyLostUpdate(ctx, id, models.CallStatusDispatched)
	}

	return l.GetByID(ctx, id)
}

// SetResolved moves a dispatched call to resolved, stamps resolvedAt and
// returns the unit ids that were assigned so the caller can release them.
func (l *callLedger) SetResolved(ctx context.Context, id string) (*models.Call, []string, error) {
	call, err := l.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	filter := bson.M{"_id": id, "call.status": models.CallStatusDispatched}
	update := bson.M{
		"$set": bson.M{
			"call.status":     models.CallStatusResolved,
			"call.resolvedAt": now,
			"call.updatedAt":  now,
		},
		"$inc": bson.M{"__v": 1},
	}

	matched, err := l.db.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, nil, wrapStoreErr("resolve call", err)
	}
	if matched == 0 {
		return nil, nil, l.classifyLostUpdate(ctx, id, models.CallStatusResolved)
	}

	resolved, err := l.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return resolved, call.Details.AssignedUnits, nil
}

// classifyLostUpdate turns a zero-match conditioned write into the precise
// error: the call is either gone or in the wrong status.
func (l *callLedger) classifyLostUpdate(ctx context.Context, id, to string) error {
	call, err := l.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return &InvalidTransitionError{CallID: id, From: call.Details.Status, To: to}
}

func validateIntake(details models.CallDetails) error {
	required := []struct {
		field string
		value string
	}{
		{"callerName", details.CallerName},
		{"callerPhone", details.CallerPhone},
		{"location", details.Location},
		{"description", details.Description},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Reason: "must not be empty"}
		}
	}
	if !models.ValidPriority(details.Priority) {
		return &ValidationError{Field: "priority", Reason: "must be low, medium or high"}
	}
	return nil
}
