package databases

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const schedulerLockName = "scheduler_locks"

// SchedulerLockDatabase provides a mongo-backed distributed lock so cron jobs
// run on exactly one instance at a time.
type SchedulerLockDatabase interface {
	TryAcquireLock(ctx context.Context, name, owner string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, name, owner string) error
}

type schedulerLockDatabase struct {
	db DatabaseHelper
}

// NewSchedulerLockDatabase initializes a new instance of scheduler lock database with the provided db connection
func NewSchedulerLockDatabase(db DatabaseHelper) SchedulerLockDatabase {
	return &schedulerLockDatabase{
		db: db,
	}
}

// TryAcquireLock claims the named lock for owner if it is free or expired.
// A duplicate-key error means another instance holds the lock.
func (s *schedulerLockDatabase) TryAcquireLock(ctx context.Context, name, owner string, ttl time.Duration) (bool, error) {
	now := time.Now()
	filter := bson.M{
		"_id":       name,
		"expiresAt": bson.M{"$lt": primitive.NewDateTimeFromTime(now)},
	}
	update := bson.M{
		"$set": bson.M{
			"owner":      owner,
			"acquiredAt": primitive.NewDateTimeFromTime(now),
			"expiresAt":  primitive.NewDateTimeFromTime(now.Add(ttl)),
		},
	}

	res, err := s.db.Collection(schedulerLockName).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return res.MatchedCount() > 0 || res.UpsertedCount() > 0, nil
}

// ReleaseLock expires the named lock if owner still holds it.
func (s *schedulerLockDatabase) ReleaseLock(ctx context.Context, name, owner string) error {
	filter := bson.M{"_id": name, "owner": owner}
	update := bson.M{
		"$set": bson.M{
			"expiresAt": primitive.NewDateTimeFromTime(time.Now()),
		},
	}
	_, err := s.db.Collection(schedulerLockName).UpdateOne(ctx, filter, update)
	return err
}
