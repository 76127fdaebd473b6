package databases

// go generate: mockery --name WantedPersonDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openrms/records-api/models"
)

const wantedPersonName = "wanted_persons"

// WantedPersonDatabase contains the methods to use with the wanted persons database
type WantedPersonDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.WantedPerson, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.WantedPerson, error)
	CountDocuments(context.Context, interface{}, ...*options.CountOptions) (int64, error)
	InsertOne(ctx context.Context, entry models.WantedPerson, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type wantedPersonDatabase struct {
	db DatabaseHelper
}

// NewWantedPersonDatabase initializes a new instance of wanted person database with the provided db connection
func NewWantedPersonDatabase(db DatabaseHelper) WantedPersonDatabase {
	return &wantedPersonDatabase{
		db: db,
	}
}

func (c *wantedPersonDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.WantedPerson, error) {
	entry := &models.WantedPerson{}
	err := c.db.Collection(wantedPersonName).FindOne(ctx, filter, opts...).Decode(&entry)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (c *wantedPersonDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.WantedPerson, error) {
	var entries []models.WantedPerson
	cr, err := c.db.Collection(wantedPersonName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&entries)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *wantedPersonDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	count, err := c.db.Collection(wantedPersonName).CountDocuments(ctx, filter, opts...)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (c *wantedPersonDatabase) InsertOne(ctx context.Context, entry models.WantedPerson, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	res, err := c.db.Collection(wantedPersonName).InsertOne(ctx, entry, opts...)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *wantedPersonDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	_, err := c.db.Collection(wantedPersonName).UpdateOne(ctx, filter, update, opts...)
	return err
}

func (c *wantedPersonDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(wantedPersonName).DeleteOne(ctx, filter, opts...)
}
