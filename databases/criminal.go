package databases

// go generate: mockery --name CriminalDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openrms/records-api/models"
)

const criminalName = "criminals"

// CriminalDatabase contains the methods to use with the criminal database
type CriminalDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.Criminal, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.Criminal, error)
	InsertOne(context.Context, interface{}, ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(context.Context, interface{}, interface{}, ...*options.UpdateOptions) (int64, error)
	DeleteOne(context.Context, interface{}, ...*options.DeleteOptions) error
}

type criminalDatabase struct {
	db DatabaseHelper
}

// NewCriminalDatabase initializes a new instance of criminal database with the provided db connection
func NewCriminalDatabase(db DatabaseHelper) CriminalDatabase {
	return &criminalDatabase{
		db: db,
	}
}

func (c *criminalDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Criminal, error) {
	criminal := &models.Criminal{}
	err := c.db.Collection(criminalName).FindOne(ctx, filter, opts...).Decode(&criminal)
	if err != nil {
		return nil, err
	}
	return criminal, nil
}

func (c *criminalDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Criminal, error) {
	var criminals []models.Criminal
	cr, err := c.db.Collection(criminalName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&criminals)
	if err != nil {
		return nil, err
	}
	return criminals, nil
}

func (c *criminalDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	res, err := c.db.Collection(criminalName).InsertOne(ctx, document, opts...)
	return res, err
}

func (c *criminalDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error) {
	res, err := c.db.Collection(criminalName).UpdateOne(ctx, filter, update, opts...)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount(), nil
}

func (c *criminalDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(criminalName).DeleteOne(ctx, filter, opts...)
}
