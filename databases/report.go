package databases

// go generate: mockery --name ReportDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openrms/records-api/models"
)

const reportName = "reports"

// ReportDatabase contains the methods to use with the report database
type ReportDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.Report, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.Report, error)
	InsertOne(context.Context, interface{}, ...*options.InsertOneOptions) (InsertOneResultHelper, error)
}

type reportDatabase struct {
	db DatabaseHelper
}

// NewReportDatabase initializes a new instance of report database with the provided db connection
func NewReportDatabase(db DatabaseHelper) ReportDatabase {
	return &reportDatabase{
		db: db,
	}
}

func (r *reportDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Report, error) {
	report := &models.Report{}
	err := r.db.Collection(reportName).FindOne(ctx, filter, opts...).Decode(&report)
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (r *reportDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Report, error) {
	var reports []models.Report
	cr, err := r.db.Collection(reportName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&reports)
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	res, err := r.db.Collection(reportName).InsertOne(ctx, document, opts...)
	return res, err
}
