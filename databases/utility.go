package databases

import "go.mongodb.org/mongo-driver/mongo/options"

// Paginate builds the skip/limit find options for paginated list queries
type Paginate struct {
	limit int64
	page  int64
}

// NewPaginate returns a Paginate for the given page size and zero-based page
func NewPaginate(limit, page int) *Paginate {
	return &Paginate{
		limit: int64(limit),
		page:  int64(page),
	}
}

// GetPaginatedOpts returns the mongo find options for this page
func (mp *Paginate) GetPaginatedOpts() *options.FindOptions {
	l := mp.limit
	skip := mp.page * mp.limit
	fOpt := options.FindOptions{Limit: &l, Skip: &skip}

	return &fOpt
}
