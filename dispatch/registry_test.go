package dispatch_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/openrms/records-api/databases"
	dbmocks "github.com/openrms/records-api/databases/mocks"
	"github.com/openrms/records-api/dispatch"
	"github.com/openrms/records-api/models"
)

// passthroughTransaction makes the mocked client run the transaction body and
// surface its error, the way a real session would on abort.
func passthroughTransaction(client *dbmocks.ClientHelper) {
	client.On("WithTransaction", mock.Anything, mock.Anything).Return(
		nil,
		func(ctx context.Context, fn func(context.Context) (interface{}, error)) error {
			_, err := fn(ctx)
			return err
		},
	)
}

func unitsCursor(units []models.Unit) *dbmocks.CursorHelper {
	cursor := &dbmocks.CursorHelper{}
	cursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.Unit)
		*arg = units
	})
	return cursor
}

func TestUnitRegistry_ListAvailable(t *testing.T) {
	db := &dbmocks.DatabaseHelper{}
	conn := &dbmocks.CollectionHelper{}

	available := []models.Unit{
		{ID: "unit-1", Details: models.UnitDetails{Name: "Adam-12", Type: models.UnitTypePatrol, Status: models.UnitStatusAvailable}},
	}

	db.On("Collection", "units").Return(conn)
	conn.On("Find", mock.Anything, mock.Anything).Return(databases.CursorHelper(unitsCursor(available)), nil)

	registry := dispatch.NewUnitRegistry(db)
	units, err := registry.ListAvailable(context.Background())

	assert.NoError(t, err)
	assert.Len(t, units, 1)
	assert.Equal(t, "unit-1", units[0].ID)
}

func TestUnitRegistry_MarkRespondingSuccess(t *testing.T) {
	db := &dbmocks.DatabaseHelper{}
	client := &dbmocks.ClientHelper{}
	conn := &dbmocks.CollectionHelper{}
	updateResult := &dbmocks.UpdateResultHelper{}

	db.On("Collection", "units").Return(conn)
	db.On("Client").Return(databases.ClientHelper(client))
	passthroughTransaction(client)
	conn.On("UpdateMany", mock.Anything, mock.Anything, mock.Anything).
		Return(databases.UpdateResultHelper(updateResult), nil)
	updateResult.On("MatchedCount").Return(int64(2))

	registry := dispatch.NewUnitRegistry(db)
	err := registry.MarkResponding(context.Background(), []string{"unit-1", "unit-2"}, "4th and Main")

	assert.NoError(t, err)
	conn.AssertExpectations(t)
}

func TestUnitRegistry_MarkRespondingBusyUnitAborts(t *testing.T) {
	db := &dbmocks.DatabaseHelper{}
	client := &dbmocks.ClientHelper{}
	conn := &dbmocks.CollectionHelper{}
	updateResult := &dbmocks.UpdateResultHelper{}

	all := []models.Unit{
		{ID: "unit-1", Details: models.UnitDetails{Status: models.UnitStatusAvailable}},
		{ID: "unit-2", Details: models.UnitDetails{Status: models.UnitStatusResponding}},
	}
	busy := []models.Unit{all[1]}

	db.On("Collection", "units").Return(conn)
	db.On("Client").Return(databases.ClientHelper(client))
	passthroughTransaction(client)

	// Only the available unit matches the conditioned update
	conn.On("UpdateMany", mock.Anything, mock.Anything, mock.Anything).
		Return(databases.UpdateResultHelper(updateResult), nil)
	updateResult.On("MatchedCount").Return(int64(1))

	// classification: both units exist, one of them is not available
	conn.On("Find", mock.Anything, mock.Anything).Return(databases.CursorHelper(unitsCursor(all)), nil).Once()
	conn.On("Find", mock.Anything, mock.Anything).Return(databases.CursorHelper(unitsCursor(busy)), nil).Once()

	registry := dispatch.NewUnitRegistry(db)
	err := registry.MarkResponding(context.Background(), []string{"unit-1", "unit-2"}, "4th and Main")

	var busyErr *dispatch.AlreadyAssignedError
	assert.ErrorAs(t, err, &busyErr)
	assert.Equal(t, []string{"unit-2"}, busyErr.UnitIDs)
}

func TestUnitRegistry_MarkRespondingUnknownUnit(t *testing.T) {
	db := &dbmocks.DatabaseHelper{}
	client := &dbmocks.ClientHelper{}
	conn := &dbmocks.CollectionHelper{}
	updateResult := &dbmocks.UpdateResultHelper{}

	existing := []models.Unit{
		{ID: "unit-1", Details: models.UnitDetails{Status: models.UnitStatusAvailable}},
	}

	db.On("Collection", "units").Return(conn)
	db.On("Client").Return(databases.ClientHelper(client))
	passthroughTransaction(client)
	conn.On("UpdateMany", mock.Anything, mock.Anything, mock.Anything).
		Return(databases.UpdateResultHelper(updateResult), nil)
	updateResult.On("MatchedCount").Return(int64(1))
	conn.On("Find", mock.Anything, mock.Anything).Return(databases.CursorHelper(unitsCursor(existing)), nil)

	registry := dispatch.NewUnitRegistry(db)
	err := registry.MarkResponding(context.Background(), []string{"unit-1", "ghost"}, "4th and Main")

	var notFoundErr *dispatch.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, "ghost", notFoundErr.ID)
}

func TestUnitRegistry_ReleaseIsIdempotent(t *testing.T) {
	db := &dbmocks.DatabaseHelper{}
	conn := &dbmocks.CollectionHelper{}
	updateResult := &dbmocks.UpdateResultHelper{}

	existing := []models.Unit{
		{ID: "unit-1", Details: models.UnitDetails{Status: models.UnitStatusAvailable}},
		{ID: "unit-2", Details: models.UnitDetails{Status: models.UnitStatusResponding}},
	}

	db.On("Collection", "units").Return(conn)
	conn.On("Find", mock.Anything, mock.Anything).Return(databases.CursorHelper(unitsCursor(existing)), nil)
	// Only the responding unit matches; the already-available one is a no-op
	conn.On("UpdateMany", mock.Anything, mock.Anything, mock.Anything).
		Return(databases.UpdateResultHelper(updateResult), nil)
	updateResult.On("MatchedCount").Return(int64(1))

	registry := dispatch.NewUnitRegistry(db)
	err := registry.Release(context.Background(), []string{"unit-1", "unit-2"}, dispatch.LocationReturning)

	assert.NoError(t, err)
	conn.AssertExpectations(t)
}

func TestUnitRegistry_ReleaseUnknownUnit(t *testing.T) {
	db := &dbmocks.DatabaseHelper{}
	conn := &dbmocks.CollectionHelper{}

	db.On("Collection", "units").Return(conn)
	conn.On("Find", mock.Anything, mock.Anything).Return(databases.CursorHelper(unitsCursor(nil)), nil)

	registry := dispatch.NewUnitRegistry(db)
	err := registry.Release(context.Background(), []string{"ghost"}, dispatch.LocationReturning)

	var notFoundErr *dispatch.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
	conn.AssertNotCalled(t, "UpdateMany", mock.Anything, mock.Anything, mock.Anything)
}
