package inventory

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	contractx "github.com/tanpawarit/chative-ticket-agent/agent/contract"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

var flightColumns = []string{"id", "city_name", "departure_date", "arrival_date", "seat_place", "price"}

func newMockInventory(t *testing.T) (*PostgresInventory, sqlmock.Sqlmock) {
	t.Helper()

	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := bun.NewDB(sqldb, pgdialect.New())
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresInventory(db), mock
}

func TestPostgresInventoryCities(t *testing.T) {
	inv, mock := newMockInventory(t)

	mock.ExpectQuery(`SELECT .*city_name.* FROM "flights" AS "f" GROUP BY .*city_name.* ORDER BY MIN\(f.id\) ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"city_name"}).AddRow("Kazan").AddRow("Perm"))

	cities, err := inv.Cities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Kazan", "Perm"}, cities)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInventoryTicketIDsFiltersByCity(t *testing.T) {
	inv, mock := newMockInventory(t)

	mock.ExpectQuery(`SELECT .*"id".* FROM "flights" AS "f" WHERE \(city_name = 'Kazan'\) ORDER BY "id" ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)).AddRow(int64(7)))

	ids, err := inv.TicketIDs(context.Background(), "Kazan")
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 7}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInventoryTicket(t *testing.T) {
	inv, mock := newMockInventory(t)
	dep := time.Date(2023, 4, 2, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .* FROM "flights" AS "f" WHERE \(id = 7\) LIMIT 1`).
		WillReturnRows(sqlmock.NewRows(flightColumns).
			AddRow(int64(7), "Kazan", dep, dep.Add(3*time.Hour), "B4", 990.0))

	f, ok, err := inv.Ticket(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(7), f.ID)
	assert.Equal(t, "Kazan", f.CityName)
	assert.Equal(t, dep, f.DepartureDate)
	assert.Equal(t, "B4", f.SeatPlace)
	assert.Equal(t, 990.0, f.Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInventoryTicketNotFound(t *testing.T) {
	inv, mock := newMockInventory(t)

	mock.ExpectQuery(`SELECT .* FROM "flights" AS "f" WHERE \(id = 99\)`).
		WillReturnRows(sqlmock.NewRows(flightColumns))

	_, ok, err := inv.Ticket(context.Background(), 99)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPostgresInventoryTicketError(t *testing.T) {
	inv, mock := newMockInventory(t)

	mock.ExpectQuery(`SELECT .* FROM "flights"`).WillReturnError(sql.ErrConnDone)

	_, ok, err := inv.Ticket(context.Background(), 1)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, contractx.ErrInventory))
}

func TestPostgresInventoryAddFlightReturnsID(t *testing.T) {
	inv, mock := newMockInventory(t)
	dep := time.Date(2023, 8, 9, 21, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO "flights" .* RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(31)))

	id, err := inv.AddFlight(context.Background(), contractx.Flight{
		CityName:      "Ufa",
		DepartureDate: dep,
		ArrivalDate:   dep.Add(3 * time.Hour),
		SeatPlace:     "F30",
		Price:         1200,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(31), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInventoryAddFlightValidates(t *testing.T) {
	inv, mock := newMockInventory(t)

	_, err := inv.AddFlight(context.Background(), contractx.Flight{CityName: "Ufa"})
	assert.ErrorIs(t, err, contractx.ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInventoryCreateSchema(t *testing.T) {
	inv, mock := newMockInventory(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS "flights"`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, inv.CreateSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
