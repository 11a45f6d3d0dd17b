package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	contractx "github.com/tanpawarit/chative-ticket-agent/agent/contract"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type PostgresConfig struct {
	DSN         string        `envconfig:"DSN" required:"true"`
	DialTimeout time.Duration `split_words:"true" default:"5s"`
}

type flightRow struct {
	bun.BaseModel `bun:"table:flights,alias:f"`

	ID            int64     `bun:"id,pk,autoincrement"`
	CityName      string    `bun:"city_name,notnull"`
	DepartureDate time.Time `bun:"departure_date,notnull"`
	ArrivalDate   time.Time `bun:"arrival_date,notnull"`
	SeatPlace     string    `bun:"seat_place,notnull"`
	Price         float64   `bun:"price,notnull"`
}

func (r flightRow) flight() contractx.Flight {
	return contractx.Flight{
		ID:            r.ID,
		CityName:      r.CityName,
		DepartureDate: r.DepartureDate.UTC(),
		ArrivalDate:   r.ArrivalDate.UTC(),
		SeatPlace:     r.SeatPlace,
		Price:         r.Price,
	}
}

// PostgresInventory keeps flights in a Postgres table through bun.
type PostgresInventory struct {
	db *bun.DB
}

func OpenPostgres(cfg PostgresConfig) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(cfg.DSN),
		pgdriver.WithDialTimeout(cfg.DialTimeout),
	))
	return bun.NewDB(sqldb, pgdialect.New())
}

func NewPostgresInventory(db *bun.DB) *PostgresInventory {
	return &PostgresInventory{db: db}
}

// CreateSchema creates the flights table when it does not exist yet.
func (p *PostgresInventory) CreateSchema(ctx context.Context) error {
	_, err := p.db.NewCreateTable().Model((*flightRow)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return fmt.Errorf("%w: create flights table: %v", contractx.ErrInventory, err)
	}
	return nil
}

// Cities lists distinct cities in the order they were first inserted.
func (p *PostgresInventory) Cities(ctx context.Context) ([]string, error) {
	var cities []string
	err := p.db.NewSelect().
		Model((*flightRow)(nil)).
		Column("city_name").
		Group("city_name").
		OrderExpr("MIN(f.id) ASC").
		Scan(ctx, &cities)
	if err != nil {
		return nil, fmt.Errorf("%w: list cities: %v", contractx.ErrInventory, err)
	}
	return cities, nil
}

func (p *PostgresInventory) TicketIDs(ctx context.Context, city string) ([]int64, error) {
	var ids []int64
	q := p.db.NewSelect().Model((*flightRow)(nil)).Column("id").Order("id ASC")
	if city != "" {
		q = q.Where("city_name = ?", city)
	}
	if err := q.Scan(ctx, &ids); err != nil {
		return nil, fmt.Errorf("%w: list ticket ids: %v", contractx.ErrInventory, err)
	}
	return ids, nil
}

func (p *PostgresInventory) Ticket(ctx context.Context, id int64) (contractx.Flight, bool, error) {
	var row flightRow
	err := p.db.NewSelect().Model(&row).Where("id = ?", id).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return contractx.Flight{}, false, nil
	}
	if err != nil {
		return contractx.Flight{}, false, fmt.Errorf("%w: ticket %d: %v", contractx.ErrInventory, id, err)
	}
	return row.flight(), true, nil
}

func (p *PostgresInventory) Flights(ctx context.Context, city string) ([]contractx.Flight, error) {
	var rows []flightRow
	q := p.db.NewSelect().Model(&rows).Order("id ASC")
	if city != "" {
		q = q.Where("city_name = ?", city)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("%w: list flights: %v", contractx.ErrInventory, err)
	}
	out := make([]contractx.Flight, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.flight())
	}
	return out, nil
}

func (p *PostgresInventory) AddFlight(ctx context.Context, f contractx.Flight) (int64, error) {
	if err := validateFlight(f); err != nil {
		return 0, err
	}
	row := flightRow{
		CityName:      f.CityName,
		DepartureDate: f.DepartureDate.UTC(),
		ArrivalDate:   f.ArrivalDate.UTC(),
		SeatPlace:     f.SeatPlace,
		Price:         f.Price,
	}
	if _, err := p.db.NewInsert().Model(&row).Returning("id").Exec(ctx); err != nil {
		return 0, fmt.Errorf("%w: insert flight: %v", contractx.ErrInventory, err)
	}
	return row.ID, nil
}
