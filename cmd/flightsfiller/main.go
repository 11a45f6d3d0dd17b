// Command flightsfiller creates the flights table and appends random flights
// to it.
package main

import (
	"context"
	"flag"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/chative-ticket-agent/agent/inventory"
	configx "github.com/tanpawarit/chative-ticket-agent/pkg/config"
	_ "github.com/tanpawarit/chative-ticket-agent/pkg/logger/autoload"
)

func main() {
	count := flag.Int("n", inventory.DefaultFillCount, "number of flights to add")
	cities := flag.String("cities", "", "comma separated destinations (default: built-in list)")
	seed := flag.Uint64("seed", 0, "random seed (0: time based)")

	// MustNew parses the command line together with its -env flag.
	pgCfg := configx.MustNew[inventory.PostgresConfig]("INVENTORY")
	db := inventory.OpenPostgres(*pgCfg)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	inv := inventory.NewPostgresInventory(db)
	if err := inv.CreateSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create flights table")
	}

	s := *seed
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(s, s>>1))

	flights, err := inventory.Fill(ctx, inv, rng, splitCities(*cities), *count)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to fill flights")
	}
	for _, f := range flights {
		log.Info().
			Int64("ticket_id", f.ID).
			Str("city", f.CityName).
			Time("departure", f.DepartureDate).
			Str("seat", f.SeatPlace).
			Float64("price", f.Price).
			Msg("flight added")
	}
	log.Info().Int("count", len(flights)).Uint64("seed", s).Msg("inventory filled")
}

func splitCities(raw string) []string {
	var out []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
