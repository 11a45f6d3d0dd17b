package inventory

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	contractx "github.com/tanpawarit/chative-ticket-agent/agent/contract"
)

// DefaultCities is the destination list used to seed an empty inventory.
var DefaultCities = []string{
	"Volgograd", "Saint Petersburg", "Novosibirsk", "Yekaterinburg", "Kazan",
	"Chelyabinsk", "Rostov", "Ufa", "Krasnoyarsk", "Perm",
}

const (
	DefaultFillCount = 30
	flightDuration   = 3 * time.Hour
)

// RandomFlight draws one flight in 2023: price in [500, 1500), three hour
// trip, seat A1..F30.
func RandomFlight(rng *rand.Rand, cities []string) contractx.Flight {
	dep := time.Date(2023, time.Month(rng.IntN(12)+1), rng.IntN(28)+1, rng.IntN(24), 0, 0, 0, time.UTC)
	return contractx.Flight{
		CityName:      cities[rng.IntN(len(cities))],
		DepartureDate: dep,
		ArrivalDate:   dep.Add(flightDuration),
		SeatPlace:     fmt.Sprintf("%c%d", "ABCDEF"[rng.IntN(6)], rng.IntN(30)+1),
		Price:         float64(500 + rng.IntN(1000)),
	}
}

// Fill appends n random flights and returns them with their ids.
func Fill(ctx context.Context, inv contractx.Inventory, rng *rand.Rand, cities []string, n int) ([]contractx.Flight, error) {
	if len(cities) == 0 {
		cities = DefaultCities
	}
	out := make([]contractx.Flight, 0, n)
	for i := 0; i < n; i++ {
		f := RandomFlight(rng, cities)
		id, err := inv.AddFlight(ctx, f)
		if err != nil {
			return out, fmt.Errorf("add flight %d/%d: %w", i+1, n, err)
		}
		f.ID = id
		out = append(out, f)
	}
	return out, nil
}
