package inventory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	contractx "github.com/tanpawarit/chative-ticket-agent/agent/contract"
)

// MemoryInventory is an append-only flight table. A flight's ticket id is its
// position in the table.
type MemoryInventory struct {
	mu      sync.RWMutex
	flights []contractx.Flight
}

func NewMemoryInventory(flights ...contractx.Flight) *MemoryInventory {
	inv := &MemoryInventory{}
	for _, f := range flights {
		_, _ = inv.AddFlight(context.Background(), f)
	}
	return inv
}

func (m *MemoryInventory) Cities(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for _, f := range m.flights {
		if _, ok := seen[f.CityName]; ok {
			continue
		}
		seen[f.CityName] = struct{}{}
		out = append(out, f.CityName)
	}
	return out, nil
}

// TicketIDs lists ids for city; an empty city lists every id.
func (m *MemoryInventory) TicketIDs(_ context.Context, city string) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []int64
	for _, f := range m.flights {
		if city == "" || f.CityName == city {
			out = append(out, f.ID)
		}
	}
	return out, nil
}

func (m *MemoryInventory) Ticket(_ context.Context, id int64) (contractx.Flight, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if id < 0 || id >= int64(len(m.flights)) {
		return contractx.Flight{}, false, nil
	}
	return m.flights[id], true, nil
}

func (m *MemoryInventory) Flights(_ context.Context, city string) ([]contractx.Flight, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []contractx.Flight
	for _, f := range m.flights {
		if city == "" || f.CityName == city {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *MemoryInventory) AddFlight(_ context.Context, f contractx.Flight) (int64, error) {
	if err := validateFlight(f); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	f.ID = int64(len(m.flights))
	m.flights = append(m.flights, f)
	return f.ID, nil
}

func validateFlight(f contractx.Flight) error {
	switch {
	case strings.TrimSpace(f.CityName) == "":
		return fmt.Errorf("%w: city name is required", contractx.ErrValidation)
	case f.DepartureDate.IsZero() || f.ArrivalDate.IsZero():
		return fmt.Errorf("%w: departure and arrival dates are required", contractx.ErrValidation)
	case f.ArrivalDate.Before(f.DepartureDate):
		return fmt.Errorf("%w: arrival before departure", contractx.ErrValidation)
	case strings.TrimSpace(f.SeatPlace) == "":
		return fmt.Errorf("%w: seat place is required", contractx.ErrValidation)
	case f.Price <= 0:
		return fmt.Errorf("%w: price must be > 0", contractx.ErrValidation)
	}
	return nil
}
