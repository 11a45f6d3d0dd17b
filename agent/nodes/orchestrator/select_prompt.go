package orchestratornode

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/chative-ticket-agent/agent/contract"
	"github.com/tanpawarit/chative-ticket-agent/agent/prompt"
	statex "github.com/tanpawarit/chative-ticket-agent/agent/state"
)

// SelectPrompt chooses the context template for the turn, fills it with data
// fetched now, and lays out the final prompt.
func SelectPrompt(ctx context.Context, in *GraphState, bank *prompt.Bank, inventory contractx.Inventory) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	key, data, err := templateFor(ctx, in, inventory)
	if err != nil {
		return nil, err
	}
	roleContext, err := bank.Render(ctx, key, data)
	if err != nil {
		return nil, err
	}

	in.Template = key
	if in.Route == RouteRetrieval {
		in.Prompt = prompt.Build(roleContext, in.Text, in.Records)
	} else {
		in.Prompt = prompt.Build(roleContext, in.Text, nil)
	}
	return in, nil
}

func templateFor(ctx context.Context, in *GraphState, inventory contractx.Inventory) (prompt.Key, map[string]any, error) {
	switch in.Route {
	case RouteRetrieval:
		return prompt.KeyShowTicket, nil, nil
	case RouteBooking:
	default:
		return prompt.KeyIntro, nil, nil
	}

	missing := in.Session.Slots.Missing()
	if len(missing) == 0 {
		booking, err := in.Session.SerializeBooking()
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", contractx.ErrTemplateData, err)
		}
		return prompt.KeyBookingConfirmed, map[string]any{prompt.VarBooking: booking}, nil
	}

	next := missing[0]
	key := prompt.Key(next)
	switch next {
	case statex.SlotCityName:
		return cityTemplate(ctx, inventory)
	case statex.SlotTicketID:
		city, _ := in.Session.Slots.Get(statex.SlotCityName)
		ids, err := inventory.TicketIDs(ctx, city)
		if err != nil {
			return "", nil, fmt.Errorf("%w: ticket ids for %s: %v", contractx.ErrTemplateData, city, err)
		}
		if len(ids) == 0 {
			// Nothing left to sell for this city; ask for another one.
			in.Session.Slots.Unset(statex.SlotCityName)
			log.Ctx(ctx).Info().Str("city", city).Msg("no tickets for city, asking again")
			return cityTemplate(ctx, inventory)
		}
		logOffer(ctx, inventory, city)
		return key, map[string]any{prompt.VarTicketIDs: joinIDs(ids)}, nil
	default:
		return key, nil, nil
	}
}

func cityTemplate(ctx context.Context, inventory contractx.Inventory) (prompt.Key, map[string]any, error) {
	cities, err := inventory.Cities(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("%w: cities: %v", contractx.ErrTemplateData, err)
	}
	return prompt.Key(statex.SlotCityName), map[string]any{prompt.VarCities: strings.Join(cities, ", ")}, nil
}

// logOffer lists the flights behind the offered ticket ids at debug level.
func logOffer(ctx context.Context, inventory contractx.Inventory, city string) {
	logger := log.Ctx(ctx)
	if logger.GetLevel() > zerolog.DebugLevel {
		return
	}
	flights, err := inventory.Flights(ctx, city)
	if err != nil {
		logger.Debug().Err(err).Str("city", city).Msg("list flights failed")
		return
	}
	for _, f := range flights {
		logger.Debug().
			Int64("ticket_id", f.ID).
			Time("departure", f.DepartureDate).
			Str("seat", f.SeatPlace).
			Float64("price", f.Price).
			Msg("ticket offered")
	}
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}
