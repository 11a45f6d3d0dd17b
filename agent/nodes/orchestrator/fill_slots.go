package orchestratornode

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/chative-ticket-agent/agent/contract"
	"github.com/tanpawarit/chative-ticket-agent/agent/extract"
	statex "github.com/tanpawarit/chative-ticket-agent/agent/state"
)

// Extractors are the collaborators the slot table needs.
type Extractors struct {
	Inventory contractx.Inventory
	Tagger    contractx.EntityTagger
	Now       func() time.Time
}

type slotFiller func(ctx context.Context, x Extractors, rec statex.SlotRecord, text string) bool

type extractionRow struct {
	slot statex.Slot
	fill slotFiller
}

// extractionTable is walked top to bottom once per booking turn. Each row sees
// what earlier rows merged in the same turn.
var extractionTable = []extractionRow{
	{slot: statex.SlotCityName, fill: fillCity},
	{slot: statex.SlotTicketID, fill: fillTicket},
	{slot: statex.SlotClassOfService, fill: mergeWith(statex.SlotClassOfService, extract.ClassOfService)},
	{slot: statex.SlotUserName, fill: fillUserName},
	{slot: statex.SlotDocumentNumber, fill: mergeWith(statex.SlotDocumentNumber, extract.DocumentNumber)},
	{slot: statex.SlotGender, fill: mergeWith(statex.SlotGender, extract.Gender)},
	{slot: statex.SlotBirthDate, fill: fillBirthDate},
	{slot: statex.SlotEmail, fill: mergeWith(statex.SlotEmail, extract.Email)},
}

// FillSlots runs the extraction table against the utterance on booking turns.
func FillSlots(ctx context.Context, in *GraphState, x Extractors) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}
	if in.Route != RouteBooking {
		return in, nil
	}

	logger := log.Ctx(ctx).With().Str("session_id", in.SessionID).Logger()
	for _, row := range extractionTable {
		if in.Session.Slots.IsSet(row.slot) {
			continue
		}
		if row.fill(ctx, x, in.Session.Slots, in.Text) {
			logger.Debug().Str("slot", string(row.slot)).Msg("slot filled")
		}
	}
	return in, nil
}

func mergeWith(slot statex.Slot, fn func(string) (string, bool)) slotFiller {
	return func(_ context.Context, _ Extractors, rec statex.SlotRecord, text string) bool {
		v, ok := fn(text)
		return ok && rec.Merge(slot, v)
	}
}

func fillCity(ctx context.Context, x Extractors, rec statex.SlotRecord, text string) bool {
	if x.Inventory == nil {
		return false
	}
	cities, err := x.Inventory.Cities(ctx)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("list cities failed, city left unset")
		return false
	}
	city, ok := extract.City(text, cities)
	return ok && rec.Merge(statex.SlotCityName, city)
}

// fillTicket only accepts ids offered for the chosen city and only when the
// inventory resolves them, so the derived slots are filled in the same step.
// Digits that form a document number are not ticket ids.
func fillTicket(ctx context.Context, x Extractors, rec statex.SlotRecord, text string) bool {
	city, ok := rec.Get(statex.SlotCityName)
	if !ok || x.Inventory == nil {
		return false
	}
	ids, err := x.Inventory.TicketIDs(ctx, city)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("city", city).Msg("list ticket ids failed, ticket left unset")
		return false
	}
	id, ok := extract.TicketID(extract.StripDocumentNumber(text), ids)
	if !ok {
		return false
	}
	flight, found, err := x.Inventory.Ticket(ctx, id)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Int64("ticket_id", id).Msg("ticket lookup failed, ticket left unset")
		return false
	}
	if !found {
		return false
	}
	return rec.ApplyTicket(flight)
}

func fillUserName(ctx context.Context, x Extractors, rec statex.SlotRecord, text string) bool {
	name, ok := extract.PersonName(ctx, text, x.Tagger)
	return ok && rec.Merge(statex.SlotUserName, name)
}

func fillBirthDate(_ context.Context, x Extractors, rec statex.SlotRecord, text string) bool {
	now := time.Now
	if x.Now != nil {
		now = x.Now
	}
	date, ok := extract.BirthDate(text, now())
	return ok && rec.Merge(statex.SlotBirthDate, date)
}
