package orchestratornode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/chative-ticket-agent/agent/contract"
	statex "github.com/tanpawarit/chative-ticket-agent/agent/state"
	"github.com/tanpawarit/chative-ticket-agent/pkg/metrics"
)

// CommitSession persists the turn. A complete booking is appended to memory
// first and only then reset; if the append fails the open stream is closed,
// the merged record is kept and ErrMemoryAppend is returned.
func CommitSession(ctx context.Context, in *GraphState, store statex.Store, memory contractx.MemoryGateway) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	logger := log.Ctx(ctx).With().Str("session_id", in.SessionID).Logger()

	if in.Route == RouteBooking && in.Session.Slots.Complete() {
		record, err := in.Session.SerializeBooking()
		if err != nil {
			in.Completion.Close()
			return nil, err
		}
		if err := memory.Append(ctx, record); err != nil {
			in.Completion.Close()
			in.Session.Touch(in.Now)
			if saveErr := store.Save(ctx, in.Session); saveErr != nil {
				logger.Error().Err(saveErr).Msg("save after failed append")
			}
			return nil, fmt.Errorf("%w: %v", contractx.ErrMemoryAppend, err)
		}
		if err := in.Session.FinishBooking(in.Now); err != nil {
			in.Completion.Close()
			return nil, err
		}
		in.Committed = true
		metrics.BookingsCommitted.Inc()
		logger.Info().Msg("booking committed")
	}

	in.Session.Touch(in.Now)
	if err := in.Session.Validate(); err != nil {
		in.Completion.Close()
		return nil, fmt.Errorf("session validation failed: %w", err)
	}
	if err := store.Save(ctx, in.Session); err != nil {
		in.Completion.Close()
		return nil, err
	}
	return in, nil
}
