package orchestratornode

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/chative-ticket-agent/agent/contract"
	statex "github.com/tanpawarit/chative-ticket-agent/agent/state"
)

const (
	CommandBuy  = "BUY"
	CommandShow = "SHOW"
)

// DetectCommand maps an utterance to the intent its leading command asks for.
func DetectCommand(text string) (statex.Intent, bool) {
	upper := strings.ToUpper(strings.TrimSpace(text))
	switch {
	case strings.HasPrefix(upper, CommandBuy):
		return statex.IntentBooking, true
	case strings.HasPrefix(upper, CommandShow):
		return statex.IntentRetrieval, true
	default:
		return statex.IntentNone, false
	}
}

// RouteIntent picks the turn's path. Commands only count from idle; an active
// intent keeps every turn on its own path.
func RouteIntent(ctx context.Context, in *GraphState) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	if in.Session.Intent == statex.IntentNone {
		if intent, ok := DetectCommand(in.Text); ok {
			if err := in.Session.Begin(intent); err != nil {
				return nil, err
			}
			log.Ctx(ctx).Info().
				Str("session_id", in.SessionID).
				Str("intent", intent.String()).
				Msg("intent started")
		}
	}

	switch in.Session.Intent {
	case statex.IntentBooking:
		in.Route = RouteBooking
	case statex.IntentRetrieval:
		in.Route = RouteRetrieval
	default:
		in.Route = RouteIntro
	}
	return in, nil
}
