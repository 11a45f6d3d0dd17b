package orchestratornode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/chative-ticket-agent/agent/contract"
	"github.com/tanpawarit/chative-ticket-agent/agent/retrieval"
)

// GateMemory answers retrieval turns. The retrieval intent always ends here;
// with nothing accepted the turn falls back to the intro path.
func GateMemory(ctx context.Context, in *GraphState, gate *retrieval.Gate) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}
	if in.Route != RouteRetrieval {
		return in, nil
	}

	accepted := gate.Accept(ctx, in.Text)

	in.Session.ClearIntent()
	in.Records = in.Records[:0]
	for _, c := range accepted {
		in.Records = append(in.Records, c.Text)
	}

	log.Ctx(ctx).Info().
		Str("session_id", in.SessionID).
		Int("accepted", len(in.Records)).
		Int("top_k", gate.TopK()).
		Float64("threshold", gate.Threshold()).
		Msg("retrieval gate decided")

	if len(in.Records) == 0 {
		in.Route = RouteIntro
	}
	return in, nil
}
