package retrieval

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/chative-ticket-agent/agent/contract"
	"github.com/tanpawarit/chative-ticket-agent/pkg/metrics"
)

const (
	DefaultTopK      = 1
	DefaultThreshold = 1.5
)

// Gate decides which stored bookings may be shown for a query. Only
// candidates strictly closer than Threshold pass.
type Gate struct {
	memory    contractx.MemoryGateway
	topK      int
	threshold float64
}

func NewGate(memory contractx.MemoryGateway, topK int, threshold float64) (*Gate, error) {
	if memory == nil {
		return nil, errors.New("memory gateway is required")
	}
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top k must be > 0, got %d", contractx.ErrValidation, topK)
	}
	if threshold <= 0 {
		return nil, fmt.Errorf("%w: threshold must be > 0, got %v", contractx.ErrValidation, threshold)
	}
	return &Gate{memory: memory, topK: topK, threshold: threshold}, nil
}

// Accept returns the accepted candidates in the order memory ranked them.
// Query failures are logged and yield nothing.
func (g *Gate) Accept(ctx context.Context, text string) []contractx.Candidate {
	candidates, err := g.memory.Query(ctx, text, g.topK)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("memory query failed, nothing to show")
		return nil
	}
	accepted := Filter(candidates, g.threshold)
	metrics.RetrievalCandidates.WithLabelValues("accepted").Add(float64(len(accepted)))
	metrics.RetrievalCandidates.WithLabelValues("rejected").Add(float64(len(candidates) - len(accepted)))
	return accepted
}

// Filter keeps candidates with distance < threshold.
func Filter(candidates []contractx.Candidate, threshold float64) []contractx.Candidate {
	var out []contractx.Candidate
	for _, c := range candidates {
		if c.Distance < threshold {
			out = append(out, c)
		}
	}
	return out
}

func (g *Gate) TopK() int { return g.topK }

func (g *Gate) Threshold() float64 { return g.threshold }
