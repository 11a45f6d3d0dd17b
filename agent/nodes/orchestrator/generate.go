package orchestratornode

import (
	"context"
	"fmt"
	"strconv"
	"time"

	contractx "github.com/tanpawarit/chative-ticket-agent/agent/contract"
	"github.com/tanpawarit/chative-ticket-agent/pkg/metrics"
)

func Generate(ctx context.Context, in *GraphState, gen contractx.Generator, stop []string) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	start := time.Now()
	completion, err := gen.Generate(ctx, in.Prompt, in.Session.Streaming, stop)
	metrics.GenerationDuration.
		WithLabelValues(string(in.Template), strconv.FormatBool(in.Session.Streaming)).
		Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	if completion == nil {
		return nil, fmt.Errorf("%w: generator returned nothing", contractx.ErrModelInvoke)
	}
	in.Completion = completion
	return in, nil
}
