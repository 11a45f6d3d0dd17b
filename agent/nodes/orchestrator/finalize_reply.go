package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/chative-ticket-agent/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil || in.Session == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Completion == nil {
		return GraphOutput{}, fmt.Errorf("%w: no completion for the turn", contractx.ErrValidation)
	}
	return GraphOutput{
		Completion: in.Completion,
		Template:   in.Template,
		Intent:     in.Session.Intent,
		Committed:  in.Committed,
	}, nil
}
