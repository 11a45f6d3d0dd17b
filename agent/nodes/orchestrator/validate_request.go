package orchestratornode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/tanpawarit/chative-ticket-agent/agent/contract"
	"github.com/tanpawarit/chative-ticket-agent/agent/prompt"
	statex "github.com/tanpawarit/chative-ticket-agent/agent/state"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("session id is empty")
)

// Route is the path a turn takes through the graph.
type Route string

const (
	RouteIntro     Route = "intro"
	RouteBooking   Route = "booking"
	RouteRetrieval Route = "retrieval"
)

type GraphInput struct {
	SessionID string
	Text      string
}

// GraphOutput carries the generated reply. Completion.Stream, when set,
// belongs to the caller.
type GraphOutput struct {
	Completion *contractx.Completion
	Template   prompt.Key
	Intent     statex.Intent
	Committed  bool
}

type GraphState struct {
	SessionID string
	Text      string
	Now       time.Time

	// Session is a private copy; nothing is persisted until commit.
	Session *statex.Session
	Route   Route

	Records    []string
	Template   prompt.Key
	Prompt     string
	Completion *contractx.Completion
	Committed  bool
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		SessionID: sessionID,
		Text:      text,
		Now:       nowFn().UTC(),
	}, nil
}
