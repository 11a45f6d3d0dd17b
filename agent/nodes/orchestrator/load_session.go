package orchestratornode

import (
	"context"
	"errors"
	"fmt"
	"time"

	contractx "github.com/tanpawarit/chative-ticket-agent/agent/contract"
	statex "github.com/tanpawarit/chative-ticket-agent/agent/state"
)

// LoadSession loads the session, or starts a fresh idle one, and works on a
// clone from here on.
func LoadSession(ctx context.Context, in *GraphState, store statex.Store, streaming bool) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	sess, err := LoadOrCreate(ctx, store, in.SessionID, streaming, in.Now)
	if err != nil {
		return nil, err
	}
	in.Session = sess.Clone()
	in.Session.EnsureSlots()
	return in, nil
}

func LoadOrCreate(ctx context.Context, store statex.Store, sessionID string, streaming bool, now time.Time) (*statex.Session, error) {
	sess, err := store.Load(ctx, sessionID)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, statex.ErrStateNotFound) {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	return statex.NewSession(sessionID, streaming, now), nil
}
