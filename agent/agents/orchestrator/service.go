package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cloudwego/eino/compose"
	contractx "github.com/tanpawarit/chative-ticket-agent/agent/contract"
	nodex "github.com/tanpawarit/chative-ticket-agent/agent/nodes/orchestrator"
	"github.com/tanpawarit/chative-ticket-agent/agent/prompt"
	"github.com/tanpawarit/chative-ticket-agent/agent/retrieval"
	statex "github.com/tanpawarit/chative-ticket-agent/agent/state"
	logx "github.com/tanpawarit/chative-ticket-agent/pkg/logger"
	"github.com/tanpawarit/chative-ticket-agent/pkg/metrics"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidSession = nodex.ErrInvalidSession
)

// Reply is one generated answer. A streamed reply must be drained or closed.
type Reply = nodex.GraphOutput

// Deps are the collaborators of a dialogue turn.
type Deps struct {
	Store     statex.Store
	Inventory contractx.Inventory
	Memory    contractx.MemoryGateway
	Generator contractx.Generator
	Tagger    contractx.EntityTagger
	Bank      *prompt.Bank
}

type Orchestrator struct {
	store     statex.Store
	inventory contractx.Inventory
	memory    contractx.MemoryGateway
	generator contractx.Generator
	tagger    contractx.EntityTagger
	bank      *prompt.Bank
	gate      *retrieval.Gate

	streaming bool
	stop      []string

	locks       *sessionLocks
	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	now func() time.Time
}

func New(deps Deps, cfg Config) (*Orchestrator, error) {
	if deps.Store == nil {
		return nil, errors.New("session store is required")
	}
	if deps.Inventory == nil {
		return nil, errors.New("inventory is required")
	}
	if deps.Memory == nil {
		return nil, errors.New("memory gateway is required")
	}
	if deps.Generator == nil {
		return nil, errors.New("generator is required")
	}
	if deps.Tagger == nil {
		return nil, errors.New("entity tagger is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	bank := deps.Bank
	if bank == nil {
		var err error
		if bank, err = prompt.LoadBank(); err != nil {
			return nil, err
		}
	}
	gate, err := retrieval.NewGate(deps.Memory, cfg.MemoryTopK, cfg.MemoryThreshold)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		store:     deps.Store,
		inventory: deps.Inventory,
		memory:    deps.Memory,
		generator: deps.Generator,
		tagger:    deps.Tagger,
		bank:      bank,
		gate:      gate,
		streaming: cfg.Streaming,
		stop:      append([]string(nil), cfg.Stop...),
		locks:     newSessionLocks(),
		now:       time.Now,
	}

	graphRunner, err := o.compileHandleMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// HandleMessage runs one dialogue turn. Turns of the same session are
// serialized; the session is saved before the reply is returned.
func (o *Orchestrator) HandleMessage(ctx context.Context, sessionID string, text string) (Reply, error) {
	unlock := o.locks.lock(sessionID)
	defer unlock()

	logger := logx.Component("orchestrator").With().Str("session_id", sessionID).Logger()
	ctx = logger.WithContext(ctx)

	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: sessionID,
		Text:      text,
	})
	if err != nil {
		metrics.TurnsTotal.WithLabelValues("none", "error").Inc()
		logger.Warn().Err(err).Msg("turn failed")
		return Reply{}, err
	}

	metrics.TurnsTotal.WithLabelValues(string(out.Template), "ok").Inc()
	return out, nil
}

// SetStreaming stores the caller's streaming preference for the session.
func (o *Orchestrator) SetStreaming(ctx context.Context, sessionID string, streaming bool) error {
	unlock := o.locks.lock(sessionID)
	defer unlock()

	sess, err := nodex.LoadOrCreate(ctx, o.store, sessionID, o.streaming, o.now())
	if err != nil {
		return err
	}
	sess.Streaming = streaming
	sess.Touch(o.now())
	if err := o.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session %s: %w", sessionID, err)
	}
	return nil
}

// Forget drops the session, discarding any booking in progress.
func (o *Orchestrator) Forget(ctx context.Context, sessionID string) error {
	unlock := o.locks.lock(sessionID)
	defer unlock()
	return o.store.Delete(ctx, sessionID)
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// sessionLocks hands out one mutex per session id and drops it once unused.
type sessionLocks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{entries: make(map[string]*lockEntry)}
}

func (l *sessionLocks) lock(id string) func() {
	l.mu.Lock()
	e, ok := l.entries[id]
	if !ok {
		e = &lockEntry{}
		l.entries[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entries, id)
		}
		l.mu.Unlock()
	}
}
