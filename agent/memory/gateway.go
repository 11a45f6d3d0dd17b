// Package memory stores confirmed bookings as embedded text and answers
// nearest-neighbour queries over them.
package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/chative-ticket-agent/agent/contract"
)

// Index is a vector store. Search returns at most k hits ordered by
// ascending squared euclidean distance.
type Index interface {
	Add(ctx context.Context, text string, vector []float32) error
	Search(ctx context.Context, vector []float32, k int) ([]contractx.Candidate, error)
}

// Gateway embeds records and queries before handing them to an Index.
type Gateway struct {
	embedder contractx.Embedder
	index    Index
}

var _ contractx.MemoryGateway = (*Gateway)(nil)

func NewGateway(embedder contractx.Embedder, index Index) (*Gateway, error) {
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if index == nil {
		return nil, errors.New("index is required")
	}
	return &Gateway{embedder: embedder, index: index}, nil
}

func (g *Gateway) Append(ctx context.Context, record string) error {
	if strings.TrimSpace(record) == "" {
		return fmt.Errorf("%w: empty record", contractx.ErrValidation)
	}
	vec, err := g.embedOne(ctx, record)
	if err != nil {
		return err
	}
	if err := g.index.Add(ctx, record, vec); err != nil {
		return fmt.Errorf("index record: %w", err)
	}
	return nil
}

func (g *Gateway) Query(ctx context.Context, text string, k int) ([]contractx.Candidate, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be > 0", contractx.ErrValidation)
	}
	vec, err := g.embedOne(ctx, text)
	if err != nil {
		return nil, err
	}
	out, err := g.index.Search(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	return out, nil
}

func (g *Gateway) embedOne(ctx context.Context, text string) ([]float32, error) {
	vecs, err := g.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("%w: embed: %v", contractx.ErrModelInvoke, err)
	}
	if len(vecs) != 1 || len(vecs[0]) == 0 {
		return nil, fmt.Errorf("%w: embedder returned %d vectors", contractx.ErrSchemaViolation, len(vecs))
	}
	return vecs[0], nil
}
