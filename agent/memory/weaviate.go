package memory

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/chative-ticket-agent/agent/contract"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

type WeaviateConfig struct {
	URL       string `envconfig:"URL" default:"http://localhost:8080"`
	ClassName string `split_words:"true" default:"TicketBooking"`
}

const (
	recordProperty    = "record"
	createdAtProperty = "createdAt"
)

// WeaviateIndex stores booking vectors in a Weaviate class configured with
// the l2-squared metric and no server-side vectorizer.
type WeaviateIndex struct {
	client    *weaviate.Client
	className string
}

func NewWeaviateClient(cfg WeaviateConfig) (*weaviate.Client, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid weaviate url %q", contractx.ErrValidation, cfg.URL)
	}
	client, err := weaviate.NewClient(weaviate.Config{
		Host:   u.Host,
		Scheme: u.Scheme,
	})
	if err != nil {
		return nil, fmt.Errorf("create weaviate client: %w", err)
	}
	return client, nil
}

func NewWeaviateIndex(client *weaviate.Client, className string) (*WeaviateIndex, error) {
	if client == nil {
		return nil, errors.New("weaviate client is required")
	}
	if className == "" {
		return nil, fmt.Errorf("%w: class name is required", contractx.ErrValidation)
	}
	return &WeaviateIndex{client: client, className: className}, nil
}

// BookingClass is the schema used for stored bookings.
func BookingClass(name string) *models.Class {
	return &models.Class{
		Class:       name,
		Description: "Confirmed ticket bookings, one JSON record per object.",
		Vectorizer:  "none",
		VectorIndexConfig: map[string]interface{}{
			"distance": "l2-squared",
		},
		Properties: []*models.Property{
			{
				Name:         recordProperty,
				DataType:     []string{"text"},
				Description:  "Serialized booking.",
				Tokenization: "word",
			},
			{
				Name:        createdAtProperty,
				DataType:    []string{"date"},
				Description: "When the booking was committed.",
			},
		},
	}
}

// EnsureClass creates the booking class unless it already exists.
func (w *WeaviateIndex) EnsureClass(ctx context.Context) error {
	if _, err := w.client.Schema().ClassGetter().WithClassName(w.className).Do(ctx); err == nil {
		return nil
	}
	log.Ctx(ctx).Info().Str("class", w.className).Msg("creating weaviate class")
	if err := w.client.Schema().ClassCreator().WithClass(BookingClass(w.className)).Do(ctx); err != nil {
		return fmt.Errorf("create weaviate class %s: %w", w.className, err)
	}
	return nil
}

func (w *WeaviateIndex) Add(ctx context.Context, text string, vector []float32) error {
	_, err := w.client.Data().Creator().
		WithClassName(w.className).
		WithID(uuid.NewString()).
		WithProperties(map[string]interface{}{
			recordProperty:    text,
			createdAtProperty: time.Now().UTC().Format(time.RFC3339),
		}).
		WithVector(vector).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("weaviate create object: %w", err)
	}
	return nil
}

func (w *WeaviateIndex) Search(ctx context.Context, vector []float32, k int) ([]contractx.Candidate, error) {
	nearVector := w.client.GraphQL().NearVectorArgBuilder().WithVector(vector)

	result, err := w.client.GraphQL().Get().
		WithClassName(w.className).
		WithFields(
			graphql.Field{Name: recordProperty},
			graphql.Field{Name: "_additional", Fields: []graphql.Field{{Name: "distance"}}},
		).
		WithNearVector(nearVector).
		WithLimit(k).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("weaviate near vector: %w", err)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("weaviate near vector: %s", result.Errors[0].Message)
	}
	return parseNearVector(result.Data, w.className)
}

// parseNearVector reads Get.<class>[].{record, _additional.distance}.
func parseNearVector(data map[string]models.JSONObject, className string) ([]contractx.Candidate, error) {
	get, ok := data["Get"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: response has no Get block", contractx.ErrSchemaViolation)
	}
	items, ok := get[className].([]interface{})
	if !ok {
		if get[className] == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: class %s is not a list", contractx.ErrSchemaViolation, className)
	}

	out := make([]contractx.Candidate, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		text, _ := obj[recordProperty].(string)
		additional, _ := obj["_additional"].(map[string]interface{})
		distance, ok := additional["distance"].(float64)
		if !ok {
			return nil, fmt.Errorf("%w: object without distance", contractx.ErrSchemaViolation)
		}
		out = append(out, contractx.Candidate{Text: text, Distance: distance})
	}
	return out, nil
}
