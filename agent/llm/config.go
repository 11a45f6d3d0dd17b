package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	contractx "github.com/tanpawarit/chative-ticket-agent/agent/contract"
	openrouterx "github.com/tanpawarit/chative-ticket-agent/pkg/openrouter"
)

// Config is read with the LLM_ prefix. The tagger and embedding settings
// fall back to the generation endpoint when left empty.
type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" required:"true"`
	Model              string        `envconfig:"MODEL" required:"true"`
	MaxCompletionToken int           `split_words:"true" default:"512"`
	Temperature        float32       `split_words:"true" default:"0.5"`
	Timeout            time.Duration `split_words:"true" default:"30s"`
	SiteURL            string        `split_words:"true"`
	SiteName           string        `split_words:"true"`

	TaggerModel       string  `split_words:"true"`
	TaggerTemperature float32 `split_words:"true" default:"0"`

	EmbeddingModel   string `split_words:"true" default:"text-embedding-3-small"`
	EmbeddingBaseURL string `split_words:"true"`
	EmbeddingAPIKey  string `split_words:"true"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: llm api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: generation model is required", contractx.ErrValidation)
	}
	if c.MaxCompletionToken <= 0 {
		return fmt.Errorf("%w: max completion token must be > 0", contractx.ErrValidation)
	}
	return nil
}

func (c Config) base(modelName string, temp float32) openrouterx.Config {
	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}

// GenerationConfig is the chat model used to answer the user.
func (c Config) GenerationConfig() openrouterx.Config {
	return c.base(strings.TrimSpace(c.Model), c.Temperature)
}

// TaggerConfig is the chat model used for person name tagging.
func (c Config) TaggerConfig() openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	if v := strings.TrimSpace(c.TaggerModel); v != "" {
		modelName = v
	}
	return c.base(modelName, c.TaggerTemperature)
}

// EmbeddingClient returns the SDK client for the embeddings endpoint.
func (c Config) EmbeddingClient() *openai.Client {
	cfg := c.base(strings.TrimSpace(c.EmbeddingModel), 0)
	if v := strings.TrimSpace(c.EmbeddingBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(c.EmbeddingAPIKey); v != "" {
		cfg.APIKey = v
	}
	return openrouterx.NewClient(cfg)
}
