package orchestrator

import (
	"fmt"
	"time"

	contractx "github.com/tanpawarit/chative-ticket-agent/agent/contract"
	"github.com/tanpawarit/chative-ticket-agent/agent/prompt"
	"github.com/tanpawarit/chative-ticket-agent/agent/retrieval"
)

// Config is read with the AGENT_ prefix.
type Config struct {
	MemoryTopK      int      `split_words:"true" default:"1"`
	MemoryThreshold float64  `split_words:"true" default:"1.5"`
	Streaming       bool     `default:"true"`
	Stop            []string `default:"### Instruction:"`

	SessionBackend   string        `split_words:"true" default:"memory"`
	SessionTTL       time.Duration `split_words:"true" default:"24h"`
	InventoryBackend string        `split_words:"true" default:"memory"`
	MemoryBackend    string        `split_words:"true" default:"memory"`
	SeedFlights      int           `split_words:"true" default:"30"`
	MetricsAddr      string        `split_words:"true"`
}

func DefaultConfig() Config {
	return Config{
		MemoryTopK:      retrieval.DefaultTopK,
		MemoryThreshold: retrieval.DefaultThreshold,
		Streaming:       true,
		Stop:            []string{prompt.InstructionMarker},
	}
}

func (c Config) Validate() error {
	if c.MemoryTopK <= 0 {
		return fmt.Errorf("%w: memory top k must be > 0", contractx.ErrValidation)
	}
	if c.MemoryThreshold <= 0 {
		return fmt.Errorf("%w: memory threshold must be > 0", contractx.ErrValidation)
	}
	return nil
}
