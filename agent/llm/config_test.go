package llm

import (
	"errors"
	"testing"

	contractx "github.com/tanpawarit/chative-ticket-agent/agent/contract"
)

func TestConfigTaggerFallsBackToModel(t *testing.T) {
	t.Parallel()

	c := Config{APIKey: "k", Model: "meta-llama/llama-3.1-8b-instruct", MaxCompletionToken: 256, Temperature: 0.7}
	if got := c.TaggerConfig().Model; got != c.Model {
		t.Fatalf("TaggerConfig().Model = %q, want %q", got, c.Model)
	}
	if got := c.TaggerConfig().Temperature; got != 0 {
		t.Fatalf("TaggerConfig().Temperature = %v, want 0", got)
	}

	c.TaggerModel = "openai/gpt-4o-mini"
	if got := c.TaggerConfig().Model; got != "openai/gpt-4o-mini" {
		t.Fatalf("TaggerConfig().Model = %q", got)
	}
	if got := *c.GenerationConfig().MaxCompletionToken; got != 256 {
		t.Fatalf("GenerationConfig().MaxCompletionToken = %d", got)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	if err := (Config{Model: "m", MaxCompletionToken: 1}).Validate(); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("Validate() without key = %v, want ErrValidation", err)
	}
	if err := (Config{APIKey: "k", Model: "m", MaxCompletionToken: 1}).Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}
