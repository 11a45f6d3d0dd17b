package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/chative-ticket-agent/agent/contract"
)

// ChatGenerator adapts an eino chat model to contract.Generator. The whole
// prompt is sent as one user message.
type ChatGenerator struct {
	model einomodel.BaseChatModel
}

var _ contractx.Generator = (*ChatGenerator)(nil)

func NewChatGenerator(m einomodel.BaseChatModel) (*ChatGenerator, error) {
	if m == nil {
		return nil, errors.New("chat model is required")
	}
	return &ChatGenerator{model: m}, nil
}

func (g *ChatGenerator) Generate(ctx context.Context, prompt string, stream bool, stop []string) (*contractx.Completion, error) {
	input := []*schema.Message{schema.UserMessage(prompt)}
	var opts []einomodel.Option
	if len(stop) > 0 {
		opts = append(opts, einomodel.WithStop(stop))
	}

	start := time.Now()
	defer func() {
		log.Ctx(ctx).Debug().
			Bool("stream", stream).
			Dur("elapsed", time.Since(start)).
			Int("prompt_len", len(prompt)).
			Msg("generation call returned")
	}()

	if !stream {
		msg, err := g.model.Generate(ctx, input, opts...)
		if err != nil {
			return nil, fmt.Errorf("%w: generate: %v", contractx.ErrModelInvoke, err)
		}
		if msg == nil {
			return nil, fmt.Errorf("%w: empty generation", contractx.ErrModelInvoke)
		}
		return &contractx.Completion{Text: msg.Content}, nil
	}

	sr, err := g.model.Stream(ctx, input, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: stream: %v", contractx.ErrModelInvoke, err)
	}
	tokens := schema.StreamReaderWithConvert(sr, func(m *schema.Message) (string, error) {
		if m == nil || m.Content == "" {
			return "", schema.ErrNoValue
		}
		return m.Content, nil
	})
	return &contractx.Completion{Stream: tokens}, nil
}
