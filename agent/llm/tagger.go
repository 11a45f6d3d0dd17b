package llm

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/chative-ticket-agent/agent/contract"
)

// Braces are doubled because the prompt is an FString template.
const taggerSystemPrompt = `You are a named entity tagger. Split the user text into word pieces and
label person names with BIO tags: B-PER for the first piece of a name, I-PER for the following
pieces. Skip every other token. A piece that continues the previous word starts with "##".
Reply with JSON only, no prose, in the form
{{"entities":[{{"word":"Ivan","entity":"B-PER"}},{{"word":"Petrov","entity":"I-PER"}}]}}.
Return {{"entities":[]}} when there is no person name.`

type taggerOutput struct {
	Entities []contractx.Entity `json:"entities"`
}

// ChatTagger asks a chat model for BIO person tags and parses its JSON reply.
type ChatTagger struct {
	runner compose.Runnable[map[string]any, taggerOutput]
}

var _ contractx.EntityTagger = (*ChatTagger)(nil)

func NewChatTagger(ctx context.Context, chatModel einomodel.BaseChatModel) (*ChatTagger, error) {
	runner, err := compileStructuredGraph[taggerOutput](ctx, chatModel, taggerSystemPrompt, "tagger.model_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile tagger graph: %v", contractx.ErrModelInvoke, err)
	}
	return &ChatTagger{runner: runner}, nil
}

func (t *ChatTagger) Tag(ctx context.Context, text string) ([]contractx.Entity, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is required", contractx.ErrValidation)
	}
	out, err := t.runner.Invoke(ctx, map[string]any{"input": text})
	if err != nil {
		return nil, fmt.Errorf("%w: tagger invoke: %v", contractx.ErrModelInvoke, err)
	}
	for i, e := range out.Entities {
		if strings.TrimSpace(e.Word) == "" || strings.TrimSpace(e.Label) == "" {
			return nil, fmt.Errorf("%w: entity %d is incomplete", contractx.ErrSchemaViolation, i)
		}
	}
	return out.Entities, nil
}

func compileStructuredGraph[T any](
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
	graphName string,
) (compose.Runnable[map[string]any, T], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage("{input}"),
	)

	parser := schema.NewMessageJSONParser[T](&schema.MessageJSONParseConfig{
		ParseFrom: schema.MessageParseFromContent,
	})

	graph := compose.NewGraph[map[string]any, T]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add structured prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add structured model node: %w", err)
	}
	if err := graph.AddLambdaNode("parse_json", compose.MessageParser(parser)); err != nil {
		return nil, fmt.Errorf("add structured parser node: %w", err)
	}

	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add structured edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add structured edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", "parse_json"); err != nil {
		return nil, fmt.Errorf("add structured edge model->parse: %w", err)
	}
	if err := graph.AddEdge("parse_json", compose.END); err != nil {
		return nil, fmt.Errorf("add structured edge parse->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName(graphName))
	if err != nil {
		return nil, fmt.Errorf("compile structured graph: %w", err)
	}
	return runner, nil
}
