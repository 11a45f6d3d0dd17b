package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	contractx "github.com/tanpawarit/chative-ticket-agent/agent/contract"
)

func TestChatTaggerParsesEntities(t *testing.T) {
	t.Parallel()

	m := &fakeChatModel{reply: `{"entities":[{"word":"Ivan","entity":"B-PER"},{"word":"Petrov","entity":"I-PER"}]}`}
	tagger, err := NewChatTagger(context.Background(), m)
	if err != nil {
		t.Fatalf("NewChatTagger() error = %v", err)
	}

	got, err := tagger.Tag(context.Background(), "I am Ivan Petrov")
	if err != nil {
		t.Fatalf("Tag() error = %v", err)
	}
	want := []contractx.Entity{{Word: "Ivan", Label: "B-PER"}, {Word: "Petrov", Label: "I-PER"}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Tag() = %+v, want %+v", got, want)
	}

	if len(m.gotInput) != 2 || m.gotInput[1].Content != "I am Ivan Petrov" {
		t.Fatalf("model input = %+v", m.gotInput)
	}
	if !strings.Contains(m.gotInput[0].Content, `{"entities":[]}`) {
		t.Fatalf("system prompt braces were not unescaped: %q", m.gotInput[0].Content)
	}
}

func TestChatTaggerRejectsIncompleteEntities(t *testing.T) {
	t.Parallel()

	tagger, err := NewChatTagger(context.Background(), &fakeChatModel{reply: `{"entities":[{"word":"","entity":"B-PER"}]}`})
	if err != nil {
		t.Fatalf("NewChatTagger() error = %v", err)
	}
	if _, err := tagger.Tag(context.Background(), "hi"); !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("Tag() error = %v, want ErrSchemaViolation", err)
	}
}

func TestChatTaggerModelFailure(t *testing.T) {
	t.Parallel()

	tagger, err := NewChatTagger(context.Background(), &fakeChatModel{err: errors.New("down")})
	if err != nil {
		t.Fatalf("NewChatTagger() error = %v", err)
	}
	if _, err := tagger.Tag(context.Background(), "hi"); !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("Tag() error = %v, want ErrModelInvoke", err)
	}
}
