package llm

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/chative-ticket-agent/agent/contract"
)

func TestChatGeneratorText(t *testing.T) {
	t.Parallel()

	m := &fakeChatModel{reply: "Which city?"}
	g, err := NewChatGenerator(m)
	if err != nil {
		t.Fatalf("NewChatGenerator() error = %v", err)
	}

	got, err := g.Generate(context.Background(), "CTX\n### Instruction:\nBUY\n### Response:\n", false, []string{"### Instruction:"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got.IsStream() || got.Text != "Which city?" {
		t.Fatalf("Generate() = %+v", got)
	}
	if len(m.gotInput) != 1 || m.gotInput[0].Role != schema.User || !strings.HasPrefix(m.gotInput[0].Content, "CTX") {
		t.Fatalf("model input = %+v", m.gotInput)
	}
	if len(m.gotStop) != 1 || m.gotStop[0] != "### Instruction:" {
		t.Fatalf("stop = %v", m.gotStop)
	}
}

func TestChatGeneratorStreamSkipsEmptyChunks(t *testing.T) {
	t.Parallel()

	g, _ := NewChatGenerator(&fakeChatModel{chunks: []string{"Happy", "", " flight", "!"}})
	got, err := g.Generate(context.Background(), "p", true, nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !got.IsStream() {
		t.Fatalf("Generate(stream) returned text %q", got.Text)
	}
	defer got.Close()

	var sb strings.Builder
	for {
		tok, err := got.Stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Recv() error = %v", err)
		}
		if tok == "" {
			t.Fatalf("stream yielded an empty token")
		}
		sb.WriteString(tok)
	}
	if sb.String() != "Happy flight!" {
		t.Fatalf("streamed %q", sb.String())
	}
}

func TestChatGeneratorWrapsModelErrors(t *testing.T) {
	t.Parallel()

	g, _ := NewChatGenerator(&fakeChatModel{err: errors.New("503")})
	if _, err := g.Generate(context.Background(), "p", false, nil); !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("Generate() error = %v, want ErrModelInvoke", err)
	}
	if _, err := g.Generate(context.Background(), "p", true, nil); !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("Generate(stream) error = %v, want ErrModelInvoke", err)
	}
}
