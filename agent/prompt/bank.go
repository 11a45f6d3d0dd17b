package prompt

import (
	"context"
	"embed"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/chative-ticket-agent/agent/contract"
)

//go:embed template/*.txt
var templateFS embed.FS

// Key names one context template. Slot templates use the slot name as key.
type Key string

const (
	KeyIntro            Key = "intro"
	KeyBookingConfirmed Key = "booking_confirmed"
	KeyShowTicket       Key = "show_ticket"
)

// Placeholder names supplied by the orchestrator.
const (
	VarCities    = "cities"
	VarTicketIDs = "ticket_ids"
	VarBooking   = "booking"
)

var placeholderRe = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

type entry struct {
	template einoprompt.ChatTemplate
	required []string
}

// Bank renders role-priming contexts from the embedded template files.
type Bank struct {
	entries map[Key]entry
}

// LoadBank parses every embedded template once. The placeholders found in a
// template become its required data.
func LoadBank() (*Bank, error) {
	files, err := templateFS.ReadDir("template")
	if err != nil {
		return nil, fmt.Errorf("read template dir: %w", err)
	}

	b := &Bank{entries: make(map[Key]entry, len(files))}
	for _, f := range files {
		if f.IsDir() || path.Ext(f.Name()) != ".txt" {
			continue
		}
		raw, err := templateFS.ReadFile(path.Join("template", f.Name()))
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", f.Name(), err)
		}
		text := strings.TrimSpace(string(raw))
		key := Key(strings.TrimSuffix(f.Name(), ".txt"))
		b.entries[key] = entry{
			template: einoprompt.FromMessages(schema.FString, schema.SystemMessage(text)),
			required: placeholders(text),
		}
	}
	return b, nil
}

func MustLoadBank() *Bank {
	b, err := LoadBank()
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Bank) Has(key Key) bool {
	_, ok := b.entries[key]
	return ok
}

// Required lists the placeholders a template needs, sorted.
func (b *Bank) Required(key Key) []string {
	e, ok := b.entries[key]
	if !ok {
		return nil
	}
	return append([]string(nil), e.required...)
}

// Render fills the template for key. Every placeholder must be present in
// data with a non-empty value.
func (b *Bank) Render(ctx context.Context, key Key, data map[string]any) (string, error) {
	e, ok := b.entries[key]
	if !ok {
		return "", fmt.Errorf("%w: template %q", contractx.ErrPromptMissing, key)
	}
	for _, name := range e.required {
		v, ok := data[name]
		if !ok || v == nil || fmt.Sprint(v) == "" {
			return "", fmt.Errorf("%w: template %q needs %q", contractx.ErrTemplateData, key, name)
		}
	}

	msgs, err := e.template.Format(ctx, data)
	if err != nil {
		return "", fmt.Errorf("%w: format template %q: %v", contractx.ErrTemplateData, key, err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("%w: template %q rendered nothing", contractx.ErrTemplateData, key)
	}
	return msgs[0].Content, nil
}

func placeholders(text string) []string {
	seen := map[string]struct{}{}
	for _, m := range placeholderRe.FindAllStringSubmatch(text, -1) {
		seen[m[1]] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
