package extract

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/chative-ticket-agent/agent/contract"
)

// PersonName returns the first full person name found by the tagger.
// A tagger failure is logged and reported as a miss.
func PersonName(ctx context.Context, text string, tagger contractx.EntityTagger) (string, bool) {
	if tagger == nil || strings.TrimSpace(text) == "" {
		return "", false
	}
	entities, err := tagger.Tag(ctx, text)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("entity tagger failed, treating name as absent")
		return "", false
	}
	names := JoinPersonNames(entities)
	if len(names) == 0 {
		return "", false
	}
	return names[0], true
}

// JoinPersonNames groups consecutive PER tokens into names. B-PER opens a new
// name and "##" pieces are glued onto the previous token.
func JoinPersonNames(entities []contractx.Entity) []string {
	var names []string
	var tokens []string

	flush := func() {
		if len(tokens) > 0 {
			names = append(names, strings.ReplaceAll(strings.Join(tokens, " "), " ##", ""))
			tokens = nil
		}
	}

	for _, e := range entities {
		if !strings.Contains(e.Label, "PER") {
			continue
		}
		if e.Label == "B-PER" {
			flush()
		}
		tokens = append(tokens, strings.TrimSpace(e.Word))
	}
	flush()
	return names
}
