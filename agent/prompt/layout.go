package prompt

import (
	"fmt"
	"strings"
)

const (
	InstructionMarker = "### Instruction:"
	InputMarker       = "### Input:"
	ResponseMarker    = "### Response:"
)

// Build lays out a completion prompt: context, the user's instruction, an
// optional input block of records, then the response marker.
func Build(context, utterance string, records []string) string {
	var sb strings.Builder
	sb.WriteString(context)
	sb.WriteString("\n")
	sb.WriteString(InstructionMarker)
	sb.WriteString("\n")
	sb.WriteString(utterance)
	sb.WriteString("\n")
	if len(records) > 0 {
		sb.WriteString(InputMarker)
		sb.WriteString("\n")
		for i, r := range records {
			fmt.Fprintf(&sb, "Ticket info %d: %s\n", i, r)
		}
	}
	sb.WriteString(ResponseMarker)
	sb.WriteString("\n")
	return sb.String()
}
