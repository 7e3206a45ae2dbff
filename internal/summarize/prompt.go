// Package summarize builds the analyst prompt fed to the configured LLM
// provider.
package summarize

import (
	"fmt"
	"strings"
	"time"

	"aer-digest/internal/types"
)

// DefaultExcerptLimit caps how many bytes of a raw report make it into the
// prompt. Daily files can run large; the head is enough for a digest.
const DefaultExcerptLimit = 8000

const instructions = `You are an oil & gas analyst.
Summarize today's AER releases (ST1 well licenses, ST100 pipeline construction notices).
Provide:
- Key totals and notable entries
- Any unusual spikes vs typical days
- Operator or region callouts
- Short, actionable insights`

// Item is one dataset excerpt feeding the digest prompt.
type Item struct {
	Dataset types.Dataset
	Excerpt string
}

// BuildPrompt assembles the summarization prompt for the given report date,
// trimming each excerpt to limit bytes. A non-positive limit falls back to
// DefaultExcerptLimit.
func BuildPrompt(day time.Time, items []Item, limit int) string {
	if limit <= 0 {
		limit = DefaultExcerptLimit
	}

	blocks := make([]string, 0, len(items))
	for _, it := range items {
		trimmed := it.Excerpt
		if len(trimmed) > limit {
			trimmed = trimmed[:limit]
		}
		blocks = append(blocks, fmt.Sprintf("Dataset %s (%s):\n%s", it.Dataset, day.Format("2006-01-02"), trimmed))
	}

	return instructions + "\n\nText:\n\n" + strings.Join(blocks, "\n")
}
