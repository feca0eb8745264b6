// Package batch validates a whole set of file specs up front and, only if
// every one is valid, extracts them in order into an output sink while
// tracking the document's size budget.
package batch

import (
	"fmt"

	"github.com/fakeyudi/snipdoc/internal/config"
)

// Item is one file-spec token in processing order.
type Item struct {
	Token string
	// Header is emitted immediately before this item's block; empty for none.
	Header string
	// Section is the 1-based owning section in config mode, 0 otherwise.
	Section       int
	SectionHeader string
}

// Label identifies the item in error reports.
func (it Item) Label() string {
	if it.Section == 0 {
		return it.Token
	}
	if it.SectionHeader != "" {
		return fmt.Sprintf("section %d (%q): %s", it.Section, it.SectionHeader, it.Token)
	}
	return fmt.Sprintf("section %d: %s", it.Section, it.Token)
}

// Plan is an ordered batch.
type Plan []Item

// FromArgs builds a flat-mode plan: the Nth header precedes the Nth token
// and applies to that token only. Surplus headers are ignored.
func FromArgs(tokens, headers []string) Plan {
	plan := make(Plan, len(tokens))
	for i, tok := range tokens {
		plan[i] = Item{Token: tok}
		if i < len(headers) {
			plan[i].Header = headers[i]
		}
	}
	return plan
}

// FromSections builds a config-mode plan: each section's header is emitted
// once, before the section's first file.
func FromSections(sections []config.Section) Plan {
	var plan Plan
	for i, sec := range sections {
		for j, tok := range sec.Files {
			it := Item{Token: tok, Section: i + 1, SectionHeader: sec.Header}
			if j == 0 {
				it.Header = sec.Header
			}
			plan = append(plan, it)
		}
	}
	return plan
}
