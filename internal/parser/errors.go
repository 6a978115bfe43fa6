// Package parser turns a normalized token stream into a translated
// Document: it parses the declaration header into the dictionary, then
// the knowledge-base, scenario and query blocks, delegating phrase
// recognition to the template matcher and boolean structure to the
// indentation algorithm in body.go. All mutable translation state lives
// in a Context created fresh per document.
package parser

import (
	"fmt"
	"strings"

	"logicle/internal/token"
)

// Diag is one recorded parse failure.
type Diag struct {
	Message string
	Line    int
	Context []token.Token
}

// String renders the diagnostic with the 0-based-adjusted line number and
// the literal token context, newline tokens shown as \n.
func (d Diag) String() string {
	line := d.Line - 1
	if line < 0 {
		line = 0
	}
	ctx := token.Render(d.Context)
	if ctx == "" {
		return fmt.Sprintf("%s at line %d", d.Message, line)
	}
	return fmt.Sprintf("%s at line %d after %q", d.Message, line, ctx)
}

// Reporter accumulates every failed parse alternative during a single
// translation, most recent first. The entry with the greatest line number
// marks the furthest parse progress and is surfaced as the representative
// error. A Reporter must be cleared (or recreated) between documents.
type Reporter struct {
	diags []Diag
}

// Record prepends a diagnostic.
func (r *Reporter) Record(msg string, line int, ctx []token.Token) {
	window := ctx
	if len(window) > 12 {
		window = window[:12]
	}
	r.diags = append([]Diag{{Message: msg, Line: line, Context: window}}, r.diags...)
}

// Recordf is Record with formatting.
func (r *Reporter) Recordf(line int, ctx []token.Token, format string, args ...any) {
	r.Record(fmt.Sprintf(format, args...), line, ctx)
}

// Diags returns all entries, most recent first.
func (r *Reporter) Diags() []Diag {
	return r.diags
}

// Deepest selects the representative diagnostic: the entry with the
// greatest line number, ties going to the most recently recorded.
func (r *Reporter) Deepest() (Diag, bool) {
	if len(r.diags) == 0 {
		return Diag{}, false
	}
	best := r.diags[0]
	for _, d := range r.diags[1:] {
		if d.Line > best.Line {
			best = d
		}
	}
	return best, true
}

// Clear drops all entries so the reporter can serve another translation.
func (r *Reporter) Clear() {
	r.diags = nil
}

// Summary renders the representative diagnostic, or "" when none exists.
func (r *Reporter) Summary() string {
	d, ok := r.Deepest()
	if !ok {
		return ""
	}
	return strings.TrimSpace(d.String())
}
