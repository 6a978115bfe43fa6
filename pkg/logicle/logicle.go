// Package logicle is the public surface of the translator. It re-exports
// the types and entry points that embedding programs need, so they can
// translate documents and run queries without importing the internal
// packages.
package logicle

import (
	"context"

	"go.uber.org/zap"

	"logicle/internal/engine"
	"logicle/internal/lexicon"
	"logicle/internal/parser"
	"logicle/internal/term"
)

// Language selects a surface language.
type Language = lexicon.Language

const (
	English Language = lexicon.English
	French  Language = lexicon.French
	Italian Language = lexicon.Italian
	Spanish Language = lexicon.Spanish
)

// Options configures a translation. The zero value probes the document's
// introducer phrases for the language and uses the standard defaults.
type Options = parser.Options

// Diag is one translation diagnostic with its source line.
type Diag = parser.Diag

// Document is a translated document: its dictionary listing, knowledge
// bases, scenarios and queries.
type Document = term.Document

// Result holds the answers of one evaluated query.
type Result = engine.Result

// Translate parses a document into clauses. On failure the returned
// diagnostics list every recorded error and the error wraps the deepest
// one; the partial document is still returned.
func Translate(src string, opts Options) (*Document, []Diag, error) {
	return parser.Translate(src, opts)
}

// Render returns the translated document as a clause listing.
func Render(doc *Document) string {
	return doc.Listing()
}

// Eval translates nothing: it runs a named query of an already translated
// document against one of its scenarios and returns the derived answers.
func Eval(ctx context.Context, doc *Document, scenario, query string, logger *zap.Logger) (*Result, error) {
	return engine.New(logger).Eval(ctx, doc, scenario, query)
}
