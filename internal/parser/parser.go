package parser

import (
	"fmt"

	"go.uber.org/zap"

	"logicle/internal/lexicon"
	"logicle/internal/template"
	"logicle/internal/term"
	"logicle/internal/token"
)

// Session is the retained state of one finished translation: the document
// together with the dictionary that produced it and the language that was
// committed, for persistence and reuse.
type Session struct {
	Doc  *term.Document
	Dict *template.Dictionary
	Lang lexicon.Language
}

// Translate parses one source document. It always returns the (possibly
// partial) document together with every recorded diagnostic; the error is
// non-nil when any diagnostic was recorded and carries the deepest one as
// the representative message.
func Translate(src string, opts Options) (*term.Document, []Diag, error) {
	s, diags, err := TranslateSession(src, opts)
	return s.Doc, diags, err
}

// TranslateSession is Translate, keeping the dictionary the run built.
func TranslateSession(src string, opts Options) (*Session, []Diag, error) {
	ctx := NewContext(opts)
	toks := token.NewNormalizer().Normalize(token.Scan(src))
	c := newCursor(toks)

	doc := ctx.parseDocument(c)
	s := &Session{Doc: doc, Dict: ctx.Dict, Lang: ctx.Lex.Lang}

	diags := ctx.Errors.Diags()
	if len(diags) > 0 {
		rep, _ := ctx.Errors.Deepest()
		ctx.Log.Debug("translation finished with errors",
			zap.String("id", ctx.ID),
			zap.Int("diagnostics", len(diags)))
		return s, diags, fmt.Errorf("translation: %s", rep)
	}
	ctx.Log.Debug("translation finished",
		zap.String("id", ctx.ID),
		zap.Int("kbs", len(doc.KBs)),
		zap.Int("scenarios", len(doc.Scenarios)),
		zap.Int("queries", len(doc.Queries)))
	return s, nil, nil
}
