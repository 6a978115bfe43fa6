package parser

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"logicle/internal/lexicon"
	"logicle/internal/term"
	"logicle/internal/token"
)

// headerKind identifies a matched header introducer.
type headerKind int

const (
	hNone headerKind = iota
	hTarget
	hPredicates
	hMeta
	hEvents
	hFluents
)

// parseDocument drives one whole translation: header blocks first, then
// the global dictionary sort, then the content sections. Errors are
// recorded on the context reporter; the document is always returned so
// callers can inspect partial results.
func (ctx *Context) parseDocument(c *cursor) *term.Document {
	doc := &term.Document{ID: ctx.ID, Target: ctx.Opts.DefaultTarget}

	ctx.parseHeader(c, doc)
	// Dictionary order is fixed once the whole header is known: meta
	// before plain, longer before shorter, ties lexicographic.
	ctx.Dict.Sort()
	ctx.parseContent(c, doc)

	doc.Predicates = ctx.Predicates
	doc.Events = ctx.Events
	doc.Fluents = ctx.Fluents
	doc.MetaPredicates = ctx.MetaPredicates
	doc.Types = ctx.Types()
	return doc
}

// parseHeader consumes the target pragma and the declaration blocks. The
// first matched introducer commits the document language. A failed block
// is recovered at its next period so later blocks still parse.
func (ctx *Context) parseHeader(c *cursor, doc *term.Document) {
	for !c.eof() {
		c.skipLayout()
		kind, lx, ok := ctx.matchHeaderIntro(c)
		if !ok {
			if ctx.sectionAhead(c) {
				return
			}
			ctx.Errors.Record("error in the header: unrecognized introducer phrase", c.line, c.context(6))
			skipToPeriod(c)
			continue
		}
		ctx.SetLanguage(lx.Lang)

		if kind == hTarget {
			ctx.parseTarget(c, doc)
			continue
		}
		if !c.matchPunct(":") {
			ctx.Errors.Record("error in the header: expected a colon after the block introducer", c.line, c.context(6))
			skipToPeriod(c)
			continue
		}
		var dk declKind
		switch kind {
		case hMeta:
			dk = kindMeta
		case hEvents:
			dk = kindEvent
		case hFluents:
			dk = kindFluent
		default:
			dk = kindPredicate
		}
		if err := ctx.parseDeclarationBlock(c, dk); err != nil {
			ctx.Log.Debug("header block failed",
				zap.String("id", ctx.ID),
				zap.Stringer("kind", dk),
				zap.Error(err))
			skipToPeriod(c)
		}
	}
}

// matchHeaderIntro probes the header introducers, over every language
// until one has committed. Meta goes before plain so the longer phrase
// wins.
func (ctx *Context) matchHeaderIntro(c *cursor) (headerKind, lexicon.Lexicon, bool) {
	for _, lx := range ctx.candidateLexicons() {
		switch {
		case c.matchPhrase(lx.TargetIntro):
			return hTarget, lx, true
		case c.matchAnyPhrase(lx.MetaAre):
			return hMeta, lx, true
		case c.matchAnyPhrase(lx.EventsAre):
			return hEvents, lx, true
		case c.matchAnyPhrase(lx.FluentsAre):
			return hFluents, lx, true
		case c.matchAnyPhrase(lx.PredicatesAre):
			return hPredicates, lx, true
		}
	}
	return hNone, lexicon.Lexicon{}, false
}

func (ctx *Context) candidateLexicons() []lexicon.Lexicon {
	if ctx.langFixed {
		return []lexicon.Lexicon{ctx.Lex}
	}
	return lexicon.All()
}

// parseTarget handles "the target is <dialect>."
func (ctx *Context) parseTarget(c *cursor, doc *term.Document) {
	c.skipSpaces()
	t := c.peek()
	if t.Kind != token.Word {
		ctx.Errors.Record("error in the header: expected a target dialect", c.line, c.context(6))
		skipToPeriod(c)
		return
	}
	c.next()
	doc.Target = strings.ToLower(t.Text)
	if !c.matchPunct(".") {
		ctx.Errors.Record("error in the header: the target pragma does not end with a period", c.line, c.context(6))
		skipToPeriod(c)
	}
}

// parseContent consumes knowledge-base, scenario and query sections.
// Statements outside any section accumulate in the default knowledge
// base.
func (ctx *Context) parseContent(c *cursor, doc *term.Document) {
	for !c.eof() {
		c.skipLayout()
		switch {
		case c.matchPhrase(ctx.Lex.KBIntro):
			ctx.parseKB(c, doc)
		case c.matchPhrase(ctx.Lex.ScenarioIntro):
			ctx.parseScenario(c, doc)
		case c.matchPhrase(ctx.Lex.QueryIntro):
			ctx.parseQuery(c, doc)
		default:
			if c.eof() {
				return
			}
			ctx.Errors.Record("error in the content: unrecognized section introducer", c.line, c.context(6))
			skipToPeriod(c)
		}
	}
}

// parseKB reads "the knowledge base <name> includes:" and the clause
// statements that follow, up to the next section introducer.
func (ctx *Context) parseKB(c *cursor, doc *term.Document) {
	var words []string
	for {
		if c.matchPhrase(ctx.Lex.KBInclude) {
			break
		}
		c.skipSpaces()
		t := c.peek()
		if t.Kind != token.Word {
			ctx.Errors.Record("error in the content: malformed knowledge base introducer", c.line, c.context(6))
			skipToPeriod(c)
			return
		}
		c.next()
		words = append(words, strings.ToLower(t.Text))
	}
	if !c.matchPunct(":") {
		ctx.Errors.Record("error in the content: expected a colon after the knowledge base introducer", c.line, c.context(6))
		skipToPeriod(c)
		return
	}
	name := strings.Join(words, "_")
	if name == "" {
		name = ctx.Opts.DefaultKB
	}
	kb := term.KB{Name: name}
	kb.Clauses = ctx.parseStatements(c)
	doc.KBs = append(doc.KBs, kb)
}

// parseStatements reads clause statements until a section introducer or
// end of input. Each statement gets its own name binder; a failed
// statement is recovered at its period.
func (ctx *Context) parseStatements(c *cursor) []term.Clause {
	var out []term.Clause
	for !c.eof() && !ctx.sectionAhead(c) {
		before := c.pos
		cl, err := ctx.parseStatement(c)
		if err != nil {
			skipToPeriod(c)
			if c.pos == before {
				break
			}
			continue
		}
		out = append(out, cl)
	}
	return out
}

// parseStatement reads one "head." fact or "head if body." rule.
func (ctx *Context) parseStatement(c *cursor) (term.Clause, error) {
	b := NewNameBinder()
	bp := &bodyParser{ctx: ctx, c: c, b: b}
	c.skipLayout()
	line := c.line
	headIndent := c.indent

	window := bp.collectHeadWindow()
	if len(window) == 0 {
		ctx.Errors.Record("error in the content: expected a statement", c.line, c.context(6))
		return term.Clause{}, fmt.Errorf("expected a statement at line %d", c.line)
	}
	head, err := bp.matchLiteral(window)
	if err != nil {
		return term.Clause{}, err
	}

	cl := term.Clause{Head: head, Line: line}
	if bp.matchAnyWord(ctx.Lex.If) {
		// Continuations at the head's own indentation still belong to
		// the rule; only a dedent past the head closes the body.
		body, err := bp.parseBody(headIndent)
		if err != nil {
			return term.Clause{}, err
		}
		cl.Body = body
	}
	if !c.matchPunct(".") {
		ctx.Errors.Record("error in the content: the statement does not end with a period", c.line, c.context(6))
		return term.Clause{}, fmt.Errorf("statement does not end with a period at line %d", c.line)
	}
	ctx.Log.Debug("statement translated",
		zap.String("id", ctx.ID),
		zap.Int("line", line),
		zap.String("head", cl.Head.String()))
	return cl, nil
}

// parseScenario reads "scenario <name> is:" followed by ground
// assumption facts, each on its own line and period-terminated. Every
// assumption gets a fresh binder so names never leak between facts, and
// a fact that still holds a variable after matching (a declared event
// with no time modifier, or an indefinite determiner) is rejected.
func (ctx *Context) parseScenario(c *cursor, doc *term.Document) {
	name := ctx.parseSectionName(c, "one")
	if !c.matchPunct(":") {
		ctx.Errors.Record("error in the content: expected a colon after the scenario introducer", c.line, c.context(6))
		skipToPeriod(c)
		return
	}
	sc := term.Scenario{Name: name}
	for !c.eof() && !ctx.sectionAhead(c) {
		b := NewNameBinder()
		bp := &bodyParser{ctx: ctx, c: c, b: b}
		c.skipLayout()
		window := bp.collectHeadWindow()
		if len(window) == 0 {
			break
		}
		goal, err := bp.matchLiteral(window)
		if err != nil {
			skipToPeriod(c)
			continue
		}
		if !c.matchPunct(".") {
			ctx.Errors.Record("error in the content: the assumption does not end with a period", c.line, c.context(6))
			skipToPeriod(c)
			continue
		}
		if !term.Ground(goal) {
			ctx.Errors.Record("error in the content: the assumption is not ground (an event fact needs an explicit time)", c.line, window)
			continue
		}
		sc.Assumptions = append(sc.Assumptions, goal)
	}
	doc.Scenarios = append(doc.Scenarios, sc)
}

// parseQuery reads "query <name> is:" with optional "for which <name>"
// projections binding names the body then refers to definitely, followed
// by the condition tree and a terminating period.
func (ctx *Context) parseQuery(c *cursor, doc *term.Document) {
	name := ctx.parseSectionName(c, "one")
	if !c.matchPunct(":") {
		ctx.Errors.Record("error in the content: expected a colon after the query introducer", c.line, c.context(6))
		skipToPeriod(c)
		return
	}
	b := NewNameBinder()
	bp := &bodyParser{ctx: ctx, c: c, b: b}

	for c.matchPhrase(ctx.Lex.ForWhich) {
		words := c.collectWords()
		if len(words) == 0 {
			ctx.Errors.Record("error in the content: expected a projection name", c.line, c.context(6))
			skipToPeriod(c)
			return
		}
		if _, err := b.Fresh(strings.Join(words, "_")); err != nil {
			ctx.Errors.Record(err.Error(), c.line, c.context(6))
			skipToPeriod(c)
			return
		}
		c.matchPunct(":")
		c.matchPunct(",")
	}

	bodyIndent := c.indent
	body, err := bp.parseBody(bodyIndent)
	if err != nil {
		skipToPeriod(c)
		return
	}
	if !c.matchPunct(".") {
		ctx.Errors.Record("error in the content: the query does not end with a period", c.line, c.context(6))
		skipToPeriod(c)
		return
	}
	doc.Queries = append(doc.Queries, term.Query{Name: name, Cond: body})
}

// parseSectionName reads the words naming a scenario or query, up to and
// including the copula.
func (ctx *Context) parseSectionName(c *cursor, deflt string) string {
	var words []string
	for {
		c.skipSpaces()
		t := c.peek()
		if t.Kind != token.Word {
			break
		}
		c.next()
		if containsFoldWord(ctx.Lex.Is, t.Text) {
			break
		}
		words = append(words, strings.ToLower(t.Text))
	}
	if len(words) == 0 {
		return deflt
	}
	return strings.Join(words, "_")
}

// sectionAhead reports whether a section introducer starts at the cursor,
// without consuming it. Before the language has committed, every
// candidate lexicon is probed.
func (ctx *Context) sectionAhead(c *cursor) bool {
	m := c.save()
	defer c.restore(m)
	c.skipLayout()
	for _, lx := range ctx.candidateLexicons() {
		if c.matchPhrase(lx.KBIntro) || c.matchPhrase(lx.ScenarioIntro) || c.matchPhrase(lx.QueryIntro) {
			return true
		}
		c.restore(m)
		c.skipLayout()
	}
	return false
}

// collectHeadWindow gathers a clause head (or scenario assumption): the
// tokens up to the connective "if", a period, or the line break.
// Brackets guard list commas just as in condition windows.
func (p *bodyParser) collectHeadWindow() []token.Token {
	var out []token.Token
	depth := 0
	for p.c.pos < len(p.c.toks) {
		t := p.c.toks[p.c.pos]
		if t.Kind == token.Newline {
			break
		}
		if t.Kind == token.Space {
			p.c.pos++
			continue
		}
		if t.Kind == token.Punct {
			switch t.Text {
			case "[":
				depth++
			case "]":
				depth--
			case ".":
				if depth == 0 {
					return out
				}
			case ":":
				if depth == 0 && !p.timestampColon(out) {
					return out
				}
			}
		}
		if depth == 0 && t.Kind == token.Word && containsFoldWord(p.ctx.Lex.If, t.Text) {
			return out
		}
		out = append(out, t)
		p.c.pos++
	}
	return out
}

// skipToPeriod advances past the next top-level period, for error
// recovery.
func skipToPeriod(c *cursor) {
	for c.pos < len(c.toks) {
		t := c.toks[c.pos]
		if t.Kind == token.Newline {
			c.line = t.Line
			c.pos++
			c.indent = c.measureIndent(c.pos)
			continue
		}
		c.pos++
		if t.Kind == token.Punct && t.Text == "." {
			return
		}
	}
}
