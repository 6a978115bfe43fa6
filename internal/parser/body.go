package parser

import (
	"fmt"
	"strings"

	"logicle/internal/term"
	"logicle/internal/token"
)

// opKind tags the operator that links a continuation line to the body.
type opKind int

const (
	opNone opKind = iota
	opAnd
	opOr
)

// item is the flat, indentation-tagged pre-tree form of one condition.
type item struct {
	indent int
	op     opKind
	cond   term.Cond
	line   int
}

// bodyParser parses one rule/query body against a single name binder.
type bodyParser struct {
	ctx *Context
	c   *cursor
	b   *NameBinder
}

// parseBody parses a condition followed by continuations of the form
// (line break, indent, and/or, condition). A continuation indented less
// than minIndent closes the body. The flat item list is then folded into
// an and/or tree by indentation precedence.
func (p *bodyParser) parseBody(minIndent int) (term.Cond, error) {
	p.c.skipLayout()
	firstIndent := p.c.indent
	firstLine := p.c.line
	first, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	items := []item{{indent: firstIndent, op: opNone, cond: first, line: firstLine}}

	for {
		m := p.c.save()
		p.c.skipLayout()
		if p.c.indent < minIndent && p.c.line != firstLine {
			p.c.restore(m)
			break
		}
		op := p.matchOperator()
		if op == opNone {
			p.c.restore(m)
			break
		}
		opIndent := p.c.indent
		opLine := p.c.line
		cond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		items = append(items, item{indent: opIndent, op: op, cond: cond, line: opLine})
	}
	return p.foldItems(items)
}

func (p *bodyParser) matchOperator() opKind {
	for _, w := range p.ctx.Lex.And {
		if p.c.matchWord(w) {
			return opAnd
		}
	}
	for _, w := range p.ctx.Lex.Or {
		if p.c.matchWord(w) {
			return opOr
		}
	}
	return opNone
}

// foldItems reconstructs the boolean tree: maximal runs of one operator
// at one indentation fold left-associatively, and a deeper run binds
// tighter, nesting inside the shallower operator as its right operand.
func (p *bodyParser) foldItems(items []item) (term.Cond, error) {
	node, rest, err := p.climb(items[0].cond, items[1:], items[0].indent, nil, false)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		// A continuation dedented below the opening level lands on no
		// open level, so the grouping is inconsistent.
		return nil, p.indentError(rest[0].line)
	}
	return node, nil
}

// climb extends left with operator items at exactly level; deeper items
// recurse into the right operand, shallower items return to an enclosing
// level (which must exist, else the grouping is inconsistent).
func (p *bodyParser) climb(left term.Cond, rest []item, level int, enclosing []int, consumed bool) (term.Cond, []item, error) {
	for len(rest) > 0 {
		it := rest[0]
		if it.indent < level {
			// A dedent must land on an open level. Escaping below all
			// of them bubbles up to foldItems, which rejects it;
			// landing between open levels is inconsistent grouping.
			if len(enclosing) == 0 || it.indent < enclosing[0] || containsInt(enclosing, it.indent) {
				return left, rest, nil
			}
			return nil, nil, p.indentError(it.line)
		}
		if it.indent > level {
			if consumed {
				return nil, nil, p.indentError(it.line)
			}
			// The opening condition sits shallower than its first
			// continuation; the deeper level starts its own run.
			var err error
			left, rest, err = p.climb(left, rest, it.indent, append(enclosing, level), false)
			if err != nil {
				return nil, nil, err
			}
			continue
		}
		op := it.op
		rhs := it.cond
		rest = rest[1:]
		for len(rest) > 0 && rest[0].indent > level {
			var err error
			rhs, rest, err = p.climb(rhs, rest, rest[0].indent, append(enclosing, level), false)
			if err != nil {
				return nil, nil, err
			}
		}
		left = combine(op, left, rhs)
		consumed = true
	}
	return left, rest, nil
}

func combine(op opKind, left, right term.Cond) term.Cond {
	// Fold through the identity elements so they never survive into the
	// finished tree.
	if _, ok := left.(term.True); ok && op == opAnd {
		return right
	}
	if _, ok := left.(term.False); ok && op == opOr {
		return right
	}
	if op == opOr {
		return term.Or{Left: left, Right: right}
	}
	return term.And{Left: left, Right: right}
}

func (p *bodyParser) indentError(line int) error {
	p.ctx.Errors.Record("indentation error", line, nil)
	return fmt.Errorf("indentation error at line %d", line-1)
}

// parseCondition parses one condition: a negation/positive wrapper, a
// universal quantification, a set or aggregate expression, or a plain
// literal, each with an optional trailing time modifier.
func (p *bodyParser) parseCondition() (term.Cond, error) {
	p.c.skipLayout()
	lineIndent := p.c.indent

	if p.c.matchPhrase(p.ctx.Lex.NotTheCase) {
		body, err := p.parseBody(lineIndent + 1)
		if err != nil {
			return nil, err
		}
		return term.Not{Body: body}, nil
	}
	if p.c.matchPhrase(p.ctx.Lex.ForAllCases) {
		cases, err := p.parseBody(lineIndent + 1)
		if err != nil {
			return nil, err
		}
		p.c.skipLayout()
		if !p.c.matchPhrase(p.ctx.Lex.IsTheCase) {
			p.ctx.Errors.Record("expected the conclusion of a universal condition", p.c.line, p.c.context(6))
			return nil, fmt.Errorf("universal condition without conclusion at line %d", p.c.line)
		}
		conclusion, err := p.parseBody(lineIndent + 1)
		if err != nil {
			return nil, err
		}
		return term.ForAll{Cases: cases, Conclusion: conclusion}, nil
	}
	if p.c.matchPhrase(p.ctx.Lex.IsTheCase) {
		return p.parseBody(lineIndent + 1)
	}

	window := p.collectConditionWindow()
	if len(window) == 0 {
		p.ctx.Errors.Record("expected a condition", p.c.line, p.c.context(6))
		return nil, fmt.Errorf("expected a condition at line %d", p.c.line)
	}

	if result, valueToks, ok := p.splitOnPhrase(window, p.ctx.Lex.SetOf); ok {
		return p.parseSetOf(result, valueToks, lineIndent)
	}
	if result, valueToks, ok := p.splitOnPhrase(window, p.ctx.Lex.SumOfEach); ok {
		return p.parseAggregate(result, valueToks, lineIndent)
	}

	goal, err := p.matchLiteral(window)
	if err != nil {
		return nil, err
	}
	return term.Lit{Goal: goal}, nil
}

// matchLiteral strips an optional trailing time modifier, matches the
// phrase against the dictionary and applies event/fluent classification.
func (p *bodyParser) matchLiteral(window []token.Token) (term.Compound, error) {
	window, at := p.stripTimeModifier(window)
	goal, err := p.ctx.Matcher.Match(window, p.b)
	if err != nil {
		p.ctx.Errors.Record(err.Error(), p.c.line, window)
		return term.Compound{}, err
	}
	return p.classify(goal, at), nil
}

// classify wraps events and fluents with their time argument. An
// explicit modifier forces a happens wrapper even on undeclared
// predicates so the time survives into the clause.
func (p *bodyParser) classify(goal term.Compound, at term.Term) term.Compound {
	if p.ctx.Matcher.IsClassified(goal.Functor, len(goal.Args)) {
		if at == nil {
			at = p.b.FreshTime()
		}
		return p.ctx.Matcher.Classify(goal, at)
	}
	if at != nil {
		return term.Compound{Functor: "happens", Args: []term.Term{goal, at}}
	}
	return goal
}

// stripTimeModifier removes a trailing "at <time>" (or "on <date>") from
// a window, returning the time term when present.
func (p *bodyParser) stripTimeModifier(window []token.Token) ([]token.Token, term.Term) {
	for i := len(window) - 2; i > 0; i-- {
		t := window[i]
		if t.Kind != token.Word || !containsFoldWord(p.ctx.Lex.At, t.Text) {
			continue
		}
		if v, ok := p.ctx.Matcher.ParseValue(window[i+1:], p.b); ok {
			return window[:i], v
		}
	}
	return window, nil
}

// parseSetOf handles "<result> is a set of <template> where <body>".
func (p *bodyParser) parseSetOf(result, valueToks []token.Token, lineIndent int) (term.Cond, error) {
	res, err := p.binderVar(result)
	if err != nil {
		return nil, err
	}
	tmpl, err := p.binderTerm(valueToks)
	if err != nil {
		return nil, err
	}
	if !p.matchAnyWord(p.ctx.Lex.Where) {
		p.ctx.Errors.Record("expected the body of a set condition", p.c.line, p.c.context(6))
		return nil, fmt.Errorf("set condition without body at line %d", p.c.line)
	}
	body, err := p.parseBody(lineIndent + 1)
	if err != nil {
		return nil, err
	}
	return term.SetOf{Template: tmpl, Body: body, Result: res}, nil
}

// parseAggregate handles "<result> is the sum of each <value> such that <body>".
func (p *bodyParser) parseAggregate(result, valueToks []token.Token, lineIndent int) (term.Cond, error) {
	res, err := p.binderVar(result)
	if err != nil {
		return nil, err
	}
	value, err := p.binderTerm(valueToks)
	if err != nil {
		return nil, err
	}
	if !p.c.matchPhrase(p.ctx.Lex.SuchThat) {
		p.ctx.Errors.Record("expected the body of an aggregate condition", p.c.line, p.c.context(6))
		return nil, fmt.Errorf("aggregate condition without body at line %d", p.c.line)
	}
	body, err := p.parseBody(lineIndent + 1)
	if err != nil {
		return nil, err
	}
	return term.Aggregate{Kind: term.AggSum, Value: value, Body: body, Result: res}, nil
}

// binderVar parses a result phrase ("a total", "the set") into a
// variable, introducing it when indefinite.
func (p *bodyParser) binderVar(toks []token.Token) (term.Var, error) {
	t, err := p.binderTerm(toks)
	if err != nil {
		return term.Var{}, err
	}
	v, ok := t.(term.Var)
	if !ok {
		p.ctx.Errors.Record("expected a variable phrase", p.c.line, toks)
		return term.Var{}, fmt.Errorf("expected a variable phrase at line %d", p.c.line)
	}
	return v, nil
}

// binderTerm parses a value phrase: bare word runs introduce a binding
// (they act as binders inside set/aggregate conditions), everything else
// goes through standalone value parsing.
func (p *bodyParser) binderTerm(toks []token.Token) (term.Term, error) {
	if len(toks) > 0 && allWords(toks) {
		first := toks[0].Text
		rest := toks
		introduce := false
		if p.ctx.Lex.IsIndefinite(first) {
			rest = toks[1:]
			introduce = true
		} else if p.ctx.Lex.IsDefinite(first) {
			rest = toks[1:]
		}
		name := joinWords(rest)
		if name == "" {
			return nil, fmt.Errorf("empty phrase at line %d", p.c.line)
		}
		if v, ok := p.b.Lookup(name); ok {
			return v, nil
		}
		if introduce || !p.ctx.Lex.IsDefinite(first) {
			return p.b.Fresh(name)
		}
		p.ctx.Errors.Recordf(p.c.line, toks, "unresolved reference %q", name)
		return nil, fmt.Errorf("unresolved reference %q at line %d", name, p.c.line)
	}
	if v, ok := p.ctx.Matcher.ParseValue(toks, p.b); ok {
		return v, nil
	}
	p.ctx.Errors.Record("malformed expression", p.c.line, toks)
	return nil, fmt.Errorf("malformed expression at line %d", p.c.line)
}

// collectConditionWindow gathers one condition's tokens: up to the line
// break, a period, a top-level connective word, or a phrase that opens a
// nested body (where / such that / it is the case that). Brackets guard
// list commas.
func (p *bodyParser) collectConditionWindow() []token.Token {
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
		if depth == 0 && t.Kind == token.Word {
			if p.ctx.Lex.IsAnd(t.Text) || p.ctx.Lex.IsOr(t.Text) {
				return out
			}
			if containsFoldWord(p.ctx.Lex.Where, t.Text) {
				return out
			}
			if p.phraseAhead(p.ctx.Lex.SuchThat) || p.phraseAhead(p.ctx.Lex.IsTheCase) {
				return out
			}
		}
		out = append(out, t)
		p.c.pos++
	}
	return out
}

// timestampColon reports whether a ":" at the cursor continues an
// hh:mm:ss clock started by a T-glued hour word, as in
// 2015-06-01T00:00:00 where the scanner yields the word "T00". Such a
// colon belongs to the literal and must stay in the window.
func (p *bodyParser) timestampColon(out []token.Token) bool {
	next := p.c.pos + 1
	for next < len(p.c.toks) && p.c.toks[next].Kind == token.Space {
		next++
	}
	if next >= len(p.c.toks) || p.c.toks[next].Kind != token.Number {
		return false
	}
	n := len(out)
	if n > 0 && isHourWord(out[n-1]) {
		return true
	}
	return n >= 3 && out[n-1].Kind == token.Number &&
		out[n-2].IsPunct(":") && isHourWord(out[n-3])
}

func isHourWord(t token.Token) bool {
	if t.Kind != token.Word || len(t.Text) < 2 {
		return false
	}
	if t.Text[0] != 'T' && t.Text[0] != 't' {
		return false
	}
	for _, r := range t.Text[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// phraseAhead reports whether the fixed phrase starts at the current
// position, without consuming anything.
func (p *bodyParser) phraseAhead(ph []string) bool {
	pos := p.c.pos
	for _, w := range ph {
		for pos < len(p.c.toks) && p.c.toks[pos].Kind == token.Space {
			pos++
		}
		if pos >= len(p.c.toks) || !p.c.toks[pos].IsWord(w) {
			return false
		}
		pos++
	}
	return true
}

// splitOnPhrase looks for a fixed phrase inside a window and splits the
// window around it.
func (p *bodyParser) splitOnPhrase(window []token.Token, ph []string) (before, after []token.Token, ok bool) {
	if len(ph) == 0 {
		return nil, nil, false
	}
	for i := 0; i+len(ph) <= len(window); i++ {
		match := true
		for j, w := range ph {
			if !window[i+j].IsWord(w) {
				match = false
				break
			}
		}
		if match {
			return window[:i], window[i+len(ph):], true
		}
	}
	return nil, nil, false
}

func (p *bodyParser) matchAnyWord(words []string) bool {
	for _, w := range words {
		if p.c.matchWord(w) {
			return true
		}
	}
	return false
}

func containsInt(set []int, n int) bool {
	for _, x := range set {
		if x == n {
			return true
		}
	}
	return false
}

func containsFoldWord(set []string, w string) bool {
	for _, s := range set {
		if strings.EqualFold(s, w) {
			return true
		}
	}
	return false
}

func allWords(toks []token.Token) bool {
	for _, t := range toks {
		if t.Kind != token.Word {
			return false
		}
	}
	return true
}

func joinWords(toks []token.Token) string {
	var words []string
	for _, t := range toks {
		words = append(words, strings.ToLower(t.Text))
	}
	return strings.Join(words, "_")
}
