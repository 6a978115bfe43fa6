package template

import (
	"errors"
	"fmt"
	"strings"

	"logicle/internal/lexicon"
	"logicle/internal/term"
	"logicle/internal/token"
)

// ErrNoMatch reports that no dictionary entry yielded a full consuming
// match for a token window.
var ErrNoMatch = errors.New("no literal matched")

// Matcher matches token windows against the dictionary. Entries are tried
// in dictionary order and the first full consuming match wins; dictionary
// order already encodes specificity, so no alternatives are explored after
// a success.
type Matcher struct {
	Dict    *Dictionary
	Lex     lexicon.Lexicon
	Events  map[string]bool // functor/arity keys, e.g. "pays_to/3"
	Fluents map[string]bool
}

// NewMatcher returns a matcher over dict with empty declaration sets.
func NewMatcher(dict *Dictionary, lex lexicon.Lexicon) *Matcher {
	return &Matcher{
		Dict:    dict,
		Lex:     lex,
		Events:  make(map[string]bool),
		Fluents: make(map[string]bool),
	}
}

// Match matches a whole token window (no Space tokens) against the
// dictionary and returns the goal of the first entry that consumes every
// token. Bindings are registered on b as a side effect; a failing entry
// leaves no bindings behind only when it fails before its first slot, so
// callers hand in a binder snapshot per candidate via Binder semantics
// (names rebound to the same variable are harmless).
func (m *Matcher) Match(toks []token.Token, b Binder) (term.Compound, error) {
	return m.match(toks, b, 0)
}

func (m *Matcher) match(toks []token.Token, b Binder, depth int) (term.Compound, error) {
	for _, e := range m.Dict.Entries() {
		if e.Meta && depth > 0 {
			// One level of nesting only.
			continue
		}
		if goal, ok := m.matchEntry(e, toks, b, depth); ok {
			return goal, nil
		}
	}
	return term.Compound{}, fmt.Errorf("%w: %s", ErrNoMatch, token.Render(toks))
}

// matchEntry attempts one template against the full window, rolling back
// any bindings the attempt made when it fails.
func (m *Matcher) matchEntry(e *Entry, toks []token.Token, b Binder, depth int) (term.Compound, bool) {
	mark := b.Mark()
	goal, ok := m.tryEntry(e, toks, b, depth)
	if !ok {
		b.Reset(mark)
	}
	return goal, ok
}

func (m *Matcher) tryEntry(e *Entry, toks []token.Token, b Binder, depth int) (term.Compound, bool) {
	args := make([]term.Term, len(e.Slots))
	pos := 0
	for pi, part := range e.Parts {
		switch part.Kind {
		case Lit:
			if pos >= len(toks) {
				return term.Compound{}, false
			}
			if m.Lex.IsThat(part.Word) && e.Meta && nextIsSlot(e.Parts, pi) {
				// Embedded literal: the remainder of the window is one
				// nested goal matched through the dictionary again.
				if !toks[pos].IsWord(part.Word) && !isThatWord(m.Lex, toks[pos]) {
					return term.Compound{}, false
				}
				inner, err := m.match(toks[pos+1:], b, depth+1)
				if err != nil {
					return term.Compound{}, false
				}
				args[e.Parts[pi+1].Slot] = inner
				pos = len(toks)
				if pi+2 != len(e.Parts) {
					return term.Compound{}, false
				}
				return m.finish(e, args)
			}
			if !toks[pos].IsWord(part.Word) {
				return term.Compound{}, false
			}
			pos++
		case Arg:
			val, n, ok := m.matchSlot(e, pi, toks[pos:], b)
			if !ok {
				return term.Compound{}, false
			}
			args[part.Slot] = val
			pos += n
		}
	}
	if pos != len(toks) {
		return term.Compound{}, false
	}
	return m.finish(e, args)
}

func (m *Matcher) finish(e *Entry, args []term.Term) (term.Compound, bool) {
	for _, a := range args {
		if a == nil {
			return term.Compound{}, false
		}
	}
	return term.Compound{Functor: e.Predicate, Args: args}, true
}

// matchSlot binds one slot from the front of rest, returning the bound
// value and tokens consumed.
func (m *Matcher) matchSlot(e *Entry, pi int, rest []token.Token, b Binder) (term.Term, int, bool) {
	if len(rest) == 0 {
		return nil, 0, false
	}
	stop := nextLitWord(e.Parts, pi)

	// Slot immediately followed by '[': list extraction.
	if rest[0].IsPunct("[") {
		return m.matchList(rest, b)
	}

	// Determiner? Indefinite introduces, definite resolves.
	if rest[0].Kind == token.Word {
		w := rest[0].Text
		if m.Lex.IsIndefinite(w) {
			words, n := extractRun(rest[1:], stop, m.Lex)
			name := joinName(words)
			if name == "" {
				return nil, 0, false
			}
			v, err := b.Fresh(name)
			if err != nil {
				return nil, 0, false
			}
			return v, 1 + n, true
		}
		if m.Lex.IsDefinite(w) {
			words, n := extractRun(rest[1:], stop, m.Lex)
			name := joinName(words)
			if name == "" {
				return nil, 0, false
			}
			v, ok := b.Lookup(name)
			if !ok {
				return nil, 0, false
			}
			// Definite references can continue into arithmetic, as in
			// "the amount + 10".
			t, total, _ := parseExprFrom(v, rest[1+n:], b, 1+n)
			return t, total, true
		}
	}

	// Expression (number, date, parenthesized arithmetic, string).
	if rest[0].Kind == token.Number || rest[0].Kind == token.Str || rest[0].IsPunct("(") {
		t, n, ok := parseExpr(rest, b)
		if !ok {
			return nil, 0, false
		}
		return t, n, true
	}

	// Bare symbolic reference or opaque constant.
	words, n := extractRun(rest, stop, m.Lex)
	name := joinName(words)
	if name == "" {
		return nil, 0, false
	}
	if v, ok := b.Lookup(name); ok {
		t, total, _ := parseExprFrom(v, rest[n:], b, n)
		return t, total, true
	}
	return term.Atom(name), n, true
}

// matchList consumes a bracketed comma/|-separated list. rest[0] is '['.
func (m *Matcher) matchList(rest []token.Token, b Binder) (term.Term, int, bool) {
	var items []term.Term
	var tail term.Term
	pos := 1
	if pos < len(rest) && rest[pos].IsPunct("]") {
		return term.List(nil), pos + 1, true
	}
	for pos < len(rest) {
		val, n, ok := m.matchSlot(&listEntry, 0, rest[pos:], b)
		if !ok {
			return nil, 0, false
		}
		pos += n
		if pos >= len(rest) {
			return nil, 0, false
		}
		switch {
		case rest[pos].IsPunct(","):
			items = append(items, val)
			pos++
		case rest[pos].IsPunct("|"):
			items = append(items, val)
			inner, n2, ok := m.matchSlot(&listEntry, 0, rest[pos+1:], b)
			if !ok {
				return nil, 0, false
			}
			tail = inner
			pos += 1 + n2
			if pos >= len(rest) || !rest[pos].IsPunct("]") {
				return nil, 0, false
			}
			pos++
			return term.Compound{Functor: "|", Args: []term.Term{term.List(items), tail}}, pos, true
		case rest[pos].IsPunct("]"):
			items = append(items, val)
			return term.List(items), pos + 1, true
		default:
			return nil, 0, false
		}
	}
	return nil, 0, false
}

// listEntry is a synthetic one-slot template used to reuse slot matching
// for list elements.
var listEntry = Entry{
	Predicate: "list_item",
	Slots:     []Slot{{Name: "item"}},
	Parts:     []Part{{Kind: Arg, Slot: 0}},
}

// Classify wraps a matched goal according to the declared event and
// fluent sets: events become happens(goal, T), fluents holds(goal, T),
// anything else stays timeless.
func (m *Matcher) Classify(goal term.Compound, at term.Term) term.Compound {
	key := fmt.Sprintf("%s/%d", goal.Functor, len(goal.Args))
	if m.Events[key] {
		return term.Compound{Functor: "happens", Args: []term.Term{goal, at}}
	}
	if m.Fluents[key] {
		return term.Compound{Functor: "holds", Args: []term.Term{goal, at}}
	}
	return goal
}

// IsClassified reports whether a functor/arity pair is a declared event
// or fluent.
func (m *Matcher) IsClassified(functor string, arity int) bool {
	key := fmt.Sprintf("%s/%d", functor, arity)
	return m.Events[key] || m.Fluents[key]
}

// ParseValue parses a standalone value occupying the whole window: a
// determined noun phrase, a bound reference, a list, a number, a date or
// an arithmetic expression.
func (m *Matcher) ParseValue(toks []token.Token, b Binder) (term.Term, bool) {
	mark := b.Mark()
	v, n, ok := m.matchSlot(&listEntry, 0, toks, b)
	if !ok || n != len(toks) {
		b.Reset(mark)
		return nil, false
	}
	return v, true
}

// extractRun collects the maximal word run for a slot: Word and Number
// tokens up to the stop word, any punctuation, a line break, or the
// nesting connective.
func extractRun(rest []token.Token, stop string, lex lexicon.Lexicon) ([]string, int) {
	var words []string
	n := 0
	for n < len(rest) {
		t := rest[n]
		if t.Kind != token.Word && t.Kind != token.Number {
			break
		}
		if t.Kind == token.Word {
			if stop != "" && t.IsWord(stop) {
				break
			}
			if isThatWord(lex, t) {
				break
			}
			words = append(words, strings.ToLower(t.Text))
		} else {
			words = append(words, t.Text)
		}
		n++
	}
	return words, n
}

func isThatWord(lex lexicon.Lexicon, t token.Token) bool {
	return t.Kind == token.Word && lex.IsThat(t.Text)
}

// nextLitWord returns the first fixed word after part index pi, or "".
func nextLitWord(parts []Part, pi int) string {
	for _, p := range parts[pi+1:] {
		if p.Kind == Lit {
			return p.Word
		}
	}
	return ""
}

func nextIsSlot(parts []Part, pi int) bool {
	return pi+1 < len(parts) && parts[pi+1].Kind == Arg
}

func joinName(words []string) string {
	return strings.Join(words, "_")
}
