package template

import (
	"strings"

	"logicle/internal/lexicon"
	"logicle/internal/term"
)

// Renderer is the inverse of the matcher: given a bound goal it looks up
// the template that produced it and substitutes the arguments back into
// their slot positions. With no matching template the goal's functor is
// rendered literally as a fallback label.
type Renderer struct {
	Dict *Dictionary
	Lex  lexicon.Lexicon
}

// NewRenderer returns a renderer over dict.
func NewRenderer(dict *Dictionary, lex lexicon.Lexicon) *Renderer {
	return &Renderer{Dict: dict, Lex: lex}
}

// Render reconstructs the phrase words for one goal.
func (r *Renderer) Render(goal term.Compound) []string {
	// Classification wrappers render as the inner goal plus a time
	// modifier.
	if (goal.Functor == "happens" || goal.Functor == "holds") && len(goal.Args) == 2 {
		if inner, ok := goal.Args[0].(term.Compound); ok {
			words := r.Render(inner)
			words = append(words, r.atWord())
			return append(words, r.renderValue(goal.Args[1], Slot{Type: "moment"})...)
		}
	}
	e := r.Dict.ByFunctor(goal.Functor, len(goal.Args))
	if e == nil {
		return r.fallback(goal)
	}
	var words []string
	for _, p := range e.Parts {
		if p.Kind == Lit {
			words = append(words, p.Word)
			continue
		}
		words = append(words, r.renderValue(goal.Args[p.Slot], e.Slots[p.Slot])...)
	}
	return words
}

// RenderPhrase joins Render output into a single line.
func (r *Renderer) RenderPhrase(goal term.Compound) string {
	return strings.Join(r.Render(goal), " ")
}

func (r *Renderer) renderValue(v term.Term, slot Slot) []string {
	switch t := v.(type) {
	case term.Var:
		det := r.determiner(t.Name)
		return append([]string{det}, term.DisplayWords(t.Name)...)
	case term.Atom:
		return strings.Split(string(t), "_")
	case term.Number:
		if isDateSlot(slot) {
			return []string{UnparseDate(t)}
		}
		return []string{t.String()}
	case term.Str:
		return []string{t.String()}
	case term.List:
		return []string{t.String()}
	case term.Compound:
		if isArith(t.Functor) && len(t.Args) == 2 {
			left := r.renderValue(t.Args[0], slot)
			right := r.renderValue(t.Args[1], slot)
			return append(append(left, t.Functor), right...)
		}
		// Nested goal from a meta-template slot.
		return r.Render(t)
	}
	return []string{v.String()}
}

// RenderCond renders a condition tree as display lines with connective
// words and indentation markers, four columns per nesting level.
func (r *Renderer) RenderCond(c term.Cond) []string {
	return r.renderCond(c, 0, "")
}

func (r *Renderer) renderCond(c term.Cond, depth int, op string) []string {
	pad := strings.Repeat(" ", depth*4)
	prefix := pad
	if op != "" {
		prefix = pad + op + " "
	}
	switch n := c.(type) {
	case term.Lit:
		return []string{prefix + r.RenderPhrase(n.Goal)}
	case term.Not:
		lines := []string{prefix + strings.Join(r.Lex.NotTheCase, " ")}
		return append(lines, r.renderCond(n.Body, depth+1, "")...)
	case term.And:
		return r.renderBinary(n.Left, n.Right, depth, op, r.Lex.And[0])
	case term.Or:
		return r.renderBinary(n.Left, n.Right, depth, op, r.Lex.Or[0])
	case term.ForAll:
		lines := []string{prefix + strings.Join(r.Lex.ForAllCases, " ")}
		lines = append(lines, r.renderCond(n.Cases, depth+1, "")...)
		lines = append(lines, pad+strings.Join(r.Lex.IsTheCase, " "))
		return append(lines, r.renderCond(n.Conclusion, depth+1, "")...)
	default:
		return []string{prefix + term.CondTerm(c).String()}
	}
}

// renderBinary keeps a run over one operator at one depth and indents a
// sub-tree of the other operator one level deeper, mirroring how the
// condition was written.
func (r *Renderer) renderBinary(left, right term.Cond, depth int, op, word string) []string {
	var lines []string
	sameOp := func(c term.Cond) bool {
		switch c.(type) {
		case term.And:
			return word == r.Lex.And[0]
		case term.Or:
			return word == r.Lex.Or[0]
		}
		return false
	}
	lines = append(lines, r.renderCond(left, depth, op)...)
	if isLeaf(right) || sameOp(right) {
		lines = append(lines, r.renderCond(right, depth, word)...)
	} else {
		lines = append(lines, r.renderCond(right, depth+1, word)...)
	}
	return lines
}

func isLeaf(c term.Cond) bool {
	switch c.(type) {
	case term.Lit, term.Not:
		return true
	}
	return false
}

// determiner picks the article for a rendered variable.
func (r *Renderer) determiner(name string) string {
	if r.Lex.Lang == lexicon.English {
		words := term.DisplayWords(name)
		if len(words) > 0 && startsWithVowel(words[0]) {
			return "an"
		}
		return "a"
	}
	if len(r.Lex.Indefinite) > 0 {
		return r.Lex.Indefinite[0]
	}
	return "a"
}

func (r *Renderer) atWord() string {
	if len(r.Lex.At) > 0 {
		return r.Lex.At[0]
	}
	return "at"
}

func (r *Renderer) fallback(goal term.Compound) []string {
	words := []string{goal.Functor}
	for _, a := range goal.Args {
		words = append(words, a.String())
	}
	return words
}

func startsWithVowel(w string) bool {
	if w == "" {
		return false
	}
	return strings.ContainsRune("aeiou", rune(w[0]))
}

func isArith(f string) bool {
	switch f {
	case "+", "-", "*", "/":
		return true
	}
	return false
}

func isDateSlot(s Slot) bool {
	t := s.Type
	return strings.Contains(t, "date") || strings.Contains(t, "moment") || strings.Contains(t, "time")
}
