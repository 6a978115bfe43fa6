// Package term defines the logic-program values produced by translation:
// first-order terms, condition trees, clauses, scenarios, queries and the
// assembled Document with its ordered output term list. Values are built
// once by the parser and never mutated afterwards.
package term

import (
	"fmt"
	"strings"
	"unicode"
)

// Term is a first-order logic term.
type Term interface {
	fmt.Stringer
	isTerm()
}

// Atom is a constant symbol, conventionally lowercase.
type Atom string

// Var is a logical variable with a display name (capitalized by convention).
type Var struct {
	Name string
}

// Number is a numeric constant. Dates are represented as epoch seconds.
type Number float64

// Str is a string constant.
type Str string

// List is an ordered term list.
type List []Term

// Compound is a functor applied to arguments. A goal is a Compound; zero
// arguments are allowed for propositional predicates.
type Compound struct {
	Functor string
	Args    []Term
}

func (Atom) isTerm()     {}
func (Var) isTerm()      {}
func (Number) isTerm()   {}
func (Str) isTerm()      {}
func (List) isTerm()     {}
func (Compound) isTerm() {}

func (a Atom) String() string {
	return quoteAtom(string(a))
}

func (v Var) String() string {
	return v.Name
}

func (n Number) String() string {
	if n == Number(int64(n)) {
		return fmt.Sprintf("%d", int64(n))
	}
	return fmt.Sprintf("%g", float64(n))
}

func (s Str) String() string {
	return fmt.Sprintf("%q", string(s))
}

func (l List) String() string {
	parts := make([]string, len(l))
	for i, t := range l {
		parts[i] = t.String()
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func (c Compound) String() string {
	if len(c.Args) == 0 {
		return quoteAtom(c.Functor)
	}
	parts := make([]string, len(c.Args))
	for i, t := range c.Args {
		parts[i] = t.String()
	}
	return quoteAtom(c.Functor) + "(" + strings.Join(parts, ",") + ")"
}

// Arity returns the number of arguments.
func (c Compound) Arity() int {
	return len(c.Args)
}

// Ground reports whether the term contains no variables.
func Ground(t Term) bool {
	switch v := t.(type) {
	case Var:
		return false
	case List:
		for _, e := range v {
			if !Ground(e) {
				return false
			}
		}
	case Compound:
		for _, a := range v.Args {
			if !Ground(a) {
				return false
			}
		}
	}
	return true
}

// quoteAtom wraps an atom in single quotes unless it is a plain lowercase
// identifier or a symbolic operator.
func quoteAtom(s string) string {
	if s == "" {
		return "''"
	}
	if isSymbolic(s) {
		return s
	}
	plain := unicode.IsLower(rune(s[0]))
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			plain = false
			break
		}
	}
	if plain {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", "\\'") + "'"
}

func isSymbolic(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune(`+-*/\^<>=~:.?@#&|`, r) {
			return false
		}
	}
	return true
}

// VarName derives a variable display name from noun-phrase words, e.g.
// ["the", "small", "business"] (determiner already removed) becomes
// "Small_business".
func VarName(words []string) string {
	if len(words) == 0 {
		return "_"
	}
	joined := strings.Join(words, "_")
	runes := []rune(joined)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// DisplayWords is the inverse of VarName: "Small_business" becomes
// ["small", "business"].
func DisplayWords(name string) []string {
	lower := strings.ToLower(name)
	return strings.Split(lower, "_")
}
