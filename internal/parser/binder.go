package parser

import (
	"fmt"

	"logicle/internal/term"
)

// NameBinder is the name-to-variable map scoped to exactly one rule, one
// scenario assumption, or one query. Indefinite determiners introduce
// bindings, definite determiners and bare references look them up. It
// also hands out anonymous time variables for event/fluent wrapping.
type NameBinder struct {
	vars  map[string]term.Var
	order []string // insertion log, drives Mark/Reset rollback
	anon  int
}

// NewNameBinder returns an empty binder.
func NewNameBinder() *NameBinder {
	return &NameBinder{vars: make(map[string]term.Var)}
}

// Fresh binds an indefinite reference. Rebinding an existing name yields
// the same variable; an empty name is an error.
func (b *NameBinder) Fresh(name string) (term.Var, error) {
	if name == "" {
		return term.Var{}, fmt.Errorf("empty variable name")
	}
	if v, ok := b.vars[name]; ok {
		return v, nil
	}
	v := term.Var{Name: term.VarName(term.DisplayWords(name))}
	b.vars[name] = v
	b.order = append(b.order, name)
	return v, nil
}

// Lookup resolves a definite or bare reference.
func (b *NameBinder) Lookup(name string) (term.Var, bool) {
	v, ok := b.vars[name]
	return v, ok
}

// FreshTime returns an anonymous time variable (T1, T2, ...) for
// classification wrapping when no explicit time modifier is present.
func (b *NameBinder) FreshTime() term.Var {
	b.anon++
	return term.Var{Name: fmt.Sprintf("T%d", b.anon)}
}

// Mark returns a rollback point.
func (b *NameBinder) Mark() int {
	return len(b.order)
}

// Reset undoes every binding made after mark.
func (b *NameBinder) Reset(mark int) {
	if mark < 0 || mark > len(b.order) {
		return
	}
	for _, name := range b.order[mark:] {
		delete(b.vars, name)
	}
	b.order = b.order[:mark]
}

// Names returns the bound names in introduction order.
func (b *NameBinder) Names() []string {
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}
