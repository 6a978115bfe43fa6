// Package template implements the data-driven phrase grammar: template
// entries declared by the document itself, the ordered dictionary they
// live in, the matcher that turns token windows into goals, and the
// renderer that turns goals back into prose. The dictionary is a runtime
// value consulted by one generic matching routine; nothing here is
// compiled-in grammar.
package template

import (
	"sort"
	"strings"
)

// Slot is one argument position of a template: the external name authors
// use for it and the type atom inferred from the declaration.
type Slot struct {
	Name string // underscore-joined name words, e.g. "other_value"
	Type string // underscore-joined type words, e.g. "value"
}

// PartKind discriminates template words.
type PartKind int

const (
	// Lit is a fixed word that must match the input exactly.
	Lit PartKind = iota
	// Arg is a variable slot bound during matching.
	Arg
)

// Part is one element of a template's word sequence.
type Part struct {
	Kind PartKind
	Word string // Lit only
	Slot int    // Arg only: index into Slots
}

// Entry is one declared template. Meta entries may bind a slot to a
// nested goal behind the reserved connective word and always sort before
// plain entries.
type Entry struct {
	Predicate string
	Slots     []Slot
	Parts     []Part
	Meta      bool
}

// FixedWords counts the literal words of the template.
func (e *Entry) FixedWords() int {
	n := 0
	for _, p := range e.Parts {
		if p.Kind == Lit {
			n++
		}
	}
	return n
}

// signature renders the part sequence for deterministic tie-breaking,
// slots appearing as "*".
func (e *Entry) signature() string {
	words := make([]string, len(e.Parts))
	for i, p := range e.Parts {
		if p.Kind == Lit {
			words[i] = strings.ToLower(p.Word)
		} else {
			words[i] = "*"
		}
	}
	return strings.Join(words, " ")
}

// Shape returns the goal shape of the entry for the declaration lists:
// the predicate applied to one variable per slot, named after the slot.
func (e *Entry) Shape() (string, []Slot) {
	return e.Predicate, e.Slots
}

// Dictionary is the ordered set of all known templates. Order is a strict
// total order: meta entries before plain entries; within a kind, more
// fixed words first; ties broken by comparing part signatures. Longer and
// more specific templates are therefore always tried before shorter
// generic ones.
type Dictionary struct {
	entries []*Entry
}

// NewDictionary returns an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{}
}

// Add inserts entries; callers must Sort before matching.
func (d *Dictionary) Add(entries ...*Entry) {
	d.entries = append(d.entries, entries...)
}

// Sort establishes the dictionary order. Sorting is idempotent.
func (d *Dictionary) Sort() {
	sort.SliceStable(d.entries, func(i, j int) bool {
		return Less(d.entries[i], d.entries[j])
	})
}

// Less reports whether a sorts strictly before b in dictionary order.
func Less(a, b *Entry) bool {
	if a.Meta != b.Meta {
		return a.Meta
	}
	fa, fb := a.FixedWords(), b.FixedWords()
	if fa != fb {
		return fa > fb
	}
	return a.signature() < b.signature()
}

// Entries returns the entries in dictionary order.
func (d *Dictionary) Entries() []*Entry {
	return d.entries
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// ByFunctor finds the entry for a goal's functor and arity, consulting
// meta entries before plain ones. Returns nil when no template matches,
// which the renderer treats as a fallback-label case.
func (d *Dictionary) ByFunctor(functor string, arity int) *Entry {
	var plain *Entry
	for _, e := range d.entries {
		if e.Predicate != functor || len(e.Slots) != arity {
			continue
		}
		if e.Meta {
			return e
		}
		if plain == nil {
			plain = e
		}
	}
	return plain
}
