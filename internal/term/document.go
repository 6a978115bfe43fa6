package term

import "strings"

// Clause is one translated rule or fact. Body is nil for a fact.
type Clause struct {
	Head Compound
	Body Cond
	Line int
}

// KB is a named knowledge-base block and its clauses in source order.
type KB struct {
	Name    string
	Clauses []Clause
}

// Scenario is a named bundle of ground facts assumed for a query.
type Scenario struct {
	Name        string
	Assumptions []Compound
}

// Query is a named condition tree to be proved against a knowledge base
// plus scenario assumptions.
type Query struct {
	Name string
	Cond Cond
}

// Document is the complete result of one translation. It owns every value
// it references and is immutable once returned.
type Document struct {
	ID     string // per-translation correlation ID
	Target string // output dialect from the target pragma

	Predicates     []Compound // declared goal shapes
	Events         []Compound
	Fluents        []Compound
	MetaPredicates []Compound
	Types          []string // declared type atoms, deduplicated, in order

	KBs       []KB
	Scenarios []Scenario
	Queries   []Query
}

// Terms assembles the ordered output term list consumed by the inference
// engine: target/1, the four declaration lists, per-KB kbname/1 markers
// followed by if/3 (or if/2 when the clause carries no line), example/2
// per scenario, query/2 per query, and is_type/1 facts.
func (d *Document) Terms() []Term {
	var out []Term
	out = append(out, Compound{Functor: "target", Args: []Term{Atom(d.Target)}})
	out = append(out, shapeList("predicates", d.Predicates))
	out = append(out, shapeList("events", d.Events))
	out = append(out, shapeList("fluents", d.Fluents))
	out = append(out, shapeList("metapredicates", d.MetaPredicates))

	for _, kb := range d.KBs {
		out = append(out, Compound{Functor: "kbname", Args: []Term{Atom(kb.Name)}})
		for _, cl := range kb.Clauses {
			out = append(out, cl.Term())
		}
	}
	for _, sc := range d.Scenarios {
		assumptions := make(List, len(sc.Assumptions))
		for i, a := range sc.Assumptions {
			assumptions[i] = a
		}
		inner := Compound{Functor: "scenario", Args: []Term{assumptions, Atom("true")}}
		out = append(out, Compound{
			Functor: "example",
			Args:    []Term{Atom(sc.Name), List{inner}},
		})
	}
	for _, q := range d.Queries {
		out = append(out, Compound{
			Functor: "query",
			Args:    []Term{Atom(q.Name), CondTerm(q.Cond)},
		})
	}
	for _, ty := range d.Types {
		out = append(out, Compound{Functor: "is_type", Args: []Term{Atom(ty)}})
	}
	return out
}

// Term renders a clause as if(Line, Head, Body) or if(Head, Body); a fact
// gets the body true.
func (c Clause) Term() Term {
	body := Term(Atom("true"))
	if c.Body != nil {
		body = CondTerm(c.Body)
	}
	if c.Line > 0 {
		return Compound{Functor: "if", Args: []Term{Number(c.Line), c.Head, body}}
	}
	return Compound{Functor: "if", Args: []Term{c.Head, body}}
}

// Listing renders the whole output term list as text, one term per line,
// each terminated by a period.
func (d *Document) Listing() string {
	var sb strings.Builder
	for _, t := range d.Terms() {
		sb.WriteString(t.String())
		sb.WriteString(".\n")
	}
	return sb.String()
}

func shapeList(functor string, shapes []Compound) Term {
	list := make(List, len(shapes))
	for i, s := range shapes {
		list[i] = s
	}
	return Compound{Functor: functor, Args: []Term{list}}
}
