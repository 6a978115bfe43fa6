package engine

import (
	"fmt"
	"strconv"
	"strings"

	"logicle/internal/term"
)

// The evaluator runs the Datalog-expressible subset of translated
// documents: flat goals over constants, variables, numbers and strings,
// with conjunction, disjunction and stratified negation. Disjunctive
// bodies split into one rule per alternative; negations push down to
// literals by De Morgan before the split. Universal, set and aggregate
// conditions report an unsupported-condition error.

// compareKind maps a translated comparison relation onto the evaluator's
// built-in order predicates.
type compareKind int

const (
	cmpNone compareKind = iota
	cmpLess             // :lt(X, Y)
	cmpGreater
	cmpAtMost // :le(X, Y)
	cmpAtLeast
	cmpEqual
	cmpDifferent
)

// comparisons covers the built-in relation names of every surface
// language; everything else evaluates as an ordinary derived predicate.
var comparisons = map[string]compareKind{
	// English
	"is_greater_than":   cmpGreater,
	"is_less_than":      cmpLess,
	"is_at_least":       cmpAtLeast,
	"is_at_most":        cmpAtMost,
	"is_different_from": cmpDifferent,
	"is_equal_to":       cmpEqual,
	"is_before":         cmpLess,
	"is_after":          cmpGreater,
	"is":                cmpEqual,
	// French
	"est_supérieure_à":  cmpGreater,
	"est_inférieure_à":  cmpLess,
	"est_différente_d":  cmpDifferent,
	"est_égale_à":       cmpEqual,
	"est_avant":         cmpLess,
	"est":               cmpEqual,
	// Italian
	"è_maggiore_di": cmpGreater,
	"è_minore_di":   cmpLess,
	"è_diverso_da":  cmpDifferent,
	"è_uguale_a":    cmpEqual,
	"è_prima_di":    cmpLess,
	"è":             cmpEqual,
	// Spanish
	"es_mayor_que":     cmpGreater,
	"es_menor_que":     cmpLess,
	"es_diferente_de":  cmpDifferent,
	"es_igual_a":       cmpEqual,
	"es_antes_de":      cmpLess,
	"es":               cmpEqual,
}

// Compile renders a translated document as an evaluator source program:
// every knowledge-base clause, the named scenario's assumptions as facts,
// and the named query as rules deriving the query predicate. Empty
// scenario or query names skip the respective part.
func Compile(doc *term.Document, scenario, query string) (string, error) {
	var sb strings.Builder

	for _, kb := range doc.KBs {
		for _, cl := range kb.Clauses {
			if err := writeClause(&sb, cl.Head, cl.Body); err != nil {
				return "", fmt.Errorf("knowledge base %s: %w", kb.Name, err)
			}
		}
	}

	if scenario != "" {
		sc, ok := findScenario(doc, scenario)
		if !ok {
			return "", fmt.Errorf("scenario %q is not defined", scenario)
		}
		for _, a := range sc.Assumptions {
			if err := writeClause(&sb, a, nil); err != nil {
				return "", fmt.Errorf("scenario %s: %w", scenario, err)
			}
		}
	}

	if query != "" {
		q, ok := findQuery(doc, query)
		if !ok {
			return "", fmt.Errorf("query %q is not defined", query)
		}
		head := term.Compound{Functor: QueryPredicate(query), Args: queryVars(q.Cond)}
		if err := writeClause(&sb, head, q.Cond); err != nil {
			return "", fmt.Errorf("query %s: %w", query, err)
		}
	}
	return sb.String(), nil
}

// QueryPredicate names the derived predicate holding a query's answers.
func QueryPredicate(name string) string {
	return "query_" + name
}

func findScenario(doc *term.Document, name string) (term.Scenario, bool) {
	for _, sc := range doc.Scenarios {
		if sc.Name == name {
			return sc, true
		}
	}
	return term.Scenario{}, false
}

func findQuery(doc *term.Document, name string) (term.Query, bool) {
	for _, q := range doc.Queries {
		if q.Name == name {
			return q, true
		}
	}
	return term.Query{}, false
}

// queryVars collects the distinct variables of a condition tree in first
// appearance order; they become the answer tuple of the query predicate.
func queryVars(c term.Cond) []term.Term {
	seen := make(map[string]bool)
	var out []term.Term
	var walkTerm func(t term.Term)
	walkTerm = func(t term.Term) {
		switch v := t.(type) {
		case term.Var:
			if !seen[v.Name] {
				seen[v.Name] = true
				out = append(out, v)
			}
		case term.List:
			for _, e := range v {
				walkTerm(e)
			}
		case term.Compound:
			for _, a := range v.Args {
				walkTerm(a)
			}
		}
	}
	var walk func(c term.Cond)
	walk = func(c term.Cond) {
		switch n := c.(type) {
		case term.Lit:
			walkTerm(n.Goal)
		case term.Not:
			walk(n.Body)
		case term.And:
			walk(n.Left)
			walk(n.Right)
		case term.Or:
			walk(n.Left)
			walk(n.Right)
		}
	}
	walk(c)
	return out
}

// writeClause emits one head with its body alternatives; a nil body is a
// plain fact.
func writeClause(sb *strings.Builder, head term.Compound, body term.Cond) error {
	headStr, err := renderGoal(head)
	if err != nil {
		return err
	}
	if body == nil {
		fmt.Fprintf(sb, "%s.\n", headStr)
		return nil
	}
	alts, err := alternatives(body)
	if err != nil {
		return err
	}
	for _, alt := range alts {
		if len(alt) == 0 {
			fmt.Fprintf(sb, "%s.\n", headStr)
			continue
		}
		fmt.Fprintf(sb, "%s :- %s.\n", headStr, strings.Join(alt, ", "))
	}
	return nil
}

// alternatives converts a condition tree to disjunctive normal form: one
// rendered conjunction per derivable alternative.
func alternatives(c term.Cond) ([][]string, error) {
	switch n := c.(type) {
	case term.Lit:
		lit, err := renderGoal(n.Goal)
		if err != nil {
			return nil, err
		}
		return [][]string{{lit}}, nil
	case term.Not:
		return negated(n.Body)
	case term.And:
		left, err := alternatives(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := alternatives(n.Right)
		if err != nil {
			return nil, err
		}
		return distribute(left, right), nil
	case term.Or:
		left, err := alternatives(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := alternatives(n.Right)
		if err != nil {
			return nil, err
		}
		return append(left, right...), nil
	case term.True:
		return [][]string{{}}, nil
	case term.False:
		return nil, nil
	default:
		return nil, fmt.Errorf("condition %T is not supported by the evaluator", c)
	}
}

// negated renders the negation of a condition, pushing it down to the
// literals: !(a and b) gives the alternatives !a | !b, !(a or b) the
// conjunction !a, !b.
func negated(c term.Cond) ([][]string, error) {
	switch n := c.(type) {
	case term.Lit:
		lit, err := renderGoal(n.Goal)
		if err != nil {
			return nil, err
		}
		return [][]string{{"!" + lit}}, nil
	case term.Not:
		return alternatives(n.Body)
	case term.And:
		left, err := negated(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := negated(n.Right)
		if err != nil {
			return nil, err
		}
		return append(left, right...), nil
	case term.Or:
		left, err := negated(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := negated(n.Right)
		if err != nil {
			return nil, err
		}
		return distribute(left, right), nil
	default:
		return nil, fmt.Errorf("negated condition %T is not supported by the evaluator", c)
	}
}

// distribute is the cartesian conjunction of two alternative lists.
func distribute(left, right [][]string) [][]string {
	out := make([][]string, 0, len(left)*len(right))
	for _, l := range left {
		for _, r := range right {
			conj := make([]string, 0, len(l)+len(r))
			conj = append(conj, l...)
			conj = append(conj, r...)
			out = append(out, conj)
		}
	}
	return out
}

// renderGoal renders one goal. Event/fluent wrappers flatten to the inner
// predicate with the time as a trailing argument; comparison relations
// map onto the evaluator's built-ins.
func renderGoal(g term.Compound) (string, error) {
	g = flattenTime(g)

	if kind, ok := comparisons[g.Functor]; ok && len(g.Args) == 2 {
		return renderComparison(kind, g.Args[0], g.Args[1])
	}

	if len(g.Args) == 0 {
		return g.Functor + "()", nil
	}
	args := make([]string, len(g.Args))
	for i, a := range g.Args {
		s, err := renderArg(a)
		if err != nil {
			return "", fmt.Errorf("%s: %w", g.Functor, err)
		}
		args[i] = s
	}
	return fmt.Sprintf("%s(%s)", g.Functor, strings.Join(args, ", ")), nil
}

// flattenTime rewrites happens(p(A...), T) and holds(p(A...), T) as
// p(A..., T), since the evaluator's atoms are first order.
func flattenTime(g term.Compound) term.Compound {
	if (g.Functor != "happens" && g.Functor != "holds") || len(g.Args) != 2 {
		return g
	}
	inner, ok := g.Args[0].(term.Compound)
	if !ok {
		return g
	}
	args := make([]term.Term, 0, len(inner.Args)+1)
	args = append(args, inner.Args...)
	args = append(args, g.Args[1])
	return term.Compound{Functor: inner.Functor, Args: args}
}

func renderComparison(kind compareKind, x, y term.Term) (string, error) {
	xs, err := renderArg(x)
	if err != nil {
		return "", err
	}
	ys, err := renderArg(y)
	if err != nil {
		return "", err
	}
	switch kind {
	case cmpLess:
		return fmt.Sprintf(":lt(%s, %s)", xs, ys), nil
	case cmpGreater:
		return fmt.Sprintf(":lt(%s, %s)", ys, xs), nil
	case cmpAtMost:
		return fmt.Sprintf(":le(%s, %s)", xs, ys), nil
	case cmpAtLeast:
		return fmt.Sprintf(":le(%s, %s)", ys, xs), nil
	case cmpEqual:
		return fmt.Sprintf("%s = %s", xs, ys), nil
	case cmpDifferent:
		return fmt.Sprintf("%s != %s", xs, ys), nil
	}
	return "", fmt.Errorf("unknown comparison")
}

// renderArg renders an argument term. Atoms become name constants when
// their spelling allows it and string constants otherwise; nested
// compounds (meta goals, arithmetic) have no first-order encoding here.
func renderArg(t term.Term) (string, error) {
	switch v := t.(type) {
	case term.Atom:
		if plainName(string(v)) {
			return "/" + string(v), nil
		}
		return strconv.Quote(string(v)), nil
	case term.Var:
		return v.Name, nil
	case term.Number:
		if v == term.Number(int64(v)) {
			return strconv.FormatInt(int64(v), 10), nil
		}
		return strconv.FormatFloat(float64(v), 'g', -1, 64), nil
	case term.Str:
		return strconv.Quote(string(v)), nil
	case term.List:
		parts := make([]string, len(v))
		for i, e := range v {
			s, err := renderArg(e)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case term.Compound:
		return "", fmt.Errorf("nested term %s is not supported by the evaluator", v.String())
	}
	return "", fmt.Errorf("unsupported term %v", t)
}

// plainName reports whether an atom spells a valid name constant.
func plainName(s string) bool {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' {
			continue
		}
		return false
	}
	return true
}
