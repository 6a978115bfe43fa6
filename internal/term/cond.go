package term

// Cond is a node of the boolean condition tree built from a rule or query
// body. True and False exist only as folding identities inside the
// indentation algorithm and never appear in a finished tree.
type Cond interface {
	isCond()
}

// Lit is a single matched goal.
type Lit struct {
	Goal Compound
}

// Not negates a nested condition.
type Not struct {
	Body Cond
}

// And is a binary conjunction, left-associative after folding.
type And struct {
	Left, Right Cond
}

// Or is a binary disjunction, left-associative after folding.
type Or struct {
	Left, Right Cond
}

// ForAll holds "for all cases in which ... it is the case that ...".
type ForAll struct {
	Cases      Cond
	Conclusion Cond
}

// SetOf holds "<Result> is a set of <Template> where <Body>".
type SetOf struct {
	Template Term
	Body     Cond
	Result   Var
}

// AggregateKind names an aggregate operation.
type AggregateKind string

const (
	// AggSum is "is the sum of each ... such that ...".
	AggSum AggregateKind = "sum"
)

// Aggregate folds Value over every solution of Body into Result.
type Aggregate struct {
	Kind   AggregateKind
	Value  Term
	Body   Cond
	Result Var
}

// True is the conjunction identity.
type True struct{}

// False is the disjunction identity.
type False struct{}

func (Lit) isCond()       {}
func (Not) isCond()       {}
func (And) isCond()       {}
func (Or) isCond()        {}
func (ForAll) isCond()    {}
func (SetOf) isCond()     {}
func (Aggregate) isCond() {}
func (True) isCond()      {}
func (False) isCond()     {}

// CondTerm converts a condition tree to its term form for the output
// contract: and/2, or/2, not/1, forall/2, findall/3, aggregate_all/3.
func CondTerm(c Cond) Term {
	switch n := c.(type) {
	case Lit:
		return n.Goal
	case Not:
		return Compound{Functor: "not", Args: []Term{CondTerm(n.Body)}}
	case And:
		return Compound{Functor: "and", Args: []Term{CondTerm(n.Left), CondTerm(n.Right)}}
	case Or:
		return Compound{Functor: "or", Args: []Term{CondTerm(n.Left), CondTerm(n.Right)}}
	case ForAll:
		return Compound{Functor: "forall", Args: []Term{CondTerm(n.Cases), CondTerm(n.Conclusion)}}
	case SetOf:
		return Compound{Functor: "findall", Args: []Term{n.Template, CondTerm(n.Body), n.Result}}
	case Aggregate:
		inner := Compound{Functor: string(n.Kind), Args: []Term{n.Value}}
		return Compound{Functor: "aggregate_all", Args: []Term{inner, CondTerm(n.Body), n.Result}}
	case True:
		return Atom("true")
	case False:
		return Atom("false")
	}
	return Atom("true")
}

// Flatten returns the literals of a pure And/Or chain over one operator in
// left-to-right order. It is used by tests and by the engine compiler.
func Flatten(c Cond) []Cond {
	switch n := c.(type) {
	case And:
		return append(Flatten(n.Left), Flatten(n.Right)...)
	case Or:
		return append(Flatten(n.Left), Flatten(n.Right)...)
	default:
		return []Cond{c}
	}
}
