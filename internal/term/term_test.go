package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTermString(t *testing.T) {
	tests := []struct {
		name string
		in   Term
		want string
	}{
		{"atom", Atom("borrower"), "borrower"},
		{"quoted atom", Atom("the kb"), "'the kb'"},
		{"var", Var{Name: "Amount"}, "Amount"},
		{"integer number", Number(42), "42"},
		{"float number", Number(2.5), "2.5"},
		{"string", Str("hi"), `"hi"`},
		{"list", List{Atom("a"), Number(1)}, "[a,1]"},
		{
			"compound",
			Compound{Functor: "pays_to", Args: []Term{Atom("borrower"), Var{Name: "Amount"}, Atom("lender")}},
			"pays_to(borrower,Amount,lender)",
		},
		{"zero arity compound", Compound{Functor: "raining"}, "raining"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.String())
		})
	}
}

func TestGround(t *testing.T) {
	tests := []struct {
		name string
		in   Term
		want bool
	}{
		{"atom", Atom("bob"), true},
		{"var", Var{Name: "T1"}, false},
		{"ground compound", Compound{Functor: "pays", Args: []Term{Atom("ann"), Number(10)}}, true},
		{"var inside compound", Compound{Functor: "happens", Args: []Term{Compound{Functor: "pays", Args: []Term{Atom("ann"), Number(10)}}, Var{Name: "T1"}}}, false},
		{"var inside list", List{Atom("a"), Var{Name: "X"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Ground(tt.in))
		})
	}
}

func TestCondTerm(t *testing.T) {
	p := Lit{Goal: Compound{Functor: "p"}}
	q := Lit{Goal: Compound{Functor: "q"}}
	r := Lit{Goal: Compound{Functor: "r"}}

	c := And{Left: p, Right: Or{Left: q, Right: Not{Body: r}}}
	assert.Equal(t, "and(p,or(q,not(r)))", CondTerm(c).String())
}

func TestVarNameRoundTrip(t *testing.T) {
	name := VarName([]string{"small", "business"})
	assert.Equal(t, "Small_business", name)
	assert.Equal(t, []string{"small", "business"}, DisplayWords(name))
}

func TestClauseTerm(t *testing.T) {
	head := Compound{Functor: "happy", Args: []Term{Var{Name: "Person"}}}
	body := Lit{Goal: Compound{Functor: "rich", Args: []Term{Var{Name: "Person"}}}}

	withLine := Clause{Head: head, Body: body, Line: 7}
	assert.Equal(t, "if(7,happy(Person),rich(Person))", withLine.Term().String())

	fact := Clause{Head: head}
	assert.Equal(t, "if(happy(Person),true)", fact.Term().String())
}

func TestDocumentTermsOrder(t *testing.T) {
	doc := &Document{
		Target:     "prolog",
		Predicates: []Compound{{Functor: "pays_to", Args: []Term{Var{Name: "A"}, Var{Name: "B"}, Var{Name: "C"}}}},
		Types:      []string{"person"},
		KBs: []KB{{
			Name:    "the_kb",
			Clauses: []Clause{{Head: Compound{Functor: "raining"}, Line: 3}},
		}},
		Scenarios: []Scenario{{Name: "one", Assumptions: []Compound{{Functor: "raining"}}}},
		Queries:   []Query{{Name: "one", Cond: Lit{Goal: Compound{Functor: "raining"}}}},
	}

	var got []string
	for _, tm := range doc.Terms() {
		got = append(got, tm.String())
	}
	want := []string{
		"target(prolog)",
		"predicates([pays_to(A,B,C)])",
		"events([])",
		"fluents([])",
		"metapredicates([])",
		"kbname(the_kb)",
		"if(3,raining,true)",
		"example(one,[scenario([raining],true)])",
		"query(one,raining)",
		"is_type(person)",
	}
	assert.Equal(t, want, got)
}
