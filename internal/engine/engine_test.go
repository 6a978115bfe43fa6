package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"logicle/internal/parser"
	"logicle/internal/term"
)

const paymentsDoc = `the templates are:
a * person * is happy,
a * payer * pays an * amount * to a * payee *.

the knowledge base the_kb includes:
a person is happy
if the person pays an amount to a payee
or the person pays 100 to ann.

scenario one is:
bob pays 50 to alice.

query one is:
for which person:
 the person is happy.
`

func translate(t *testing.T, src string) *term.Document {
	t.Helper()
	doc, diags, err := parser.Translate(src, parser.Options{})
	require.NoError(t, err)
	require.Empty(t, diags)
	return doc
}

func TestCompileProgram(t *testing.T) {
	doc := translate(t, paymentsDoc)

	src, err := Compile(doc, "one", "one")
	require.NoError(t, err)

	want := "is_happy(Person) :- pays_to(Person, Amount, Payee).\n" +
		"is_happy(Person) :- pays_to(Person, 100, /ann).\n" +
		"pays_to(/bob, 50, /alice).\n" +
		"query_one(Person) :- is_happy(Person).\n"
	assert.Equal(t, want, src)
}

func TestCompileNegation(t *testing.T) {
	src := `the templates are:
a * payer * pays an * amount * to a * payee *,
a * person * is blocked.

the knowledge base rules includes:
a person is blocked
if it is not the case that
    the person pays 100 to ann.
`
	doc := translate(t, src)

	out, err := Compile(doc, "", "")
	require.NoError(t, err)
	assert.Equal(t, "is_blocked(Person) :- !pays_to(Person, 100, /ann).\n", out)
}

func TestCompileComparison(t *testing.T) {
	src := `the templates are:
a * person * has a * balance *,
a * person * is rich.

the knowledge base wealth includes:
a person is rich
if the person has a balance
and the balance is greater than 1000.
`
	doc := translate(t, src)

	out, err := Compile(doc, "", "")
	require.NoError(t, err)
	assert.Equal(t, "is_rich(Person) :- has(Person, Balance), :lt(1000, Balance).\n", out)
}

func TestCompileEventTimeFlattening(t *testing.T) {
	src := `the events are:
a * payer * pays an * amount *.

scenario two is:
ann pays 10 on 2015-06-01.
`
	doc := translate(t, src)

	out, err := Compile(doc, "two", "")
	require.NoError(t, err)
	assert.Equal(t, "pays(/ann, 10, 1433116800).\n", out)
}

func TestCompileRejectsAggregates(t *testing.T) {
	src := `the templates are:
a * person * owes an * amount *,
a * total * totals all debts.

the knowledge base debts includes:
a total totals all debts
if the total is the sum of each amount such that
    a person owes the amount.
`
	doc := translate(t, src)

	_, err := Compile(doc, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

func TestCompileUnknownScenario(t *testing.T) {
	doc := translate(t, paymentsDoc)

	_, err := Compile(doc, "missing", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestEvalDerivesAnswers(t *testing.T) {
	doc := translate(t, paymentsDoc)

	eng := New(zap.NewNop())
	res, err := eng.Eval(context.Background(), doc, "one", "one")
	require.NoError(t, err)

	require.Len(t, res.Answers, 1)
	assert.Equal(t, "query_one(/bob)", res.Answers[0])
	assert.Positive(t, res.Facts)
}
