package template

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logicle/internal/lexicon"
	"logicle/internal/term"
	"logicle/internal/token"
)

// testBinder is a minimal Binder for matcher tests.
type testBinder struct {
	names []string
	vars  map[string]term.Var
}

func newTestBinder() *testBinder {
	return &testBinder{vars: make(map[string]term.Var)}
}

func (b *testBinder) Fresh(name string) (term.Var, error) {
	if name == "" {
		return term.Var{}, fmt.Errorf("empty name")
	}
	if v, ok := b.vars[name]; ok {
		return v, nil
	}
	v := term.Var{Name: term.VarName(term.DisplayWords(name))}
	b.vars[name] = v
	b.names = append(b.names, name)
	return v, nil
}

func (b *testBinder) Lookup(name string) (term.Var, bool) {
	v, ok := b.vars[name]
	return v, ok
}

func (b *testBinder) Mark() int { return len(b.names) }

func (b *testBinder) Reset(mark int) {
	for _, name := range b.names[mark:] {
		delete(b.vars, name)
	}
	b.names = b.names[:mark]
}

// paysEntry is the template "a * payer * pays a * amount * to a * payee *".
func paysEntry() *Entry {
	return &Entry{
		Predicate: "pays_to",
		Slots: []Slot{
			{Name: "payer", Type: "payer"},
			{Name: "amount", Type: "amount"},
			{Name: "payee", Type: "payee"},
		},
		Parts: []Part{
			{Kind: Arg, Slot: 0},
			{Kind: Lit, Word: "pays"},
			{Kind: Arg, Slot: 1},
			{Kind: Lit, Word: "to"},
			{Kind: Arg, Slot: 2},
		},
	}
}

func happyEntry() *Entry {
	return &Entry{
		Predicate: "is_happy",
		Slots:     []Slot{{Name: "person", Type: "person"}},
		Parts: []Part{
			{Kind: Arg, Slot: 0},
			{Kind: Lit, Word: "is"},
			{Kind: Lit, Word: "happy"},
		},
	}
}

func believesEntry() *Entry {
	return &Entry{
		Predicate: "believes",
		Meta:      true,
		Slots:     []Slot{{Name: "person", Type: "person"}, {Name: "statement", Type: "statement"}},
		Parts: []Part{
			{Kind: Arg, Slot: 0},
			{Kind: Lit, Word: "believes"},
			{Kind: Lit, Word: "that"},
			{Kind: Arg, Slot: 1},
		},
	}
}

func window(src string) []token.Token {
	var out []token.Token
	for _, t := range token.NewNormalizer().Normalize(token.Scan(src)) {
		if t.Kind != token.Space {
			out = append(out, t)
		}
	}
	return out
}

func newTestMatcher(entries ...*Entry) *Matcher {
	d := NewDictionary()
	d.Add(entries...)
	d.Sort()
	return NewMatcher(d, lexicon.ByLanguage(lexicon.English))
}

func TestDictionaryOrder(t *testing.T) {
	meta := believesEntry()
	long := paysEntry()
	short := happyEntry()

	d := NewDictionary()
	d.Add(short, long, meta)
	d.Sort()

	// Meta first, then plain by descending fixed-word count; pays_to
	// and is_happy both carry two fixed words, so the slot-starred
	// signature breaks the tie ("* is happy" < "* pays * to *").
	got := d.Entries()
	assert.Equal(t, "believes", got[0].Predicate)
	assert.Equal(t, "is_happy", got[1].Predicate)
	assert.Equal(t, "pays_to", got[2].Predicate)

	// Sorting twice is idempotent.
	before := make([]*Entry, d.Len())
	copy(before, d.Entries())
	d.Sort()
	assert.Equal(t, before, d.Entries())
}

func TestMatchGroundFact(t *testing.T) {
	m := newTestMatcher(paysEntry())
	b := newTestBinder()

	goal, err := m.Match(window("borrower pays an amount to lender"), b)
	require.NoError(t, err)

	assert.Equal(t, "pays_to", goal.Functor)
	assert.Equal(t, term.Atom("borrower"), goal.Args[0])
	assert.Equal(t, term.Var{Name: "Amount"}, goal.Args[1])
	assert.Equal(t, term.Atom("lender"), goal.Args[2])
}

func TestMatchDefiniteRequiresPriorBinding(t *testing.T) {
	m := newTestMatcher(paysEntry())

	// Unbound definite reference fails.
	_, err := m.Match(window("the borrower pays an amount to lender"), newTestBinder())
	assert.ErrorIs(t, err, ErrNoMatch)

	// Bound via a prior indefinite, the same window matches.
	b := newTestBinder()
	_, err = b.Fresh("borrower")
	require.NoError(t, err)
	goal, err := m.Match(window("the borrower pays an amount to lender"), b)
	require.NoError(t, err)
	assert.Equal(t, term.Var{Name: "Borrower"}, goal.Args[0])
}

func TestMatchMultiWordNounPhrase(t *testing.T) {
	e := &Entry{
		Predicate: "applies_to",
		Slots:     []Slot{{Name: "rollover"}, {Name: "event"}},
		Parts: []Part{
			{Kind: Arg, Slot: 0},
			{Kind: Lit, Word: "applies"},
			{Kind: Lit, Word: "to"},
			{Kind: Arg, Slot: 1},
		},
	}
	m := newTestMatcher(e)
	b := newTestBinder()
	_, err := b.Fresh("event")
	require.NoError(t, err)

	goal, err := m.Match(window("the small business restructure rollover applies to the event"), b)
	require.ErrorIs(t, err, ErrNoMatch)

	// "the small business restructure rollover" is definite but unbound;
	// binding it first makes the match succeed with both references
	// resolved consistently.
	_, err = b.Fresh("small_business_restructure_rollover")
	require.NoError(t, err)
	goal, err = m.Match(window("the small business restructure rollover applies to the event"), b)
	require.NoError(t, err)
	assert.Equal(t, term.Var{Name: "Small_business_restructure_rollover"}, goal.Args[0])
	assert.Equal(t, term.Var{Name: "Event"}, goal.Args[1])
}

func TestMatchDate(t *testing.T) {
	e := &Entry{
		Predicate: "was_born_on",
		Slots:     []Slot{{Name: "person"}, {Name: "date", Type: "date"}},
		Parts: []Part{
			{Kind: Arg, Slot: 0},
			{Kind: Lit, Word: "was"},
			{Kind: Lit, Word: "born"},
			{Kind: Lit, Word: "on"},
			{Kind: Arg, Slot: 1},
		},
	}
	m := newTestMatcher(e)
	goal, err := m.Match(window("john was born on 2015-06-01T00:00:00"), newTestBinder())
	require.NoError(t, err)

	want := time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC).Unix()
	assert.Equal(t, term.Number(want), goal.Args[1])
}

func TestMatchArithmetic(t *testing.T) {
	e := &Entry{
		Predicate: "totals",
		Slots:     []Slot{{Name: "account"}, {Name: "total"}},
		Parts: []Part{
			{Kind: Arg, Slot: 0},
			{Kind: Lit, Word: "totals"},
			{Kind: Arg, Slot: 1},
		},
	}
	m := newTestMatcher(e)
	b := newTestBinder()
	_, err := b.Fresh("amount")
	require.NoError(t, err)

	goal, err := m.Match(window("savings totals the amount + 10"), b)
	require.NoError(t, err)
	assert.Equal(t, "+(Amount,10)", goal.Args[1].String())
}

func TestMatchList(t *testing.T) {
	e := &Entry{
		Predicate: "has_members",
		Slots:     []Slot{{Name: "group"}, {Name: "members"}},
		Parts: []Part{
			{Kind: Arg, Slot: 0},
			{Kind: Lit, Word: "has"},
			{Kind: Lit, Word: "members"},
			{Kind: Arg, Slot: 1},
		},
	}
	m := newTestMatcher(e)
	goal, err := m.Match(window("board has members [alice, bob, 3]"), newTestBinder())
	require.NoError(t, err)
	assert.Equal(t, "[alice,bob,3]", goal.Args[1].String())
}

func TestMatchMetaNesting(t *testing.T) {
	m := newTestMatcher(believesEntry(), paysEntry())
	b := newTestBinder()

	goal, err := m.Match(window("john believes that borrower pays an amount to lender"), b)
	require.NoError(t, err)

	assert.Equal(t, "believes", goal.Functor)
	inner, ok := goal.Args[1].(term.Compound)
	require.True(t, ok)
	assert.Equal(t, "pays_to", inner.Functor)
}

func TestMatchMetaOnlyOneLevel(t *testing.T) {
	m := newTestMatcher(believesEntry(), paysEntry())
	b := newTestBinder()

	// A meta template inside a meta slot would need a second nesting
	// level and must fail.
	_, err := m.Match(window("john believes that mary believes that borrower pays an amount to lender"), b)
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestMatchLongerTemplateWins(t *testing.T) {
	short := &Entry{
		Predicate: "pays",
		Slots:     []Slot{{Name: "payer"}, {Name: "amount"}},
		Parts: []Part{
			{Kind: Arg, Slot: 0},
			{Kind: Lit, Word: "pays"},
			{Kind: Arg, Slot: 1},
		},
	}
	m := newTestMatcher(short, paysEntry())

	goal, err := m.Match(window("borrower pays an amount to lender"), newTestBinder())
	require.NoError(t, err)
	assert.Equal(t, "pays_to", goal.Functor)
}

func TestClassify(t *testing.T) {
	m := newTestMatcher(paysEntry())
	m.Events["pays_to/3"] = true

	goal := term.Compound{Functor: "pays_to", Args: []term.Term{term.Atom("a"), term.Number(1), term.Atom("b")}}
	wrapped := m.Classify(goal, term.Number(99))
	assert.Equal(t, "happens(pays_to(a,1,b),99)", wrapped.String())

	other := term.Compound{Functor: "owns", Args: []term.Term{term.Atom("a")}}
	assert.Equal(t, "owns(a)", m.Classify(other, term.Number(99)).String())
}

func TestRenderRoundTrip(t *testing.T) {
	m := newTestMatcher(paysEntry())
	r := NewRenderer(m.Dict, m.Lex)
	b := newTestBinder()

	goal, err := m.Match(window("borrower pays an amount to lender"), b)
	require.NoError(t, err)

	phrase := r.RenderPhrase(goal)
	assert.Equal(t, "borrower pays an amount to lender", phrase)

	// Matching the rendered phrase again yields a structurally identical
	// goal (property: match(render(g)) == g).
	b2 := newTestBinder()
	again, err := m.Match(window(phrase), b2)
	require.NoError(t, err)
	if diff := cmp.Diff(goal, again); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderFallback(t *testing.T) {
	r := NewRenderer(NewDictionary(), lexicon.ByLanguage(lexicon.English))
	goal := term.Compound{Functor: "mystery", Args: []term.Term{term.Atom("x")}}
	assert.Equal(t, []string{"mystery", "x"}, r.Render(goal))
}

func TestRenderDate(t *testing.T) {
	e := &Entry{
		Predicate: "was_born_on",
		Slots:     []Slot{{Name: "person"}, {Name: "date", Type: "date"}},
		Parts: []Part{
			{Kind: Arg, Slot: 0},
			{Kind: Lit, Word: "was"},
			{Kind: Lit, Word: "born"},
			{Kind: Lit, Word: "on"},
			{Kind: Arg, Slot: 1},
		},
	}
	m := newTestMatcher(e)
	r := NewRenderer(m.Dict, m.Lex)

	epoch := time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC).Unix()
	goal := term.Compound{Functor: "was_born_on", Args: []term.Term{term.Atom("john"), term.Number(epoch)}}
	assert.Equal(t, "john was born on 2015-06-01T00:00:00", r.RenderPhrase(goal))
}
