package logicle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalDoc = `the target is prolog.

the templates are:
a * person * drinks,
a * person * is a drinker.

the knowledge base habits includes:
a person is a drinker
if the person drinks.

scenario one is:
alice drinks.

query all is:
for which person:
 the person is a drinker.
`

func TestTranslateAndRender(t *testing.T) {
	doc, diags, err := Translate(minimalDoc, Options{})
	require.NoError(t, err)
	require.Empty(t, diags)

	out := Render(doc)
	assert.Contains(t, out, "is_a_drinker(Person),drinks(Person))")
	assert.Contains(t, out, "example(one,[scenario([drinks(alice)],true)])")
}

func TestTranslateReportsErrors(t *testing.T) {
	_, diags, err := Translate("gibberish that introduces nothing.\n", Options{})
	require.Error(t, err)
	assert.NotEmpty(t, diags)
}
