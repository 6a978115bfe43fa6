package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanBasic(t *testing.T) {
	toks := Scan("a person pays 42.")
	var kinds []Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []Kind{Word, Space, Word, Space, Word, Space, Number, Punct}, kinds)
	assert.Equal(t, "person", toks[2].Text)
	assert.Equal(t, 42.0, toks[6].Num)
	assert.Equal(t, ".", toks[7].Text)
}

func TestScanNumberBeforePeriod(t *testing.T) {
	// The sentence terminator must not be swallowed as a decimal point.
	toks := Scan("100.")
	require.Len(t, toks, 2)
	assert.Equal(t, Number, toks[0].Kind)
	assert.Equal(t, 100.0, toks[0].Num)
	assert.Equal(t, Punct, toks[1].Kind)
}

func TestScanDecimal(t *testing.T) {
	toks := Scan("3.14")
	require.Len(t, toks, 1)
	assert.Equal(t, 3.14, toks[0].Num)
	assert.Equal(t, "3.14", toks[0].Text)
}

func TestScanString(t *testing.T) {
	toks := Scan(`say "hello\nworld"`)
	require.Len(t, toks, 3)
	assert.Equal(t, Str, toks[2].Kind)
	assert.Equal(t, "hello\nworld", toks[2].Text)
}

func TestScanWhitespaceIsPerCharacter(t *testing.T) {
	toks := Scan("  \ta")
	require.Len(t, toks, 4)
	assert.Equal(t, 1, toks[0].Columns())
	assert.Equal(t, 1, toks[1].Columns())
	assert.Equal(t, 4, toks[2].Columns())
}

func TestNormalizeLineNumbers(t *testing.T) {
	n := NewNormalizer()
	toks := n.Normalize(Scan("one\ntwo\nthree"))

	var lines []int
	for _, tok := range toks {
		if tok.Kind == Newline {
			lines = append(lines, tok.Line)
		}
	}
	assert.Equal(t, []int{2, 3}, lines)
	assert.Equal(t, 3, n.Line())
}

func TestNormalizeCRLF(t *testing.T) {
	n := NewNormalizer()
	toks := n.Normalize(Scan("one\r\ntwo"))

	count := 0
	for _, tok := range toks {
		if tok.Kind == Newline {
			count++
		}
	}
	// One marker per line break even for CRLF; the counter still advances
	// once per control character.
	assert.Equal(t, 1, count)
	assert.Equal(t, 3, n.Line())
}

func TestNormalizeStripsComments(t *testing.T) {
	n := NewNormalizer()
	toks := n.Normalize(Scan("kept % dropped words\nnext"))

	assert.Equal(t, "kept \\n next", Render(toks))
}

func TestNormalizerIsPerDocument(t *testing.T) {
	first := NewNormalizer()
	first.Normalize(Scan("a\nb\nc"))

	second := NewNormalizer()
	toks := second.Normalize(Scan("x\ny"))
	for _, tok := range toks {
		if tok.Kind == Newline {
			assert.Equal(t, 2, tok.Line)
		}
	}
}
