package token

// Normalizer rewrites the raw scanner stream for the parser: each control
// character becomes a Newline token carrying a monotonically increasing
// line number, and %-comments are removed up to (but excluding) the next
// line break. One Normalizer serves exactly one document translation; the
// line counter starts at 1 and is never shared between documents.
type Normalizer struct {
	line int
}

// NewNormalizer returns a normalizer with the line counter reset to 1.
func NewNormalizer() *Normalizer {
	return &Normalizer{line: 1}
}

// Line returns the current line number.
func (n *Normalizer) Line() int {
	return n.line
}

// Normalize converts Ctrl tokens to numbered Newline markers and strips
// comments. A '\r' immediately followed by '\n' advances the counter for
// both characters but emits a single marker.
func (n *Normalizer) Normalize(toks []Token) []Token {
	out := make([]Token, 0, len(toks))
	i := 0
	for i < len(toks) {
		t := toks[i]
		switch {
		case t.Kind == Ctrl:
			n.line++
			if t.Text == "\r" && i+1 < len(toks) && toks[i+1].Kind == Ctrl && toks[i+1].Text == "\n" {
				n.line++
				i++
			}
			out = append(out, Token{Kind: Newline, Line: n.line})
			i++
		case t.IsPunct("%"):
			// Comment runs to the next control character, which stays in
			// the stream so line numbering is unaffected.
			for i < len(toks) && toks[i].Kind != Ctrl {
				i++
			}
		default:
			out = append(out, t)
			i++
		}
	}
	return out
}
