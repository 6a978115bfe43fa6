package parser

import (
	"strings"

	"logicle/internal/lexicon"
	"logicle/internal/token"
)

// cursor walks the normalized token stream, tracking the current line and
// the indentation of that line. Spaces are significant only for the
// indentation measurement; everything else skips them.
type cursor struct {
	toks   []token.Token
	pos    int
	line   int
	indent int
}

type mark struct {
	pos, line, indent int
}

func newCursor(toks []token.Token) *cursor {
	c := &cursor{toks: toks, line: 1}
	c.indent = c.measureIndent(0)
	return c
}

func (c *cursor) save() mark {
	return mark{c.pos, c.line, c.indent}
}

func (c *cursor) restore(m mark) {
	c.pos, c.line, c.indent = m.pos, m.line, m.indent
}

// measureIndent sums space columns starting at pos.
func (c *cursor) measureIndent(pos int) int {
	cols := 0
	for pos < len(c.toks) && c.toks[pos].Kind == token.Space {
		cols += c.toks[pos].Columns()
		pos++
	}
	return cols
}

// skipSpaces advances over spaces on the current line.
func (c *cursor) skipSpaces() {
	for c.pos < len(c.toks) && c.toks[c.pos].Kind == token.Space {
		c.pos++
	}
}

// skipLayout advances over spaces and line breaks, updating the line
// counter and the current line's indentation.
func (c *cursor) skipLayout() {
	for c.pos < len(c.toks) {
		t := c.toks[c.pos]
		if t.Kind == token.Space {
			c.pos++
			continue
		}
		if t.Kind == token.Newline {
			c.line = t.Line
			c.pos++
			c.indent = c.measureIndent(c.pos)
			continue
		}
		return
	}
}

// eof reports whether only layout remains.
func (c *cursor) eof() bool {
	m := c.save()
	c.skipLayout()
	done := c.pos >= len(c.toks)
	c.restore(m)
	return done
}

// peek returns the next non-space token on the current line, or a Newline
// token when the line ends first.
func (c *cursor) peek() token.Token {
	p := c.pos
	for p < len(c.toks) && c.toks[p].Kind == token.Space {
		p++
	}
	if p >= len(c.toks) {
		return token.Token{Kind: token.Newline, Line: c.line}
	}
	return c.toks[p]
}

// next consumes and returns the next non-space token, crossing line
// breaks and keeping the line counter current.
func (c *cursor) next() token.Token {
	c.skipLayout()
	if c.pos >= len(c.toks) {
		return token.Token{Kind: token.Newline, Line: c.line}
	}
	t := c.toks[c.pos]
	c.pos++
	return t
}

// matchWord consumes the given word (case-insensitive) after layout, or
// leaves the cursor unmoved.
func (c *cursor) matchWord(w string) bool {
	m := c.save()
	c.skipLayout()
	if c.pos < len(c.toks) && c.toks[c.pos].IsWord(w) {
		c.pos++
		return true
	}
	c.restore(m)
	return false
}

// matchPunct consumes the given punctuation after layout, or leaves the
// cursor unmoved.
func (c *cursor) matchPunct(p string) bool {
	m := c.save()
	c.skipLayout()
	if c.pos < len(c.toks) && c.toks[c.pos].IsPunct(p) {
		c.pos++
		return true
	}
	c.restore(m)
	return false
}

// matchPhrase consumes a whole fixed phrase or leaves the cursor unmoved.
func (c *cursor) matchPhrase(ph lexicon.Phrase) bool {
	m := c.save()
	for _, w := range ph {
		if !c.matchWord(w) {
			c.restore(m)
			return false
		}
	}
	return true
}

// matchAnyPhrase tries each phrase in turn.
func (c *cursor) matchAnyPhrase(phrases []lexicon.Phrase) bool {
	for _, ph := range phrases {
		if c.matchPhrase(ph) {
			return true
		}
	}
	return false
}

// collectWindow gathers the non-space tokens of one phrase window:
// everything up to (not including) the next line break, or up to a
// stopping punctuation from stops. The terminating token is not consumed.
func (c *cursor) collectWindow(stops ...string) []token.Token {
	var out []token.Token
	for c.pos < len(c.toks) {
		t := c.toks[c.pos]
		if t.Kind == token.Newline {
			break
		}
		if t.Kind == token.Space {
			c.pos++
			continue
		}
		if t.Kind == token.Punct && contains(stops, t.Text) {
			break
		}
		out = append(out, t)
		c.pos++
	}
	return out
}

// collectAcross gathers non-space tokens across line breaks, stopping
// before a stop punctuation or end of input. Line breaks update the line
// counter but are not included in the window.
func (c *cursor) collectAcross(stops ...string) []token.Token {
	var out []token.Token
	for c.pos < len(c.toks) {
		t := c.toks[c.pos]
		if t.Kind == token.Space {
			c.pos++
			continue
		}
		if t.Kind == token.Newline {
			c.line = t.Line
			c.pos++
			c.indent = c.measureIndent(c.pos)
			continue
		}
		if t.Kind == token.Punct && contains(stops, t.Text) {
			break
		}
		out = append(out, t)
		c.pos++
	}
	return out
}

// collectWords gathers consecutive words (for section and scenario
// names), stopping at anything else.
func (c *cursor) collectWords() []string {
	var words []string
	for {
		m := c.save()
		c.skipLayout()
		if c.pos < len(c.toks) && c.toks[c.pos].Kind == token.Word {
			words = append(words, strings.ToLower(c.toks[c.pos].Text))
			c.pos++
			continue
		}
		c.restore(m)
		return words
	}
}

// context returns up to n tokens around the current position for
// diagnostics.
func (c *cursor) context(n int) []token.Token {
	start := c.pos - n
	if start < 0 {
		start = 0
	}
	var out []token.Token
	for _, t := range c.toks[start:c.pos] {
		if t.Kind != token.Space {
			out = append(out, t)
		}
	}
	end := c.pos + n
	if end > len(c.toks) {
		end = len(c.toks)
	}
	for _, t := range c.toks[c.pos:end] {
		if t.Kind != token.Space {
			out = append(out, t)
		}
	}
	return out
}

func contains(set []string, s string) bool {
	for _, x := range set {
		if x == s {
			return true
		}
	}
	return false
}
