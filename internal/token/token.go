// Package token defines the lexical token stream consumed by the parser.
// The scanner delivers every character of whitespace as its own token so
// that downstream code can measure indentation; the normalizer then folds
// control characters into line-numbered newline markers and strips
// %-comments before parsing begins.
package token

import (
	"fmt"
	"strings"
)

// Kind discriminates token variants.
type Kind int

const (
	// Word is a case-preserved identifier-like token.
	Word Kind = iota
	// Punct is a single punctuation character.
	Punct
	// Space is a single whitespace character (' ' or '\t').
	Space
	// Number is a numeric literal.
	Number
	// Str is a double-quoted string literal, quotes removed.
	Str
	// Ctrl is a raw control character ('\n' or '\r') as emitted by the
	// scanner. The normalizer replaces these with Newline tokens.
	Ctrl
	// Newline marks the start of a new line and carries its line number.
	Newline
)

// Token is one element of the lexical stream.
type Token struct {
	Kind Kind
	Text string  // Word/Punct/Space/Ctrl text, Str content, raw Number text
	Num  float64 // Number value
	Line int     // Newline only: the line the marker opens
}

// Columns returns the indentation width contributed by a Space token.
// A tab counts as four columns, any other whitespace as one.
func (t Token) Columns() int {
	if t.Kind != Space {
		return 0
	}
	if t.Text == "\t" {
		return 4
	}
	return 1
}

// IsWord reports whether the token is a Word with the given text,
// compared case-insensitively.
func (t Token) IsWord(text string) bool {
	return t.Kind == Word && strings.EqualFold(t.Text, text)
}

// IsPunct reports whether the token is the given punctuation character.
func (t Token) IsPunct(text string) bool {
	return t.Kind == Punct && t.Text == text
}

// String renders the token for diagnostics. Newlines render as \n so that
// error context stays on one line.
func (t Token) String() string {
	switch t.Kind {
	case Newline:
		return `\n`
	case Ctrl:
		return `\n`
	case Str:
		return fmt.Sprintf("%q", t.Text)
	case Number:
		if t.Text != "" {
			return t.Text
		}
		return fmt.Sprintf("%g", t.Num)
	default:
		return t.Text
	}
}

// Render joins tokens into a readable context string for error messages.
func Render(toks []Token) string {
	var sb strings.Builder
	prevSpace := true
	for _, t := range toks {
		if t.Kind == Space {
			if !prevSpace {
				sb.WriteString(" ")
				prevSpace = true
			}
			continue
		}
		if !prevSpace && t.Kind != Punct {
			sb.WriteString(" ")
		}
		sb.WriteString(t.String())
		prevSpace = false
	}
	return sb.String()
}
