package token

import (
	"strconv"
	"unicode"
)

// Scan lexes source text into the raw token stream. Words keep their case,
// every whitespace character becomes its own Space token, and '\n'/'\r'
// become Ctrl tokens for the normalizer to number. Scan never fails:
// unrecognized characters are passed through as single-character Punct
// tokens for the parser to reject with context.
func Scan(src string) []Token {
	var toks []Token
	runes := []rune(src)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case r == '\n' || r == '\r':
			toks = append(toks, Token{Kind: Ctrl, Text: string(r)})
			i++
		case r == ' ' || r == '\t':
			toks = append(toks, Token{Kind: Space, Text: string(r)})
			i++
		case unicode.IsDigit(r):
			j := i
			for j < len(runes) && unicode.IsDigit(runes[j]) {
				j++
			}
			// Fractional part only when a digit follows the dot, so a
			// sentence-ending period after a number stays punctuation.
			if j+1 < len(runes) && runes[j] == '.' && unicode.IsDigit(runes[j+1]) {
				j += 2
				for j < len(runes) && unicode.IsDigit(runes[j]) {
					j++
				}
			}
			text := string(runes[i:j])
			num, _ := strconv.ParseFloat(text, 64)
			toks = append(toks, Token{Kind: Number, Text: text, Num: num})
			i = j
		case r == '"':
			text, j := scanString(runes, i+1)
			toks = append(toks, Token{Kind: Str, Text: text})
			i = j
		case unicode.IsLetter(r) || r == '_':
			j := i
			for j < len(runes) && isWordRune(runes[j]) {
				j++
			}
			toks = append(toks, Token{Kind: Word, Text: string(runes[i:j])})
			i = j
		default:
			toks = append(toks, Token{Kind: Punct, Text: string(r)})
			i++
		}
	}
	return toks
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// scanString consumes a double-quoted string starting after the opening
// quote and returns the unescaped content and the index after the closing
// quote. An unterminated string runs to end of input.
func scanString(runes []rune, start int) (string, int) {
	var sb []rune
	i := start
	for i < len(runes) {
		r := runes[i]
		if r == '\\' && i+1 < len(runes) {
			next := runes[i+1]
			switch next {
			case 'n':
				sb = append(sb, '\n')
			case 't':
				sb = append(sb, '\t')
			default:
				sb = append(sb, next)
			}
			i += 2
			continue
		}
		if r == '"' {
			return string(sb), i + 1
		}
		sb = append(sb, r)
		i++
	}
	return string(sb), i
}
