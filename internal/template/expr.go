package template

import (
	"strings"
	"time"

	"logicle/internal/term"
	"logicle/internal/token"
)

// Binder resolves noun-phrase names to logical variables. The parser's
// name map implements it; one binder lives exactly as long as one rule,
// scenario assumption or query.
type Binder interface {
	// Fresh introduces a binding for an indefinite reference, returning
	// the existing variable when the name is already bound.
	Fresh(name string) (term.Var, error)
	// Lookup resolves a definite or bare reference.
	Lookup(name string) (term.Var, bool)
	// Mark and Reset bracket a match attempt so bindings made by a
	// template that ultimately fails are rolled back before the next
	// dictionary entry is tried.
	Mark() int
	Reset(mark int)
}

// tryDate parses an ISO-like date at the start of toks:
// YYYY-MM-DD optionally followed by Thh:mm:ss. It returns the epoch
// seconds and the number of tokens consumed, or ok=false.
func tryDate(toks []token.Token) (term.Number, int, bool) {
	if len(toks) < 5 {
		return 0, 0, false
	}
	if toks[0].Kind != token.Number || !toks[1].IsPunct("-") ||
		toks[2].Kind != token.Number || !toks[3].IsPunct("-") ||
		toks[4].Kind != token.Number {
		return 0, 0, false
	}
	year, month, day := int(toks[0].Num), int(toks[2].Num), int(toks[4].Num)
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, 0, false
	}
	consumed := 5
	hour, minute, second := 0, 0, 0

	// Optional Thh:mm:ss. The scanner lexes "01T00" so the hour arrives
	// glued to a leading T word.
	if len(toks) >= consumed+5 {
		w := toks[consumed]
		if w.Kind == token.Word && len(w.Text) > 1 && (w.Text[0] == 'T' || w.Text[0] == 't') &&
			allDigits(w.Text[1:]) &&
			toks[consumed+1].IsPunct(":") && toks[consumed+2].Kind == token.Number &&
			toks[consumed+3].IsPunct(":") && toks[consumed+4].Kind == token.Number {
			hour = atoiSafe(w.Text[1:])
			minute = int(toks[consumed+2].Num)
			second = int(toks[consumed+4].Num)
			consumed += 5
		}
	}
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	return term.Number(t.Unix()), consumed, true
}

// UnparseDate renders an epoch-seconds value back to the date notation
// used in source text.
func UnparseDate(epoch term.Number) string {
	t := time.Unix(int64(epoch), 0).UTC()
	return t.Format("2006-01-02T15:04:05")
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

// parseExpr parses an arithmetic expression (numbers, dates, bound
// variables, + - * / with the usual precedence, parentheses) from the
// start of toks. Returns the term and tokens consumed; ok=false when toks
// does not begin with an expression.
func parseExpr(toks []token.Token, b Binder) (term.Term, int, bool) {
	left, n, ok := parseProduct(toks, b)
	if !ok {
		return nil, 0, false
	}
	return parseExprFrom(left, toks[n:], b, n)
}

// parseExprFrom continues an expression whose left operand is already
// known, folding additive operators. base is the token count already
// consumed for left.
func parseExprFrom(left term.Term, rest []token.Token, b Binder, base int) (term.Term, int, bool) {
	total := base
	for {
		rest = skipSpacesPrefix(rest, &total)
		if len(rest) == 0 || rest[0].Kind != token.Punct {
			return left, total, true
		}
		op := rest[0].Text
		if op != "+" && op != "-" {
			return left, total, true
		}
		inner := rest[1:]
		consumed := 1
		inner = skipSpacesPrefix(inner, &consumed)
		right, n, ok := parseProduct(inner, b)
		if !ok {
			return left, total, true
		}
		left = term.Compound{Functor: op, Args: []term.Term{left, right}}
		total += consumed + n
		rest = inner[n:]
	}
}

func parseProduct(toks []token.Token, b Binder) (term.Term, int, bool) {
	left, n, ok := parseFactor(toks, b)
	if !ok {
		return nil, 0, false
	}
	total := n
	rest := toks[n:]
	for {
		rest = skipSpacesPrefix(rest, &total)
		if len(rest) == 0 || rest[0].Kind != token.Punct {
			return left, total, true
		}
		op := rest[0].Text
		if op != "*" && op != "/" {
			return left, total, true
		}
		inner := rest[1:]
		consumed := 1
		inner = skipSpacesPrefix(inner, &consumed)
		right, n, ok := parseFactor(inner, b)
		if !ok {
			return left, total, true
		}
		left = term.Compound{Functor: op, Args: []term.Term{left, right}}
		total += consumed + n
		rest = inner[n:]
	}
}

func parseFactor(toks []token.Token, b Binder) (term.Term, int, bool) {
	if len(toks) == 0 {
		return nil, 0, false
	}
	if d, n, ok := tryDate(toks); ok {
		return d, n, true
	}
	t := toks[0]
	switch {
	case t.Kind == token.Number:
		return term.Number(t.Num), 1, true
	case t.Kind == token.Str:
		return term.Str(t.Text), 1, true
	case t.IsPunct("("):
		inner, n, ok := parseExpr(toks[1:], b)
		if !ok {
			return nil, 0, false
		}
		consumed := 1 + n
		rest := skipSpacesPrefix(toks[consumed:], &consumed)
		if len(rest) == 0 || !rest[0].IsPunct(")") {
			return nil, 0, false
		}
		return inner, consumed + 1, true
	case t.Kind == token.Word:
		if v, ok := b.Lookup(strings.ToLower(t.Text)); ok {
			return v, 1, true
		}
		return nil, 0, false
	}
	return nil, 0, false
}

func skipSpacesPrefix(toks []token.Token, consumed *int) []token.Token {
	for len(toks) > 0 && toks[0].Kind == token.Space {
		toks = toks[1:]
		*consumed++
	}
	return toks
}
