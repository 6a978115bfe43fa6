package parser

import (
	"fmt"
	"strings"

	"logicle/internal/template"
	"logicle/internal/token"
)

// declKind identifies a header declaration block.
type declKind int

const (
	kindPredicate declKind = iota
	kindMeta
	kindEvent
	kindFluent
)

func (k declKind) String() string {
	switch k {
	case kindMeta:
		return "meta predicate"
	case kindEvent:
		return "event"
	case kindFluent:
		return "fluent"
	default:
		return "predicate"
	}
}

// parseDeclarationBlock parses one comma/period-separated list of
// template declarations after its introducer and colon have been
// consumed. Entries are added to the dictionary unsorted; the section
// parser sorts globally once the whole header is read.
func (ctx *Context) parseDeclarationBlock(c *cursor, kind declKind) error {
	for {
		c.skipLayout()
		window := c.collectAcross(",", ".")
		if len(window) == 0 {
			ctx.Errors.Record(fmt.Sprintf("%s declaration error: empty declaration", kind), c.line, c.context(6))
			return fmt.Errorf("empty %s declaration", kind)
		}
		e, err := ctx.buildTemplate(window, kind == kindMeta)
		if err != nil {
			ctx.Errors.Recordf(c.line, window, "%s declaration error: %v", kind, err)
			return err
		}
		ctx.registerEntry(e, kind)

		if c.matchPunct(",") {
			continue
		}
		if c.matchPunct(".") {
			return nil
		}
		ctx.Errors.Record(fmt.Sprintf("%s declaration error: block does not end cleanly", kind), c.line, c.context(6))
		return fmt.Errorf("%s block does not end cleanly", kind)
	}
}

// registerEntry adds a built template to the dictionary, records its goal
// shape under its kind, wires event/fluent classification, and collects
// declared types.
func (ctx *Context) registerEntry(e *template.Entry, kind declKind) {
	ctx.Dict.Add(e)
	sh := shape(e)
	key := fmt.Sprintf("%s/%d", e.Predicate, len(e.Slots))
	switch kind {
	case kindMeta:
		ctx.MetaPredicates = append(ctx.MetaPredicates, sh)
	case kindEvent:
		ctx.Events = append(ctx.Events, sh)
		ctx.Matcher.Events[key] = true
	case kindFluent:
		ctx.Fluents = append(ctx.Fluents, sh)
		ctx.Matcher.Fluents[key] = true
	default:
		ctx.Predicates = append(ctx.Predicates, sh)
	}
	for _, s := range e.Slots {
		ctx.AddType(s.Type)
	}
}

// buildTemplate turns one declaration window into a template entry.
// Slots are either star-bracketed phrases (a determiner directly before
// the opening star is absorbed into the slot) or, for plain items, a
// single word led by a determiner. Remaining words become fixed words and
// their underscore-joined sequence is the predicate name.
func (ctx *Context) buildTemplate(window []token.Token, meta bool) (*template.Entry, error) {
	stars := 0
	for _, t := range window {
		if t.IsPunct("*") {
			stars++
		}
	}
	if stars%2 != 0 {
		return nil, fmt.Errorf("unpaired template marker in %q", token.Render(window))
	}

	e := &template.Entry{Meta: meta}
	var fixed []string
	i := 0
	for i < len(window) {
		t := window[i]
		switch {
		case t.IsPunct("*"):
			end := i + 1
			var words []string
			for end < len(window) && !window[end].IsPunct("*") {
				if window[end].Kind == token.Word {
					words = append(words, strings.ToLower(window[end].Text))
				}
				end++
			}
			if len(words) == 0 {
				return nil, fmt.Errorf("empty slot in %q", token.Render(window))
			}
			e.Slots = append(e.Slots, makeSlot(ctx, words))
			e.Parts = append(e.Parts, template.Part{Kind: template.Arg, Slot: len(e.Slots) - 1})
			i = end + 1
		case t.Kind == token.Word && ctx.isDeterminer(t.Text):
			// Determiner before a star slot is absorbed. In starless
			// declarations a determiner introduces a one-word slot;
			// once explicit markers appear, determiners elsewhere are
			// ordinary fixed words.
			if i+1 < len(window) && window[i+1].IsPunct("*") {
				i++
				continue
			}
			if stars > 0 {
				word := strings.ToLower(t.Text)
				e.Parts = append(e.Parts, template.Part{Kind: template.Lit, Word: word})
				fixed = append(fixed, word)
				i++
				continue
			}
			if i+1 < len(window) && window[i+1].Kind == token.Word {
				words := []string{strings.ToLower(window[i+1].Text)}
				e.Slots = append(e.Slots, makeSlot(ctx, words))
				e.Parts = append(e.Parts, template.Part{Kind: template.Arg, Slot: len(e.Slots) - 1})
				i += 2
				continue
			}
			return nil, fmt.Errorf("dangling determiner in %q", token.Render(window))
		case t.Kind == token.Word:
			word := strings.ToLower(t.Text)
			e.Parts = append(e.Parts, template.Part{Kind: template.Lit, Word: word})
			fixed = append(fixed, word)
			i++
		default:
			return nil, fmt.Errorf("unexpected token %q in template", t.String())
		}
	}
	if len(fixed) == 0 {
		return nil, fmt.Errorf("template %q has no fixed words", token.Render(window))
	}
	e.Predicate = strings.Join(fixed, "_")
	return e, nil
}

// makeSlot splits slot words into name and type: leading ordinal words
// belong to the name only, the trailing words are shared by name and
// type.
func makeSlot(ctx *Context, words []string) template.Slot {
	i := 0
	for i < len(words)-1 && ctx.Lex.IsOrdinal(words[i]) {
		i++
	}
	return template.Slot{
		Name: strings.Join(words, "_"),
		Type: strings.Join(words[i:], "_"),
	}
}

func (ctx *Context) isDeterminer(w string) bool {
	return ctx.Lex.IsIndefinite(w) || ctx.Lex.IsDefinite(w)
}

// buildTemplateFromSource builds an entry from declaration source text,
// used to seed the built-in relation templates.
func (ctx *Context) buildTemplateFromSource(src string, meta bool) (*template.Entry, error) {
	var window []token.Token
	for _, t := range token.Scan(src) {
		if t.Kind != token.Space && t.Kind != token.Ctrl {
			window = append(window, t)
		}
	}
	return ctx.buildTemplate(window, meta)
}
