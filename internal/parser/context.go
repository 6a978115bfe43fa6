package parser

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"logicle/internal/lexicon"
	"logicle/internal/template"
	"logicle/internal/term"
)

// Options configures one translation.
type Options struct {
	// Language forces a surface language; empty means probe introducers.
	Language lexicon.Language
	// DefaultKB names anonymous knowledge-base blocks.
	DefaultKB string
	// DefaultTarget is the output dialect when no target pragma appears.
	DefaultTarget string
	// Logger receives debug-level trace of the translation. Nil disables.
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.DefaultKB == "" {
		o.DefaultKB = "the_kb"
	}
	if o.DefaultTarget == "" {
		o.DefaultTarget = "prolog"
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Context carries all mutable state of one document translation: the
// dictionary, the declaration sets, the declared shapes, the error list
// and the cursor's line counter live here and nowhere else. Contexts are
// never shared across concurrent translations.
type Context struct {
	ID      string
	Opts    Options
	Lex     lexicon.Lexicon
	Dict    *template.Dictionary
	Matcher *template.Matcher
	Errors  *Reporter
	Log     *zap.Logger

	// Declared goal shapes per kind, in declaration order.
	Predicates     []term.Compound
	Events         []term.Compound
	Fluents        []term.Compound
	MetaPredicates []term.Compound

	types     []string
	typesSeen map[string]bool

	langFixed bool // language committed by a matched introducer
}

// NewContext creates a fresh translation context with the built-in
// relation templates of the (initial) language already in the dictionary.
func NewContext(opts Options) *Context {
	opts = opts.withDefaults()
	lex := lexicon.ByLanguage(opts.Language)
	ctx := &Context{
		ID:        uuid.NewString(),
		Opts:      opts,
		Lex:       lex,
		Dict:      template.NewDictionary(),
		Errors:    &Reporter{},
		Log:       opts.Logger,
		typesSeen: make(map[string]bool),
		langFixed: opts.Language != "",
	}
	ctx.Matcher = template.NewMatcher(ctx.Dict, lex)
	ctx.seedBuiltins()
	return ctx
}

// SetLanguage commits the surface language once an introducer of that
// language has matched, reseeding the built-in templates.
func (ctx *Context) SetLanguage(lang lexicon.Language) {
	if ctx.langFixed && ctx.Lex.Lang == lang {
		return
	}
	ctx.Lex = lexicon.ByLanguage(lang)
	ctx.Matcher.Lex = ctx.Lex
	ctx.langFixed = true
	ctx.Dict = template.NewDictionary()
	ctx.Matcher.Dict = ctx.Dict
	ctx.seedBuiltins()
}

// seedBuiltins parses the lexicon's built-in relation declarations into
// the dictionary through the same path as user declarations.
func (ctx *Context) seedBuiltins() {
	for _, src := range ctx.Lex.Builtins {
		e, err := ctx.buildTemplateFromSource(src, false)
		if err != nil {
			// Built-in tables are static; a failure here is a programming
			// error, not a user error.
			panic(fmt.Sprintf("builtin template %q: %v", src, err))
		}
		ctx.Dict.Add(e)
	}
	ctx.Dict.Sort()
}

// AddType records a declared type atom, deduplicated, in first-seen order.
func (ctx *Context) AddType(atom string) {
	if atom == "" || ctx.typesSeen[atom] {
		return
	}
	ctx.typesSeen[atom] = true
	ctx.types = append(ctx.types, atom)
}

// Types returns the declared type atoms.
func (ctx *Context) Types() []string {
	return ctx.types
}

// shape converts a template entry to its declaration-list goal shape.
func shape(e *template.Entry) term.Compound {
	args := make([]term.Term, len(e.Slots))
	for i, s := range e.Slots {
		args[i] = term.Var{Name: term.VarName(term.DisplayWords(s.Name))}
	}
	return term.Compound{Functor: e.Predicate, Args: args}
}
