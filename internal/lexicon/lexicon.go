// Package lexicon holds the per-language surface vocabulary of the input
// notation: determiners, connectives, section introducers and the built-in
// relation templates seeded into every dictionary. The grammar proper is
// data-driven (declared templates extend it at parse time); this package
// only fixes the closed word classes for each supported language.
package lexicon

import "strings"

// Language identifies a supported surface language.
type Language string

const (
	English Language = "en"
	French  Language = "fr"
	Italian Language = "it"
	Spanish Language = "es"
)

// Phrase is a fixed word sequence matched case-insensitively.
type Phrase []string

// Lexicon is the closed vocabulary of one surface language.
type Lexicon struct {
	Lang Language

	Indefinite []string // a, an, ...
	Definite   []string // the, ...
	Ordinals   []string // name-only slot words: first, second, ...

	// Section introducers. KBIntro/KBInclude bracket an optional
	// knowledge-base name; ScenarioIntro/QueryIntro are followed by a
	// name and the copula word in Is.
	TargetIntro    Phrase
	PredicatesAre  []Phrase // synonyms: "the predicates are", "the templates are"
	MetaAre        []Phrase
	EventsAre      []Phrase
	FluentsAre     []Phrase
	KBIntro        Phrase
	KBInclude      Phrase
	ScenarioIntro  Phrase
	QueryIntro     Phrase
	Is             []string

	// Rule/body connectives.
	If          []string
	And         []string
	Or          []string
	That        []string
	NotTheCase  Phrase // "it is not the case that"
	IsTheCase   Phrase // "it is the case that"
	ForAllCases Phrase // "for all cases in which"
	SetOf       Phrase // "is a set of"
	Where       []string
	SumOfEach   Phrase // "is the sum of each"
	SuchThat    Phrase // "such that"
	At          []string
	ForWhich    Phrase // query projection: "for which"

	// Builtins are template declarations (in the same notation authors
	// use) for the built-in comparison relations, parsed into every
	// dictionary at context creation.
	Builtins []string
}

// ByLanguage returns the lexicon for a language, defaulting to English.
func ByLanguage(lang Language) Lexicon {
	for _, lx := range All() {
		if lx.Lang == lang {
			return lx
		}
	}
	return english
}

// All returns every supported lexicon, English first. The parser probes
// introducers in this order when no language is configured.
func All() []Lexicon {
	return []Lexicon{english, french, italian, spanish}
}

var english = Lexicon{
	Lang:       English,
	Indefinite: []string{"a", "an"},
	Definite:   []string{"the"},
	Ordinals: []string{
		"first", "second", "third", "fourth", "fifth",
		"sixth", "seventh", "eighth", "ninth", "tenth", "other",
	},
	TargetIntro: Phrase{"the", "target", "is"},
	PredicatesAre: []Phrase{
		{"the", "predicates", "are"},
		{"the", "templates", "are"},
	},
	MetaAre: []Phrase{
		{"the", "meta", "predicates", "are"},
		{"the", "metapredicates", "are"},
	},
	EventsAre:     []Phrase{{"the", "events", "are"}},
	FluentsAre:    []Phrase{{"the", "fluents", "are"}},
	KBIntro:       Phrase{"the", "knowledge", "base"},
	KBInclude:     Phrase{"includes"},
	ScenarioIntro: Phrase{"scenario"},
	QueryIntro:    Phrase{"query"},
	Is:            []string{"is"},
	If:            []string{"if"},
	And:           []string{"and"},
	Or:            []string{"or"},
	That:          []string{"that"},
	NotTheCase:    Phrase{"it", "is", "not", "the", "case", "that"},
	IsTheCase:     Phrase{"it", "is", "the", "case", "that"},
	ForAllCases:   Phrase{"for", "all", "cases", "in", "which"},
	SetOf:         Phrase{"is", "a", "set", "of"},
	Where:         []string{"where"},
	SumOfEach:     Phrase{"is", "the", "sum", "of", "each"},
	SuchThat:      Phrase{"such", "that"},
	At:            []string{"at", "on"},
	ForWhich:      Phrase{"for", "which"},
	Builtins: []string{
		"a * value * is greater than an * other value *",
		"a * value * is less than an * other value *",
		"a * value * is at least an * other value *",
		"a * value * is at most an * other value *",
		"a * value * is different from an * other value *",
		"a * value * is equal to an * other value *",
		"a * moment * is before an * other moment *",
		"a * moment * is after an * other moment *",
		"a * value * is an * other value *",
	},
}

var french = Lexicon{
	Lang:       French,
	Indefinite: []string{"un", "une"},
	Definite:   []string{"le", "la", "les", "l"},
	Ordinals: []string{
		"premier", "première", "deuxième", "troisième", "quatrième",
		"cinquième", "autre",
	},
	TargetIntro: Phrase{"la", "cible", "est"},
	PredicatesAre: []Phrase{
		{"les", "prédicats", "sont"},
		{"les", "modèles", "sont"},
	},
	MetaAre:       []Phrase{{"les", "méta", "prédicats", "sont"}},
	EventsAre:     []Phrase{{"les", "événements", "sont"}},
	FluentsAre:    []Phrase{{"les", "fluents", "sont"}},
	KBIntro:       Phrase{"la", "base", "de", "connaissances"},
	KBInclude:     Phrase{"inclut"},
	ScenarioIntro: Phrase{"scénario"},
	QueryIntro:    Phrase{"question"},
	Is:            []string{"est"},
	If:            []string{"si"},
	And:           []string{"et"},
	Or:            []string{"ou"},
	That:          []string{"que", "qu"},
	NotTheCase:    Phrase{"il", "n", "est", "pas", "vrai", "que"},
	IsTheCase:     Phrase{"il", "est", "vrai", "que"},
	ForAllCases:   Phrase{"pour", "tous", "les", "cas", "où"},
	SetOf:         Phrase{"est", "un", "ensemble", "de"},
	Where:         []string{"où"},
	SumOfEach:     Phrase{"est", "la", "somme", "de", "chaque"},
	SuchThat:      Phrase{"tel", "que"},
	At:            []string{"à"},
	ForWhich:      Phrase{"pour", "quel"},
	Builtins: []string{
		"une * valeur * est supérieure à une * autre valeur *",
		"une * valeur * est inférieure à une * autre valeur *",
		"une * valeur * est différente d une * autre valeur *",
		"une * valeur * est égale à une * autre valeur *",
		"un * moment * est avant un * autre moment *",
		"une * valeur * est une * autre valeur *",
	},
}

var italian = Lexicon{
	Lang:       Italian,
	Indefinite: []string{"un", "una", "uno"},
	Definite:   []string{"il", "la", "lo", "i", "le", "gli"},
	Ordinals: []string{
		"primo", "prima", "secondo", "seconda", "terzo", "terza",
		"quarto", "quinto", "altro", "altra",
	},
	TargetIntro: Phrase{"l", "obiettivo", "è"},
	PredicatesAre: []Phrase{
		{"i", "predicati", "sono"},
		{"i", "modelli", "sono"},
	},
	MetaAre:       []Phrase{{"i", "meta", "predicati", "sono"}},
	EventsAre:     []Phrase{{"gli", "eventi", "sono"}},
	FluentsAre:    []Phrase{{"i", "fluenti", "sono"}},
	KBIntro:       Phrase{"la", "base", "di", "conoscenza"},
	KBInclude:     Phrase{"include"},
	ScenarioIntro: Phrase{"scenario"},
	QueryIntro:    Phrase{"domanda"},
	Is:            []string{"è"},
	If:            []string{"se"},
	And:           []string{"e", "ed"},
	Or:            []string{"o", "oppure"},
	That:          []string{"che"},
	NotTheCase:    Phrase{"non", "è", "il", "caso", "che"},
	IsTheCase:     Phrase{"è", "il", "caso", "che"},
	ForAllCases:   Phrase{"per", "tutti", "i", "casi", "in", "cui"},
	SetOf:         Phrase{"è", "un", "insieme", "di"},
	Where:         []string{"dove"},
	SumOfEach:     Phrase{"è", "la", "somma", "di", "ogni"},
	SuchThat:      Phrase{"tale", "che"},
	At:            []string{"a"},
	ForWhich:      Phrase{"per", "quale"},
	Builtins: []string{
		"un * valore * è maggiore di un * altro valore *",
		"un * valore * è minore di un * altro valore *",
		"un * valore * è diverso da un * altro valore *",
		"un * valore * è uguale a un * altro valore *",
		"un * momento * è prima di un * altro momento *",
		"un * valore * è un * altro valore *",
	},
}

var spanish = Lexicon{
	Lang:       Spanish,
	Indefinite: []string{"un", "una"},
	Definite:   []string{"el", "la", "los", "las"},
	Ordinals: []string{
		"primero", "primera", "segundo", "segunda", "tercero", "tercera",
		"cuarto", "quinto", "otro", "otra",
	},
	TargetIntro: Phrase{"el", "objetivo", "es"},
	PredicatesAre: []Phrase{
		{"los", "predicados", "son"},
		{"las", "plantillas", "son"},
	},
	MetaAre:       []Phrase{{"los", "meta", "predicados", "son"}},
	EventsAre:     []Phrase{{"los", "eventos", "son"}},
	FluentsAre:    []Phrase{{"los", "fluentes", "son"}},
	KBIntro:       Phrase{"la", "base", "de", "conocimiento"},
	KBInclude:     Phrase{"incluye"},
	ScenarioIntro: Phrase{"escenario"},
	QueryIntro:    Phrase{"pregunta"},
	Is:            []string{"es"},
	If:            []string{"si"},
	And:           []string{"y"},
	Or:            []string{"o", "u"},
	That:          []string{"que"},
	NotTheCase:    Phrase{"no", "es", "el", "caso", "que"},
	IsTheCase:     Phrase{"es", "el", "caso", "que"},
	ForAllCases:   Phrase{"para", "todos", "los", "casos", "en", "que"},
	SetOf:         Phrase{"es", "un", "conjunto", "de"},
	Where:         []string{"donde"},
	SumOfEach:     Phrase{"es", "la", "suma", "de", "cada"},
	SuchThat:      Phrase{"tal", "que"},
	At:            []string{"en"},
	ForWhich:      Phrase{"para", "qué"},
	Builtins: []string{
		"un * valor * es mayor que un * otro valor *",
		"un * valor * es menor que un * otro valor *",
		"un * valor * es diferente de un * otro valor *",
		"un * valor * es igual a un * otro valor *",
		"un * momento * es antes de un * otro momento *",
		"un * valor * es un * otro valor *",
	},
}

// IsIndefinite reports whether a word is an indefinite determiner.
func (lx Lexicon) IsIndefinite(w string) bool { return containsFold(lx.Indefinite, w) }

// IsDefinite reports whether a word is a definite determiner.
func (lx Lexicon) IsDefinite(w string) bool { return containsFold(lx.Definite, w) }

// IsOrdinal reports whether a word is a name-only ordinal.
func (lx Lexicon) IsOrdinal(w string) bool { return containsFold(lx.Ordinals, w) }

// IsThat reports whether a word is the meta-nesting connective.
func (lx Lexicon) IsThat(w string) bool { return containsFold(lx.That, w) }

// IsAnd reports whether a word is the conjunction operator.
func (lx Lexicon) IsAnd(w string) bool { return containsFold(lx.And, w) }

// IsOr reports whether a word is the disjunction operator.
func (lx Lexicon) IsOr(w string) bool { return containsFold(lx.Or, w) }

func containsFold(set []string, w string) bool {
	for _, s := range set {
		if strings.EqualFold(s, w) {
			return true
		}
	}
	return false
}
