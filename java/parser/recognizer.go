package parser

import (
	"fmt"
	"sort"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

// tokenClasses maps the lexical productions of the grammar to the token
// kinds that stand for them. Lexical productions are only documentation for
// the recognizer; the Lexer decides what a token is.
var tokenClasses = map[string]TokenKind{
	"identifier": TokenIdent,
	"integer":    TokenIntegerLiteral,
	"decimal":    TokenDecimalLiteral,
	"string":     TokenStringLiteral,
	"char":       TokenCharLiteral,
}

// A symbol is a nonterminal when name is set and a terminal otherwise.
type symbol struct {
	name  string
	label string
	match func(Token) bool
}

// Recognizer decides whether the embedded grammar derives a token sequence.
// It is an Earley recognizer over the grammar rewritten to plain BNF, so it
// accepts every sequence the grammar allows without the lookahead rules the
// Validator uses. A Recognizer is safe for concurrent use.
type Recognizer struct {
	rules    map[string][][]symbol
	nullable map[string]bool
	start    string
}

// NewRecognizer builds a Recognizer from the embedded grammar.
func NewRecognizer() (*Recognizer, error) {
	g, err := Grammar()
	if err != nil {
		return nil, err
	}
	if err := ebnf.Verify(g, GrammarStart); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}

	b := &bnfBuilder{rules: make(map[string][][]symbol)}
	for _, name := range productionNames(g) {
		if isLexical(name) {
			continue
		}
		b.rules[name] = b.alternatives(name, g[name].Expr)
	}
	if b.err != nil {
		return nil, b.err
	}

	r := &Recognizer{rules: b.rules, start: GrammarStart}
	r.nullable = nullableRules(r.rules)
	return r, nil
}

type bnfBuilder struct {
	rules map[string][][]symbol
	next  int
	err   error
}

// alternatives flattens expr into the right-hand sides of one rule.
func (b *bnfBuilder) alternatives(owner string, expr ebnf.Expression) [][]symbol {
	switch e := expr.(type) {
	case nil:
		return [][]symbol{{}}
	case ebnf.Alternative:
		var out [][]symbol
		for _, alt := range e {
			out = append(out, b.alternatives(owner, alt)...)
		}
		return out
	case ebnf.Sequence:
		seq := make([]symbol, 0, len(e))
		for _, x := range e {
			seq = append(seq, b.symbol(owner, x))
		}
		return [][]symbol{seq}
	default:
		return [][]symbol{{b.symbol(owner, expr)}}
	}
}

// symbol turns one grammar element into a terminal or a nonterminal.
// Groups, options and repetitions become fresh helper rules.
func (b *bnfBuilder) symbol(owner string, expr ebnf.Expression) symbol {
	switch e := expr.(type) {
	case *ebnf.Name:
		if kind, ok := tokenClasses[e.String]; ok {
			return symbol{
				label: e.String,
				match: func(t Token) bool { return t.Kind == kind },
			}
		}
		if isLexical(e.String) {
			b.fail(fmt.Errorf("%s: lexical production %s has no token class", owner, e.String))
		}
		return symbol{name: e.String}
	case *ebnf.Token:
		lexeme := e.String
		return symbol{
			label: "'" + lexeme + "'",
			match: func(t Token) bool { return t.Kind != TokenError && t.Lexeme == lexeme },
		}
	case *ebnf.Group:
		return b.helper(owner, b.alternatives(owner, e.Body))
	case *ebnf.Option:
		return b.helper(owner, append(b.alternatives(owner, e.Body), []symbol{}))
	case *ebnf.Repetition:
		name := b.helperName(owner)
		alts := [][]symbol{{}}
		for _, alt := range b.alternatives(owner, e.Body) {
			alts = append(alts, append(alt, symbol{name: name}))
		}
		b.rules[name] = alts
		return symbol{name: name}
	case ebnf.Alternative, ebnf.Sequence:
		return b.helper(owner, b.alternatives(owner, e))
	}
	b.fail(fmt.Errorf("%s: unsupported expression %T", owner, expr))
	return symbol{label: "?", match: func(Token) bool { return false }}
}

func (b *bnfBuilder) helper(owner string, alts [][]symbol) symbol {
	name := b.helperName(owner)
	b.rules[name] = alts
	return symbol{name: name}
}

func (b *bnfBuilder) helperName(owner string) string {
	b.next++
	return fmt.Sprintf("%s#%d", owner, b.next)
}

func (b *bnfBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// nullableRules returns the rules that derive the empty sequence.
func nullableRules(rules map[string][][]symbol) map[string]bool {
	nullable := make(map[string]bool)
	for changed := true; changed; {
		changed = false
		for name, alts := range rules {
			if nullable[name] {
				continue
			}
			for _, alt := range alts {
				if allNullable(alt, nullable) {
					nullable[name] = true
					changed = true
					break
				}
			}
		}
	}
	return nullable
}

func allNullable(alt []symbol, nullable map[string]bool) bool {
	for _, sym := range alt {
		if sym.name == "" || !nullable[sym.name] {
			return false
		}
	}
	return true
}

// earleyItem is a rule alternative with a dot position and the chart index
// where recognition of the alternative began.
type earleyItem struct {
	rule   string
	alt    int
	dot    int
	origin int
}

func (it earleyItem) advance() earleyItem {
	it.dot++
	return it
}

type itemSet struct {
	items []earleyItem
	seen  map[earleyItem]bool
}

func (s *itemSet) add(it earleyItem) {
	if s.seen[it] {
		return
	}
	s.seen[it] = true
	s.items = append(s.items, it)
}

// Recognize returns nil when the grammar derives the significant tokens of
// tokens, and otherwise a *SyntaxError at the first token no derivation
// can consume.
func (r *Recognizer) Recognize(tokens []Token) error {
	tokens = Significant(tokens)
	n := len(tokens)

	chart := make([]*itemSet, n+1)
	for i := range chart {
		chart[i] = &itemSet{seen: make(map[earleyItem]bool)}
	}
	for alt := range r.rules[r.start] {
		chart[0].add(earleyItem{rule: r.start, alt: alt})
	}

	for i := 0; i <= n; i++ {
		set := chart[i]
		for j := 0; j < len(set.items); j++ {
			it := set.items[j]
			body := r.rules[it.rule][it.alt]

			if it.dot == len(body) {
				r.complete(chart, i, it)
				continue
			}

			sym := body[it.dot]
			if sym.name == "" {
				if i < n && sym.match(tokens[i]) {
					chart[i+1].add(it.advance())
				}
				continue
			}
			for alt := range r.rules[sym.name] {
				set.add(earleyItem{rule: sym.name, alt: alt, origin: i})
			}
			if r.nullable[sym.name] {
				set.add(it.advance())
			}
		}
	}

	for _, it := range chart[n].items {
		if it.rule == r.start && it.origin == 0 && it.dot == len(r.rules[it.rule][it.alt]) {
			return nil
		}
	}
	return r.failure(chart, tokens)
}

// complete advances every item at the origin of done that waits for the
// rule done has finished.
func (r *Recognizer) complete(chart []*itemSet, pos int, done earleyItem) {
	origin := chart[done.origin]
	for k := 0; k < len(origin.items); k++ {
		waiting := origin.items[k]
		body := r.rules[waiting.rule][waiting.alt]
		if waiting.dot < len(body) && body[waiting.dot].name == done.rule {
			chart[pos].add(waiting.advance())
		}
	}
}

// failure reports the furthest chart position any item reached, listing
// the terminals that would have let recognition continue there.
func (r *Recognizer) failure(chart []*itemSet, tokens []Token) error {
	furthest := 0
	for i := len(chart) - 1; i >= 0; i-- {
		if len(chart[i].items) > 0 {
			furthest = i
			break
		}
	}

	expected := r.expectedAt(chart[furthest])
	err := &SyntaxError{Line: 1, Column: 1}
	if furthest < len(tokens) {
		err.Token = tokens[furthest]
		err.Line, err.Column = err.Token.Line, err.Token.Column
		err.Detail = fmt.Sprintf("grammar does not allow %s here", describe(err.Token))
	} else {
		if len(tokens) > 0 {
			last := tokens[len(tokens)-1]
			err.Line, err.Column = last.Line, last.Column
		}
		err.Detail = "grammar does not allow the input to end here"
	}
	if len(expected) > 0 {
		err.Detail += fmt.Sprintf(" (expected one of %s)", joinLabels(expected))
	}
	return err
}

func (r *Recognizer) expectedAt(set *itemSet) []string {
	seen := make(map[string]bool)
	var labels []string
	for _, it := range set.items {
		body := r.rules[it.rule][it.alt]
		if it.dot == len(body) {
			continue
		}
		if sym := body[it.dot]; sym.name == "" && !seen[sym.label] {
			seen[sym.label] = true
			labels = append(labels, sym.label)
		}
	}
	sort.Strings(labels)
	return labels
}

func joinLabels(labels []string) string {
	const limit = 8
	out := ""
	for i, l := range labels {
		if i == limit {
			return out + ", ..."
		}
		if i > 0 {
			out += ", "
		}
		out += l
	}
	return out
}

func productionNames(g ebnf.Grammar) []string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isLexical(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(r)
}
