package parser

import (
	_ "embed"
	"fmt"
	"strings"

	"golang.org/x/exp/ebnf"
)

// GrammarStart is the start production of the accepted subset.
const GrammarStart = "Program"

//go:embed grammar.ebnf
var grammarSource string

// GrammarSource returns the EBNF text describing what Validator accepts.
func GrammarSource() string {
	return grammarSource
}

// Grammar parses the embedded grammar.
func Grammar() (ebnf.Grammar, error) {
	g, err := ebnf.Parse("grammar.ebnf", strings.NewReader(grammarSource))
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return g, nil
}

// VerifyGrammar checks that every production is defined and reachable from
// GrammarStart.
func VerifyGrammar() error {
	g, err := Grammar()
	if err != nil {
		return err
	}
	if err := ebnf.Verify(g, GrammarStart); err != nil {
		return fmt.Errorf("verify grammar: %w", err)
	}
	return nil
}
