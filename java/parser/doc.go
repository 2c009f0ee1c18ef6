// Package parser tokenizes and validates source code written in a small,
// deliberately restricted subset of Java.
//
// # Overview
//
// Two stages turn text into a verdict. The Lexer splits text into tokens and
// classifies invalid symbols inline. The Validator runs a fail-fast recursive
// descent over the significant tokens and reports at most one diagnostic.
// Neither stage resolves names or checks types.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Source    │────▶│    Lexer    │────▶│ Significant │────▶│  Validator  │
//	│  (string)   │     │  ([]Token)  │     │  (filter)   │     │ (≤1 diag)   │
//	└─────────────┘     └─────────────┘     └─────────────┘     └─────────────┘
//	                           ▲
//	                    ┌─────────────┐
//	                    │ Dictionary  │
//	                    │ (optional)  │
//	                    └─────────────┘
//
// # Tokenizing
//
// The Lexer tries an ordered catalog of PatternRule values at each position;
// the first rule that matches wins. See DefaultRules for the order. Symbol
// rules use maximal munch over every known symbol, valid or forbidden, so
// "==" is one relational operator and "===" is one invalid operator.
//
// Nothing in the input makes the Lexer fail:
//
//   - forbidden symbols become tokens of kind TokenError whose PatternName
//     names the category ("invalid operator", "unsupported character", ...)
//   - characters no rule accepts are collected into one TokenError with
//     PatternName "unrecognized fragment"
//   - a quote that does not open a valid literal is such a character; the
//     fragment ends at the next recognizable token, so the code after an
//     unterminated literal is still tokenized
//
// Lexemes found in the dictionary take their ID, PatternName and Reserved
// flag from it. Other tokens use the kind's Symbol as ID, the rule's
// canonical name, and the built-in reserved word set.
//
// Positions are 1-based. Columns count characters, not bytes:
//
//	type Position struct {
//	    File   string // from WithFile
//	    Offset int    // byte offset
//	    Line   int
//	    Column int
//	}
//
// Scan returns every token including whitespace and comments; Tokenize
// drops those. Concatenating the lexemes returned by Scan reproduces the
// input exactly.
//
// # Validating
//
// The accepted grammar is embedded as grammar.ebnf and can be checked with
// VerifyGrammar. Grammar procedures return error; the first *SyntaxError
// short-circuits every caller, and Validate turns it into a Diagnostic:
//
//	Syntax error at line 1, column 54: invalid expression start: found delimiter ';'
//
// The Validator matches on Token.Kind and Token.Lexeme, never on
// PatternName, so a dictionary that renames patterns cannot change what is
// accepted.
//
// A Recognizer runs an Earley parser for grammar.ebnf itself. It is slower
// than the Validator and reports less precise errors, but it shows whether
// the documented grammar and the Validator agree on an input.
//
// # Thread Safety
//
// A Lexer holds configuration only and may be shared. A Validator owns its
// cursor and scope stack; use one per goroutine. A Recognizer is
// read-only after construction.
//
// # Example Usage
//
//	dict := dictionary.Load("tabla_signos_java.txt")
//	tokens := parser.NewLexer(parser.WithDictionary(dict)).Tokenize(src)
//	for _, msg := range parser.Validate(parser.Significant(tokens)) {
//	    fmt.Println(msg)
//	}
package parser
