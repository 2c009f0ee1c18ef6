package parser

import (
	"errors"
	"fmt"
)

type Scope int

const (
	ScopeClass Scope = iota
	ScopeMethod
	ScopeBlock
)

func (s Scope) String() string {
	switch s {
	case ScopeClass:
		return "class"
	case ScopeMethod:
		return "method"
	case ScopeBlock:
		return "block"
	}
	return "unknown"
}

// Validator checks a significant token sequence against the subset grammar.
// It stops at the first violation. A Validator may be reused, but not from
// two goroutines at once.
type Validator struct {
	tokens []Token
	pos    int
	scopes []Scope
}

func NewValidator() *Validator {
	return &Validator{}
}

// Validate returns no diagnostics when tokens form an accepted program and
// exactly one otherwise.
func (v *Validator) Validate(tokens []Token) []Diagnostic {
	v.tokens = tokens
	v.pos = 0
	v.scopes = v.scopes[:0]

	err := v.parseProgram()
	if err == nil && !v.atEnd() {
		err = v.errorf("unexpected tokens at end: '%s'", v.peek().Lexeme)
	}
	if err == nil {
		return nil
	}

	var synErr *SyntaxError
	if !errors.As(err, &synErr) {
		synErr = v.errorf("%s", err)
	}
	return []Diagnostic{synErr.Diagnostic()}
}

// Validate runs a fresh Validator over tokens and returns the rendered
// diagnostics.
func Validate(tokens []Token) []string {
	diags := NewValidator().Validate(tokens)
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.String())
	}
	return out
}

// Program := ClassDecl
func (v *Validator) parseProgram() error {
	if !v.check(TokenAccessModifier, "public") {
		return v.errorf("expected public class declaration")
	}
	return v.parseClassDecl()
}

// ClassDecl := 'public' 'class' Ident ['extends' Ident] ['implements' IdentList] '{' {MethodDecl} '}'
func (v *Validator) parseClassDecl() error {
	if err := v.expect(TokenAccessModifier, "public"); err != nil {
		return err
	}
	if err := v.expect(TokenObjectKeyword, "class"); err != nil {
		return err
	}
	if err := v.expect(TokenIdent, ""); err != nil {
		return err
	}
	if v.match(TokenObjectKeyword, "extends") {
		if err := v.expect(TokenIdent, ""); err != nil {
			return err
		}
	}
	if v.match(TokenObjectKeyword, "implements") {
		if err := v.parseIdentList(); err != nil {
			return err
		}
	}
	if err := v.expect(TokenDelimiter, "{"); err != nil {
		return err
	}

	v.push(ScopeClass)
	for !v.check(TokenDelimiter, "}") {
		if v.atEnd() {
			return v.mismatch(TokenDelimiter, "}")
		}
		if !v.check(TokenAccessModifier, "") && !v.isTypeStart() {
			return v.errorf("invalid declaration in class scope: found %s", describe(v.peek()))
		}
		if err := v.parseMethodDecl(); err != nil {
			return err
		}
	}
	if err := v.expect(TokenDelimiter, "}"); err != nil {
		return err
	}
	v.pop()
	return nil
}

func (v *Validator) parseIdentList() error {
	for {
		if err := v.expect(TokenIdent, ""); err != nil {
			return err
		}
		if !v.match(TokenDelimiter, ",") {
			return nil
		}
	}
}

// MethodDecl := {Modifier} ReturnType Ident '(' ParamList ')' Block
func (v *Validator) parseMethodDecl() error {
	for v.match(TokenAccessModifier, "") {
	}
	if v.atEnd() {
		return v.errorf("expected return type but reached end of input")
	}
	if !v.isTypeStart() {
		return v.errorf("invalid return type: found %s", describe(v.peek()))
	}
	if err := v.parseType(); err != nil {
		return err
	}
	if err := v.expect(TokenIdent, ""); err != nil {
		return err
	}
	if err := v.expect(TokenDelimiter, "("); err != nil {
		return err
	}

	v.push(ScopeMethod)
	if err := v.parseParamList(); err != nil {
		return err
	}
	if err := v.expect(TokenDelimiter, ")"); err != nil {
		return err
	}
	if err := v.parseBlock(); err != nil {
		return err
	}
	v.pop()
	return nil
}

// ParamList := [] | Type Ident {',' Type Ident}
func (v *Validator) parseParamList() error {
	if v.check(TokenDelimiter, ")") {
		return nil
	}
	for {
		if v.atEnd() {
			return v.errorf("expected parameter type but reached end of input")
		}
		if !v.isTypeStart() {
			return v.errorf("invalid parameter type: found %s", describe(v.peek()))
		}
		if err := v.parseType(); err != nil {
			return err
		}
		if err := v.expect(TokenIdent, ""); err != nil {
			return err
		}
		if !v.match(TokenDelimiter, ",") {
			return nil
		}
	}
}

// Type := (PrimitiveType | Ident) {'[' ']'}
func (v *Validator) parseType() error {
	v.advance()
	for v.match(TokenDelimiter, "[") {
		if err := v.expect(TokenDelimiter, "]"); err != nil {
			return err
		}
	}
	return nil
}

// Block := '{' {Statement} '}'
func (v *Validator) parseBlock() error {
	if err := v.expect(TokenDelimiter, "{"); err != nil {
		return err
	}
	v.push(ScopeBlock)
	for !v.check(TokenDelimiter, "}") {
		if v.atEnd() {
			return v.mismatch(TokenDelimiter, "}")
		}
		if err := v.parseStatement(); err != nil {
			return err
		}
	}
	if err := v.expect(TokenDelimiter, "}"); err != nil {
		return err
	}
	v.pop()
	return nil
}

func (v *Validator) parseStatement() error {
	switch {
	case v.check(TokenControlKeyword, "if"):
		return v.parseIf()
	case v.check(TokenControlKeyword, "for"):
		return v.parseFor()
	case v.check(TokenControlKeyword, "while"):
		return v.parseWhile()
	case v.check(TokenControlKeyword, "return"):
		return v.parseReturn()
	case v.check(TokenControlKeyword, "break"), v.check(TokenControlKeyword, "continue"):
		v.advance()
		return v.expect(TokenDelimiter, ";")
	case v.check(TokenControlKeyword, ""):
		return v.errorf("unsupported statement: found %s", describe(v.peek()))
	case v.check(TokenDelimiter, "{"):
		return v.parseBlock()
	case v.isVarDeclStart():
		if err := v.parseVarDeclarators(); err != nil {
			return err
		}
		return v.expect(TokenDelimiter, ";")
	default:
		if err := v.parseExpression(); err != nil {
			return err
		}
		return v.expect(TokenDelimiter, ";")
	}
}

// IfStmt := 'if' '(' Expression ')' Statement ['else' Statement]
func (v *Validator) parseIf() error {
	v.advance()
	if err := v.parseCondition(); err != nil {
		return err
	}
	if err := v.parseStatement(); err != nil {
		return err
	}
	if v.match(TokenControlKeyword, "else") {
		return v.parseStatement()
	}
	return nil
}

// WhileStmt := 'while' '(' Expression ')' Statement
func (v *Validator) parseWhile() error {
	v.advance()
	if err := v.parseCondition(); err != nil {
		return err
	}
	return v.parseStatement()
}

func (v *Validator) parseCondition() error {
	if err := v.expect(TokenDelimiter, "("); err != nil {
		return err
	}
	if err := v.parseExpression(); err != nil {
		return err
	}
	return v.expect(TokenDelimiter, ")")
}

// ForStmt := 'for' '(' [ForInit] ';' [Expression] ';' [ExprList] ')' Statement
func (v *Validator) parseFor() error {
	v.advance()
	if err := v.expect(TokenDelimiter, "("); err != nil {
		return err
	}
	if !v.check(TokenDelimiter, ";") {
		var err error
		if v.isVarDeclStart() {
			err = v.parseVarDeclarators()
		} else {
			err = v.parseExprList()
		}
		if err != nil {
			return err
		}
	}
	if err := v.expect(TokenDelimiter, ";"); err != nil {
		return err
	}
	if !v.check(TokenDelimiter, ";") {
		if err := v.parseExpression(); err != nil {
			return err
		}
	}
	if err := v.expect(TokenDelimiter, ";"); err != nil {
		return err
	}
	if !v.check(TokenDelimiter, ")") {
		if err := v.parseExprList(); err != nil {
			return err
		}
	}
	if err := v.expect(TokenDelimiter, ")"); err != nil {
		return err
	}
	return v.parseStatement()
}

// ReturnStmt := 'return' [Expression] ';'
func (v *Validator) parseReturn() error {
	v.advance()
	if !v.check(TokenDelimiter, ";") {
		if err := v.parseExpression(); err != nil {
			return err
		}
	}
	return v.expect(TokenDelimiter, ";")
}

// VarDecl := Type Declarator {',' Declarator}, without the closing ';'.
func (v *Validator) parseVarDeclarators() error {
	if err := v.parseType(); err != nil {
		return err
	}
	for {
		if err := v.expect(TokenIdent, ""); err != nil {
			return err
		}
		if v.match(TokenAssignOperator, "=") {
			if err := v.parseExpression(); err != nil {
				return err
			}
		}
		if !v.match(TokenDelimiter, ",") {
			return nil
		}
	}
}

// isVarDeclStart reports whether the statement at the cursor declares
// variables: a primitive type, or "Ident Ident", or "Ident [ ]".
func (v *Validator) isVarDeclStart() bool {
	if v.check(TokenPrimitiveType, "") {
		return true
	}
	if !v.check(TokenIdent, "") {
		return false
	}
	next := v.peekN(1)
	if next.Kind == TokenIdent {
		return true
	}
	return isDelimiter(next, "[") && isDelimiter(v.peekN(2), "]")
}

func (v *Validator) isTypeStart() bool {
	return v.check(TokenPrimitiveType, "") || v.check(TokenIdent, "")
}

// Expression := Primary {BinOp Primary | '.' Ident ['(' Args ')'] | '[' Expression ']' | '(' Args ')' | '++' | '--'}
//
// Binary operators are consumed left to right without precedence.
func (v *Validator) parseExpression() error {
	if err := v.parsePrimary(); err != nil {
		return err
	}
	for {
		switch {
		case v.isBinaryOperator():
			v.advance()
			if err := v.parsePrimary(); err != nil {
				return err
			}
		case v.match(TokenDelimiter, "."):
			if err := v.expect(TokenIdent, ""); err != nil {
				return err
			}
			if v.match(TokenDelimiter, "(") {
				if err := v.parseArgs(); err != nil {
					return err
				}
			}
		case v.match(TokenDelimiter, "["):
			if err := v.parseExpression(); err != nil {
				return err
			}
			if err := v.expect(TokenDelimiter, "]"); err != nil {
				return err
			}
		case v.match(TokenDelimiter, "("):
			if err := v.parseArgs(); err != nil {
				return err
			}
		case v.check(TokenCompoundOperator, "++"), v.check(TokenCompoundOperator, "--"):
			v.advance()
		default:
			return nil
		}
	}
}

// Primary := Ident ['(' Args ')'] | Literal | '(' Expression ')' | UnaryOp Primary
//
//	| 'this' | 'super' | 'new' (PrimitiveType | Ident) (ArrayDims | '(' Args ')')
func (v *Validator) parsePrimary() error {
	if v.atEnd() {
		return v.errorf("expected expression but reached end of input")
	}
	tok := v.peek()
	switch {
	case tok.Kind == TokenIdent:
		v.advance()
		if v.match(TokenDelimiter, "(") {
			return v.parseArgs()
		}
		return nil
	case tok.Kind.IsLiteral():
		v.advance()
		return nil
	case v.match(TokenDelimiter, "("):
		if err := v.parseExpression(); err != nil {
			return err
		}
		return v.expect(TokenDelimiter, ")")
	case v.isUnaryOperator():
		v.advance()
		return v.parsePrimary()
	case v.check(TokenObjectKeyword, "this"), v.check(TokenObjectKeyword, "super"):
		v.advance()
		return nil
	case v.check(TokenObjectKeyword, "new"):
		return v.parseNew()
	}
	return v.errorf("invalid expression start: found %s", describe(tok))
}

func (v *Validator) parseNew() error {
	v.advance()
	if !v.isTypeStart() {
		if v.atEnd() {
			return v.errorf("expected type after 'new' but reached end of input")
		}
		return v.errorf("invalid type after 'new': found %s", describe(v.peek()))
	}
	v.advance()
	if !v.check(TokenDelimiter, "[") {
		if err := v.expect(TokenDelimiter, "("); err != nil {
			return err
		}
		return v.parseArgs()
	}
	for v.match(TokenDelimiter, "[") {
		if !v.check(TokenDelimiter, "]") {
			if err := v.parseExpression(); err != nil {
				return err
			}
		}
		if err := v.expect(TokenDelimiter, "]"); err != nil {
			return err
		}
	}
	return nil
}

// parseArgs parses the argument list after an opening parenthesis,
// including the closing one.
func (v *Validator) parseArgs() error {
	if !v.check(TokenDelimiter, ")") {
		if err := v.parseExprList(); err != nil {
			return err
		}
	}
	return v.expect(TokenDelimiter, ")")
}

func (v *Validator) parseExprList() error {
	for {
		if err := v.parseExpression(); err != nil {
			return err
		}
		if !v.match(TokenDelimiter, ",") {
			return nil
		}
	}
}

func (v *Validator) isBinaryOperator() bool {
	if v.atEnd() {
		return false
	}
	switch tok := v.peek(); tok.Kind {
	case TokenAssignOperator, TokenRelationalOperator, TokenTernaryOperator, TokenArithmeticOperator:
		return true
	case TokenLogicalOperator:
		return tok.Lexeme != "!"
	case TokenBitwiseOperator:
		return tok.Lexeme != "~"
	}
	return false
}

func (v *Validator) isUnaryOperator() bool {
	return v.check(TokenLogicalOperator, "!") ||
		v.check(TokenBitwiseOperator, "~") ||
		v.check(TokenArithmeticOperator, "+") ||
		v.check(TokenArithmeticOperator, "-") ||
		v.check(TokenCompoundOperator, "++") ||
		v.check(TokenCompoundOperator, "--")
}

func (v *Validator) push(s Scope) {
	v.scopes = append(v.scopes, s)
}

func (v *Validator) pop() {
	if len(v.scopes) > 0 {
		v.scopes = v.scopes[:len(v.scopes)-1]
	}
}

func (v *Validator) atEnd() bool {
	return v.pos >= len(v.tokens)
}

func (v *Validator) peek() Token {
	return v.peekN(0)
}

func (v *Validator) peekN(n int) Token {
	if v.pos+n >= len(v.tokens) {
		return Token{Kind: -1}
	}
	return v.tokens[v.pos+n]
}

func (v *Validator) advance() Token {
	tok := v.peek()
	if v.pos < len(v.tokens) {
		v.pos++
	}
	return tok
}

// check reports whether the lookahead has the given kind and, unless lexeme
// is empty, the given lexeme.
func (v *Validator) check(kind TokenKind, lexeme string) bool {
	if v.atEnd() {
		return false
	}
	tok := v.peek()
	return tok.Kind == kind && (lexeme == "" || tok.Lexeme == lexeme)
}

func (v *Validator) match(kind TokenKind, lexeme string) bool {
	if v.check(kind, lexeme) {
		v.advance()
		return true
	}
	return false
}

func (v *Validator) expect(kind TokenKind, lexeme string) error {
	if v.match(kind, lexeme) {
		return nil
	}
	return v.mismatch(kind, lexeme)
}

func (v *Validator) mismatch(kind TokenKind, lexeme string) *SyntaxError {
	want := kind.String()
	if lexeme != "" {
		want = fmt.Sprintf("%s '%s'", want, lexeme)
	}
	if v.atEnd() {
		return v.errorf("expected %s but reached end of input", want)
	}
	return v.errorf("expected %s but found %s", want, describe(v.peek()))
}

// describe names a token by category and lexeme. Lexical errors use their
// error category.
func describe(tok Token) string {
	category := tok.Kind.String()
	if tok.Kind == TokenError {
		category = tok.PatternName
	}
	return fmt.Sprintf("%s '%s'", category, tok.Lexeme)
}

// errorf builds a SyntaxError positioned at the lookahead token, the last
// token when input is exhausted, or 1:1 for empty input.
func (v *Validator) errorf(format string, args ...any) *SyntaxError {
	err := &SyntaxError{Line: 1, Column: 1, Detail: fmt.Sprintf(format, args...)}
	switch {
	case !v.atEnd():
		err.Token = v.peek()
		err.Line, err.Column = err.Token.Line, err.Token.Column
	case len(v.tokens) > 0:
		last := v.tokens[len(v.tokens)-1]
		err.Line, err.Column = last.Line, last.Column
	}
	return err
}

func isDelimiter(tok Token, lexeme string) bool {
	return tok.Kind == TokenDelimiter && tok.Lexeme == lexeme
}
