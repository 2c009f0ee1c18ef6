package parser

import "fmt"

// Diagnostic is one syntax finding. Message holds the detail only; String
// renders the full line shown to users.
type Diagnostic struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("Syntax error at line %d, column %d: %s", d.Line, d.Column, d.Message)
}

// SyntaxError is the first grammar violation of a parse. It travels up the
// recursive descent as an ordinary error value.
type SyntaxError struct {
	Line   int
	Column int
	Detail string
	// Token is the lookahead at the failure point; zero at end of input.
	Token Token
}

func (e *SyntaxError) Error() string {
	return e.Diagnostic().String()
}

func (e *SyntaxError) Diagnostic() Diagnostic {
	return Diagnostic{Line: e.Line, Column: e.Column, Message: e.Detail}
}
