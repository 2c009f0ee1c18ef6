package parser

// Result is the outcome of one tokenize and validate pass.
type Result struct {
	Tokens      []Token
	Diagnostics []Diagnostic
}

// LexicalErrors returns the error tokens of the pass.
func (r *Result) LexicalErrors() []Token {
	return ErrorTokens(r.Tokens)
}

// Accepted reports whether the source produced neither lexical errors nor a
// syntax diagnostic.
func (r *Result) Accepted() bool {
	return len(r.Diagnostics) == 0 && len(r.LexicalErrors()) == 0
}

// Analyze tokenizes source and validates the significant tokens.
func Analyze(source string, opts ...Option) *Result {
	tokens := NewLexer(opts...).Tokenize(source)
	return &Result{
		Tokens:      tokens,
		Diagnostics: NewValidator().Validate(Significant(tokens)),
	}
}
