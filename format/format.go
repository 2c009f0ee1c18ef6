package format

import (
	"encoding"

	"github.com/dhamidi/subjava/java/parser"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(report *Report) error
}

// Report is the analysis of one source file as seen by an encoder. Tokens
// is empty when only findings are of interest.
type Report struct {
	File          string
	Tokens        []parser.Token
	LexicalErrors []parser.Token
	Diagnostics   []parser.Diagnostic
}

func NewReport(file string, result *parser.Result) *Report {
	return &Report{
		File:          file,
		Tokens:        result.Tokens,
		LexicalErrors: result.LexicalErrors(),
		Diagnostics:   result.Diagnostics,
	}
}

// Findings returns a copy of r without its token list.
func (r *Report) Findings() *Report {
	return &Report{
		File:          r.File,
		LexicalErrors: r.LexicalErrors,
		Diagnostics:   r.Diagnostics,
	}
}

// orEmpty lets an encoder marshal before its first Encode.
func orEmpty(r *Report) *Report {
	if r == nil {
		return &Report{}
	}
	return r
}

func (r *Report) Accepted() bool {
	return len(r.LexicalErrors) == 0 && len(r.Diagnostics) == 0
}
