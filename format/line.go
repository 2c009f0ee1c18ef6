package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/subjava/java/parser"
)

// LineEncoder writes one tab separated line per token followed by one line
// per finding. Findings are prefixed with the file name the way compilers
// report them, so the output can be fed to editors and grep.
type LineEncoder struct {
	w      io.Writer
	report *Report
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(report *Report) error {
	e.report = report
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	if e.report == nil {
		return []byte{}, nil
	}
	var sb strings.Builder
	r := e.report

	for _, tok := range r.Tokens {
		fmt.Fprintf(&sb, "%d:%d\t%s\t%q\t%s\t%s\n",
			tok.Line,
			tok.Column,
			tok.ID,
			tok.Lexeme,
			tok.PatternName,
			reservedStr(tok.Reserved),
		)
	}

	for _, tok := range r.LexicalErrors {
		fmt.Fprintf(&sb, "%s%d:%d: lexical error: %s\n", e.prefix(), tok.Line, tok.Column, describeError(tok))
	}

	for _, d := range r.Diagnostics {
		fmt.Fprintf(&sb, "%s%s\n", e.filePrefix(), d)
	}

	return []byte(sb.String()), nil
}

func (e *LineEncoder) prefix() string {
	if e.report.File == "" {
		return ""
	}
	return e.report.File + ":"
}

func (e *LineEncoder) filePrefix() string {
	if e.report.File == "" {
		return ""
	}
	return e.report.File + ": "
}

func reservedStr(reserved bool) string {
	if reserved {
		return "reserved"
	}
	return "-"
}

func describeError(tok parser.Token) string {
	return fmt.Sprintf("%s %q", tok.PatternName, tok.Lexeme)
}
