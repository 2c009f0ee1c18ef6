package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
)

var tableHeader = []string{"#", "LINE", "COL", "ID", "LEXEME", "PATTERN", "RESERVED"}

// maxLexemeWidth keeps long comments and strings from stretching the table.
const maxLexemeWidth = 40

// TableEncoder renders the token table with aligned columns. Error rows and
// findings are colored when the output supports it.
type TableEncoder struct {
	w      io.Writer
	out    *termenv.Output
	report *Report
}

func NewTableEncoder(w io.Writer, opts ...termenv.OutputOption) *TableEncoder {
	return &TableEncoder{w: w, out: termenv.NewOutput(w, opts...)}
}

func (e *TableEncoder) Encode(report *Report) error {
	e.report = report
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TableEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	r := orEmpty(e.report)

	rows := make([][]string, 0, len(r.Tokens))
	for i, tok := range r.Tokens {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(tok.Line),
			strconv.Itoa(tok.Column),
			tok.ID,
			displayLexeme(tok.Lexeme),
			tok.PatternName,
			strconv.FormatBool(tok.Reserved),
		})
	}

	widths := make([]int, len(tableHeader))
	for i, h := range tableHeader {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	sb.WriteString(e.out.String(e.formatRow(tableHeader, widths)).Bold().String())
	sb.WriteByte('\n')
	for i, row := range rows {
		line := e.formatRow(row, widths)
		if r.Tokens[i].IsError() {
			line = e.out.String(line).Foreground(e.out.Color("1")).String()
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	if len(r.LexicalErrors) > 0 || len(r.Diagnostics) > 0 {
		sb.WriteByte('\n')
	}
	for _, tok := range r.LexicalErrors {
		msg := fmt.Sprintf("Lexical error at line %d, column %d: %s", tok.Line, tok.Column, describeError(tok))
		sb.WriteString(e.out.String(msg).Foreground(e.out.Color("1")).String())
		sb.WriteByte('\n')
	}
	for _, d := range r.Diagnostics {
		sb.WriteString(e.out.String(d.String()).Foreground(e.out.Color("1")).Bold().String())
		sb.WriteByte('\n')
	}

	return []byte(sb.String()), nil
}

func (e *TableEncoder) formatRow(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		if i == len(cells)-1 {
			padded[i] = cell
			continue
		}
		padded[i] = runewidth.FillRight(cell, widths[i])
	}
	return strings.Join(padded, "  ")
}

// displayLexeme makes control characters visible and truncates long lexemes.
func displayLexeme(lexeme string) string {
	s := strconv.Quote(lexeme)
	s = s[1 : len(s)-1]
	return runewidth.Truncate(s, maxLexemeWidth, "...")
}

var _ Encoder = (*TableEncoder)(nil)
var _ Encoder = (*LineEncoder)(nil)
var _ Encoder = (*JSONEncoder)(nil)
