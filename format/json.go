package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/subjava/java/parser"
)

type JSONEncoder struct {
	w      io.Writer
	report *Report
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(report *Report) error {
	e.report = report
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

// EncodeAll writes reports as a single JSON array.
func (e *JSONEncoder) EncodeAll(reports []*Report) error {
	data := make([]jsonReport, len(reports))
	for i, r := range reports {
		data[i] = buildReportData(r)
	}
	text, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(buildReportData(e.report), "", "  ")
}

type jsonReport struct {
	File          string              `json:"file,omitempty"`
	Accepted      bool                `json:"accepted"`
	Tokens        []parser.Token      `json:"tokens,omitempty"`
	LexicalErrors []parser.Token      `json:"lexicalErrors"`
	Diagnostics   []parser.Diagnostic `json:"diagnostics"`
}

func buildReportData(r *Report) jsonReport {
	r = orEmpty(r)
	data := jsonReport{
		File:          r.File,
		Accepted:      r.Accepted(),
		Tokens:        r.Tokens,
		LexicalErrors: r.LexicalErrors,
		Diagnostics:   r.Diagnostics,
	}
	// Always render arrays, never null.
	if data.LexicalErrors == nil {
		data.LexicalErrors = []parser.Token{}
	}
	if data.Diagnostics == nil {
		data.Diagnostics = []parser.Diagnostic{}
	}
	return data
}
