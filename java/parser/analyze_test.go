package parser

import (
	"testing"

	"github.com/dhamidi/subjava/java/dictionary"
)

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		lexicalErrors int
		diagnostics   int
		accepted      bool
	}{
		{"accepted", "public class A { public static void main(String[] args) { } }", 0, 0, true},
		{"syntax error", "public class A { public static void main() { int x = ; } }", 0, 1, false},
		{"lexical and syntax error", "public class A { void f() { x ñ y; } }", 1, 1, false},
		{"unterminated string", "public class A { void f() { s = \"abc;\n } }", 1, 1, false},
		{"missing public", "class A { }", 0, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Analyze(tt.input)
			if got := len(r.LexicalErrors()); got != tt.lexicalErrors {
				t.Errorf("LexicalErrors() = %d, want %d", got, tt.lexicalErrors)
			}
			if got := len(r.Diagnostics); got != tt.diagnostics {
				t.Errorf("Diagnostics = %v, want %d", r.Diagnostics, tt.diagnostics)
			}
			if r.Accepted() != tt.accepted {
				t.Errorf("Accepted() = %v, want %v", r.Accepted(), tt.accepted)
			}
		})
	}
}

func TestAnalyzeWithOptions(t *testing.T) {
	dict := dictionary.New([]dictionary.Entry{{ID: "12", Lexeme: "class", Reserved: true, PatternName: "palabraReservada"}})
	r := Analyze("public class A { }", WithDictionary(dict), WithFile("A.java"))
	if !r.Accepted() {
		t.Fatalf("Analyze() diagnostics = %v", r.Diagnostics)
	}
	class := r.Tokens[1]
	if class.ID != "12" || class.PatternName != "palabraReservada" {
		t.Errorf("class token = %+v, want dictionary values", class)
	}
	if class.Span.Start.File != "A.java" {
		t.Errorf("File = %q, want %q", class.Span.Start.File, "A.java")
	}
}
