package parser

import (
	"strings"
	"testing"
)

func validate(src string) []Diagnostic {
	return NewValidator().Validate(NewLexer().Tokenize(src))
}

func TestValidatorAccepts(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"main method", "public class A { public static void main(String[] args) { } }"},
		{"empty class", "public class A { }"},
		{"extends and implements", "public class A extends B implements C, D { }"},
		{"method without modifiers", "public class A { void f() { } }"},
		{"array return type", "public class A { int[][] grid() { return null; } }"},
		{"comments are ignored", "// header\npublic class A { /* body */ }"},
		{"method body", `public class Calc {
    public static int add(int a, int b) {
        int sum = a + b;
        return sum;
    }

    private void loop(String[] names, int n) {
        for (int i = 0; i < n; i++) {
            if (i % 2 == 0) {
                System.out.println("even" + names[i]);
            } else {
                continue;
            }
        }
        while (true) { break; }
        for (;;) { }
        for (i = 0, j = 1; i < j; i++, j--) { }
        int[] arr = new int[10];
        int[][] m = new int[3][];
        String s = new String("x");
        List items = new ArrayList();
        arr[0] = -1;
        boolean ok = !false && x instanceof Foo;
        x = a ? b : c;
        long big = 10L, small = 0;
        double d = 1.5e3 * .5;
        char c = '\n';
        this.count += ++n;
        super.toString();
        foo(bar(1), (a + b)).baz();
        { int nested = ~0; }
        if (ok) return; else x--;
        return;
    }
}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diags := validate(tt.input); len(diags) != 0 {
				t.Errorf("Validate() = %v, want no diagnostics", diags)
			}
		})
	}
}

func TestValidatorRejects(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		line   int
		column int
		detail string
	}{
		{
			name:   "missing expression",
			input:  "public class A { public static void main() { int x = ; } }",
			line:   1,
			column: 54,
			detail: "invalid expression start: found delimiter ';'",
		},
		{
			name:   "return type at end of input",
			input:  "public class A { public",
			line:   1,
			column: 18,
			detail: "expected return type but reached end of input",
		},
		{
			name:   "parameter type at end of input",
			input:  "public class A { void f(",
			line:   1,
			column: 24,
			detail: "expected parameter type but reached end of input",
		},
		{
			name:   "missing public",
			input:  "class A { }",
			line:   1,
			column: 1,
			detail: "expected public class declaration",
		},
		{
			name:   "empty input",
			input:  "",
			line:   1,
			column: 1,
			detail: "expected public class declaration",
		},
		{
			name:   "only comments",
			input:  "// nothing here\n",
			line:   1,
			column: 1,
			detail: "expected public class declaration",
		},
		{
			name:   "missing class name",
			input:  "public class { }",
			line:   1,
			column: 14,
			detail: "expected identifier but found delimiter '{'",
		},
		{
			name:   "missing class keyword",
			input:  "public A { }",
			line:   1,
			column: 8,
			detail: "expected object keyword 'class' but found identifier 'A'",
		},
		{
			name:   "unclosed class body",
			input:  "public class A {",
			line:   1,
			column: 16,
			detail: "expected delimiter '}' but reached end of input",
		},
		{
			name:   "trailing tokens",
			input:  "public class A { } extra",
			line:   1,
			column: 20,
			detail: "unexpected tokens at end: 'extra'",
		},
		{
			name:   "field declaration",
			input:  "public class A { int x; }",
			line:   1,
			column: 23,
			detail: "expected delimiter '(' but found delimiter ';'",
		},
		{
			name:   "stray semicolon in class",
			input:  "public class A { ; }",
			line:   1,
			column: 18,
			detail: "invalid declaration in class scope: found delimiter ';'",
		},
		{
			name:   "invalid return type",
			input:  "public class A { public 42 f() { } }",
			line:   1,
			column: 25,
			detail: "invalid return type: found integer literal '42'",
		},
		{
			name:   "invalid parameter type",
			input:  "public class A { void f(42 x) { } }",
			line:   1,
			column: 25,
			detail: "invalid parameter type: found integer literal '42'",
		},
		{
			name:   "missing semicolon",
			input:  "public class A { void f() { x = 1 } }",
			line:   1,
			column: 35,
			detail: "expected delimiter ';' but found delimiter '}'",
		},
		{
			name:   "unsupported statement",
			input:  "public class A { void f() { switch (x) { } } }",
			line:   1,
			column: 29,
			detail: "unsupported statement: found control keyword 'switch'",
		},
		{
			name:   "lexical error in expression",
			input:  "public class A { void f() { x = ñ; } }",
			line:   1,
			column: 33,
			detail: "invalid expression start: found unsupported character 'ñ'",
		},
		{
			name:   "forbidden operator",
			input:  "public class A { void f() { x === y; } }",
			line:   1,
			column: 31,
			detail: "expected delimiter ';' but found invalid operator '==='",
		},
		{
			name:   "unclosed method body",
			input:  "public class A { void f() {",
			line:   1,
			column: 27,
			detail: "expected delimiter '}' but reached end of input",
		},
		{
			name:   "expression cut short",
			input:  "public class A { void f() { x = ",
			line:   1,
			column: 31,
			detail: "expected expression but reached end of input",
		},
		{
			name:   "bad new",
			input:  "public class A { void f() { x = new 1; } }",
			line:   1,
			column: 37,
			detail: "invalid type after 'new': found integer literal '1'",
		},
		{
			name:   "unclosed condition",
			input:  "public class A { void f() { if (x { } } }",
			line:   1,
			column: 35,
			detail: "expected delimiter ')' but found delimiter '{'",
		},
		{
			name:   "multiline position",
			input:  "public class A {\n  void f() {\n    int x = ;\n  }\n}",
			line:   3,
			column: 13,
			detail: "invalid expression start: found delimiter ';'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := validate(tt.input)
			if len(diags) != 1 {
				t.Fatalf("Validate() returned %d diagnostics, want 1: %v", len(diags), diags)
			}
			d := diags[0]
			if d.Line != tt.line || d.Column != tt.column {
				t.Errorf("position = %d:%d, want %d:%d", d.Line, d.Column, tt.line, tt.column)
			}
			if d.Message != tt.detail {
				t.Errorf("Message = %q, want %q", d.Message, tt.detail)
			}
		})
	}
}

func TestValidateStrings(t *testing.T) {
	tokens := NewLexer().Tokenize("public class A { public static void main() { int x = ; } }")
	got := Validate(tokens)
	want := "Syntax error at line 1, column 54: invalid expression start: found delimiter ';'"
	if len(got) != 1 || got[0] != want {
		t.Errorf("Validate() = %q, want [%q]", got, want)
	}

	if got := Validate(NewLexer().Tokenize("public class A { }")); len(got) != 0 {
		t.Errorf("Validate() = %q, want empty", got)
	}
}

func TestValidatorIgnoresPatternNames(t *testing.T) {
	tokens := NewLexer().Tokenize("public class A { void f() { } }")
	for i := range tokens {
		tokens[i].PatternName = "renamed"
		tokens[i].ID = "0"
	}
	if diags := NewValidator().Validate(tokens); len(diags) != 0 {
		t.Errorf("Validate() = %v, want no diagnostics", diags)
	}
}

func TestValidatorReuse(t *testing.T) {
	v := NewValidator()
	if diags := v.Validate(NewLexer().Tokenize("public class A { void f() { {")); len(diags) != 1 {
		t.Fatalf("first Validate() = %v, want one diagnostic", diags)
	}
	if diags := v.Validate(NewLexer().Tokenize("public class B { }")); len(diags) != 0 {
		t.Errorf("second Validate() = %v, want no diagnostics", diags)
	}
	if len(v.scopes) != 0 {
		t.Errorf("scope stack = %v, want empty after accepted input", v.scopes)
	}
}

func TestValidatorScopes(t *testing.T) {
	v := NewValidator()
	v.Validate(NewLexer().Tokenize("public class A { void f() { if (x) { y = ; } } }"))
	want := []Scope{ScopeClass, ScopeMethod, ScopeBlock, ScopeBlock}
	if len(v.scopes) != len(want) {
		t.Fatalf("scopes = %v, want %v", v.scopes, want)
	}
	for i := range want {
		if v.scopes[i] != want[i] {
			t.Errorf("scopes[%d] = %v, want %v", i, v.scopes[i], want[i])
		}
	}
}

func TestScopeString(t *testing.T) {
	for scope, want := range map[Scope]string{
		ScopeClass:  "class",
		ScopeMethod: "method",
		ScopeBlock:  "block",
		Scope(42):   "unknown",
	} {
		if got := scope.String(); got != want {
			t.Errorf("Scope(%d).String() = %q, want %q", int(scope), got, want)
		}
	}
}

func TestSyntaxError(t *testing.T) {
	err := &SyntaxError{Line: 2, Column: 7, Detail: "expected identifier but found delimiter '('"}
	want := "Syntax error at line 2, column 7: expected identifier but found delimiter '('"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if got := err.Diagnostic().String(); got != want {
		t.Errorf("Diagnostic().String() = %q, want %q", got, want)
	}
}

func TestValidatorAtMostOneDiagnostic(t *testing.T) {
	inputs := []string{
		"public class A { void f() { x = ; y = ; z = ; } }",
		"# ñ × ..",
		"public class A { void f( { } }",
		strings.Repeat("{", 50),
	}
	for _, src := range inputs {
		if diags := validate(src); len(diags) != 1 {
			t.Errorf("Validate(%q) returned %d diagnostics, want 1", src, len(diags))
		}
	}
}
