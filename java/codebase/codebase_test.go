package codebase

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanAll(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "A.java"), "public class A { }")
	writeFile(t, filepath.Join(dir, "sub", "B.java"), "class B { }")
	writeFile(t, filepath.Join(dir, ".hidden", "C.java"), "public class C { }")
	writeFile(t, filepath.Join(dir, "notes.txt"), "not java")

	c := New(dir)
	if err := c.ScanAll(); err != nil {
		t.Fatalf("ScanAll() error = %v", err)
	}

	var paths []string
	for _, f := range c.Files() {
		paths = append(paths, f.Path)
	}
	want := []string{filepath.Join(dir, "A.java"), filepath.Join(dir, "sub", "B.java")}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("Files() = %v, want %v", paths, want)
	}

	rejected := c.Rejected()
	if len(rejected) != 1 || rejected[0].Path != want[1] {
		t.Errorf("Rejected() = %v, want only %s", rejected, want[1])
	}
}

func TestUpdateFile(t *testing.T) {
	c := New(".")
	f := c.UpdateFile("/src/A.java", []byte("public class A { void f() { x = ñ; } }"))

	if f.Accepted() {
		t.Error("Accepted() = true, want false")
	}
	if len(f.Result.LexicalErrors()) != 1 {
		t.Errorf("LexicalErrors() = %v, want one", f.Result.LexicalErrors())
	}
	if len(f.Result.Diagnostics) != 1 {
		t.Errorf("Diagnostics = %v, want one", f.Result.Diagnostics)
	}
	if f.Result.Tokens[0].Span.Start.File != "A.java" {
		t.Errorf("File = %q, want base name", f.Result.Tokens[0].Span.Start.File)
	}
	if len(f.Segments) <= len(f.Result.Tokens) {
		t.Errorf("Segments should include whitespace: %d <= %d", len(f.Segments), len(f.Result.Tokens))
	}
	if c.GetFile("/src/A.java") != f {
		t.Error("GetFile() did not return the stored file")
	}

	c.RemoveFile("/src/A.java")
	if c.GetFile("/src/A.java") != nil {
		t.Error("RemoveFile() left the file behind")
	}
}

func TestReanalyzeUsesNewDictionary(t *testing.T) {
	dir := t.TempDir()
	dict := filepath.Join(dir, "tabla.txt")
	writeFile(t, dict, "id lexema reservada patron\n1 public true modificador\n")

	c := New(dir, WithDictionary(dict))
	f := c.UpdateFile(filepath.Join(dir, "A.java"), []byte("public class A { }"))
	if got := f.Result.Tokens[0].PatternName; got != "modificador" {
		t.Fatalf("PatternName = %q, want modificador", got)
	}

	writeFile(t, dict, "id lexema reservada patron\n1 public true acceso\n")
	updated := c.Reanalyze()
	if len(updated) != 1 {
		t.Fatalf("Reanalyze() returned %d files, want 1", len(updated))
	}
	if got := updated[0].Result.Tokens[0].PatternName; got != "acceso" {
		t.Errorf("PatternName = %q, want acceso", got)
	}
}

func TestMissingDictionaryFallsBack(t *testing.T) {
	c := New(".", WithDictionary(filepath.Join(t.TempDir(), "missing.txt")))
	f := c.UpdateFile("A.java", []byte("public class A { }"))
	if !f.Accepted() {
		t.Errorf("Accepted() = false, diagnostics %v", f.Result.Diagnostics)
	}
	if got := f.Result.Tokens[0].PatternName; got != "modifier_access" {
		t.Errorf("PatternName = %q, want built-in name", got)
	}
}

func TestCompletionsAtPoint(t *testing.T) {
	c := New(".")
	path := "A.java"
	content := "public class Alpha { void f() { int counter; int cla; cou\nAl\ncla\n"
	c.UpdateFile(path, []byte(content))

	tests := []struct {
		name      string
		line      int
		character int
		want      []CompletionItem
	}{
		{
			name:      "identifier",
			line:      1,
			character: len("public class Alpha { void f() { int counter; int cla; cou"),
			want: []CompletionItem{
				{Label: "counter", Kind: CompletionKindIdentifier, Detail: "identifier", InsertText: "counter"},
			},
		},
		{
			name:      "class name",
			line:      2,
			character: 2,
			want: []CompletionItem{
				{Label: "Alpha", Kind: CompletionKindIdentifier, Detail: "identifier", InsertText: "Alpha"},
			},
		},
		{
			name:      "keyword",
			line:      3,
			character: 3,
			want: []CompletionItem{
				{Label: "class", Kind: CompletionKindKeyword, Detail: "keyword", InsertText: "class"},
			},
		},
		{
			name:      "no word",
			line:      1,
			character: 0,
		},
		{
			name:      "line out of range",
			line:      10,
			character: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.CompletionsAtPoint(path, tt.line, tt.character)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CompletionsAtPoint() = %+v, want %+v", got, tt.want)
			}
		})
	}

	if got := c.CompletionsAtPoint("unknown.java", 1, 1); got != nil {
		t.Errorf("CompletionsAtPoint(unknown) = %v, want nil", got)
	}
}

func TestWordBefore(t *testing.T) {
	tests := []struct {
		content   string
		line      int
		character int
		want      string
	}{
		{"foo.bar", 1, 7, "bar"},
		{"foo.bar", 1, 3, "foo"},
		{"foo.bar", 1, 4, ""},
		{"x\n  $ab_1", 2, 7, "$ab_1"},
		{"abc", 1, 99, "abc"},
		{"abc", 1, -1, ""},
		{"abc", 0, 1, ""},
	}
	for _, tt := range tests {
		if got := wordBefore([]byte(tt.content), tt.line, tt.character); got != tt.want {
			t.Errorf("wordBefore(%q, %d, %d) = %q, want %q", tt.content, tt.line, tt.character, got, tt.want)
		}
	}
}

func TestIsSource(t *testing.T) {
	for path, want := range map[string]bool{
		"A.java":          true,
		"dir/B.java":      true,
		"tabla.txt":       false,
		"A.java.bak":      false,
		"README":          false,
		"nested/.x.java":  true,
		"Main.JAVA.class": false,
	} {
		if got := IsSource(path); got != want {
			t.Errorf("IsSource(%q) = %v, want %v", path, got, want)
		}
	}
}
