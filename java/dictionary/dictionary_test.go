package dictionary

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sample = `ID LEXEMA RESERVADA PATRON
1 public true modificadorAcceso
2 class true palabraReservada
3 ( false separador
bad line
4 int true tipoPrimitivo extra
5 int true tipoPrimitivo
6 int false duplicate
`

func TestParse(t *testing.T) {
	d, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if d.Len() != 5 {
		t.Fatalf("Len() = %d, want %d", d.Len(), 5)
	}

	tests := []struct {
		lexeme   string
		id       string
		reserved bool
		pattern  string
	}{
		{"public", "1", true, "modificadorAcceso"},
		{"class", "2", true, "palabraReservada"},
		{"(", "3", false, "separador"},
		{"int", "5", true, "tipoPrimitivo"},
	}

	for _, tt := range tests {
		t.Run(tt.lexeme, func(t *testing.T) {
			e, ok := d.Lookup(tt.lexeme)
			if !ok {
				t.Fatalf("Lookup(%q) not found", tt.lexeme)
			}
			if e.ID != tt.id {
				t.Errorf("ID = %q, want %q", e.ID, tt.id)
			}
			if e.Reserved != tt.reserved {
				t.Errorf("Reserved = %v, want %v", e.Reserved, tt.reserved)
			}
			if e.PatternName != tt.pattern {
				t.Errorf("PatternName = %q, want %q", e.PatternName, tt.pattern)
			}
		})
	}

	if _, ok := d.Lookup("bad"); ok {
		t.Errorf("Lookup(%q) found an entry from a malformed line", "bad")
	}
}

func TestParseHeaderOnly(t *testing.T) {
	d, err := Parse(strings.NewReader("1 public true modificadorAcceso\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if d.Len() != 0 {
		t.Errorf("Len() = %d, want 0 (first line is the header)", d.Len())
	}
}

func TestLoadMissingFile(t *testing.T) {
	d := Load(filepath.Join(t.TempDir(), "missing.txt"))
	if d == nil {
		t.Fatal("Load() returned nil")
	}
	if d.Len() != 0 {
		t.Errorf("Len() = %d, want 0", d.Len())
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabla.txt")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	d := Load(path)
	if d.Len() != 5 {
		t.Errorf("Len() = %d, want %d", d.Len(), 5)
	}
	entries := d.Entries()
	if entries[0].Lexeme != "public" || entries[4].PatternName != "duplicate" {
		t.Errorf("Entries() not in file order: %+v", entries)
	}
}

func TestNilDictionary(t *testing.T) {
	var d *Dictionary
	if d.Len() != 0 {
		t.Errorf("Len() = %d, want 0", d.Len())
	}
	if _, ok := d.Lookup("public"); ok {
		t.Error("Lookup on nil dictionary found an entry")
	}
}

func TestCacheReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabla.txt")
	if err := os.WriteFile(path, []byte("header\n1 x false a\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c := NewCache()
	first := c.Get(path)
	if c.Get(path) != first {
		t.Error("Get() reloaded an unchanged file")
	}

	if err := os.WriteFile(path, []byte("header\n1 x false a\n2 y false b\n"), 0644); err != nil {
		t.Fatal(err)
	}
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}

	second := c.Get(path)
	if second.Len() != 2 {
		t.Errorf("Len() after change = %d, want 2", second.Len())
	}
}

func TestCacheMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabla.txt")

	c := NewCache()
	first := c.Get(path)
	if first.Len() != 0 {
		t.Errorf("Len() = %d, want 0", first.Len())
	}
	if c.Get(path) != first {
		t.Error("Get() reloaded a file that is still missing")
	}

	if err := os.WriteFile(path, []byte("header\n1 x false a\n"), 0644); err != nil {
		t.Fatal(err)
	}
	created := c.Get(path)
	if created == first {
		t.Fatal("Get() kept the empty dictionary after the file appeared")
	}
	if created.Len() != 1 {
		t.Errorf("Len() after create = %d, want 1", created.Len())
	}
	if c.Get(path) != created {
		t.Error("Get() reloaded an unchanged file")
	}
}
