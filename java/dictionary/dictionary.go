// Package dictionary loads the lexeme table that overrides the tokenizer's
// generic pattern names.
//
// The file format is whitespace separated text. The first line is a header
// and is ignored. Every other line must split into exactly four fields:
//
//	id lexeme reserved pattern
//
// where reserved is "true" for reserved words and anything else otherwise.
// Lines with a different number of fields are skipped.
package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("subjava.dictionary")

type Entry struct {
	ID          string `json:"id"`
	Lexeme      string `json:"lexeme"`
	Reserved    bool   `json:"reserved"`
	PatternName string `json:"pattern"`
}

// Dictionary is an immutable, ordered set of entries indexed by lexeme.
// The zero value and a nil *Dictionary are both empty.
type Dictionary struct {
	entries []Entry
	index   map[string]int
}

func New(entries []Entry) *Dictionary {
	d := &Dictionary{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		d.entries = append(d.entries, e)
		if _, ok := d.index[e.Lexeme]; !ok {
			d.index[e.Lexeme] = len(d.entries) - 1
		}
	}
	return d
}

// Lookup returns the first entry whose lexeme equals lexeme exactly.
func (d *Dictionary) Lookup(lexeme string) (Entry, bool) {
	if d == nil {
		return Entry{}, false
	}
	i, ok := d.index[lexeme]
	if !ok {
		return Entry{}, false
	}
	return d.entries[i], true
}

func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Entries returns a copy of the entries in file order.
func (d *Dictionary) Entries() []Entry {
	if d == nil {
		return nil
	}
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Parse reads dictionary content from r. Malformed lines are skipped; only
// read failures are reported.
func Parse(r io.Reader) (*Dictionary, error) {
	var entries []Entry
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	header := true
	for sc.Scan() {
		if header {
			header = false
			continue
		}
		fields := strings.Fields(sc.Text())
		if len(fields) != 4 {
			continue
		}
		entries = append(entries, Entry{
			ID:          fields[0],
			Lexeme:      fields[1],
			Reserved:    fields[2] == "true",
			PatternName: fields[3],
		})
	}
	if err := sc.Err(); err != nil {
		return New(nil), fmt.Errorf("read dictionary: %w", err)
	}
	return New(entries), nil
}

// Load reads the dictionary at path. It never fails: a missing or unreadable
// file is logged and yields an empty dictionary, which makes the tokenizer
// fall back to its built-in pattern names.
func Load(path string) *Dictionary {
	f, err := os.Open(path)
	if err != nil {
		log.Warningf("dictionary %s unavailable, using built-in pattern names: %s", path, err)
		return New(nil)
	}
	defer f.Close()

	d, err := Parse(f)
	if err != nil {
		log.Warningf("dictionary %s: %s", path, err)
		return New(nil)
	}
	log.Debugf("loaded %d dictionary entries from %s", d.Len(), path)
	return d
}
