// Package symbol maps phone names to integer ids. The spotter uses a Table
// of filler phones (silence, garbage) to classify arcs during decoding.
package symbol

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Table is a phone name <-> id mapping with id membership lookup.
type Table struct {
	byName map[string]int
	byID   map[int]string
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		byName: make(map[string]int),
		byID:   make(map[int]string),
	}
}

// Add inserts a name/id pair, overwriting any previous binding of either.
func (t *Table) Add(name string, id int) {
	t.byName[name] = id
	t.byID[id] = name
}

// Contains reports whether id is in the table. This is the membership test
// the decoder applies to classify an arc as filler.
func (t *Table) Contains(id int) bool {
	_, ok := t.byID[id]
	return ok
}

// ID returns the id bound to name.
func (t *Table) ID(name string) (int, bool) {
	id, ok := t.byName[name]
	return id, ok
}

// Name returns the name bound to id, or "" if absent.
func (t *Table) Name(id int) string {
	return t.byID[id]
}

// Size returns the number of entries.
func (t *Table) Size() int {
	return len(t.byID)
}

// IDs returns all ids in ascending order.
func (t *Table) IDs() []int {
	ids := make([]int, 0, len(t.byID))
	for id := range t.byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Load reads a symbol table, one "name id" pair per line. Blank lines and
// lines starting with # are skipped.
func Load(r io.Reader) (*Table, error) {
	t := NewTable()
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected \"name id\", got %d fields", lineNum, len(fields))
		}
		id, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: id: %w", lineNum, err)
		}
		t.Add(fields[0], id)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadFile is a convenience wrapper that opens a file path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}
