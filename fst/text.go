package fst

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Load reads a transducer in a line-oriented text format:
//
//	src next ilabel olabel    (arc)
//	f state                   (final state)
//
// Blank lines and lines starting with # are skipped. States are numbered
// densely from 0; the state count is one past the highest state mentioned.
func Load(r io.Reader) (*Fst, error) {
	type arcLine struct {
		src, next, ilabel, olabel int
	}
	var arcs []arcLine
	var finals []int
	maxState := 0

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		if fields[0] == "f" {
			if len(fields) != 2 {
				return nil, fmt.Errorf("line %d: final line needs 1 state, got %d fields", lineNum, len(fields)-1)
			}
			s, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: final state: %w", lineNum, err)
			}
			finals = append(finals, s)
			if s > maxState {
				maxState = s
			}
			continue
		}

		if len(fields) != 4 {
			return nil, fmt.Errorf("line %d: expected 4 fields (src next ilabel olabel), got %d", lineNum, len(fields))
		}
		var nums [4]int
		for i, fd := range fields {
			n, err := strconv.Atoi(fd)
			if err != nil {
				return nil, fmt.Errorf("line %d: field %d: %w", lineNum, i+1, err)
			}
			nums[i] = n
		}
		arcs = append(arcs, arcLine{nums[0], nums[1], nums[2], nums[3]})
		if nums[0] > maxState {
			maxState = nums[0]
		}
		if nums[1] > maxState {
			maxState = nums[1]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(arcs) == 0 {
		return nil, fmt.Errorf("transducer has no arcs")
	}

	b := NewBuilder(maxState + 1)
	for _, a := range arcs {
		if err := b.AddArc(a.src, a.next, a.ilabel, a.olabel); err != nil {
			return nil, err
		}
	}
	for _, s := range finals {
		if err := b.SetFinal(s); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

// LoadFile is a convenience wrapper that opens a file path.
func LoadFile(path string) (*Fst, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Save writes the transducer in the format Load reads.
func (f *Fst) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for s := 0; s < f.NumStates(); s++ {
		for _, a := range f.Arcs(s) {
			if _, err := fmt.Fprintf(bw, "%d %d %d %d\n", s, a.NextState, a.ILabel, a.OLabel); err != nil {
				return err
			}
		}
	}
	for s := 0; s < f.NumStates(); s++ {
		if f.IsFinal(s) {
			if _, err := fmt.Fprintf(bw, "f %d\n", s); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
