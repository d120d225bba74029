package fst

import (
	"strings"
	"testing"
)

func TestBuilderArcOrder(t *testing.T) {
	b := NewBuilder(2)
	if err := b.AddArc(0, 0, 1, 0); err != nil {
		t.Fatal(err)
	}
	if err := b.AddArc(1, 1, 3, 0); err != nil {
		t.Fatal(err)
	}
	if err := b.AddArc(0, 1, 2, 5); err != nil {
		t.Fatal(err)
	}
	f, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	arcs := f.Arcs(0)
	if len(arcs) != 2 {
		t.Fatalf("state 0 has %d arcs, want 2", len(arcs))
	}
	// Insertion order within a state must be preserved.
	if arcs[0].ILabel != 1 || arcs[1].ILabel != 2 {
		t.Errorf("state 0 arc order = [%d %d], want [1 2]", arcs[0].ILabel, arcs[1].ILabel)
	}
	if arcs[1].OLabel != 5 || arcs[1].NextState != 1 {
		t.Errorf("arc 0->1 = %+v", arcs[1])
	}
	if f.MaxILabel() != 3 {
		t.Errorf("MaxILabel = %d, want 3", f.MaxILabel())
	}
	if f.NumArcs() != 3 {
		t.Errorf("NumArcs = %d, want 3", f.NumArcs())
	}
}

func TestBuilderValidation(t *testing.T) {
	b := NewBuilder(2)
	if err := b.AddArc(0, 5, 1, 0); err == nil {
		t.Error("out-of-range next state accepted")
	}
	if err := b.AddArc(5, 0, 1, 0); err == nil {
		t.Error("out-of-range source state accepted")
	}
	if err := b.AddArc(0, 1, 0, 0); err == nil {
		t.Error("epsilon ilabel accepted")
	}
	if err := b.AddArc(0, 1, 1, -1); err == nil {
		t.Error("negative olabel accepted")
	}
	if err := b.SetFinal(9); err == nil {
		t.Error("out-of-range final state accepted")
	}
	if _, err := NewBuilder(0).Build(); err == nil {
		t.Error("empty transducer accepted")
	}
}

func TestCompileKeywords(t *testing.T) {
	f, err := CompileKeywords([]Keyword{
		{ID: 7, Phones: []int{2, 3}},
		{ID: 8, Phones: []int{4}},
	}, []int{1})
	if err != nil {
		t.Fatal(err)
	}

	// 1 start state + 2 chain states + 1 chain state.
	if f.NumStates() != 4 {
		t.Fatalf("NumStates = %d, want 4", f.NumStates())
	}

	// Start state: filler self-loop plus one entry arc per keyword.
	start := f.Arcs(0)
	if len(start) != 3 {
		t.Fatalf("start state has %d arcs, want 3", len(start))
	}
	if start[0].ILabel != 1 || start[0].NextState != 0 {
		t.Errorf("filler self-loop = %+v", start[0])
	}

	// Keyword 7: chain 0 -> 1 -> 2, id emitted entering state 2, state 2
	// final with a self-loop.
	if f.IsFinal(1) {
		t.Error("mid-chain state 1 marked final")
	}
	if !f.IsFinal(2) {
		t.Error("keyword 7 last state not final")
	}
	var entry *Arc
	for i := range f.Arcs(1) {
		if f.Arcs(1)[i].NextState == 2 {
			entry = &f.Arcs(1)[i]
		}
	}
	if entry == nil || entry.OLabel != 7 {
		t.Errorf("arc entering keyword 7 final state = %+v, want olabel 7", entry)
	}

	// Keyword 8: single-phone chain, entry arc carries the id directly.
	if !f.IsFinal(3) {
		t.Error("keyword 8 last state not final")
	}

	if f.MaxILabel() != 4 {
		t.Errorf("MaxILabel = %d, want 4", f.MaxILabel())
	}
}

func TestCompileKeywordsRejectsBadInput(t *testing.T) {
	if _, err := CompileKeywords(nil, []int{1}); err == nil {
		t.Error("empty keyword list accepted")
	}
	if _, err := CompileKeywords([]Keyword{{ID: 0, Phones: []int{2}}}, nil); err == nil {
		t.Error("keyword id 0 accepted")
	}
	if _, err := CompileKeywords([]Keyword{{ID: 1}}, nil); err == nil {
		t.Error("keyword without phones accepted")
	}
}

func TestLoadSave(t *testing.T) {
	const text = `
# keyword 7: phones 2 3
0 0 1 0
0 1 2 0
1 1 2 0
1 2 3 7
2 2 3 0
f 2
`
	f, err := Load(strings.NewReader(text))
	if err != nil {
		t.Fatal(err)
	}
	if f.NumStates() != 3 || f.NumArcs() != 5 {
		t.Fatalf("loaded %d states / %d arcs, want 3 / 5", f.NumStates(), f.NumArcs())
	}
	if !f.IsFinal(2) || f.IsFinal(0) {
		t.Error("final-state flags wrong after load")
	}

	var sb strings.Builder
	if err := f.Save(&sb); err != nil {
		t.Fatal(err)
	}
	g, err := Load(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("reload saved transducer: %v", err)
	}
	if g.NumStates() != f.NumStates() || g.NumArcs() != f.NumArcs() {
		t.Errorf("reload mismatch: %d/%d vs %d/%d",
			g.NumStates(), g.NumArcs(), f.NumStates(), f.NumArcs())
	}
	if g.Arcs(1)[1].OLabel != 7 {
		t.Errorf("reload lost olabel: %+v", g.Arcs(1))
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"short arc line", "0 1 2"},
		{"non-numeric", "0 1 x 0"},
		{"bad final", "0 1 2 0\nf x"},
		{"epsilon ilabel", "0 1 0 0"},
	}
	for _, tc := range cases {
		if _, err := Load(strings.NewReader(tc.text)); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}
