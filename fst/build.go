package fst

import (
	"fmt"
	"sort"
)

// Builder accumulates states and arcs for a transducer under construction.
type Builder struct {
	numStates int
	arcs      []Arc
	srcs      []int32 // source state per arc, parallel to arcs
	final     map[int]bool
}

// NewBuilder creates a Builder with numStates states and no arcs.
// State 0 is the start state.
func NewBuilder(numStates int) *Builder {
	return &Builder{
		numStates: numStates,
		final:     make(map[int]bool),
	}
}

// AddState appends one state and returns its id.
func (b *Builder) AddState() int {
	b.numStates++
	return b.numStates - 1
}

// AddArc adds an arc from src. ilabel must be >= 1 and next must be an
// existing state.
func (b *Builder) AddArc(src, next, ilabel, olabel int) error {
	if src < 0 || src >= b.numStates {
		return fmt.Errorf("arc source state %d out of range [0,%d)", src, b.numStates)
	}
	if next < 0 || next >= b.numStates {
		return fmt.Errorf("arc next state %d out of range [0,%d)", next, b.numStates)
	}
	if ilabel < 1 {
		return fmt.Errorf("arc ilabel %d: every arc must consume a phone (ilabel >= 1)", ilabel)
	}
	if olabel < 0 {
		return fmt.Errorf("arc olabel %d must be >= 0", olabel)
	}
	b.srcs = append(b.srcs, int32(src))
	b.arcs = append(b.arcs, Arc{ILabel: int32(ilabel), OLabel: int32(olabel), NextState: int32(next)})
	return nil
}

// SetFinal marks state as a final (keyword-complete) state.
func (b *Builder) SetFinal(state int) error {
	if state < 0 || state >= b.numStates {
		return fmt.Errorf("final state %d out of range [0,%d)", state, b.numStates)
	}
	b.final[state] = true
	return nil
}

// Build freezes the builder into an immutable Fst. Per-state arc order is
// preserved from AddArc calls.
func (b *Builder) Build() (*Fst, error) {
	if b.numStates == 0 {
		return nil, fmt.Errorf("transducer has no states")
	}

	// Stable sort by source state keeps insertion order within a state.
	order := make([]int, len(b.arcs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return b.srcs[order[i]] < b.srcs[order[j]]
	})

	f := &Fst{
		arcs:    make([]Arc, len(b.arcs)),
		offsets: make([]int32, b.numStates+1),
		final:   make([]bool, b.numStates),
	}
	counts := make([]int32, b.numStates)
	for _, src := range b.srcs {
		counts[src]++
	}
	for s := 0; s < b.numStates; s++ {
		f.offsets[s+1] = f.offsets[s] + counts[s]
	}
	for i, idx := range order {
		a := b.arcs[idx]
		f.arcs[i] = a
		if a.ILabel > f.maxILabel {
			f.maxILabel = a.ILabel
		}
	}
	for s := range b.final {
		f.final[s] = true
	}
	return f, nil
}

// Keyword is one spotting target: an id (emitted as the olabel when the
// keyword completes) and its phone sequence.
type Keyword struct {
	ID     int
	Phones []int
}

// CompileKeywords builds the standard spotting topology: state 0 self-loops
// on every filler phone, and each keyword gets a linear chain of one state
// per phone, each chain state self-looping on its phone. The arc entering
// the last chain state carries the keyword id, and that state is final.
func CompileKeywords(keywords []Keyword, fillerPhones []int) (*Fst, error) {
	if len(keywords) == 0 {
		return nil, fmt.Errorf("no keywords to compile")
	}
	b := NewBuilder(1)
	for _, p := range fillerPhones {
		if err := b.AddArc(0, 0, p, 0); err != nil {
			return nil, fmt.Errorf("filler phone %d: %w", p, err)
		}
	}
	for _, kw := range keywords {
		if kw.ID == 0 {
			return nil, fmt.Errorf("keyword id 0 is reserved for \"no keyword\"")
		}
		if len(kw.Phones) == 0 {
			return nil, fmt.Errorf("keyword %d has no phones", kw.ID)
		}
		prev := 0
		for i, p := range kw.Phones {
			s := b.AddState()
			olabel := 0
			if i == len(kw.Phones)-1 {
				olabel = kw.ID
			}
			if err := b.AddArc(prev, s, p, olabel); err != nil {
				return nil, fmt.Errorf("keyword %d phone %d: %w", kw.ID, p, err)
			}
			if err := b.AddArc(s, s, p, 0); err != nil {
				return nil, fmt.Errorf("keyword %d phone %d self-loop: %w", kw.ID, p, err)
			}
			prev = s
		}
		if err := b.SetFinal(prev); err != nil {
			return nil, err
		}
	}
	return b.Build()
}
