// Package fst provides the compiled weighted transducer the spotter decodes
// over: a directed graph whose arcs consume phone ids and emit keyword ids.
package fst

// Arc is a single labeled transition. ILabel is the consumed phone id
// (always >= 1, there are no epsilon arcs), OLabel is the emitted keyword
// id with 0 meaning none.
type Arc struct {
	ILabel    int32
	OLabel    int32
	NextState int32
}

// Fst is an immutable compiled transducer. Arcs are stored in one flat
// slice grouped by source state; enumeration order for a state is the
// order the arcs were added, which the decoder relies on for its
// deterministic tie-break.
type Fst struct {
	arcs      []Arc
	offsets   []int32 // len = numStates+1, arcs of state s are arcs[offsets[s]:offsets[s+1]]
	final     []bool
	maxILabel int32
}

// NumStates returns the number of states. State 0 is the start state.
func (f *Fst) NumStates() int {
	return len(f.offsets) - 1
}

// Arcs returns the outgoing arcs of state in insertion order.
// The returned slice aliases internal storage and must not be modified.
func (f *Fst) Arcs(state int) []Arc {
	return f.arcs[f.offsets[state]:f.offsets[state+1]]
}

// IsFinal reports whether state marks a completed keyword path.
func (f *Fst) IsFinal(state int) bool {
	return f.final[state]
}

// NumArcs returns the total arc count.
func (f *Fst) NumArcs() int {
	return len(f.arcs)
}

// MaxILabel returns the highest phone id consumed by any arc. A frame
// score vector must have at least this many entries.
func (f *Fst) MaxILabel() int {
	return int(f.maxILabel)
}
