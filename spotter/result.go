package spotter

// Result is the per-frame decoding output.
type Result struct {
	Spotted    bool
	Confidence float64 // exp of the mean per-state peak score, 0 if no final state active
	Keyword    int     // keyword id, 0 = none; meaningful only when a final state is active

	// Diagnostics.
	BestState int     // globally best-scoring active state this frame
	BestScore float64 // its cumulative log-score
}
