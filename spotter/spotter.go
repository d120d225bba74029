// Package spotter implements frame-synchronous token-passing keyword
// spotting over a compiled transducer. Each Spot call consumes one frame of
// per-phone acoustic scores and reports whether a keyword path has legally
// completed.
package spotter

import (
	"fmt"
	"math"

	"github.com/ieee0824/kwspot-go/fst"
)

// maxTokenPassingFrames bounds unreset decoding at 10 minutes of audio
// (100 frames/s). Past it, a filler-dominated buffer is force-cleared to
// stop unbounded score growth.
const maxTokenPassingFrames = 100 * 60 * 10

// FillerSet classifies phones as non-keyword acoustic content
// (silence, garbage). *symbol.Table satisfies it.
type FillerSet interface {
	Contains(phone int) bool
}

// Config holds the spotting decision parameters.
type Config struct {
	SpotThreshold         float64 // minimum confidence to declare a spot
	MinKeywordFrames      int     // minimum frames spent on keyword arcs (0 = disabled)
	MinFramesForLastState int     // minimum dwell at the final state
}

// DefaultConfig returns reasonable default parameters.
func DefaultConfig() Config {
	return Config{
		SpotThreshold:         0.5,
		MinKeywordFrames:      0,
		MinFramesForLastState: 5,
	}
}

// Spotter is a single-stream decoder. It borrows the transducer and filler
// set, which must outlive it and stay immutable, and owns two token buffers
// sized to the state count, swapped every frame. Calls on one Spotter must
// be serialized in frame order; independent Spotters may run in parallel.
type Spotter struct {
	fst     *fst.Fst
	fillers FillerSet
	cfg     Config

	numFrames  int
	prevTokens []Token
	curTokens  []Token
}

// New creates a Spotter over f. Decoding starts armed: only state 0 active.
func New(f *fst.Fst, fillers FillerSet, cfg Config) *Spotter {
	s := &Spotter{
		fst:        f,
		fillers:    fillers,
		cfg:        cfg,
		prevTokens: make([]Token, f.NumStates()),
		curTokens:  make([]Token, f.NumStates()),
	}
	s.Reset()
	return s
}

// SetSpotThreshold sets the confidence threshold. Effective immediately.
func (s *Spotter) SetSpotThreshold(threshold float64) {
	s.cfg.SpotThreshold = threshold
}

// SetMinKeywordFrames sets the minimum keyword-frame count. Effective
// immediately.
func (s *Spotter) SetMinKeywordFrames(frames int) {
	s.cfg.MinKeywordFrames = frames
}

// SetMinFramesForLastState sets the minimum final-state dwell. Effective
// immediately.
func (s *Spotter) SetMinFramesForLastState(frames int) {
	s.cfg.MinFramesForLastState = frames
}

// Reset re-arms the decoder: all tokens cleared, state 0 active with zero
// statistics, frame counter back to zero. Idempotent.
func (s *Spotter) Reset() {
	clearTokens(s.prevTokens)
	clearTokens(s.curTokens)
	s.prevTokens[0].Active = true
	s.numFrames = 0
}

func clearTokens(tokens []Token) {
	for i := range tokens {
		tokens[i].reset()
	}
}

// Spot consumes one frame of linear-domain scores, indexed by phone id
// (scores[0] is phone 1), and returns the frame's decision. The vector must
// cover every phone the transducer consumes and hold strictly positive
// values; violations are reported before any decoder state changes.
func (s *Spotter) Spot(scores []float64) (Result, error) {
	if need := s.fst.MaxILabel(); len(scores) < need {
		return Result{}, fmt.Errorf("score vector has %d entries, transducer needs %d", len(scores), need)
	}
	for i := 0; i < s.fst.MaxILabel(); i++ {
		if !(scores[i] > 0) {
			return Result{}, fmt.Errorf("score for phone %d is %v, want > 0", i+1, scores[i])
		}
	}

	// Propagate previous-frame tokens along every outgoing arc.
	for i := range s.prevTokens {
		if !s.prevTokens[i].Active {
			continue
		}
		for _, arc := range s.fst.Arcs(i) {
			frameLogScore := math.Log(scores[arc.ILabel-1])
			isFiller := s.fillers.Contains(int(arc.ILabel))
			isSelfArc := i == int(arc.NextState)
			s.curTokens[arc.NextState].update(&s.prevTokens[i], arc.OLabel, isSelfArc, isFiller, frameLogScore)
		}
	}

	// Best active state overall, and best among final states.
	bestState := 0
	bestScore := s.curTokens[0].Score
	bestFinalState := 0
	bestFinalScore := 0.0
	reachFinal := false
	for i := 1; i < len(s.curTokens); i++ {
		if s.curTokens[i].Active && bestScore < s.curTokens[i].Score {
			bestScore = s.curTokens[i].Score
			bestState = i
		}
		if s.curTokens[i].Active && s.fst.IsFinal(i) {
			if !reachFinal || bestFinalScore < s.curTokens[i].Score {
				bestFinalScore = s.curTokens[i].Score
				bestFinalState = i
				reachFinal = true
			}
		}
	}

	res := Result{BestState: bestState, BestScore: bestScore}
	if reachFinal {
		best := &s.curTokens[bestFinalState]
		res.Confidence = math.Exp(best.AverageMaxKeywordScore)
		res.Keyword = int(best.Keyword)
		if best.NumKeywordFrames >= s.cfg.MinKeywordFrames &&
			best.NumFramesOfCurrentState >= s.cfg.MinFramesForLastState &&
			res.Confidence > s.cfg.SpotThreshold {
			res.Spotted = true
		}
	}

	s.prevTokens, s.curTokens = s.curTokens, s.prevTokens
	clearTokens(s.curTokens)

	s.numFrames++
	// Stop unbounded score growth on long filler-only stretches. The clear
	// does not reactivate state 0; the caller must Reset to resume spotting.
	if s.numFrames > maxTokenPassingFrames && s.prevTokens[bestState].IsFiller {
		clearTokens(s.prevTokens)
	}
	return res, nil
}
