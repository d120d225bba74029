// Package kwspot ties the compiled transducer, the filler phone table and
// the frame-synchronous decoder into a ready-to-use keyword spotting engine.
package kwspot

import (
	"fmt"

	"github.com/ieee0824/kwspot-go/fst"
	"github.com/ieee0824/kwspot-go/spotter"
	"github.com/ieee0824/kwspot-go/symbol"
)

// Engine is the top-level keyword spotting engine for one audio stream.
type Engine struct {
	Fst     *fst.Fst
	Fillers *symbol.Table
	Cfg     spotter.Config

	dec *spotter.Spotter
}

// Option configures an Engine.
type Option func(*Engine)

// WithSpotThreshold sets the confidence threshold for declaring a spot.
func WithSpotThreshold(threshold float64) Option {
	return func(e *Engine) {
		e.Cfg.SpotThreshold = threshold
	}
}

// WithMinKeywordFrames sets the minimum number of keyword frames.
func WithMinKeywordFrames(frames int) Option {
	return func(e *Engine) {
		e.Cfg.MinKeywordFrames = frames
	}
}

// WithMinFramesForLastState sets the minimum dwell at the final state.
func WithMinFramesForLastState(frames int) Option {
	return func(e *Engine) {
		e.Cfg.MinFramesForLastState = frames
	}
}

// New creates an Engine from model files: a transducer in the fst text
// format and a filler phone symbol table.
func New(fstPath, fillerPath string, opts ...Option) (*Engine, error) {
	f, err := fst.LoadFile(fstPath)
	if err != nil {
		return nil, fmt.Errorf("load transducer: %w", err)
	}
	fillers, err := symbol.LoadFile(fillerPath)
	if err != nil {
		return nil, fmt.Errorf("load filler table: %w", err)
	}
	return NewFromModels(f, fillers, opts...), nil
}

// NewFromModels creates an Engine from pre-built models.
func NewFromModels(f *fst.Fst, fillers *symbol.Table, opts ...Option) *Engine {
	e := &Engine{
		Fst:     f,
		Fillers: fillers,
		Cfg:     spotter.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.dec = spotter.New(f, fillers, e.Cfg)
	return e
}

// SetSpotThreshold retunes the confidence threshold on the live decoder.
// Effective from the next frame.
func (e *Engine) SetSpotThreshold(threshold float64) {
	e.Cfg.SpotThreshold = threshold
	e.dec.SetSpotThreshold(threshold)
}

// SetMinKeywordFrames retunes the minimum keyword-frame count on the live
// decoder. Effective from the next frame.
func (e *Engine) SetMinKeywordFrames(frames int) {
	e.Cfg.MinKeywordFrames = frames
	e.dec.SetMinKeywordFrames(frames)
}

// SetMinFramesForLastState retunes the minimum final-state dwell on the
// live decoder. Effective from the next frame.
func (e *Engine) SetMinFramesForLastState(frames int) {
	e.Cfg.MinFramesForLastState = frames
	e.dec.SetMinFramesForLastState(frames)
}

// ProcessFrame decodes one frame of linear-domain per-phone scores.
func (e *Engine) ProcessFrame(scores []float64) (spotter.Result, error) {
	return e.dec.Spot(scores)
}

// ProcessFrames decodes a batch of frames in order and returns the
// per-frame results. Decoding state carries across calls.
func (e *Engine) ProcessFrames(frames [][]float64) ([]spotter.Result, error) {
	results := make([]spotter.Result, 0, len(frames))
	for i, scores := range frames {
		res, err := e.dec.Spot(scores)
		if err != nil {
			return results, fmt.Errorf("frame %d: %w", i, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// Reset re-arms the decoder for a new utterance or stream.
func (e *Engine) Reset() {
	e.dec.Reset()
}
