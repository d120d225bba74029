package kwspot

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ieee0824/kwspot-go/fst"
	"github.com/ieee0824/kwspot-go/symbol"
)

func writeTestModels(t *testing.T) (fstPath, fillerPath string) {
	t.Helper()
	dir := t.TempDir()

	fstPath = filepath.Join(dir, "keywords.fst")
	const fstText = `0 0 1 0
0 1 2 0
1 1 2 0
1 2 3 7
2 2 3 0
f 2
`
	if err := os.WriteFile(fstPath, []byte(fstText), 0o644); err != nil {
		t.Fatal(err)
	}

	fillerPath = filepath.Join(dir, "fillers.sym")
	if err := os.WriteFile(fillerPath, []byte("<sil> 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return fstPath, fillerPath
}

func spotFrames() [][]float64 {
	frames := [][]float64{}
	for i := 0; i < 5; i++ {
		frames = append(frames, []float64{0.9, 0.1, 0.1})
	}
	return append(frames,
		[]float64{0.1, 0.95, 0.1},
		[]float64{0.1, 0.95, 0.1},
		[]float64{0.1, 0.1, 0.95},
		[]float64{0.1, 0.1, 0.95},
	)
}

func TestEngineFromFiles(t *testing.T) {
	fstPath, fillerPath := writeTestModels(t)
	engine, err := New(fstPath, fillerPath,
		WithSpotThreshold(0.5),
		WithMinKeywordFrames(3),
		WithMinFramesForLastState(2),
	)
	if err != nil {
		t.Fatal(err)
	}

	results, err := engine.ProcessFrames(spotFrames())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < len(results)-1; i++ {
		if results[i].Spotted {
			t.Errorf("frame %d: spotted early", i)
		}
	}
	last := results[len(results)-1]
	if !last.Spotted || last.Keyword != 7 {
		t.Fatalf("last frame: %+v, want keyword 7 spotted", last)
	}
	if math.Abs(last.Confidence-0.95) > 1e-9 {
		t.Errorf("confidence = %f, want 0.95", last.Confidence)
	}
}

func TestEngineReset(t *testing.T) {
	f, err := fst.CompileKeywords([]fst.Keyword{{ID: 7, Phones: []int{2, 3}}}, []int{1})
	if err != nil {
		t.Fatal(err)
	}
	fillers := symbol.NewTable()
	fillers.Add("<sil>", 1)

	engine := NewFromModels(f, fillers,
		WithSpotThreshold(0.5),
		WithMinKeywordFrames(3),
		WithMinFramesForLastState(2),
	)

	first, err := engine.ProcessFrames(spotFrames())
	if err != nil {
		t.Fatal(err)
	}
	engine.Reset()
	second, err := engine.ProcessFrames(spotFrames())
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(second) {
		t.Fatalf("result lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("frame %d: replay after Reset diverged: %+v vs %+v", i, first[i], second[i])
		}
	}
	if !second[len(second)-1].Spotted {
		t.Error("keyword not spotted after Reset")
	}
}

func TestEngineRetune(t *testing.T) {
	f, err := fst.CompileKeywords([]fst.Keyword{{ID: 7, Phones: []int{2, 3}}}, []int{1})
	if err != nil {
		t.Fatal(err)
	}
	fillers := symbol.NewTable()
	fillers.Add("<sil>", 1)

	engine := NewFromModels(f, fillers,
		WithSpotThreshold(0.99),
		WithMinKeywordFrames(3),
		WithMinFramesForLastState(2),
	)

	results, err := engine.ProcessFrames(spotFrames())
	if err != nil {
		t.Fatal(err)
	}
	if results[len(results)-1].Spotted {
		t.Fatal("spotted with threshold 0.99, confidence should be 0.95")
	}

	// Setters must reach the live decoder, not just the Cfg snapshot.
	engine.SetSpotThreshold(0.5)
	engine.Reset()
	results, err = engine.ProcessFrames(spotFrames())
	if err != nil {
		t.Fatal(err)
	}
	if !results[len(results)-1].Spotted {
		t.Error("not spotted after lowering the threshold")
	}

	engine.SetMinFramesForLastState(100)
	engine.Reset()
	results, err = engine.ProcessFrames(spotFrames())
	if err != nil {
		t.Fatal(err)
	}
	if results[len(results)-1].Spotted {
		t.Error("spotted despite raised final-state dwell gate")
	}
	if engine.Cfg.MinFramesForLastState != 100 || engine.Cfg.SpotThreshold != 0.5 {
		t.Errorf("Cfg out of sync with decoder: %+v", engine.Cfg)
	}
}

func TestEngineBadFrame(t *testing.T) {
	fstPath, fillerPath := writeTestModels(t)
	engine, err := New(fstPath, fillerPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := engine.ProcessFrame([]float64{0.9}); err == nil {
		t.Error("short frame accepted")
	}
	if _, err := engine.ProcessFrames([][]float64{{0.9, 0.1, 0.1}, {0.9, -1, 0.1}}); err == nil {
		t.Error("negative score accepted")
	}
}

func TestEngineMissingFiles(t *testing.T) {
	if _, err := New("does/not/exist.fst", "nor/this.sym"); err == nil {
		t.Error("missing model files accepted")
	}
}
