package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	kwspot "github.com/ieee0824/kwspot-go"
	"github.com/ieee0824/kwspot-go/symbol"
)

func main() {
	fstPath := flag.String("fst", "", "path to compiled keyword transducer (text format)")
	fillerPath := flag.String("fillers", "", "path to filler phone symbol table")
	scorePath := flag.String("scores", "", "path to frame score matrix (one frame per line)")
	keywordPath := flag.String("keywords", "", "optional keyword symbol table for readable output")
	threshold := flag.Float64("threshold", 0.5, "spot confidence threshold")
	minKeywordFrames := flag.Int("min-keyword-frames", 0, "minimum frames on keyword arcs (0=disabled)")
	minLastState := flag.Int("min-last-state", 5, "minimum dwell frames at the final state")
	verbose := flag.Bool("v", false, "verbose output")

	flag.Parse()

	if *fstPath == "" || *fillerPath == "" || *scorePath == "" {
		fmt.Fprintln(os.Stderr, "Usage: kwspot -fst FST -fillers SYMS -scores MATRIX")
		flag.PrintDefaults()
		os.Exit(1)
	}

	engine, err := kwspot.New(*fstPath, *fillerPath,
		kwspot.WithSpotThreshold(*threshold),
		kwspot.WithMinKeywordFrames(*minKeywordFrames),
		kwspot.WithMinFramesForLastState(*minLastState),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var keywords *symbol.Table
	if *keywordPath != "" {
		keywords, err = symbol.LoadFile(*keywordPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	f, err := os.Open(*scorePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	frames, err := readScores(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: read scores: %v\n", err)
		os.Exit(1)
	}

	spots := 0
	for i, scores := range frames {
		res, err := engine.ProcessFrame(scores)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: frame %d: %v\n", i, err)
			os.Exit(1)
		}
		if *verbose {
			fmt.Fprintf(os.Stderr, "frame %d best state %d confidence %.4f\n", i, res.BestState, res.Confidence)
		}
		if res.Spotted {
			name := strconv.Itoa(res.Keyword)
			if keywords != nil {
				if n := keywords.Name(res.Keyword); n != "" {
					name = n
				}
			}
			fmt.Printf("%d\t%s\t%.4f\n", i, name, res.Confidence)
			spots++
			// Re-arm so one occurrence is not reported on every
			// following frame.
			engine.Reset()
		}
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "%d frames, %d spots\n", len(frames), spots)
	}
}

// readScores parses one frame per line: whitespace-separated linear-domain
// scores indexed by phone id.
func readScores(r io.Reader) ([][]float64, error) {
	var frames [][]float64
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		scores := make([]float64, len(fields))
		for i, fd := range fields {
			v, err := strconv.ParseFloat(fd, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: field %d: %w", lineNum, i+1, err)
			}
			scores[i] = v
		}
		frames = append(frames, scores)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return frames, nil
}
