package config

import (
	"os"
	"strconv"
)

// Config holds the streaming server settings, read from the environment.
type Config struct {
	Addr       string
	FstPath    string
	FillerPath string

	SpotThreshold         float64
	MinKeywordFrames      int
	MinFramesForLastState int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// Load reads the configuration from environment variables.
func Load() Config {
	return Config{
		Addr:                  getenv("KWSPOT_ADDR", ":8090"),
		FstPath:               getenv("KWSPOT_FST", "./models/keywords.fst"),
		FillerPath:            getenv("KWSPOT_FILLERS", "./models/fillers.sym"),
		SpotThreshold:         getenvFloat("KWSPOT_THRESHOLD", 0.5),
		MinKeywordFrames:      getenvInt("KWSPOT_MIN_KEYWORD_FRAMES", 0),
		MinFramesForLastState: getenvInt("KWSPOT_MIN_LAST_STATE_FRAMES", 5),
	}
}
