package main

import (
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ieee0824/kwspot-go/fst"
	"github.com/ieee0824/kwspot-go/internal/config"
	"github.com/ieee0824/kwspot-go/internal/ws"
	"github.com/ieee0824/kwspot-go/symbol"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	lvl := zerolog.InfoLevel
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if l, err := zerolog.ParseLevel(v); err == nil {
			lvl = l
		}
	}
	log.Logger = log.Level(lvl)

	cfg := config.Load()

	f, err := fst.LoadFile(cfg.FstPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.FstPath).Msg("load transducer failed")
	}
	fillers, err := symbol.LoadFile(cfg.FillerPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.FillerPath).Msg("load filler table failed")
	}

	var keywords *symbol.Table
	if path := os.Getenv("KWSPOT_KEYWORDS"); path != "" {
		keywords, err = symbol.LoadFile(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("load keyword table failed")
		}
	}

	server := ws.NewServer(cfg, f, fillers, keywords)
	mux := http.NewServeMux()
	mux.HandleFunc("/spot", server.Handle)

	srv := &http.Server{
		Addr:        cfg.Addr,
		Handler:     mux,
		ReadTimeout: 120 * time.Second,
	}

	log.Info().Str("addr", cfg.Addr).Int("states", f.NumStates()).Int("arcs", f.NumArcs()).
		Msg("kwspotd starting")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server failed")
	}
}
