package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"numbers-cruncher/config"
	"numbers-cruncher/cruncher"
	"numbers-cruncher/events"
	epubsub "numbers-cruncher/events/pubsub"
	"numbers-cruncher/health"
	"numbers-cruncher/metrics"
	"numbers-cruncher/numbers"
	"numbers-cruncher/runner"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var version = "source"

func setLogger(level string) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if os.Getenv("DEBUG") != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func main() {
	cfg := config.Load()
	setLogger(cfg.LogLevel)
	log.Info().Msgf("Starting numbers-cruncher version: %s", version)
	log.Info().Interface("config", cfg.Redacted()).Msg("config loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	requester := numbers.NewRequester(numbers.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}))
	c, err := cruncher.New(cfg.TummySize, requester)
	if err != nil {
		log.Fatal().Err(err).Int("tummySize", cfg.TummySize).Msg("invalid CRUNCHER_TUMMY_SIZE")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.PublishEnabled() {
		p := epubsub.NewPublisher(cfg.GoogleProjectID, cfg.EventsTopic, cfg.CredentialsFile)
		defer func() {
			if err := p.Close(); err != nil {
				log.Error().Err(err).Msg("pubsub publisher close failed")
			}
		}()
		publisher = p
	} else if cfg.EventsTopic != "" {
		log.Warn().Str("topic", cfg.EventsTopic).Msg("events topic set but no Google project resolved; not publishing")
	}

	r := runner.New(c, requester, publisher)

	// Metrics and health HTTP server
	mux := http.NewServeMux()
	metrics.Register(mux)
	health.Register(mux, r.Ready)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr()).Msg("starting metrics/health server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	// Crunching happens on this goroutine; the cruncher and requester are never shared.
	if err := r.Run(ctx, cfg.CrunchCount, cfg.Interval); err != nil {
		log.Error().Err(err).Msg("runner exited with error")
	}

	log.Info().Interface("tummy", c.Tummy()).Int("maxlen", c.MaxLen()).Msg("final tummy")
	log.Info().Interface("requests", requester.Log()).Msg("request log")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server graceful shutdown failed")
	}
	log.Info().Msg("shutdown complete")
}
