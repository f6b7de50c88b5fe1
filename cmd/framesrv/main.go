package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"touchdown/internal/config"
	"touchdown/internal/game"
	"touchdown/internal/monitoring"
	"touchdown/internal/scores"
	"touchdown/internal/server"
)

func main() {
	configPath := flag.String("config", "config.yaml", "configuration file")
	flag.Parse()

	cfg := config.MustLoadConfig(*configPath)

	assets, err := game.LoadAssets(cfg)
	if err != nil {
		log.Fatal(err)
	}

	var store scores.Store
	if !cfg.Scores.Disabled {
		store, err = scores.Open(cfg.Scores)
		if err != nil {
			log.Printf("Warning: Failed to open score store: %v", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, assets, store, monitoring.NewPerformanceMonitor())
	if err := srv.ListenAndServe(ctx); err != nil {
		log.Fatal(err)
	}
}
