package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"touchdown/internal/audio"
	"touchdown/internal/config"
	"touchdown/internal/game"
	"touchdown/internal/monitoring"
	"touchdown/internal/scores"
	"touchdown/internal/terminal"
	"touchdown/internal/threading"

	"github.com/gdamore/tcell/v2"
)

func main() {
	configPath := flag.String("config", "config.yaml", "configuration file")
	logPath := flag.String("log", "termcaster.log", "log file (the terminal is in use)")
	fps := flag.Int("fps", 15, "frames per second")
	flag.Parse()

	cfg := config.MustLoadConfig(*configPath)

	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Fatalf("failed to open log file: %v", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)

	assets, err := game.LoadAssets(cfg)
	if err != nil {
		log.Fatal(err)
	}

	pool := threading.StartPool(cfg.Render.Workers)
	defer pool.Stop()
	opts := []game.Option{game.WithMonitor(monitoring.NewPerformanceMonitor()), game.WithPool(pool)}
	if cfg.Audio.Enabled {
		sounds := audio.NewSoundManager(cfg.Audio.Volume)
		if err := sounds.Initialize(); err != nil {
			log.Printf("Warning: Failed to initialize audio: %v", err)
		} else {
			defer sounds.Cleanup()
			opts = append(opts, game.WithSounds(sounds))
		}
	}
	if !cfg.Scores.Disabled {
		store, err := scores.Open(cfg.Scores)
		if err != nil {
			log.Printf("Warning: Failed to open score store: %v", err)
		} else {
			defer store.Close()
			opts = append(opts, game.WithScores(store))
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("failed to create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("failed to init screen: %v", err)
	}
	screen.HideCursor()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := game.NewSession(cfg, assets, opts...)
	err = terminal.NewRunner(screen, session, *fps).Run(ctx)
	screen.Fini()
	if err != nil && err != context.Canceled {
		log.Fatal(err)
	}
}
