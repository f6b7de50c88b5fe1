package main

import (
	"log"

	"touchdown/internal/audio"
	"touchdown/internal/config"
	"touchdown/internal/desktop"
	"touchdown/internal/game"
	"touchdown/internal/monitoring"
	"touchdown/internal/scores"
	"touchdown/internal/threading"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	// Load configuration
	cfg := config.MustLoadConfig("config.yaml")

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

	session := game.NewSession(cfg, assets, opts...)

	// Set window properties from config
	ebiten.SetWindowSize(cfg.GetScreenWidth(), cfg.GetScreenHeight())
	ebiten.SetWindowTitle(cfg.Display.WindowTitle)
	if cfg.Display.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	g := desktop.New(session, cfg.GetScreenWidth(), cfg.GetScreenHeight())
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
