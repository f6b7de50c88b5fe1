package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override config.yaml values.
const (
	EnvMapFile      = "TOUCHDOWN_MAP_FILE"
	EnvScreenWidth  = "TOUCHDOWN_SCREEN_WIDTH"
	EnvScreenHeight = "TOUCHDOWN_SCREEN_HEIGHT"
	EnvScoreBackend = "TOUCHDOWN_SCORE_BACKEND"
	EnvScoreDSN     = "TOUCHDOWN_SCORE_DSN"
	EnvServerAddr   = "TOUCHDOWN_SERVER_ADDR"
	EnvAudio        = "TOUCHDOWN_AUDIO"
	EnvWorkers      = "TOUCHDOWN_RENDER_WORKERS"
)

// DotEnvFile is read before environment overrides are applied. A missing
// file is not an error.
var DotEnvFile = ".env"

// ApplyEnv loads DotEnvFile into the process environment (without replacing
// variables that are already set) and copies TOUCHDOWN_* values into c.
func ApplyEnv(c *Config) error {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", DotEnvFile, err)
	}

	if v, ok := os.LookupEnv(EnvMapFile); ok && v != "" {
		c.World.MapFile = v
	}
	if err := envInt(EnvScreenWidth, &c.Display.ScreenWidth); err != nil {
		return err
	}
	if err := envInt(EnvScreenHeight, &c.Display.ScreenHeight); err != nil {
		return err
	}
	if err := envInt(EnvWorkers, &c.Render.Workers); err != nil {
		return err
	}
	if v, ok := os.LookupEnv(EnvScoreBackend); ok && v != "" {
		c.Scores.Backend = v
	}
	if v, ok := os.LookupEnv(EnvScoreDSN); ok && v != "" {
		c.Scores.DSN = v
	}
	if v, ok := os.LookupEnv(EnvServerAddr); ok && v != "" {
		c.Server.Addr = v
	}
	if v, ok := os.LookupEnv(EnvAudio); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvAudio, err)
		}
		c.Audio.Enabled = enabled
	}
	return nil
}

func envInt(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}
