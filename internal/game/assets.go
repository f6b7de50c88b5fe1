package game

import (
	"fmt"
	"image/color"
	"log"

	"touchdown/internal/config"
	"touchdown/internal/graphics"
	"touchdown/internal/sprites"
	"touchdown/internal/world"
)

// Assets are the read-only resources shared by every session.
type Assets struct {
	Tiles    *world.TileManager
	Map      *world.MapData
	Textures *graphics.TextureManager
	Frames   []*graphics.Frame
}

// LoadAssets loads tiles, the map, textures and sprite frames named in cfg.
// Only a missing or malformed map is fatal; other assets fall back.
func LoadAssets(cfg *config.Config) (*Assets, error) {
	tiles := world.NewTileManager()
	if err := tiles.LoadTileConfig(cfg.World.TilesFile); err != nil {
		log.Printf("Warning: Failed to load tile config: %v", err)
	}

	loader := world.NewMapLoader(tiles, cfg.GetBlockSize(), cfg.GetSpriteMarker())
	mapData, err := loader.LoadMap(cfg.World.MapFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load map: %w", err)
	}

	frames, err := sprites.LoadFrames(cfg.Sprites.Frames)
	if err != nil {
		log.Printf("Warning: %v, using football frames", err)
		frames = sprites.FootballFrames()
	}

	return &Assets{
		Tiles:    tiles,
		Map:      mapData,
		Textures: graphics.LoadTextureManager(cfg, tiles),
		Frames:   frames,
	}, nil
}

// WallColor returns the flat colour of a wall kind.
func (a *Assets) WallColor(kind world.WallKind) color.RGBA {
	return graphics.RGB(a.Tiles.GetWallColor(kind))
}
