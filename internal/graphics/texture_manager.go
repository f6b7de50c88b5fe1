package graphics

import (
	"log"
	"touchdown/internal/config"
	"touchdown/internal/world"
)

// TextureManager resolves wall kinds to textures. Kinds without their own
// texture use the default wall texture; files that fail to load are replaced
// by the checkerboard.
type TextureManager struct {
	walls       map[world.WallKind]*Texture
	defaultWall *Texture
	floor       *Texture
	sky         *Texture
	cache       map[string]*Texture // path -> texture, so shared files load once
}

// NewTextureManager creates a manager with every slot set to the checkerboard.
func NewTextureManager() *TextureManager {
	fallback := Checkerboard()
	return &TextureManager{
		walls:       make(map[world.WallKind]*Texture),
		defaultWall: fallback,
		floor:       fallback,
		cache:       make(map[string]*Texture),
	}
}

// LoadTextureManager loads the textures named in cfg. Per-kind wall textures
// come from tiles.yaml first, then from the textures.walls section keyed by
// tile key.
func LoadTextureManager(cfg *config.Config, tiles *world.TileManager) *TextureManager {
	tm := NewTextureManager()
	if cfg.Textures.DefaultWall != "" {
		tm.SetDefaultWall(tm.load(cfg.Textures.DefaultWall))
	}
	if cfg.Textures.Floor != "" {
		tm.SetFloor(tm.load(cfg.Textures.Floor))
	}
	if cfg.Textures.Sky != "" {
		tm.SetSky(tm.load(cfg.Textures.Sky))
	}

	if tiles != nil {
		for _, kind := range tiles.Kinds() {
			path := tiles.GetTexturePath(kind)
			if path == "" {
				path = cfg.Textures.Walls[tiles.GetTileKey(kind)]
			}
			if path != "" {
				tm.SetWall(kind, tm.load(path))
			}
		}
	}
	return tm
}

func (tm *TextureManager) load(path string) *Texture {
	if tex, ok := tm.cache[path]; ok {
		return tex
	}
	tex, err := LoadTexture(path)
	if err != nil {
		log.Printf("Warning: %v, using fallback texture", err)
		tex = Checkerboard()
	}
	tm.cache[path] = tex
	return tex
}

// SetWall assigns a texture to a kind.
func (tm *TextureManager) SetWall(kind world.WallKind, tex *Texture) {
	tm.walls[kind] = tex
}

// SetDefaultWall replaces the texture used for kinds without their own.
func (tm *TextureManager) SetDefaultWall(tex *Texture) {
	tm.defaultWall = tex
}

// SetFloor replaces the floor texture.
func (tm *TextureManager) SetFloor(tex *Texture) {
	tm.floor = tex
}

// SetSky sets the panoramic sky texture; nil selects the solid sky colour.
func (tm *TextureManager) SetSky(tex *Texture) {
	tm.sky = tex
}

// Wall returns the texture for a wall kind.
func (tm *TextureManager) Wall(kind world.WallKind) *Texture {
	if tex, ok := tm.walls[kind]; ok {
		return tex
	}
	return tm.defaultWall
}

func (tm *TextureManager) Floor() *Texture { return tm.floor }

// Sky returns the sky texture, or nil when none is configured.
func (tm *TextureManager) Sky() *Texture { return tm.sky }
