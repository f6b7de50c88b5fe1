package world

import (
	"fmt"
	"os"
	"sort"
	"touchdown/internal/config"

	"gopkg.in/yaml.v3"
)

// defaultWallColor is used for kinds without a configured colour.
var defaultWallColor = [3]int{34, 139, 34}

// TileManager maps map symbols to wall kinds and holds per-kind properties.
// Kinds configured in tiles.yaml are numbered from 1 in key order; symbols
// seen only in a map file get dynamic kinds on first use.
type TileManager struct {
	tileData        map[string]*config.TileData
	kindToKey       map[WallKind]string
	keyToKind       map[string]WallKind
	symbolToKind    map[rune]WallKind
	kindToSymbol    map[WallKind]rune
	nextDynamicKind WallKind
}

// NewTileManager creates a new tile manager
func NewTileManager() *TileManager {
	return &TileManager{
		tileData:        make(map[string]*config.TileData),
		kindToKey:       make(map[WallKind]string),
		keyToKind:       make(map[string]WallKind),
		symbolToKind:    make(map[rune]WallKind),
		kindToSymbol:    make(map[WallKind]rune),
		nextDynamicKind: firstDynamicKind,
	}
}

// LoadTileConfig loads tile configuration from a YAML file
func (tm *TileManager) LoadTileConfig(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read tile config file: %w", err)
	}

	var tileConfig config.TileConfig
	err = yaml.Unmarshal(data, &tileConfig)
	if err != nil {
		return fmt.Errorf("failed to parse tile config: %w", err)
	}

	return tm.SetTiles(tileConfig.TileData)
}

// SetTiles replaces the configured kinds. Dynamic kinds registered earlier
// are discarded.
func (tm *TileManager) SetTiles(tiles map[string]config.TileData) error {
	fresh := NewTileManager()

	keys := make([]string, 0, len(tiles))
	for key := range tiles {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for i, key := range keys {
		// Make a copy to avoid pointer issues
		tileCopy := tiles[key]
		kind := WallKind(i + 1)
		if kind >= firstDynamicKind {
			return fmt.Errorf("too many tile kinds: %d", len(keys))
		}
		symbol, err := tileSymbol(key, tileCopy.Letter)
		if err != nil {
			return err
		}
		if other, dup := fresh.symbolToKind[symbol]; dup {
			return fmt.Errorf("tile %q reuses letter %q of tile %q", key, string(symbol), fresh.kindToKey[other])
		}
		fresh.tileData[key] = &tileCopy
		fresh.kindToKey[kind] = key
		fresh.keyToKind[key] = kind
		fresh.symbolToKind[symbol] = kind
		fresh.kindToSymbol[kind] = symbol
	}

	*tm = *fresh
	return nil
}

func tileSymbol(key, letter string) (rune, error) {
	runes := []rune(letter)
	if len(runes) != 1 {
		return 0, fmt.Errorf("tile %q: letter must be a single character, got %q", key, letter)
	}
	if runes[0] == BlankSymbol {
		return 0, fmt.Errorf("tile %q: blank is reserved for open space", key)
	}
	return runes[0], nil
}

// KindForSymbol resolves a map symbol. Blank is open space; any other symbol
// is a wall, registered as a new dynamic kind if tiles.yaml does not know it.
func (tm *TileManager) KindForSymbol(symbol rune) WallKind {
	if symbol == BlankSymbol {
		return KindEmpty
	}
	if kind, ok := tm.symbolToKind[symbol]; ok {
		return kind
	}
	kind := tm.nextDynamicKind
	tm.nextDynamicKind++
	tm.symbolToKind[symbol] = kind
	tm.kindToSymbol[kind] = symbol
	return kind
}

// GetTileData returns the configuration data for a kind, or nil for
// dynamic, empty and void kinds.
func (tm *TileManager) GetTileData(kind WallKind) *config.TileData {
	key, ok := tm.kindToKey[kind]
	if !ok {
		return nil
	}
	return tm.tileData[key]
}

// GetKindFromKey returns the kind configured under a tiles.yaml key.
func (tm *TileManager) GetKindFromKey(key string) (WallKind, bool) {
	kind, ok := tm.keyToKind[key]
	return kind, ok
}

// GetTileKey returns the configuration key for a kind
func (tm *TileManager) GetTileKey(kind WallKind) string {
	return tm.kindToKey[kind]
}

// GetSymbol returns the map symbol of a kind.
func (tm *TileManager) GetSymbol(kind WallKind) rune {
	switch kind {
	case KindEmpty:
		return BlankSymbol
	case KindVoid:
		return 0
	}
	return tm.kindToSymbol[kind]
}

// GetWallColor returns the flat colour for this kind
func (tm *TileManager) GetWallColor(kind WallKind) [3]int {
	data := tm.GetTileData(kind)
	if data == nil {
		return defaultWallColor
	}

	// Check if wall color is set (non-zero)
	if data.WallColor[0] != 0 || data.WallColor[1] != 0 || data.WallColor[2] != 0 {
		return data.WallColor
	}
	return defaultWallColor
}

// GetTexturePath returns the texture file configured for a kind, empty when
// the kind uses the default wall texture.
func (tm *TileManager) GetTexturePath(kind WallKind) string {
	data := tm.GetTileData(kind)
	if data == nil {
		return ""
	}
	return data.Texture
}

// Kinds returns every known kind (configured and dynamic) in ascending order.
func (tm *TileManager) Kinds() []WallKind {
	kinds := make([]WallKind, 0, len(tm.kindToSymbol))
	for kind := range tm.kindToSymbol {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// ListTiles returns a copy of the configured tile data keyed by tile key.
func (tm *TileManager) ListTiles() map[string]*config.TileData {
	result := make(map[string]*config.TileData)
	for key, data := range tm.tileData {
		// Make a copy to prevent external modification
		dataCopy := *data
		result[key] = &dataCopy
	}
	return result
}
