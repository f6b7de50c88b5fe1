package world

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// MapLoader handles loading world maps from files
type MapLoader struct {
	tiles     *TileManager
	blockSize float64
	marker    rune
}

// MapData contains the loaded map information
type MapData struct {
	Grid            *Grid
	SpritePositions []Point
}

// NewMapLoader creates a new map loader. Symbols equal to marker become
// sprite spawns and are stripped to open space.
func NewMapLoader(tiles *TileManager, blockSize float64, marker rune) *MapLoader {
	if tiles == nil {
		tiles = NewTileManager()
	}
	return &MapLoader{
		tiles:     tiles,
		blockSize: blockSize,
		marker:    marker,
	}
}

// LoadMap loads a map from the specified file path
func (ml *MapLoader) LoadMap(mapPath string) (*MapData, error) {
	file, err := os.Open(mapPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open map file %s: %w", mapPath, err)
	}
	defer file.Close()

	mapData, err := ml.ReadMap(file)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", mapPath, err)
	}
	return mapData, nil
}

// ReadMap parses a map, one row per line. Empty lines are ignored.
func (ml *MapLoader) ReadMap(r io.Reader) (*MapData, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
		fmt.Printf("[MapLoader] Loaded line %d: '%s' (symbols: %d, markers: %d)\n",
			len(lines), line, utf8.RuneCountInString(line), strings.Count(line, string(ml.marker)))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading map file: %w", err)
	}

	layout, err := ParseLayout(lines)
	if err != nil {
		return nil, err
	}

	positions := layout.SpritePositions(ml.marker, ml.blockSize)
	layout.StripMarkers(ml.marker)

	grid, err := NewGrid(layout, ml.blockSize, ml.tiles)
	if err != nil {
		return nil, err
	}
	fmt.Printf("[MapLoader] Map %dx%d, %d sprite spawns\n", grid.Cols(), grid.Rows(), len(positions))

	return &MapData{Grid: grid, SpritePositions: positions}, nil
}
