package world

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmptyMap  = errors.New("map contains no rows")
	ErrRaggedMap = errors.New("map rows have different lengths")
)

// Layout is the raw symbol grid of a map, row-major.
type Layout [][]rune

// ParseLayout converts map lines into a rectangular layout.
func ParseLayout(lines []string) (Layout, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyMap
	}
	layout := make(Layout, len(lines))
	for i, line := range lines {
		layout[i] = []rune(line)
	}
	width := len(layout[0])
	if width == 0 {
		return nil, ErrEmptyMap
	}
	for i, row := range layout {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d symbols, expected %d: %w", i+1, len(row), width, ErrRaggedMap)
		}
	}
	return layout, nil
}

// SpritePositions returns the world-space cell centres of every marker
// symbol, scanning rows top to bottom.
func (l Layout) SpritePositions(marker rune, blockSize float64) []Point {
	var points []Point
	for row, symbols := range l {
		for col, r := range symbols {
			if r == marker {
				points = append(points, Point{
					X: float64(col)*blockSize + blockSize/2,
					Y: float64(row)*blockSize + blockSize/2,
				})
			}
		}
	}
	return points
}

// StripMarkers replaces every marker symbol with open space and reports how
// many were replaced.
func (l Layout) StripMarkers(marker rune) int {
	stripped := 0
	for _, symbols := range l {
		for col, r := range symbols {
			if r == marker {
				symbols[col] = BlankSymbol
				stripped++
			}
		}
	}
	return stripped
}

// Grid is the immutable map the renderer casts against.
type Grid struct {
	kinds     [][]WallKind
	symbols   [][]rune
	blockSize float64
}

// NewGrid resolves a layout into wall kinds. tiles may be nil, in which case
// every non-blank symbol is assigned a kind from a private registry.
func NewGrid(layout Layout, blockSize float64, tiles *TileManager) (*Grid, error) {
	if len(layout) == 0 || len(layout[0]) == 0 {
		return nil, ErrEmptyMap
	}
	if blockSize <= 0 {
		return nil, fmt.Errorf("block size must be positive, got %v", blockSize)
	}
	if tiles == nil {
		tiles = NewTileManager()
	}

	width := len(layout[0])
	g := &Grid{
		kinds:     make([][]WallKind, len(layout)),
		symbols:   make([][]rune, len(layout)),
		blockSize: blockSize,
	}
	for row, symbols := range layout {
		if len(symbols) != width {
			return nil, fmt.Errorf("row %d has %d symbols, expected %d: %w", row+1, len(symbols), width, ErrRaggedMap)
		}
		g.kinds[row] = make([]WallKind, width)
		g.symbols[row] = make([]rune, width)
		copy(g.symbols[row], symbols)
		for col, r := range symbols {
			g.kinds[row][col] = tiles.KindForSymbol(r)
		}
	}
	return g, nil
}

func (g *Grid) Rows() int { return len(g.kinds) }

func (g *Grid) Cols() int { return len(g.kinds[0]) }

func (g *Grid) BlockSize() float64 { return g.blockSize }

// InBounds reports whether (row, col) addresses a cell.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < len(g.kinds) && col < len(g.kinds[0])
}

// At returns the kind at (row, col), KindVoid outside the grid.
func (g *Grid) At(row, col int) WallKind {
	if !g.InBounds(row, col) {
		return KindVoid
	}
	return g.kinds[row][col]
}

// Symbol returns the map symbol at (row, col), 0 outside the grid.
func (g *Grid) Symbol(row, col int) rune {
	if !g.InBounds(row, col) {
		return 0
	}
	return g.symbols[row][col]
}

// CellOf maps a world position to its cell. Negative coordinates map to
// negative indices.
func (g *Grid) CellOf(x, y float64) (row, col int) {
	return int(math.Floor(y / g.blockSize)), int(math.Floor(x / g.blockSize))
}

// KindAt returns the kind of the cell containing a world position.
func (g *Grid) KindAt(x, y float64) WallKind {
	row, col := g.CellOf(x, y)
	return g.At(row, col)
}

// IsTileBlocking reports whether a tile blocks movement. Tiles outside the
// grid block.
func (g *Grid) IsTileBlocking(tileX, tileY int) bool {
	return g.At(tileY, tileX).IsSolid()
}

// GetWorldBounds returns the grid extent in world units.
func (g *Grid) GetWorldBounds() (width, height float64) {
	return float64(g.Cols()) * g.blockSize, float64(g.Rows()) * g.blockSize
}
