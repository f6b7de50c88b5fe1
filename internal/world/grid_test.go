package world

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func mustGrid(t *testing.T, lines ...string) *Grid {
	t.Helper()
	layout, err := ParseLayout(lines)
	if err != nil {
		t.Fatalf("ParseLayout: %v", err)
	}
	g, err := NewGrid(layout, 100, nil)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

func TestParseLayoutErrors(t *testing.T) {
	if _, err := ParseLayout(nil); !errors.Is(err, ErrEmptyMap) {
		t.Errorf("nil lines: err = %v", err)
	}
	if _, err := ParseLayout([]string{""}); !errors.Is(err, ErrEmptyMap) {
		t.Errorf("empty row: err = %v", err)
	}
	if _, err := ParseLayout([]string{"###", "# "}); !errors.Is(err, ErrRaggedMap) {
		t.Errorf("ragged: err = %v", err)
	}
}

func TestGridAccess(t *testing.T) {
	g := mustGrid(t,
		"###",
		"# X",
		"###",
	)

	if g.Rows() != 3 || g.Cols() != 3 {
		t.Fatalf("size = %dx%d", g.Cols(), g.Rows())
	}
	if g.At(1, 1) != KindEmpty {
		t.Errorf("centre should be empty, got %v", g.At(1, 1))
	}
	if g.At(0, 0) == KindEmpty || g.At(1, 2) == g.At(0, 0) {
		t.Errorf("distinct symbols must map to distinct solid kinds: %v %v", g.At(0, 0), g.At(1, 2))
	}
	if g.Symbol(1, 2) != 'X' {
		t.Errorf("Symbol(1,2) = %q", g.Symbol(1, 2))
	}

	tests := []struct {
		name string
		x, y float64
		want WallKind
	}{
		{"inside empty", 150, 150, KindEmpty},
		{"negative x", -0.1, 150, KindVoid},
		{"negative y", 150, -50, KindVoid},
		{"past right edge", 300, 150, KindVoid},
		{"past bottom edge", 150, 300.5, KindVoid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.KindAt(tt.x, tt.y); got != tt.want {
				t.Errorf("KindAt(%v,%v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}

	if !g.IsTileBlocking(-1, 0) {
		t.Error("tiles outside the grid must block")
	}
	if g.IsTileBlocking(1, 1) {
		t.Error("open cell must not block")
	}
	w, h := g.GetWorldBounds()
	if w != 300 || h != 300 {
		t.Errorf("bounds = %v x %v", w, h)
	}
}

func TestMarkers(t *testing.T) {
	layout, err := ParseLayout([]string{
		"####",
		"#. #",
		"# .#",
		"####",
	})
	if err != nil {
		t.Fatal(err)
	}

	points := layout.SpritePositions('.', 100)
	want := []Point{{X: 150, Y: 150}, {X: 250, Y: 250}}
	if len(points) != len(want) {
		t.Fatalf("points = %v", points)
	}
	for i := range want {
		if points[i] != want[i] {
			t.Errorf("point %d = %v, want %v", i, points[i], want[i])
		}
	}

	if n := layout.StripMarkers('.'); n != 2 {
		t.Errorf("stripped %d markers, want 2", n)
	}
	if layout[1][1] != BlankSymbol || layout[2][2] != BlankSymbol {
		t.Error("markers were not replaced with blank")
	}
	if n := layout.StripMarkers('.'); n != 0 {
		t.Errorf("second strip replaced %d", n)
	}
}

func TestMapLoaderLoadMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.map")
	content := "#####\r\n#. ##\n\n#  .#\n#####\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write map: %v", err)
	}

	ml := NewMapLoader(nil, 100, '.')
	mapData, err := ml.LoadMap(path)
	if err != nil {
		t.Fatalf("load map: %v", err)
	}
	if mapData.Grid.Rows() != 4 || mapData.Grid.Cols() != 5 {
		t.Fatalf("grid = %dx%d", mapData.Grid.Cols(), mapData.Grid.Rows())
	}
	if len(mapData.SpritePositions) != 2 {
		t.Fatalf("sprite positions = %v", mapData.SpritePositions)
	}
	if mapData.Grid.At(1, 1) != KindEmpty {
		t.Error("marker cell should be open space after loading")
	}
	if mapData.Grid.Symbol(1, 1) != BlankSymbol {
		t.Errorf("marker symbol = %q", mapData.Grid.Symbol(1, 1))
	}
}

func TestMapLoaderErrors(t *testing.T) {
	ml := NewMapLoader(nil, 100, '.')
	if _, err := ml.LoadMap(filepath.Join(t.TempDir(), "missing.map")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := ml.ReadMap(strings.NewReader("\n\n")); !errors.Is(err, ErrEmptyMap) {
		t.Errorf("empty map err = %v", err)
	}
	if _, err := ml.ReadMap(strings.NewReader("###\n##\n")); !errors.Is(err, ErrRaggedMap) {
		t.Errorf("ragged map err = %v", err)
	}
}
