package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"sort"

	"touchdown/internal/config"
	"touchdown/internal/game"
	"touchdown/internal/render"
	"touchdown/internal/world"
)

func main() {
	configPath := flag.String("config", "config.yaml", "configuration file")
	mapPath := flag.String("map", "", "map file (defaults to world.map_file)")
	outPath := flag.String("out", "", "write a top-down PNG of the map here")
	size := flag.Int("size", 600, "longest side of the PNG in pixels")
	flag.Parse()

	cfg := config.MustLoadConfig(*configPath)
	if *mapPath != "" {
		cfg.World.MapFile = *mapPath
	}

	assets, err := game.LoadAssets(cfg)
	if err != nil {
		log.Fatal(err)
	}

	for _, line := range legendLines(assets.Tiles, assets.Map) {
		fmt.Println(line)
	}

	if *outPath == "" {
		return
	}
	if err := writeTopDown(cfg, assets, *outPath, *size); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Wrote %s\n", *outPath)
}

// legendLines lists the map size, sprite spawns and every wall kind in use.
func legendLines(tm *world.TileManager, data *world.MapData) []string {
	grid := data.Grid
	lines := []string{
		fmt.Sprintf("Map: %d x %d cells, block %.0f", grid.Cols(), grid.Rows(), grid.BlockSize()),
		fmt.Sprintf("Sprites: %d", len(data.SpritePositions)),
		"",
		"Tiles:",
	}

	counts := make(map[world.WallKind]int)
	for row := 0; row < grid.Rows(); row++ {
		for col := 0; col < grid.Cols(); col++ {
			if kind := grid.At(row, col); kind.IsSolid() {
				counts[kind]++
			}
		}
	}

	kinds := make([]world.WallKind, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	configured := tm.ListTiles()
	for _, kind := range kinds {
		key := tm.GetTileKey(kind)
		name := "(unconfigured)"
		if data, ok := configured[key]; ok {
			name = data.Name
		}
		c := tm.GetWallColor(kind)
		lines = append(lines, fmt.Sprintf("  '%c' %-12s %-20s x%-4d rgb(%d,%d,%d)",
			tm.GetSymbol(kind), key, name, counts[kind], c[0], c[1], c[2]))
	}
	return lines
}

func writeTopDown(cfg *config.Config, assets *game.Assets, path string, size int) error {
	grid := assets.Map.Grid
	worldW, worldH := grid.GetWorldBounds()
	w, h := size, size
	if worldW > worldH {
		h = int(float64(size) * worldH / worldW)
	} else {
		w = int(float64(size) * worldW / worldH)
	}

	sess := game.NewSession(cfg, assets)
	fb := render.NewFramebuffer(w, h)
	sess.Renderer().DrawTopDown(fb, sess.Scene())

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, fb.Image()); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}
