package render

import (
	"image/color"
	"math"
	"touchdown/internal/graphics"
	"touchdown/internal/mathutil"
	"touchdown/internal/raycast"
	"touchdown/internal/world"
)

// maxSlabHalf bounds the projected half height so a wall touching the
// camera cannot overflow the row arithmetic.
const maxSlabHalf = 1 << 20

var defaultFlatWall = color.RGBA{139, 69, 19, 255}

// SlabHalfHeight returns half the projected height, in whole rows, of a wall
// at the corrected distance. ok is false for a degenerate slab.
func (o Options) SlabHalfHeight(corrected, screenHalfHeight float64) (half int, ok bool) {
	if !(corrected > 0) {
		return 0, false
	}
	height := screenHalfHeight / corrected * o.ProjectionDistance * o.WallHeightFactor
	if math.IsNaN(height) || height <= 0 {
		return 0, false
	}
	h := math.Min(height/2, maxSlabHalf)
	half = int(h)
	return half, half > 0
}

// castColumns fills r.hits with one hit per column.
func (r *Renderer) castColumns(grid *world.Grid, cam Camera, w int) {
	if cap(r.hits) < w {
		r.hits = make([]raycast.Hit, w)
	}
	r.hits = r.hits[:w]
	cast := func(x int) {
		r.hits[x] = r.Caster.Cast(grid, cam.X, cam.Y, r.rayAngles[x])
	}
	if r.Pool == nil {
		for x := 0; x < w; x++ {
			cast(x)
		}
		return
	}
	r.Pool.ParallelFor(0, w, cast)
}

// drawWalls paints the slab of every column hit, writing the corrected
// distance into depth for every painted pixel.
func (r *Renderer) drawWalls(sink PixelSink, depth *DepthBuffer, scene Scene, w, h int) {
	cam := scene.Camera
	grid := scene.Grid
	horizon := h / 2
	hh := float64(h) / 2
	textured := r.textured()

	r.castColumns(grid, cam, w)
	for x := 0; x < w; x++ {
		angle := r.rayAngles[x]
		hit := r.hits[x]
		if hit.Void {
			continue
		}

		corrected := raycast.CorrectDistance(hit.Distance, angle, cam.Angle)
		half, ok := r.Options.SlabHalfHeight(corrected, hh)
		if !ok {
			continue
		}

		// unclamped slab, used for texture v
		slabTop := horizon - half
		slabHeight := 2 * half
		top := mathutil.IntMax(slabTop, 0)
		bottom := mathutil.IntMin(horizon+half, h)
		if top >= bottom {
			continue
		}

		shade := 1.0
		if hit.Face == raycast.FaceY {
			shade = r.Options.SideShade
		}

		var tex *graphics.Texture
		var flat color.RGBA
		if textured {
			tex = r.Textures.Wall(hit.Kind)
		}
		if tex == nil {
			flat = graphics.Shade(r.flatColor(hit.Kind), shade)
			sink.SetColor(flat)
		}
		u := hit.TextureU(grid.BlockSize())

		for y := top; y < bottom; y++ {
			if tex != nil {
				v := float64(y-slabTop) / float64(slabHeight)
				sink.SetColor(graphics.Shade(tex.Sample(u, v), shade))
			}
			sink.SetPixel(x, y)
			depth.Set(x, y, corrected)
		}
		r.stats.WallColumns++
	}
}

func (r *Renderer) flatColor(kind world.WallKind) color.RGBA {
	if r.WallColor != nil {
		return r.WallColor(kind)
	}
	return defaultFlatWall
}
