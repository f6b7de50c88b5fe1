package render

import (
	"image/color"
	"math"
	"touchdown/internal/mathutil"
	"touchdown/internal/raycast"
	"touchdown/internal/world"
)

var (
	minimapGrass  = color.RGBA{34, 139, 34, 255}
	minimapBorder = color.RGBA{255, 255, 255, 255}
	markerGold    = color.RGBA{255, 215, 0, 255}
	debugRayColor = color.RGBA{245, 245, 245, 255}
)

// DebugRays is the number of rays traced in the top-down view.
const DebugRays = 5

// mapView maps world coordinates onto a rectangle of the sink.
type mapView struct {
	offsetX, offsetY float64
	scaleX, scaleY   float64
}

func (v mapView) toScreen(x, y float64) (int, int) {
	sx, sy := v.project(x, y)
	return int(sx), int(sy)
}

func (v mapView) project(x, y float64) (float64, float64) {
	return v.offsetX + x*v.scaleX, v.offsetY + y*v.scaleY
}

// drawCells paints every solid cell of the grid through the view.
func (r *Renderer) drawCells(sink PixelSink, grid *world.Grid, v mapView) {
	b := grid.BlockSize()
	for row := 0; row < grid.Rows(); row++ {
		for col := 0; col < grid.Cols(); col++ {
			kind := grid.At(row, col)
			if kind == world.KindEmpty {
				continue
			}
			x0, y0 := v.toScreen(float64(col)*b, float64(row)*b)
			x1, y1 := v.toScreen(float64(col+1)*b, float64(row+1)*b)
			fillRect(sink, x0, y0, x1, y1, r.flatColor(kind))
		}
	}
}

// minMinimapSize is the smallest square worth drawing.
const minMinimapSize = 8

// DrawMinimap overlays a square map in the top-right corner: walls, a 2 px
// border, the camera arrow and a dot per sprite. The square shrinks to fit
// sinks smaller than size plus the margins.
func (r *Renderer) DrawMinimap(sink PixelSink, scene Scene, size, margin int) {
	w, h := sink.Size()
	grid := scene.Grid
	if grid == nil || size <= 0 {
		return
	}
	margin = mathutil.IntMax(margin, 0)
	size = mathutil.IntMin(size, mathutil.IntMin(w, h)-2*margin)
	if size < minMinimapSize {
		return
	}
	worldW, worldH := grid.GetWorldBounds()
	left := w - size - margin
	top := margin
	v := mapView{
		offsetX: float64(left),
		offsetY: float64(top),
		scaleX:  float64(size) / worldW,
		scaleY:  float64(size) / worldH,
	}

	fillRect(sink, left, top, left+size, top+size, minimapGrass)
	r.drawCells(sink, grid, v)

	for t := 0; t < 2; t++ {
		fillRect(sink, left, top+t, left+size, top+t+1, minimapBorder)
		fillRect(sink, left, top+size-1-t, left+size, top+size-t, minimapBorder)
		fillRect(sink, left+t, top, left+t+1, top+size, minimapBorder)
		fillRect(sink, left+size-1-t, top, left+size-t, top+size, minimapBorder)
	}

	if scene.Sprites != nil {
		for _, b := range scene.Sprites.ActiveSprites() {
			x, y := v.toScreen(b.X, b.Y)
			drawDot(sink, x, y, 4, markerGold)
		}
	}

	cam := scene.Camera
	px, py := v.project(cam.X, cam.Y)
	if px >= float64(left) && px < float64(left+size) && py >= float64(top) && py < float64(top+size) {
		drawArrow(sink, px, py, cam.Angle, 8, markerGold)
	}
}

// DrawTopDown renders the whole grid scaled to the sink with a fan of
// DebugRays rays across the field of view.
func (r *Renderer) DrawTopDown(sink PixelSink, scene Scene) {
	w, h := sink.Size()
	grid := scene.Grid
	fillRect(sink, 0, 0, w, h, color.RGBA{0, 0, 0, 255})
	if grid == nil {
		return
	}
	worldW, worldH := grid.GetWorldBounds()
	scale := math.Min(float64(w)/worldW, float64(h)/worldH)
	v := mapView{scaleX: scale, scaleY: scale}

	r.drawCells(sink, grid, v)

	cam := scene.Camera
	x0, y0 := v.project(cam.X, cam.Y)
	if finite(cam.X, cam.Y, cam.Angle, cam.FOV) {
		for i := 0; i < DebugRays; i++ {
			angle := raycast.ColumnAngle(cam.Angle, cam.FOV, i, DebugRays)
			hit := r.Caster.Cast(grid, cam.X, cam.Y, angle)
			x1, y1 := v.project(hit.X, hit.Y)
			drawLine(sink, x0, y0, x1, y1, debugRayColor)
		}
	}

	if scene.Sprites != nil {
		for _, b := range scene.Sprites.ActiveSprites() {
			x, y := v.toScreen(b.X, b.Y)
			drawDot(sink, x, y, 4, markerGold)
		}
	}
	drawArrow(sink, math.Floor(x0), math.Floor(y0), cam.Angle, 8, markerGold)
}

func drawDot(sink PixelSink, cx, cy, radius int, c color.RGBA) {
	w, h := sink.Size()
	sink.SetColor(c)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			x, y := cx+dx, cy+dy
			if x >= 0 && y >= 0 && x < w && y < h {
				sink.SetPixel(x, y)
			}
		}
	}
}

// drawArrow draws a three-stroke arrow from (px, py) pointing along angle.
// A non-finite pose draws nothing.
func drawArrow(sink PixelSink, px, py, angle, size float64, c color.RGBA) {
	if !finite(px, py, angle, size) {
		return
	}
	tipX := px + size*math.Cos(angle)
	tipY := py + size*math.Sin(angle)
	b1 := angle + 3*math.Pi/4
	b2 := angle - 3*math.Pi/4
	base1X, base1Y := px+size*0.6*math.Cos(b1), py+size*0.6*math.Sin(b1)
	base2X, base2Y := px+size*0.6*math.Cos(b2), py+size*0.6*math.Sin(b2)

	drawLine(sink, px, py, tipX, tipY, c)
	drawLine(sink, tipX, tipY, base1X, base1Y, c)
	drawLine(sink, tipX, tipY, base2X, base2Y, c)
}
