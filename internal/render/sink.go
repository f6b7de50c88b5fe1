// Package render draws first-person frames of a world.Grid: sky, floor,
// walls and billboard sprites, plus the minimap and top-down views.
package render

import (
	"image"
	"image/color"
	"math"
)

// PixelSink is the surface a frame is drawn onto.
type PixelSink interface {
	Size() (width, height int)
	SetColor(c color.RGBA)
	SetPixel(x, y int)
}

// Framebuffer is an in-memory PixelSink backed by an *image.RGBA.
type Framebuffer struct {
	img     *image.RGBA
	current color.RGBA
}

// NewFramebuffer allocates a width x height framebuffer.
func NewFramebuffer(width, height int) *Framebuffer {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Framebuffer{
		img:     image.NewRGBA(image.Rect(0, 0, width, height)),
		current: color.RGBA{255, 255, 255, 255},
	}
}

func (fb *Framebuffer) Size() (int, int) {
	b := fb.img.Bounds()
	return b.Dx(), b.Dy()
}

func (fb *Framebuffer) SetColor(c color.RGBA) {
	fb.current = c
}

// SetPixel writes the current colour; out of range coordinates are ignored.
func (fb *Framebuffer) SetPixel(x, y int) {
	w, h := fb.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	i := fb.img.PixOffset(x, y)
	p := fb.img.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = fb.current.R, fb.current.G, fb.current.B, fb.current.A
}

// Clear fills the whole buffer with c.
func (fb *Framebuffer) Clear(c color.RGBA) {
	pix := fb.img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
	}
}

// At returns the pixel at (x, y).
func (fb *Framebuffer) At(x, y int) color.RGBA {
	return fb.img.RGBAAt(x, y)
}

// Image exposes the backing image for encoding.
func (fb *Framebuffer) Image() *image.RGBA {
	return fb.img
}

// Pixels returns the RGBA bytes in row-major order, as ebiten's
// Image.WritePixels expects them.
func (fb *Framebuffer) Pixels() []byte {
	return fb.img.Pix
}

// fillRect paints a clipped rectangle [x0,x1) x [y0,y1).
func fillRect(sink PixelSink, x0, y0, x1, y1 int, c color.RGBA) {
	w, h := sink.Size()
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > w {
		x1 = w
	}
	if y1 > h {
		y1 = h
	}
	sink.SetColor(c)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			sink.SetPixel(x, y)
		}
	}
}

// drawLine draws a Bresenham line clipped to the sink, so the walk never
// exceeds width+height steps. Non-finite endpoints draw nothing.
func drawLine(sink PixelSink, x0, y0, x1, y1 float64, c color.RGBA) {
	w, h := sink.Size()
	x0, y0, x1, y1, ok := clipLine(x0, y0, x1, y1, float64(w-1), float64(h-1))
	if !ok {
		return
	}
	sink.SetColor(c)

	ix0, iy0 := int(math.Floor(x0)), int(math.Floor(y0))
	ix1, iy1 := int(math.Floor(x1)), int(math.Floor(y1))
	dx := ix1 - ix0
	if dx < 0 {
		dx = -dx
	}
	dy := iy1 - iy0
	if dy > 0 {
		dy = -dy
	}
	sx, sy := 1, 1
	if ix0 > ix1 {
		sx = -1
	}
	if iy0 > iy1 {
		sy = -1
	}
	err := dx + dy
	for {
		sink.SetPixel(ix0, iy0)
		if ix0 == ix1 && iy0 == iy1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			ix0 += sx
		}
		if e2 <= dx {
			err += dx
			iy0 += sy
		}
	}
}

// clipLine clips a segment to [0,maxX] x [0,maxY] (Liang-Barsky). ok is
// false when nothing of the segment is inside or an input is not finite.
func clipLine(x0, y0, x1, y1, maxX, maxY float64) (cx0, cy0, cx1, cy1 float64, ok bool) {
	if !finite(x0, y0, x1, y1) || maxX < 0 || maxY < 0 {
		return 0, 0, 0, 0, false
	}
	dx, dy := x1-x0, y1-y0
	if !finite(dx, dy) {
		return 0, 0, 0, 0, false
	}
	t0, t1 := 0.0, 1.0
	in, out := -1, -1
	edges := [4][2]float64{
		{-dx, x0},
		{dx, maxX - x0},
		{-dy, y0},
		{dy, maxY - y0},
	}
	for i, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			if r > t0 {
				t0, in = r, i
			}
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			if r < t1 {
				t1, out = r, i
			}
		}
	}
	// a clipped end lies exactly on its edge
	at := func(t float64, edge int) (float64, float64) {
		x, y := x0+t*dx, y0+t*dy
		if t == 1 {
			x, y = x1, y1
		}
		switch edge {
		case 0:
			x = 0
		case 1:
			x = maxX
		case 2:
			y = 0
		case 3:
			y = maxY
		}
		return clampf(x, 0, maxX), clampf(y, 0, maxY)
	}
	cx0, cy0 = at(t0, in)
	cx1, cy1 = at(t1, out)
	return cx0, cy0, cx1, cy1, true
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func clampf(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
