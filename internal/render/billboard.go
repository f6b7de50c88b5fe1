package render

import (
	"math"
	"sort"
	"touchdown/internal/graphics"
	"touchdown/internal/mathutil"
)

// SpriteQuad is a billboard placed on screen.
type SpriteQuad struct {
	Depth        float64 // camera-space forward distance
	StartX, EndX int     // unclamped, end exclusive
	StartY, EndY int
	Frame        *graphics.Frame
}

// ProjectSprite places a billboard for the camera on a w x h screen. ok is
// false when the sprite is outside the near/far window, behind the camera or
// entirely off screen.
func (o Options) ProjectSprite(cam Camera, b Billboard, w, h int) (q SpriteQuad, ok bool) {
	dx := b.X - cam.X
	dy := b.Y - cam.Y
	distance := math.Hypot(dx, dy)
	if !(distance > 0) || distance < o.SpriteNear || distance > o.SpriteFar {
		return q, false
	}

	sin, cos := math.Sincos(cam.Angle)
	lateral := -dx*sin + dy*cos
	forward := dx*cos + dy*sin
	if forward <= 0 {
		return q, false
	}

	hh := float64(h) / 2
	scale := b.Scale
	if scale <= 0 {
		scale = 1
	}
	height := hh / distance * o.SpriteProjection * o.SpriteHeightFactor * scale
	width := height * o.SpriteAspect

	screenX := float64(w)/2 + math.Atan(lateral/forward)*float64(w)/cam.FOV

	q = SpriteQuad{
		Depth:  forward,
		StartX: int(math.Floor(screenX - width/2)),
		EndX:   int(math.Floor(screenX + width/2)),
		StartY: int(math.Floor(hh - height/2)),
		EndY:   int(math.Floor(hh + height/2)),
		Frame:  b.Frame,
	}
	if q.EndX <= q.StartX || q.EndY <= q.StartY {
		return q, false
	}
	if q.StartX >= w || q.EndX <= 0 || q.StartY >= h || q.EndY <= 0 {
		return q, false
	}
	return q, true
}

// sortFarToNear orders billboards by descending distance from the camera.
// Equal distances keep their original order.
func sortFarToNear(cam Camera, sprites []Billboard) []Billboard {
	type entry struct {
		b        Billboard
		distance float64
	}
	entries := make([]entry, len(sprites))
	for i, b := range sprites {
		entries[i] = entry{b: b, distance: mathutil.Distance(cam.X, cam.Y, b.X, b.Y)}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].distance > entries[j].distance
	})
	ordered := make([]Billboard, len(entries))
	for i, e := range entries {
		ordered[i] = e.b
	}
	return ordered
}

// drawSprites paints billboards far to near. A sprite pixel is drawn only
// where its depth is strictly less than the wall depth; sprites never write
// depth, so overlap between sprites is settled by paint order alone.
func (r *Renderer) drawSprites(sink PixelSink, depth *DepthBuffer, cam Camera, sprites []Billboard, w, h int) {
	for _, b := range sortFarToNear(cam, sprites) {
		if b.Frame == nil {
			continue
		}
		q, ok := r.Options.ProjectSprite(cam, b, w, h)
		if !ok {
			continue
		}
		if drawn := r.rasterizeSprite(sink, depth, q, w, h); drawn > 0 {
			r.stats.SpritesDrawn++
			r.stats.SpritePixels += drawn
		}
	}
}

func (r *Renderer) rasterizeSprite(sink PixelSink, depth *DepthBuffer, q SpriteQuad, w, h int) int {
	quadW := q.EndX - q.StartX
	quadH := q.EndY - q.StartY
	drawn := 0

	for y := mathutil.IntMax(q.StartY, 0); y < mathutil.IntMin(q.EndY, h); y++ {
		ty := mathutil.IntClamp((y-q.StartY)*graphics.FrameSize/quadH, 0, graphics.FrameSize-1)
		for x := mathutil.IntMax(q.StartX, 0); x < mathutil.IntMin(q.EndX, w); x++ {
			if !(q.Depth < depth.At(x, y)) {
				continue
			}
			tx := mathutil.IntClamp((x-q.StartX)*graphics.FrameSize/quadW, 0, graphics.FrameSize-1)
			c := q.Frame.At(tx, ty)
			if c.A <= r.Options.AlphaThreshold {
				continue
			}
			c.A = 255
			sink.SetColor(c)
			sink.SetPixel(x, y)
			drawn++
		}
	}
	return drawn
}
