// Package raycast marches rays through a world.Grid at a fixed step.
package raycast

import (
	"math"
	"touchdown/internal/mathutil"
	"touchdown/internal/world"
)

// Face tells which cell edge a ray struck.
type Face int

const (
	// FaceX is an edge running along the X axis; its texture coordinate
	// comes from the hit X.
	FaceX Face = iota
	// FaceY is an edge running along the Y axis; its texture coordinate
	// comes from the hit Y and it is drawn shaded.
	FaceY
)

func (f Face) String() string {
	if f == FaceY {
		return "y"
	}
	return "x"
}

// Hit is the result of one cast.
type Hit struct {
	Distance float64
	Kind     world.WallKind
	X, Y     float64
	Face     Face
	// Void is set when the ray left the grid or reached the distance ceiling
	// without striking a wall. Callers draw no wall for it.
	Void bool
}

// TextureU returns the horizontal texture coordinate of the hit in [0,1).
func (h Hit) TextureU(blockSize float64) float64 {
	if h.Face == FaceY {
		return mathutil.Fract(h.Y / blockSize)
	}
	return mathutil.Fract(h.X / blockSize)
}

// Caster is a fixed-step ray marcher.
type Caster struct {
	Step        float64
	MaxDistance float64
}

const (
	DefaultStep        = 0.5
	DefaultMaxDistance = 2000
)

// NewCaster returns a caster, substituting defaults for non-positive values.
func NewCaster(step, maxDistance float64) Caster {
	if step <= 0 {
		step = DefaultStep
	}
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}
	return Caster{Step: step, MaxDistance: maxDistance}
}

// Cast marches from (x, y) along angle and returns the first solid cell or
// a void hit. The loop runs at most MaxDistance/Step+1 iterations.
func (c Caster) Cast(grid *world.Grid, x, y, angle float64) Hit {
	step, limit := c.Step, c.MaxDistance
	if step <= 0 {
		step = DefaultStep
	}
	if limit <= 0 {
		limit = DefaultMaxDistance
	}

	dx, dy := math.Cos(angle), math.Sin(angle)
	steps := int(limit / step)
	for i := 0; i <= steps; i++ {
		d := float64(i) * step
		px, py := x+d*dx, y+d*dy

		kind := grid.KindAt(px, py)
		switch kind {
		case world.KindEmpty:
			continue
		case world.KindVoid:
			return Hit{Distance: d, Kind: world.KindVoid, X: px, Y: py, Void: true}
		}
		return Hit{
			Distance: d,
			Kind:     kind,
			X:        px,
			Y:        py,
			Face:     faceOf(px, py, grid.BlockSize()),
		}
	}

	d := float64(steps) * step
	return Hit{Distance: d, Kind: world.KindVoid, X: x + d*dx, Y: y + d*dy, Void: true}
}

// faceOf picks the edge nearest to the hit point inside its cell.
func faceOf(x, y, blockSize float64) Face {
	cx := mathutil.Fract(x / blockSize)
	cy := mathutil.Fract(y / blockSize)
	if math.Min(cx, 1-cx) < math.Min(cy, 1-cy) {
		return FaceY
	}
	return FaceX
}

// ColumnAngle returns the absolute ray angle for screen column i of width
// columns, spreading fov evenly starting at the left edge.
func ColumnAngle(cameraAngle, fov float64, i, width int) float64 {
	if width <= 0 {
		return cameraAngle
	}
	return cameraAngle - fov/2 + fov*float64(i)/float64(width)
}

// CorrectDistance removes fisheye distortion from a raw ray distance.
func CorrectDistance(raw, rayAngle, cameraAngle float64) float64 {
	return raw * math.Cos(rayAngle-cameraAngle)
}
