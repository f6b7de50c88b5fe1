package render

import "math"

// DepthBuffer holds one distance per screen pixel. A fresh buffer reads as
// +Inf everywhere.
type DepthBuffer struct {
	Width, Height int
	values        []float64
}

// NewDepthBuffer allocates a buffer reset to +Inf.
func NewDepthBuffer(width, height int) *DepthBuffer {
	d := &DepthBuffer{Width: width, Height: height, values: make([]float64, width*height)}
	d.Reset()
	return d
}

// Reset sets every entry to +Inf.
func (d *DepthBuffer) Reset() {
	inf := math.Inf(1)
	for i := range d.values {
		d.values[i] = inf
	}
}

// At returns the stored depth; outside the buffer it is +Inf.
func (d *DepthBuffer) At(x, y int) float64 {
	if x < 0 || y < 0 || x >= d.Width || y >= d.Height {
		return math.Inf(1)
	}
	return d.values[y*d.Width+x]
}

// Set stores a depth; outside the buffer it is a no-op.
func (d *DepthBuffer) Set(x, y int, depth float64) {
	if x < 0 || y < 0 || x >= d.Width || y >= d.Height {
		return
	}
	d.values[y*d.Width+x] = depth
}
