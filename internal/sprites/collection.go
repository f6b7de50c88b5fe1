// Package sprites holds the collectible billboards of a match.
package sprites

import (
	"fmt"
	"touchdown/internal/graphics"
	"touchdown/internal/mathutil"
	"touchdown/internal/render"
	"touchdown/internal/world"
)

// Sprite is one collectible. Frames are shared between sprites and never
// modified.
type Sprite struct {
	X, Y      float64
	Scale     float64
	Frames    []*graphics.Frame
	Frame     int
	Timer     float64
	Collected bool
}

// CurrentFrame returns the frame being shown, nil when the sprite has none.
func (s *Sprite) CurrentFrame() *graphics.Frame {
	if len(s.Frames) == 0 {
		return nil
	}
	return s.Frames[s.Frame%len(s.Frames)]
}

// Collection owns the sprites of a level. Collected sprites stay in the
// collection but take no further part in animation, rendering or
// collision.
type Collection struct {
	sprites       []Sprite
	frameDuration float64
	collected     int
}

// NewCollection places one sprite at every position.
func NewCollection(positions []world.Point, frames []*graphics.Frame, scale, frameDuration float64) *Collection {
	if frameDuration <= 0 {
		frameDuration = 1
	}
	c := &Collection{
		sprites:       make([]Sprite, len(positions)),
		frameDuration: frameDuration,
	}
	for i, p := range positions {
		c.sprites[i] = Sprite{X: p.X, Y: p.Y, Scale: scale, Frames: frames}
	}
	return c
}

// Tick advances animation timers. A sprite whose timer reaches the frame
// duration moves to the next frame, wrapping, and its timer restarts.
func (c *Collection) Tick(dt float64) {
	if !(dt > 0) {
		return
	}
	for i := range c.sprites {
		s := &c.sprites[i]
		if s.Collected || len(s.Frames) == 0 {
			continue
		}
		s.Timer += dt
		if s.Timer >= c.frameDuration {
			s.Timer = 0
			s.Frame = (s.Frame + 1) % len(s.Frames)
		}
	}
}

// Collide marks the first uncollected sprite closer than threshold to
// (x, y) as collected and returns its index. A collected sprite is never
// returned again.
func (c *Collection) Collide(x, y, threshold float64) (int, bool) {
	for i := range c.sprites {
		s := &c.sprites[i]
		if s.Collected {
			continue
		}
		if mathutil.Distance(s.X, s.Y, x, y) < threshold {
			s.Collected = true
			c.collected++
			return i, true
		}
	}
	return -1, false
}

// ActiveSprites lists the uncollected sprites in collection order.
func (c *Collection) ActiveSprites() []render.Billboard {
	active := make([]render.Billboard, 0, len(c.sprites)-c.collected)
	for i := range c.sprites {
		s := &c.sprites[i]
		if s.Collected {
			continue
		}
		active = append(active, render.Billboard{X: s.X, Y: s.Y, Scale: s.Scale, Frame: s.CurrentFrame()})
	}
	return active
}

// Sprite returns a copy of sprite i.
func (c *Collection) Sprite(i int) (Sprite, error) {
	if i < 0 || i >= len(c.sprites) {
		return Sprite{}, fmt.Errorf("sprite %d out of range [0,%d)", i, len(c.sprites))
	}
	return c.sprites[i], nil
}

func (c *Collection) Collected() int { return c.collected }

func (c *Collection) Total() int { return len(c.sprites) }

// AllCollected reports whether every sprite has been collected. An empty
// collection is never complete.
func (c *Collection) AllCollected() bool {
	return len(c.sprites) > 0 && c.collected == len(c.sprites)
}
