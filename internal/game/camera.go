package game

import (
	"math"

	"touchdown/internal/mathutil"
	"touchdown/internal/render"
)

// FirstPersonCamera is the player's eye.
type FirstPersonCamera struct {
	X, Y  float64
	Angle float64
	FOV   float64
}

// GetForwardX returns the X component of the forward direction vector
func (c *FirstPersonCamera) GetForwardX() float64 {
	return math.Cos(c.Angle)
}

// GetForwardY returns the Y component of the forward direction vector
func (c *FirstPersonCamera) GetForwardY() float64 {
	return math.Sin(c.Angle)
}

// GetPosition returns the camera's current position
func (c *FirstPersonCamera) GetPosition() (float64, float64) {
	return c.X, c.Y
}

// SetPosition sets the camera's position
func (c *FirstPersonCamera) SetPosition(x, y float64) {
	c.X = x
	c.Y = y
}

// Rotate turns the camera, keeping the angle in [0, 2π). A turn that would
// leave the angle non-finite is ignored.
func (c *FirstPersonCamera) Rotate(angle float64) {
	next := mathutil.NormalizeAngle(c.Angle + angle)
	if math.IsNaN(next) {
		return
	}
	c.Angle = next
}

// View returns the camera as the renderer reads it.
func (c *FirstPersonCamera) View() render.Camera {
	return render.Camera{X: c.X, Y: c.Y, Angle: c.Angle, FOV: c.FOV}
}
