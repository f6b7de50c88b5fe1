package desktop

import (
	"touchdown/internal/game"

	"github.com/hajimehoshi/ebiten/v2"
)

// keyState reports key presses. The live implementation asks ebiten; tests
// substitute their own.
type keyState interface {
	Pressed(key ebiten.Key) bool
	JustPressed(key ebiten.Key) bool
}

func anyPressed(ks keyState, keys ...ebiten.Key) bool {
	for _, k := range keys {
		if ks.Pressed(k) {
			return true
		}
	}
	return false
}

// readControls maps the keyboard and the horizontal mouse delta to one tick
// of controls.
func readControls(ks keyState, mouseDX float64) game.Controls {
	return game.Controls{
		Forward:   anyPressed(ks, ebiten.KeyW, ebiten.KeyArrowUp),
		Back:      anyPressed(ks, ebiten.KeyS, ebiten.KeyArrowDown),
		TurnLeft:  anyPressed(ks, ebiten.KeyA, ebiten.KeyArrowLeft),
		TurnRight: anyPressed(ks, ebiten.KeyD, ebiten.KeyArrowRight),
		MouseDX:   mouseDX,

		Start:         ks.JustPressed(ebiten.KeyEnter) || ks.JustPressed(ebiten.KeyNumpadEnter),
		ToggleMap:     ks.JustPressed(ebiten.KeyM),
		ToggleTexture: ks.JustPressed(ebiten.KeyT),
		PauseMusic:    ks.JustPressed(ebiten.KeyP),
		Quit:          ks.JustPressed(ebiten.KeyEscape),
	}
}

// mouseTracker turns absolute cursor positions into per-tick deltas.
type mouseTracker struct {
	lastX int
	valid bool
}

// delta returns the movement since the last call; the first call and any
// call after reset return 0.
func (m *mouseTracker) delta(x int) float64 {
	if !m.valid {
		m.lastX = x
		m.valid = true
		return 0
	}
	dx := x - m.lastX
	m.lastX = x
	return float64(dx)
}

func (m *mouseTracker) reset() {
	m.valid = false
}
