package terminal

import (
	"touchdown/internal/game"

	"github.com/gdamore/tcell/v2"
)

// applyKey folds one key press into the controls of the next tick.
// Terminals report presses but never releases, so movement keys act once
// per press and rely on key repeat while held.
func applyKey(c *game.Controls, key tcell.Key, r rune) {
	switch key {
	case tcell.KeyUp:
		c.Forward = true
	case tcell.KeyDown:
		c.Back = true
	case tcell.KeyLeft:
		c.TurnLeft = true
	case tcell.KeyRight:
		c.TurnRight = true
	case tcell.KeyEnter:
		c.Start = true
	case tcell.KeyEscape, tcell.KeyCtrlC:
		c.Quit = true
	case tcell.KeyRune:
		switch r {
		case 'w', 'W':
			c.Forward = true
		case 's', 'S':
			c.Back = true
		case 'a', 'A':
			c.TurnLeft = true
		case 'd', 'D':
			c.TurnRight = true
		case 'm', 'M':
			c.ToggleMap = true
		case 't', 'T':
			c.ToggleTexture = true
		case 'p', 'P':
			c.PauseMusic = true
		case 'q', 'Q':
			c.Quit = true
		}
	}
}
