package desktop

import (
	"fmt"
	"image/color"
	"time"

	"touchdown/internal/game"
	"touchdown/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	ebitext "github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

var (
	overlayBackground = color.RGBA{0, 0, 0, 160}
	overlayText       = color.RGBA{255, 215, 0, 255}
)

type ebitenKeys struct{}

func (ebitenKeys) Pressed(key ebiten.Key) bool     { return ebiten.IsKeyPressed(key) }
func (ebitenKeys) JustPressed(key ebiten.Key) bool { return inpututil.IsKeyJustPressed(key) }

// Game adapts a session to ebiten.Game. The session renders into an
// in-memory framebuffer that is uploaded to a texture once per Draw.
type Game struct {
	session  *game.Session
	fb       *render.Framebuffer
	frame    *ebiten.Image
	width    int
	height   int
	mouse    mouseTracker
	captured bool
	showFPS  bool
}

// New creates the ebiten adapter for a session rendered at width x height.
func New(session *game.Session, width, height int) *Game {
	return &Game{
		session: session,
		fb:      render.NewFramebuffer(width, height),
		frame:   ebiten.NewImage(width, height),
		width:   width,
		height:  height,
		showFPS: true,
	}
}

// Update reads input and advances the session.
func (g *Game) Update() error {
	g.updateCursor()

	mouseDX := 0.0
	if g.captured {
		x, _ := ebiten.CursorPosition()
		mouseDX = g.mouse.delta(x)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.showFPS = !g.showFPS
	}

	dt := time.Second / time.Duration(ebiten.TPS())
	g.session.Update(readControls(ebitenKeys{}, mouseDX), dt)
	if g.session.Quit() {
		return ebiten.Termination
	}
	return nil
}

// updateCursor captures the mouse while playing in 3D.
func (g *Game) updateCursor() {
	want := g.session.State() == game.StatePlaying && !g.session.TopDown()
	if want == g.captured {
		return
	}
	g.captured = want
	g.mouse.reset()
	if want {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	} else {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	}
}

// Draw renders the session and its text overlay.
func (g *Game) Draw(screen *ebiten.Image) {
	g.session.Render(g.fb)
	g.frame.WritePixels(g.fb.Pixels())
	screen.DrawImage(g.frame, nil)

	g.drawOverlay(screen)
	if g.showFPS {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.0f  TPS: %.0f", ebiten.ActualFPS(), ebiten.ActualTPS()), 10, g.height-20)
	}
}

func (g *Game) drawOverlay(screen *ebiten.Image) {
	lines := g.session.StatusLines()
	if len(lines) == 0 {
		return
	}
	face := basicfont.Face7x13
	lineHeight := face.Metrics().Height.Ceil() + 4

	if g.session.State() == game.StatePlaying {
		for i, line := range lines {
			ebitext.Draw(screen, line, face, 10, 20+i*lineHeight, overlayText)
		}
		return
	}

	// Centered panel for the welcome and victory screens
	maxWidth := 0
	for _, line := range lines {
		if w := ebitext.BoundString(face, line).Dx(); w > maxWidth {
			maxWidth = w
		}
	}
	panelW := maxWidth + 40
	panelH := len(lines)*lineHeight + 30
	px := (g.width - panelW) / 2
	py := (g.height - panelH) / 2
	ebitenutil.DrawRect(screen, float64(px), float64(py), float64(panelW), float64(panelH), overlayBackground)
	for i, line := range lines {
		w := ebitext.BoundString(face, line).Dx()
		ebitext.Draw(screen, line, face, (g.width-w)/2, py+25+i*lineHeight, overlayText)
	}
}

// Layout returns the fixed render resolution; ebiten scales it to the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.width, g.height
}
