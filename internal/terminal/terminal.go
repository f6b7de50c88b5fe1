package terminal

import (
	"context"
	"time"

	"touchdown/internal/game"
	"touchdown/internal/render"

	"github.com/gdamore/tcell/v2"
)

// StatusRows is the number of text rows above the picture.
const StatusRows = 3

// Runner drives a session on a tcell screen.
type Runner struct {
	screen  tcell.Screen
	session *game.Session
	fb      *render.Framebuffer
	tick    time.Duration
}

// NewRunner creates a runner that renders fps frames per second.
func NewRunner(screen tcell.Screen, session *game.Session, fps int) *Runner {
	if fps <= 0 {
		fps = 15
	}
	r := &Runner{
		screen:  screen,
		session: session,
		tick:    time.Second / time.Duration(fps),
	}
	r.handleResize()
	return r
}

func (r *Runner) handleResize() {
	cols, rows := r.screen.Size()
	w, h := FramebufferSize(cols, rows, StatusRows)
	if r.fb != nil {
		if fw, fh := r.fb.Size(); fw == w && fh == h {
			return
		}
	}
	r.fb = render.NewFramebuffer(w, h)
	r.screen.Clear()
}

// Run processes events and renders until the session quits or ctx ends.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := r.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	var pending game.Controls
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				applyKey(&pending, ev.Key(), ev.Rune())
			case *tcell.EventResize:
				r.screen.Sync()
				r.handleResize()
			}

		case <-ticker.C:
			r.session.Update(pending, r.tick)
			pending = game.Controls{}
			if r.session.Quit() {
				return nil
			}
			r.Draw()
		}
	}
}

// Draw renders one frame to the screen.
func (r *Runner) Draw() {
	r.session.Render(r.fb)
	drawStatus(r.screen, r.session.StatusLines(), StatusRows)
	blit(r.screen, r.fb, StatusRows)
	r.screen.Show()
}
