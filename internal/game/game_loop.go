package game

import (
	"time"

	"touchdown/internal/scores"
)

// Update advances the session by one tick. Animation and collection happen
// here so the next Render sees a settled sprite collection.
func (s *Session) Update(c Controls, dt time.Duration) {
	if c.Quit {
		s.quit = true
		return
	}
	if c.PauseMusic {
		s.sounds.ToggleMusic()
	}

	switch s.state {
	case StateWelcome:
		if c.Start {
			s.state = StatePlaying
			s.started = s.now()
			s.logf("started, %d balls on the field", s.sprites.Total())
		}
	case StatePlaying:
		s.updatePlaying(c, dt)
	}
	s.maybeLogPerfDrop()
}

func (s *Session) updatePlaying(c Controls, dt time.Duration) {
	if c.ToggleMap {
		s.topDown = !s.topDown
	}
	if c.ToggleTexture {
		s.renderer.Options.Textured = !s.renderer.Options.Textured
	}

	s.handleMovement(c)
	s.sprites.Tick(dt.Seconds())
	s.checkCollection()
}

// handleMovement processes rotation and forward/backward movement
func (s *Session) handleMovement(c Controls) {
	rot := s.config.GetRotSpeed()
	if c.TurnLeft {
		s.camera.Rotate(-rot)
	}
	if c.TurnRight {
		s.camera.Rotate(rot)
	}
	if c.MouseDX != 0 {
		s.camera.Rotate(c.MouseDX * s.config.Movement.MouseSensitivity)
	}

	speed := s.config.GetMoveSpeed()
	if c.Forward {
		s.move(s.camera.GetForwardX()*speed, s.camera.GetForwardY()*speed)
	}
	if c.Back {
		s.move(-s.camera.GetForwardX()*speed, -s.camera.GetForwardY()*speed)
	}
}

func (s *Session) move(dx, dy float64) {
	x, y := s.collision.MoveWithSliding(playerEntityID, dx, dy)
	s.camera.SetPosition(x, y)
}

func (s *Session) checkCollection() {
	idx, ok := s.sprites.Collide(s.camera.X, s.camera.Y, s.config.Sprites.CollectDistance)
	if !ok {
		return
	}
	s.logf("collected ball %d (%d/%d)", idx, s.sprites.Collected(), s.sprites.Total())
	if s.monitor != nil {
		s.monitor.RecordCollection()
	}
	s.sounds.PlayCollect()

	if s.sprites.AllCollected() {
		s.win()
	}
}

func (s *Session) win() {
	s.elapsed = s.now().Sub(s.started)
	s.state = StateVictory
	s.sounds.PlayVictory()
	s.logf("victory in %s", s.elapsed)

	entry := scores.NewEntry(s.config.Scores.Player, s.sprites.Collected(), s.sprites.Total(), s.elapsed)
	s.result = &entry
	if s.scores == nil || s.config.Scores.Disabled {
		return
	}
	if err := s.scores.Save(entry); err != nil {
		s.logf("Warning: failed to save result: %v", err)
	}
}
