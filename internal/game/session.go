package game

import (
	"fmt"
	"log"
	"time"

	"touchdown/internal/collision"
	"touchdown/internal/config"
	"touchdown/internal/monitoring"
	"touchdown/internal/render"
	"touchdown/internal/scores"
	"touchdown/internal/sprites"
	"touchdown/internal/threading"
	"touchdown/internal/world"

	"github.com/google/uuid"
)

// State is the phase of a session.
type State int

const (
	StateWelcome State = iota
	StatePlaying
	StateVictory
)

func (s State) String() string {
	switch s {
	case StateWelcome:
		return "welcome"
	case StatePlaying:
		return "playing"
	case StateVictory:
		return "victory"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Controls is one tick of player input. Held keys are level triggered, the
// rest fire once per press.
type Controls struct {
	Forward   bool    `json:"forward"`
	Back      bool    `json:"back"`
	TurnLeft  bool    `json:"turn_left"`
	TurnRight bool    `json:"turn_right"`
	MouseDX   float64 `json:"mouse_dx"`

	Start         bool `json:"start"`
	ToggleMap     bool `json:"toggle_map"`
	ToggleTexture bool `json:"toggle_texture"`
	PauseMusic    bool `json:"pause_music"`
	Quit          bool `json:"quit"`
}

// Sounds is what a session plays.
type Sounds interface {
	PlayCollect()
	PlayVictory()
	ToggleMusic()
}

type silentSounds struct{}

func (silentSounds) PlayCollect() {}
func (silentSounds) PlayVictory() {}
func (silentSounds) ToggleMusic() {}

const playerEntityID = "player"

// Session is one player's run through the stadium. It owns its camera,
// sprite collection and renderer and is not safe for concurrent use.
type Session struct {
	ID string

	config    *config.Config
	grid      *world.Grid
	camera    *FirstPersonCamera
	sprites   *sprites.Collection
	collision *collision.CollisionSystem
	renderer  *render.Renderer
	monitor   *monitoring.PerformanceMonitor
	pool      *threading.WorkerPool
	sounds    Sounds
	scores    scores.Store

	state   State
	topDown bool
	quit    bool

	now     func() time.Time
	started time.Time
	elapsed time.Duration
	result  *scores.Entry

	perfLowSince time.Time
	perfLastLog  time.Time
}

// Option configures a session.
type Option func(*Session)

// WithSounds sets the sound player.
func WithSounds(s Sounds) Option {
	return func(sess *Session) {
		if s != nil {
			sess.sounds = s
		}
	}
}

// WithScores records victories in store.
func WithScores(store scores.Store) Option {
	return func(sess *Session) { sess.scores = store }
}

// WithMonitor shares a performance monitor with the session.
func WithMonitor(pm *monitoring.PerformanceMonitor) Option {
	return func(sess *Session) { sess.monitor = pm }
}

// WithPool casts wall rays on a shared worker pool.
func WithPool(pool *threading.WorkerPool) Option {
	return func(sess *Session) { sess.pool = pool }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(sess *Session) { sess.now = now }
}

// NewSession starts a session on the welcome screen.
func NewSession(cfg *config.Config, assets *Assets, opts ...Option) *Session {
	grid := assets.Map.Grid
	s := &Session{
		ID:     uuid.NewString(),
		config: cfg,
		grid:   grid,
		camera: &FirstPersonCamera{
			X:     cfg.Camera.StartX,
			Y:     cfg.Camera.StartY,
			Angle: cfg.Camera.StartAngle,
			FOV:   cfg.GetCameraFOV(),
		},
		sprites: sprites.NewCollection(assets.Map.SpritePositions, assets.Frames,
			cfg.Sprites.Scale, cfg.Sprites.FrameDuration),
		collision: collision.NewCollisionSystem(grid, grid.BlockSize()),
		sounds:    silentSounds{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.renderer = render.NewRenderer(cfg, assets.Textures)
	s.renderer.WallColor = assets.WallColor
	s.renderer.Monitor = s.monitor
	s.renderer.Pool = s.pool

	size := cfg.Movement.PlayerSize
	s.collision.RegisterEntity(collision.NewEntity(playerEntityID, s.camera.X, s.camera.Y, size, size,
		collision.CollisionTypePlayer, false))
	return s
}

// State returns the current phase.
func (s *Session) State() State { return s.state }

// Camera returns a copy of the camera.
func (s *Session) Camera() FirstPersonCamera { return *s.camera }

// SetPose moves the camera without collision, for snapshots.
func (s *Session) SetPose(x, y, angle float64) {
	s.camera.SetPosition(x, y)
	s.camera.Angle = 0
	s.camera.Rotate(angle)
	s.collision.UpdateEntity(playerEntityID, x, y)
}

// Sprites returns the session's sprite collection.
func (s *Session) Sprites() *sprites.Collection { return s.sprites }

// Renderer returns the session's renderer.
func (s *Session) Renderer() *render.Renderer { return s.renderer }

// TopDown reports whether the 2D map view is active.
func (s *Session) TopDown() bool { return s.topDown }

// Quit reports whether the player asked to leave.
func (s *Session) Quit() bool { return s.quit }

// Elapsed returns the play time so far, or the final time after victory.
func (s *Session) Elapsed() time.Duration {
	if s.state == StatePlaying {
		return s.now().Sub(s.started)
	}
	return s.elapsed
}

// Result returns the recorded victory, if any.
func (s *Session) Result() *scores.Entry { return s.result }

// Scene returns what the renderer draws for the current camera.
func (s *Session) Scene() render.Scene {
	return render.Scene{
		Grid:    s.grid,
		Camera:  s.camera.View(),
		Sprites: s.sprites,
	}
}

// Render draws the current view into sink: the first-person frame or the
// top-down map, then the minimap overlay.
func (s *Session) Render(sink render.PixelSink) {
	if s.monitor != nil {
		frameTimer := s.monitor.StartFrame()
		defer frameTimer.EndFrame()
	}

	scene := s.Scene()
	if s.topDown {
		s.renderer.DrawTopDown(sink, scene)
		return
	}
	s.renderer.Render(sink, scene)
	if s.config.Minimap.Enabled {
		s.renderer.DrawMinimap(sink, scene, s.config.Minimap.Size, s.config.Minimap.Margin)
	}
}

// StatusLines is the text a backend overlays on the frame.
func (s *Session) StatusLines() []string {
	switch s.state {
	case StateWelcome:
		return []string{
			"TOUCHDOWN",
			fmt.Sprintf("Collect all %d balls", s.sprites.Total()),
			"Press Enter to start",
		}
	case StateVictory:
		return []string{
			"VICTORY!",
			fmt.Sprintf("%d balls in %s", s.sprites.Total(), s.elapsed.Round(time.Second/10)),
			"Press Esc to quit",
		}
	default:
		mode := "3D"
		if s.topDown {
			mode = "2D"
		}
		return []string{
			fmt.Sprintf("Balls: %d/%d", s.sprites.Collected(), s.sprites.Total()),
			fmt.Sprintf("Time: %s  View: %s", s.Elapsed().Round(time.Second), mode),
		}
	}
}

func (s *Session) logf(format string, args ...any) {
	log.Printf("[Session %s] "+format, append([]any{s.ID[:8]}, args...)...)
}
