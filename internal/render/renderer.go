package render

import (
	"image/color"
	"math"
	"touchdown/internal/config"
	"touchdown/internal/graphics"
	"touchdown/internal/mathutil"
	"touchdown/internal/monitoring"
	"touchdown/internal/raycast"
	"touchdown/internal/threading"
	"touchdown/internal/world"
)

// Camera is the viewpoint of a frame.
type Camera struct {
	X, Y  float64
	Angle float64
	FOV   float64
}

// Billboard is a sprite as the renderer sees it.
type Billboard struct {
	X, Y  float64
	Scale float64
	Frame *graphics.Frame
}

// SpriteSource lists the sprites that are still in play.
type SpriteSource interface {
	ActiveSprites() []Billboard
}

// TextureSource resolves wall, floor and sky textures. Sky may return nil.
type TextureSource interface {
	Wall(kind world.WallKind) *graphics.Texture
	Floor() *graphics.Texture
	Sky() *graphics.Texture
}

// Scene is everything one frame reads.
type Scene struct {
	Grid    *world.Grid
	Camera  Camera
	Sprites SpriteSource
}

// Options are the projection constants.
type Options struct {
	ProjectionDistance float64
	WallHeightFactor   float64
	SideShade          float64

	EyeHeight          float64
	FloorTextureScale  float64
	FloorFadeDistance  float64
	FloorMinBrightness float64

	SpriteNear         float64
	SpriteFar          float64
	SpriteProjection   float64
	SpriteHeightFactor float64
	SpriteAspect       float64
	AlphaThreshold     uint8

	SkyColor    color.RGBA
	GroundColor color.RGBA
	Textured    bool
}

// OptionsFromConfig copies the render section of the configuration.
func OptionsFromConfig(rc config.RenderConfig) Options {
	return Options{
		ProjectionDistance: rc.ProjectionDistance,
		WallHeightFactor:   rc.WallHeightFactor,
		SideShade:          rc.SideShade,
		EyeHeight:          rc.EyeHeight,
		FloorTextureScale:  rc.FloorTextureScale,
		FloorFadeDistance:  rc.FloorFadeDistance,
		FloorMinBrightness: rc.FloorMinBrightness,
		SpriteNear:         rc.SpriteNear,
		SpriteFar:          rc.SpriteFar,
		SpriteProjection:   rc.SpriteProjection,
		SpriteHeightFactor: rc.SpriteHeightFactor,
		SpriteAspect:       rc.SpriteAspect,
		AlphaThreshold:     rc.AlphaThreshold,
		SkyColor:           graphics.RGB(rc.SkyColor),
		GroundColor:        graphics.RGB(rc.GroundColor),
		Textured:           rc.Textured,
	}
}

// DefaultOptions returns the options of config.Default.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default().Render)
}

// FrameStats describes what the last frame drew.
type FrameStats struct {
	WallColumns  int
	FloorPixels  int
	SpritesDrawn int
	SpritePixels int
}

// Renderer draws frames. It is not safe for concurrent use; give each
// goroutine its own.
type Renderer struct {
	Caster   raycast.Caster
	Textures TextureSource
	Options  Options
	// WallColor gives the flat colour of a kind when Options.Textured is off.
	WallColor func(kind world.WallKind) color.RGBA
	Monitor   *monitoring.PerformanceMonitor
	// Pool, when set, casts the wall rays in parallel. It may be shared.
	Pool *threading.WorkerPool

	stats FrameStats

	// per-column ray cache, rebuilt every frame
	rayAngles []float64
	rayCos    []float64
	raySin    []float64
	hits      []raycast.Hit
}

// NewRenderer creates a renderer from the configuration.
func NewRenderer(cfg *config.Config, textures TextureSource) *Renderer {
	return &Renderer{
		Caster:   raycast.NewCaster(cfg.Render.RayStep, cfg.Render.MaxRayDistance),
		Textures: textures,
		Options:  OptionsFromConfig(cfg.Render),
	}
}

// Stats returns the counters of the last Render call.
func (r *Renderer) Stats() FrameStats {
	return r.stats
}

// Render paints one frame: sky, floor, walls, then sprites. The returned
// depth buffer belongs to this frame only.
func (r *Renderer) Render(sink PixelSink, scene Scene) *DepthBuffer {
	w, h := sink.Size()
	depth := NewDepthBuffer(w, h)
	r.stats = FrameStats{}
	if w <= 0 || h <= 0 || scene.Grid == nil {
		return depth
	}
	r.precomputeRayDirections(scene.Camera, w)

	r.profile(monitoring.PassSky, func() {
		fillRect(sink, 0, 0, w, h, r.Options.GroundColor)
		r.drawSky(sink, w, h)
	})
	r.profile(monitoring.PassFloor, func() { r.drawFloor(sink, scene.Camera, w, h) })
	r.profile(monitoring.PassWalls, func() { r.drawWalls(sink, depth, scene, w, h) })
	r.profile(monitoring.PassSprites, func() {
		if scene.Sprites != nil {
			r.drawSprites(sink, depth, scene.Camera, scene.Sprites.ActiveSprites(), w, h)
		}
	})

	if r.Monitor != nil {
		r.Monitor.UpdateSpriteMetrics(r.stats.SpritesDrawn, uint64(r.stats.SpritePixels))
	}
	return depth
}

func (r *Renderer) profile(pass string, fn func()) {
	if r.Monitor == nil {
		fn()
		return
	}
	r.Monitor.ProfiledFunction(pass, fn)
}

// precomputeRayDirections caches the angle, cos and sin of every column.
func (r *Renderer) precomputeRayDirections(cam Camera, width int) {
	if cap(r.rayAngles) < width {
		r.rayAngles = make([]float64, width)
		r.rayCos = make([]float64, width)
		r.raySin = make([]float64, width)
	}
	r.rayAngles = r.rayAngles[:width]
	r.rayCos = r.rayCos[:width]
	r.raySin = r.raySin[:width]
	for i := 0; i < width; i++ {
		a := raycast.ColumnAngle(cam.Angle, cam.FOV, i, width)
		r.rayAngles[i] = a
		r.rayCos[i] = math.Cos(a)
		r.raySin[i] = math.Sin(a)
	}
}

func (r *Renderer) textured() bool {
	return r.Options.Textured && r.Textures != nil
}

// drawSky fills the rows above the horizon, from the panoramic sky texture
// when there is one.
func (r *Renderer) drawSky(sink PixelSink, w, h int) {
	horizon := h / 2
	var sky *graphics.Texture
	if r.textured() {
		sky = r.Textures.Sky()
	}
	if sky == nil {
		fillRect(sink, 0, 0, w, horizon, r.Options.SkyColor)
		return
	}
	for x := 0; x < w; x++ {
		u := mathutil.NormalizeAngle(r.rayAngles[x]) / (2 * math.Pi)
		for y := 0; y < horizon; y++ {
			sink.SetColor(sky.Sample(u, float64(y)/float64(horizon)))
			sink.SetPixel(x, y)
		}
	}
}

// FloorTexCoord returns the tiled floor texture coordinate of a world point.
func FloorTexCoord(worldX, worldY, scale float64) (u, v float64) {
	return mathutil.Fract(worldX / scale), mathutil.Fract(worldY / scale)
}

// FloorBrightness is the darkening applied at a floor distance.
func (o Options) FloorBrightness(distance float64) float64 {
	fade := 1.0
	if o.FloorFadeDistance > 0 {
		fade = math.Min(distance/o.FloorFadeDistance, 1)
	}
	return (1-fade)*(1-o.FloorMinBrightness) + o.FloorMinBrightness
}

// drawFloor inverse-projects every pixel below the horizon onto the ground
// plane. Untextured frames keep the solid ground colour.
func (r *Renderer) drawFloor(sink PixelSink, cam Camera, w, h int) {
	if !r.textured() {
		return
	}
	floor := r.Textures.Floor()
	if floor == nil {
		return
	}
	hh := float64(h) / 2
	scale := r.Options.FloorTextureScale
	if scale <= 0 {
		scale = 64
	}

	for y := h / 2; y < h; y++ {
		vertical := float64(y) - hh
		if vertical <= 0 {
			continue
		}
		distance := r.Options.EyeHeight / vertical * hh
		brightness := r.Options.FloorBrightness(distance)
		for x := 0; x < w; x++ {
			wx := cam.X + distance*r.rayCos[x]
			wy := cam.Y + distance*r.raySin[x]
			u, v := FloorTexCoord(wx, wy, scale)
			sink.SetColor(graphics.Shade(floor.Sample(u, v), brightness))
			sink.SetPixel(x, y)
			r.stats.FloorPixels++
		}
	}
}
