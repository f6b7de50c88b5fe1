package render

import (
	"image/color"
	"math"
	"testing"
	"touchdown/internal/graphics"
	"touchdown/internal/monitoring"
	"touchdown/internal/raycast"
	"touchdown/internal/threading"
	"touchdown/internal/world"
)

var (
	testSky    = color.RGBA{10, 20, 30, 255}
	testGround = color.RGBA{0, 90, 0, 255}
	testWall   = color.RGBA{200, 0, 0, 255}
	red        = color.RGBA{255, 0, 0, 255}
	blue       = color.RGBA{0, 0, 255, 255}
)

// staticSprites implements SpriteSource for testing
type staticSprites []Billboard

func (s staticSprites) ActiveSprites() []Billboard { return s }

func solidFrame(c color.RGBA) *graphics.Frame {
	var f graphics.Frame
	for i := range f {
		f[i] = c
	}
	return &f
}

func testGrid(t *testing.T, lines ...string) *world.Grid {
	t.Helper()
	layout, err := world.ParseLayout(lines)
	if err != nil {
		t.Fatalf("ParseLayout: %v", err)
	}
	g, err := world.NewGrid(layout, 100, nil)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

func flatRenderer() *Renderer {
	opts := DefaultOptions()
	opts.Textured = false
	opts.SkyColor = testSky
	opts.GroundColor = testGround
	return &Renderer{
		Caster:    raycast.NewCaster(0.5, 2000),
		Options:   opts,
		WallColor: func(world.WallKind) color.RGBA { return testWall },
	}
}

func TestSpriteDepthOcclusion(t *testing.T) {
	cam := Camera{X: 0, Y: 0, Angle: 0, FOV: math.Pi / 3}

	tests := []struct {
		name     string
		spriteX  float64
		wantDraw bool
	}{
		{"behind wall", 150, false},
		{"in front of wall", 50, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := flatRenderer()
			fb := NewFramebuffer(100, 100)
			fb.Clear(testSky)
			depth := NewDepthBuffer(100, 100)
			for y := 0; y < 100; y++ {
				for x := 0; x < 100; x++ {
					depth.Set(x, y, 100)
				}
			}

			sprites := []Billboard{{X: tt.spriteX, Y: 0, Scale: 1, Frame: solidFrame(red)}}
			r.drawSprites(fb, depth, cam, sprites, 100, 100)

			got := fb.At(50, 50) == red
			if got != tt.wantDraw {
				t.Errorf("sprite drawn = %v, want %v (pixels %d)", got, tt.wantDraw, r.stats.SpritePixels)
			}
			if !tt.wantDraw && r.stats.SpritePixels != 0 {
				t.Errorf("occluded sprite wrote %d pixels", r.stats.SpritePixels)
			}
			if depth.At(50, 50) != 100 {
				t.Errorf("sprites must not write depth, got %v", depth.At(50, 50))
			}
		})
	}
}

func TestSpritePainterOrder(t *testing.T) {
	r := flatRenderer()
	cam := Camera{FOV: math.Pi / 3}
	fb := NewFramebuffer(100, 100)
	depth := NewDepthBuffer(100, 100)

	// nearest first in the source; painting must still end with it on top
	sprites := []Billboard{
		{X: 100, Y: 0, Scale: 1, Frame: solidFrame(blue)},
		{X: 200, Y: 0, Scale: 1, Frame: solidFrame(red)},
	}
	r.drawSprites(fb, depth, cam, sprites, 100, 100)

	if got := fb.At(50, 50); got != blue {
		t.Errorf("centre pixel = %v, want the nearer sprite's colour", got)
	}
	if r.stats.SpritesDrawn != 2 {
		t.Errorf("sprites drawn = %d, want 2", r.stats.SpritesDrawn)
	}
}

func TestSortFarToNearIsStable(t *testing.T) {
	cam := Camera{}
	in := []Billboard{
		{X: 10, Scale: 1},
		{X: 0, Y: 10, Scale: 2},
		{X: 30, Scale: 3},
	}
	out := sortFarToNear(cam, in)
	want := []float64{3, 1, 2}
	for i := range want {
		if out[i].Scale != want[i] {
			t.Fatalf("order = %v, want scales %v", out, want)
		}
	}
}

func TestProjectSprite(t *testing.T) {
	opts := DefaultOptions()
	cam := Camera{FOV: math.Pi / 3}
	frame := solidFrame(red)

	tests := []struct {
		name string
		b    Billboard
		ok   bool
	}{
		{"ahead", Billboard{X: 200, Scale: 0.5, Frame: frame}, true},
		{"behind", Billboard{X: -200, Scale: 0.5, Frame: frame}, false},
		{"too close", Billboard{X: 10, Scale: 0.5, Frame: frame}, false},
		{"too far", Billboard{X: 900, Scale: 0.5, Frame: frame}, false},
		{"off screen", Billboard{X: 50, Y: 300, Scale: 0.5, Frame: frame}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := opts.ProjectSprite(cam, tt.b, 320, 200); ok != tt.ok {
				t.Errorf("ok = %v, want %v", ok, tt.ok)
			}
		})
	}

	left, _ := opts.ProjectSprite(cam, Billboard{X: 200, Y: -40, Scale: 0.5, Frame: frame}, 320, 200)
	right, _ := opts.ProjectSprite(cam, Billboard{X: 200, Y: 40, Scale: 0.5, Frame: frame}, 320, 200)
	if !(left.StartX < 160 && right.StartX > left.StartX) {
		t.Errorf("lateral offset not mapped to screen side: left %+v right %+v", left, right)
	}
	if left.Depth != 200 {
		t.Errorf("depth = %v, want camera-space forward 200", left.Depth)
	}
}

func TestFloorTexCoordPeriodic(t *testing.T) {
	const scale = 64
	for _, p := range [][2]float64{{128, 64}, {0, 0}, {-64, 192}, {13.5, -7.25}} {
		u1, v1 := FloorTexCoord(p[0], p[1], scale)
		u2, v2 := FloorTexCoord(p[0]+scale, p[1]+scale, scale)
		if math.Abs(u1-u2) > 1e-9 || math.Abs(v1-v2) > 1e-9 {
			t.Errorf("(%v,%v): (%v,%v) != (%v,%v)", p[0], p[1], u1, v1, u2, v2)
		}
		if u1 < 0 || u1 >= 1 || v1 < 0 || v1 >= 1 {
			t.Errorf("coordinate out of [0,1): %v %v", u1, v1)
		}
	}
}

func TestFloorBrightness(t *testing.T) {
	opts := DefaultOptions()
	if got := opts.FloorBrightness(0); math.Abs(got-1) > 1e-9 {
		t.Errorf("brightness at 0 = %v", got)
	}
	if got := opts.FloorBrightness(400); math.Abs(got-0.85) > 1e-9 {
		t.Errorf("brightness at 400 = %v, want 0.85", got)
	}
	if got := opts.FloorBrightness(5000); math.Abs(got-0.7) > 1e-9 {
		t.Errorf("brightness far away = %v, want 0.7", got)
	}
}

func TestSlabHalfHeight(t *testing.T) {
	opts := DefaultOptions()
	tests := []struct {
		name      string
		corrected float64
		ok        bool
	}{
		{"zero", 0, false},
		{"negative", -5, false},
		{"nan", math.NaN(), false},
		{"too far to cover a row", 1e9, false},
		// 325/c * 250 * 0.65 rows: about 1.5 rows here, 2.03 rows below
		{"under two rows", 35000, false},
		{"two rows", 26000, true},
		{"normal", 200, true},
		{"touching", 1e-12, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			half, ok := opts.SlabHalfHeight(tt.corrected, 325)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v (half %d)", ok, tt.ok, half)
			}
			if ok && (half <= 0 || half > maxSlabHalf) {
				t.Errorf("half = %d", half)
			}
		})
	}
}

func TestEndToEndSingleWallSlab(t *testing.T) {
	g := testGrid(t,
		"   ",
		" # ",
		"   ",
	)
	r := flatRenderer()
	r.Options.ProjectionDistance = 50
	r.Options.WallHeightFactor = 1
	r.Options.SideShade = 1

	const height = 200
	fb := NewFramebuffer(1, height)
	behind := staticSprites{{X: 10, Y: 10, Scale: 1, Frame: solidFrame(red)}}
	scene := Scene{
		Grid:    g,
		Camera:  Camera{X: 50, Y: 50, Angle: math.Pi / 4, FOV: 0.01},
		Sprites: behind,
	}
	depth := r.Render(fb, scene)

	top, bottom := -1, -1
	for y := 0; y < height; y++ {
		if fb.At(0, y) == testWall {
			if top < 0 {
				top = y
			}
			bottom = y + 1
		}
	}
	if top < 0 {
		t.Fatal("no wall pixels drawn")
	}
	for y := top; y < bottom; y++ {
		if fb.At(0, y) != testWall {
			t.Fatalf("slab not contiguous at row %d", y)
		}
		if math.IsInf(depth.At(0, y), 1) {
			t.Fatalf("no depth written at row %d", y)
		}
	}
	if top+bottom != height {
		t.Errorf("slab [%d,%d) not symmetric about the horizon %d", top, bottom, height/2)
	}
	if top == 0 {
		t.Errorf("slab should not fill the column for this projection")
	}
	if fb.At(0, 0) != testSky || fb.At(0, height-1) != testGround {
		t.Errorf("sky/ground = %v/%v", fb.At(0, 0), fb.At(0, height-1))
	}
	if !math.IsInf(depth.At(0, 0), 1) {
		t.Errorf("depth above the slab = %v, want +Inf", depth.At(0, 0))
	}

	stats := r.Stats()
	if stats.WallColumns != 1 || stats.SpritePixels != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestVoidColumnsWriteNoDepth(t *testing.T) {
	g := testGrid(t,
		"   ",
		"   ",
		"   ",
	)
	r := flatRenderer()
	fb := NewFramebuffer(16, 16)
	depth := r.Render(fb, Scene{Grid: g, Camera: Camera{X: 150, Y: 150, FOV: math.Pi / 3}})

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if !math.IsInf(depth.At(x, y), 1) {
				t.Fatalf("depth written at (%d,%d) with no wall in view", x, y)
			}
		}
	}
	if r.Stats().WallColumns != 0 {
		t.Errorf("wall columns = %d", r.Stats().WallColumns)
	}
}

// textures implements TextureSource for testing
type textures struct {
	wall, floor, sky *graphics.Texture
}

func (tx textures) Wall(world.WallKind) *graphics.Texture { return tx.wall }
func (tx textures) Floor() *graphics.Texture              { return tx.floor }
func (tx textures) Sky() *graphics.Texture                { return tx.sky }

func TestTexturedFrame(t *testing.T) {
	g := testGrid(t,
		"#####",
		"#   #",
		"#   #",
		"#   #",
		"#####",
	)
	wall := graphics.SolidTexture(color.RGBA{100, 100, 100, 255})
	floor := graphics.SolidTexture(color.RGBA{0, 200, 0, 255})
	sky := graphics.SolidTexture(color.RGBA{1, 2, 250, 255})

	r := &Renderer{
		Caster:   raycast.NewCaster(0.5, 2000),
		Textures: textures{wall: wall, floor: floor, sky: sky},
		Options:  DefaultOptions(),
		Monitor:  monitoring.NewPerformanceMonitor(),
	}
	fb := NewFramebuffer(64, 40)
	sprites := staticSprites{{X: 350, Y: 250, Scale: 0.5, Frame: solidFrame(red)}}
	r.Render(fb, Scene{
		Grid:    g,
		Camera:  Camera{X: 150, Y: 250, Angle: 0, FOV: math.Pi / 3},
		Sprites: sprites,
	})

	if got := fb.At(0, 0); got != (color.RGBA{1, 2, 250, 255}) {
		t.Errorf("sky pixel = %v", got)
	}
	bottom := fb.At(32, 39)
	if bottom.G == 0 || bottom.R != 0 {
		t.Errorf("floor pixel = %v", bottom)
	}
	if r.Stats().WallColumns != 64 {
		t.Errorf("wall columns = %d, want every column", r.Stats().WallColumns)
	}
	if r.Stats().SpritesDrawn != 1 || fb.At(32, 20) != red {
		t.Errorf("sprite not drawn in front of the far wall: %+v centre %v", r.Stats(), fb.At(32, 20))
	}
	if m := r.Monitor.GetCurrentMetrics(); m.SpritesDrawn != 1 {
		t.Errorf("monitor sprites drawn = %d", m.SpritesDrawn)
	}
}

func TestPooledRenderMatchesSerial(t *testing.T) {
	g := testGrid(t,
		"#####",
		"# # #",
		"#   #",
		"#  ##",
		"#####",
	)
	pool := threading.NewWorkerPool(4)
	pool.Start()
	defer pool.Stop()

	scene := Scene{
		Grid:    g,
		Camera:  Camera{X: 150, Y: 250, Angle: 0.3, FOV: math.Pi / 3},
		Sprites: staticSprites{{X: 250, Y: 250, Scale: 0.5, Frame: solidFrame(blue)}},
	}
	serial := flatRenderer()
	pooled := flatRenderer()
	pooled.Pool = pool

	want := NewFramebuffer(120, 60)
	got := NewFramebuffer(120, 60)
	serial.Render(want, scene)
	for i := 0; i < 3; i++ {
		pooled.Render(got, scene)
	}
	for y := 0; y < 60; y++ {
		for x := 0; x < 120; x++ {
			if want.At(x, y) != got.At(x, y) {
				t.Fatalf("pixel (%d,%d) = %v, serial %v", x, y, got.At(x, y), want.At(x, y))
			}
		}
	}
	if serial.Stats() != pooled.Stats() {
		t.Errorf("stats = %+v, serial %+v", pooled.Stats(), serial.Stats())
	}
}

func TestDrawMinimap(t *testing.T) {
	g := testGrid(t,
		"###",
		"# #",
		"###",
	)
	r := flatRenderer()
	fb := NewFramebuffer(100, 80)
	fb.Clear(color.RGBA{0, 0, 0, 255})
	scene := Scene{
		Grid:    g,
		Camera:  Camera{X: 150, Y: 150, FOV: math.Pi / 3},
		Sprites: staticSprites{{X: 120, Y: 170, Frame: solidFrame(red)}},
	}
	r.DrawMinimap(fb, scene, 30, 10)

	left, top := 100-30-10, 10
	if fb.At(left, top) != minimapBorder || fb.At(left+29, top+29) != minimapBorder {
		t.Error("minimap border missing")
	}
	if fb.At(left+5, top+5) != testWall {
		t.Errorf("wall cell = %v", fb.At(left+5, top+5))
	}
	if fb.At(left+15, top+15) != markerGold {
		t.Errorf("player marker = %v", fb.At(left+15, top+15))
	}
	if fb.At(5, 5) != (color.RGBA{0, 0, 0, 255}) {
		t.Error("minimap drew outside its square")
	}
}

func TestDrawTopDown(t *testing.T) {
	g := testGrid(t,
		"###",
		"# #",
		"###",
	)
	r := flatRenderer()
	fb := NewFramebuffer(30, 30)
	r.DrawTopDown(fb, Scene{Grid: g, Camera: Camera{X: 150, Y: 150, FOV: math.Pi / 3}})

	if fb.At(0, 0) != testWall {
		t.Errorf("corner cell = %v", fb.At(0, 0))
	}
	if fb.At(15, 15) != markerGold {
		t.Errorf("camera marker = %v", fb.At(15, 15))
	}
	// rays run east from the centre towards the wall
	if fb.At(18, 15) == (color.RGBA{0, 0, 0, 255}) {
		t.Error("no debug ray drawn towards the east wall")
	}
}

func TestFramebufferIgnoresOutOfRange(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	fb.SetColor(red)
	fb.SetPixel(-1, 0)
	fb.SetPixel(4, 4)
	fb.SetPixel(2, 3)
	if fb.At(2, 3) != red {
		t.Error("in-range pixel not set")
	}
	if len(fb.Pixels()) != 4*4*4 {
		t.Errorf("pixel bytes = %d", len(fb.Pixels()))
	}
}

func TestWallSideShading(t *testing.T) {
	g := testGrid(t,
		"#####",
		"#   #",
		"#   #",
		"#   #",
		"#####",
	)
	wall := color.RGBA{200, 100, 50, 255}
	shaded := graphics.Shade(wall, DefaultOptions().SideShade)
	if shaded == wall {
		t.Fatal("side shade leaves the colour unchanged")
	}

	tests := []struct {
		name  string
		angle float64
		want  color.RGBA
	}{
		// the east wall is crossed through its x face
		{"east wall", 0, shaded},
		{"south wall", math.Pi / 2, wall},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Renderer{
				Caster:   raycast.NewCaster(0.5, 2000),
				Textures: textures{wall: graphics.SolidTexture(wall)},
				Options:  DefaultOptions(),
			}
			fb := NewFramebuffer(1, 40)
			r.Render(fb, Scene{Grid: g, Camera: Camera{X: 250, Y: 250, Angle: tt.angle, FOV: 0.01}})
			if got := fb.At(0, 20); got != tt.want {
				t.Errorf("wall pixel = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpriteAlphaThreshold(t *testing.T) {
	g := testGrid(t,
		"   ",
		"   ",
		"   ",
	)
	cam := Camera{X: 50, Y: 150, Angle: 0, FOV: math.Pi / 3}

	// left quarter of the frame sits exactly on the threshold
	var frame graphics.Frame
	for y := 0; y < graphics.FrameSize; y++ {
		for x := 0; x < graphics.FrameSize; x++ {
			if x < graphics.FrameSize/4 {
				frame.Set(x, y, color.RGBA{255, 0, 0, 128})
			} else {
				frame.Set(x, y, color.RGBA{0, 0, 255, 129})
			}
		}
	}

	bare := NewFramebuffer(64, 64)
	flatRenderer().Render(bare, Scene{Grid: g, Camera: cam})

	r := flatRenderer()
	fb := NewFramebuffer(64, 64)
	r.Render(fb, Scene{
		Grid:    g,
		Camera:  cam,
		Sprites: staticSprites{{X: 150, Y: 150, Scale: 1, Frame: &frame}},
	})

	q, ok := r.Options.ProjectSprite(cam, Billboard{X: 150, Y: 150, Scale: 1}, 64, 64)
	if !ok || q.StartX != 19 || q.EndX != 44 || q.StartY != 16 || q.EndY != 47 {
		t.Fatalf("quad = %+v ok %v", q, ok)
	}
	// column 25 samples texel 15, column 38 samples texel 48
	if got := fb.At(25, 40); got != bare.At(25, 40) {
		t.Errorf("alpha 128 texel drawn: %v", got)
	}
	if got := fb.At(38, 40); got != blue {
		t.Errorf("alpha 129 texel = %v, want %v", got, blue)
	}
	if r.Stats().SpritesDrawn != 1 {
		t.Errorf("sprites drawn = %d", r.Stats().SpritesDrawn)
	}
}

func TestDrawMinimapShrinksToFit(t *testing.T) {
	g := testGrid(t,
		"###",
		"# #",
		"###",
	)
	r := flatRenderer()
	fb := NewFramebuffer(60, 40)
	fb.Clear(color.RGBA{0, 0, 0, 255})
	r.DrawMinimap(fb, Scene{Grid: g, Camera: Camera{X: 150, Y: 150, FOV: math.Pi / 3}}, 200, 5)

	// 40 rows less two margins leaves a 30 px square
	left, top := 60-30-5, 5
	if fb.At(left, top) != minimapBorder || fb.At(left+29, top+29) != minimapBorder {
		t.Error("minimap border missing")
	}
	if fb.At(left-1, top) != (color.RGBA{0, 0, 0, 255}) || fb.At(left, top+30) != (color.RGBA{0, 0, 0, 255}) {
		t.Error("minimap drew outside its square")
	}
	if fb.At(left+15, top+15) != markerGold {
		t.Errorf("player marker = %v", fb.At(left+15, top+15))
	}
}

func TestMapViewsSkipNonFiniteCamera(t *testing.T) {
	g := testGrid(t,
		"###",
		"# #",
		"###",
	)
	cams := []Camera{
		{X: 150, Y: 150, Angle: math.NaN(), FOV: math.Pi / 3},
		{X: math.NaN(), Y: 150, FOV: math.Pi / 3},
		{X: 150, Y: math.Inf(1), Angle: math.Inf(-1), FOV: math.Pi / 3},
	}
	for _, cam := range cams {
		r := flatRenderer()
		mini := NewFramebuffer(320, 200)
		r.DrawMinimap(mini, Scene{Grid: g, Camera: cam}, 200, 10)
		if mini.At(320-180-10, 10) != minimapBorder {
			t.Errorf("camera %+v: minimap border missing", cam)
		}

		top := NewFramebuffer(30, 30)
		r.DrawTopDown(top, Scene{Grid: g, Camera: cam})
		if top.At(0, 0) != testWall {
			t.Errorf("camera %+v: corner cell = %v", cam, top.At(0, 0))
		}
	}
}

// countingSink records every SetPixel call on top of a framebuffer.
type countingSink struct {
	*Framebuffer
	calls int
}

func (s *countingSink) SetPixel(x, y int) {
	s.calls++
	s.Framebuffer.SetPixel(x, y)
}

func TestDrawLineClipsToSink(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 float64
		wantCalls      int
	}{
		{"huge horizontal", -1e18, 5, 1e18, 5, 10},
		{"inside diagonal", 0, 0, 9, 9, 10},
		{"outside", 20, 20, 40, 40, 0},
		{"nan endpoint", math.NaN(), 0, 5, 5, 0},
		{"infinite endpoint", 0, 0, math.Inf(1), 5, 0},
		{"overflowing span", -math.MaxFloat64, 5, math.MaxFloat64, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &countingSink{Framebuffer: NewFramebuffer(10, 10)}
			drawLine(sink, tt.x0, tt.y0, tt.x1, tt.y1, red)
			if sink.calls != tt.wantCalls {
				t.Errorf("SetPixel calls = %d, want %d", sink.calls, tt.wantCalls)
			}
		})
	}

	sink := &countingSink{Framebuffer: NewFramebuffer(10, 10)}
	drawLine(sink, -1e18, 5, 1e18, 5, red)
	for x := 0; x < 10; x++ {
		if sink.At(x, 5) != red {
			t.Fatalf("pixel (%d,5) not drawn", x)
		}
	}
}
