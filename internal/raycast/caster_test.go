package raycast

import (
	"math"
	"strings"
	"testing"
	"touchdown/internal/world"
)

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

func TestCastMonotonicity(t *testing.T) {
	g := testGrid(t,
		"#####",
		"#   #",
		"#   #",
		"#   #",
		"#####",
	)
	c := NewCaster(0.5, 2000)
	wall := g.At(0, 0)

	tests := []struct {
		name  string
		angle float64
		want  float64 // distance to the wall face
		face  Face
	}{
		{"east", 0, 250, FaceY},
		{"south", math.Pi / 2, 250, FaceX},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := c.Cast(g, 150, 150, tt.angle)
			if hit.Void {
				t.Fatal("unexpected void hit")
			}
			if hit.Kind != wall {
				t.Errorf("kind = %v, want %v", hit.Kind, wall)
			}
			if hit.Distance < tt.want-c.Step || hit.Distance > tt.want {
				t.Errorf("distance = %v, want within [%v, %v]", hit.Distance, tt.want-c.Step, tt.want)
			}
			if hit.Face != tt.face {
				t.Errorf("face = %v, want %v", hit.Face, tt.face)
			}
		})
	}
}

func TestCastErrorWithinOneStep(t *testing.T) {
	g := testGrid(t,
		"#####",
		"#   #",
		"#   #",
		"#   #",
		"#####",
	)
	c := NewCaster(0.5, 2000)

	// every wall face is 150 units from the centre of cell (2,2)
	for _, angle := range []float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2} {
		hit := c.Cast(g, 250, 250, angle)
		if math.Abs(hit.Distance-150) > c.Step {
			t.Errorf("angle %v: distance %v not within a step of 150", angle, hit.Distance)
		}
	}
}

func TestCastOutOfBounds(t *testing.T) {
	g := testGrid(t,
		"   ",
		"   ",
		"   ",
	)
	c := NewCaster(0.5, 2000)
	maxSteps := int(c.MaxDistance / c.Step)

	for i := 0; i < 64; i++ {
		angle := 2 * math.Pi * float64(i) / 64
		hit := c.Cast(g, 150, 150, angle)
		if !hit.Void || hit.Kind != world.KindVoid {
			t.Fatalf("angle %v: expected void hit, got %+v", angle, hit)
		}
		if hit.Distance > float64(maxSteps)*c.Step {
			t.Fatalf("angle %v: distance %v beyond ceiling", angle, hit.Distance)
		}
		// a 3x3 open grid is left within ~1.5 cells of its centre
		if hit.Distance > 150*math.Sqrt2+c.Step {
			t.Errorf("angle %v: left the grid late at %v", angle, hit.Distance)
		}
	}
}

func TestCastDistanceCeiling(t *testing.T) {
	rows := make([]string, 40)
	for i := range rows {
		rows[i] = strings.Repeat(" ", 40)
	}
	g := testGrid(t, rows...)

	c := Caster{Step: 0.5, MaxDistance: 100}
	hit := c.Cast(g, 2000, 2000, 0.3)
	if !hit.Void {
		t.Fatal("expected void hit at the ceiling")
	}
	if hit.Distance != 100 {
		t.Errorf("distance = %v, want 100", hit.Distance)
	}
}

func TestCastStartingInsideWall(t *testing.T) {
	g := testGrid(t, "##", "##")
	hit := NewCaster(0, 0).Cast(g, 50, 50, 1)
	if hit.Void || hit.Distance != 0 {
		t.Errorf("expected immediate hit, got %+v", hit)
	}
}

func TestCorrectDistanceCentralRay(t *testing.T) {
	for _, camera := range []float64{0, 0.7, math.Pi / 3, 5} {
		if got := CorrectDistance(123.5, camera, camera); got != 123.5 {
			t.Errorf("camera %v: corrected = %v, want raw distance", camera, got)
		}
	}
	off := CorrectDistance(100, math.Pi/3, 0)
	if math.Abs(off-50) > 1e-9 {
		t.Errorf("60 degree offset: corrected = %v, want 50", off)
	}
}

func TestColumnAngle(t *testing.T) {
	fov := math.Pi / 3
	if got := ColumnAngle(1, fov, 0, 100); math.Abs(got-(1-fov/2)) > 1e-12 {
		t.Errorf("first column = %v", got)
	}
	if got := ColumnAngle(1, fov, 50, 100); math.Abs(got-1) > 1e-12 {
		t.Errorf("middle column = %v", got)
	}
	if got := ColumnAngle(1, fov, 0, 0); got != 1 {
		t.Errorf("zero width = %v", got)
	}
}

func TestTextureU(t *testing.T) {
	h := Hit{X: 425, Y: 310, Face: FaceX}
	if got := h.TextureU(100); math.Abs(got-0.25) > 1e-12 {
		t.Errorf("x face u = %v", got)
	}
	h.Face = FaceY
	if got := h.TextureU(100); math.Abs(got-0.1) > 1e-9 {
		t.Errorf("y face u = %v", got)
	}
}
