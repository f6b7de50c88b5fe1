package collision

import (
	"math"
	"testing"
)

// mockTileChecker marks tiles blocking from a string layout, '#' is a wall
type mockTileChecker struct {
	rows     []string
	tileSize float64
}

func (m *mockTileChecker) IsTileBlocking(tileX, tileY int) bool {
	if tileY < 0 || tileY >= len(m.rows) || tileX < 0 || tileX >= len(m.rows[tileY]) {
		return true
	}
	return m.rows[tileY][tileX] == '#'
}

func (m *mockTileChecker) GetWorldBounds() (float64, float64) {
	return float64(len(m.rows[0])) * m.tileSize, float64(len(m.rows)) * m.tileSize
}

func newTestSystem() *CollisionSystem {
	checker := &mockTileChecker{
		rows: []string{
			"#####",
			"#   #",
			"# # #",
			"#   #",
			"#####",
		},
		tileSize: 100,
	}
	cs := NewCollisionSystem(checker, 100)
	cs.RegisterEntity(NewEntity("player", 150, 150, 20, 20, CollisionTypePlayer, false))
	return cs
}

func TestCanMoveTo(t *testing.T) {
	cs := newTestSystem()

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"open floor", 160, 150, true},
		{"overlapping outer wall", 105, 150, false},
		{"inside pillar", 250, 250, false},
		{"touching pillar edge", 195, 250, false},
		{"just clear of pillar", 189, 150, true},
		{"outside world", -50, 150, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cs.CanMoveTo("player", tt.x, tt.y); got != tt.want {
				t.Errorf("CanMoveTo(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}

	if cs.CanMoveTo("ghost", 150, 150) {
		t.Error("unknown entity should not be able to move")
	}
}

func TestMoveWithSlidingAlongWall(t *testing.T) {
	cs := newTestSystem()

	// Diagonal step into the top wall keeps the horizontal component.
	x, y := cs.MoveWithSliding("player", 10, -50)
	if x != 160 || y != 150 {
		t.Errorf("expected slide to (160, 150), got (%v, %v)", x, y)
	}

	// Diagonal step into the left wall keeps the vertical component.
	x, y = cs.MoveWithSliding("player", -60, 10)
	if x != 160 || y != 160 {
		t.Errorf("expected slide to (160, 160), got (%v, %v)", x, y)
	}

	entity := cs.GetEntityByID("player")
	if entity.BoundingBox.X != x || entity.BoundingBox.Y != y {
		t.Error("entity bounding box not updated after move")
	}
}

func TestMoveWithSlidingBlocked(t *testing.T) {
	cs := newTestSystem()

	x, y := cs.MoveWithSliding("player", -45, -45)
	if x != 150 || y != 150 {
		t.Errorf("corner move should be blocked, got (%v, %v)", x, y)
	}
}

func TestSolidEntitiesBlockMovement(t *testing.T) {
	cs := newTestSystem()
	cs.RegisterEntity(NewEntity("crate", 150, 350, 40, 40, CollisionTypeObstacle, true))

	if cs.CanMoveTo("player", 150, 330) {
		t.Error("player should not overlap a solid entity")
	}

	cs.UpdateEntity("crate", 350, 350)
	if !cs.CanMoveTo("player", 150, 330) {
		t.Error("player should move once the entity has gone")
	}

	cs.UnregisterEntity("crate")
	if cs.GetEntityByID("crate") != nil {
		t.Error("entity still registered after UnregisterEntity")
	}
}

func TestBoundingBox(t *testing.T) {
	a := NewBoundingBox(0, 0, 10, 10)
	b := NewBoundingBox(8, 0, 10, 10)
	c := NewBoundingBox(20, 0, 10, 10)

	if !a.Intersects(b) {
		t.Error("expected overlapping boxes to intersect")
	}
	if a.Intersects(c) {
		t.Error("expected distant boxes not to intersect")
	}

	minX, minY, maxX, maxY := a.GetBounds()
	if minX != -5 || minY != -5 || maxX != 5 || maxY != 5 {
		t.Errorf("unexpected bounds (%v, %v, %v, %v)", minX, minY, maxX, maxY)
	}

	a.MoveTo(3, 4)
	if d := a.DistanceTo(0, 0); math.Abs(d-5) > 1e-9 {
		t.Errorf("DistanceTo = %v, want 5", d)
	}
}
