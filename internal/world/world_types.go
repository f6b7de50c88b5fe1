package world

// WallKind identifies what occupies a grid cell. Every kind other than
// KindEmpty is a solid wall; KindVoid is reported for positions outside the
// grid and never stored in one.
type WallKind int

const (
	KindVoid  WallKind = -1
	KindEmpty WallKind = 0
)

// BlankSymbol marks open space in map files.
const BlankSymbol = ' '

// firstDynamicKind is where kinds for symbols absent from tiles.yaml start.
const firstDynamicKind WallKind = 1000

// IsSolid reports whether the kind blocks rays and movement.
func (k WallKind) IsSolid() bool {
	return k != KindEmpty
}

// Point is a position in world units.
type Point struct {
	X, Y float64
}
