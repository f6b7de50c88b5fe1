package collision

import (
	"math"
)

// TileChecker interface for checking if tiles block movement
type TileChecker interface {
	IsTileBlocking(tileX, tileY int) bool
	GetWorldBounds() (width, height float64)
}

// CollisionSystem resolves movement against the grid and solid entities
type CollisionSystem struct {
	tileChecker TileChecker
	entities    map[string]*Entity
	tileSize    float64
}

// NewCollisionSystem creates a new collision system
func NewCollisionSystem(tileChecker TileChecker, tileSize float64) *CollisionSystem {
	return &CollisionSystem{
		tileChecker: tileChecker,
		entities:    make(map[string]*Entity),
		tileSize:    tileSize,
	}
}

// RegisterEntity adds an entity to the collision system
func (cs *CollisionSystem) RegisterEntity(entity *Entity) {
	cs.entities[entity.ID] = entity
}

// UnregisterEntity removes an entity from the collision system
func (cs *CollisionSystem) UnregisterEntity(id string) {
	delete(cs.entities, id)
}

// UpdateEntity updates an entity's position in the collision system
func (cs *CollisionSystem) UpdateEntity(id string, x, y float64) {
	if entity, exists := cs.entities[id]; exists {
		entity.BoundingBox.MoveTo(x, y)
	}
}

// GetEntityByID returns the entity with the given ID, or nil if not found
func (cs *CollisionSystem) GetEntityByID(id string) *Entity {
	if entity, ok := cs.entities[id]; ok {
		return entity
	}
	return nil
}

// CanMoveTo checks if an entity can move to the specified position
func (cs *CollisionSystem) CanMoveTo(entityID string, newX, newY float64) bool {
	entity, exists := cs.entities[entityID]
	if !exists {
		return false
	}

	// Create a temporary bounding box at the new position
	tempBox := NewBoundingBox(newX, newY, entity.BoundingBox.Width, entity.BoundingBox.Height)

	if !cs.canMoveToWorldPosition(tempBox) {
		return false
	}
	return cs.canMoveToEntityPosition(entityID, tempBox)
}

// MoveWithSliding moves an entity by (dx, dy). When the full step is
// blocked each axis is tried on its own, so the entity slides along walls.
// It returns the resulting position.
func (cs *CollisionSystem) MoveWithSliding(entityID string, dx, dy float64) (x, y float64) {
	entity, exists := cs.entities[entityID]
	if !exists {
		return 0, 0
	}
	x, y = entity.BoundingBox.X, entity.BoundingBox.Y

	switch {
	case cs.CanMoveTo(entityID, x+dx, y+dy):
		x, y = x+dx, y+dy
	case dx != 0 && cs.CanMoveTo(entityID, x+dx, y):
		x += dx
	case dy != 0 && cs.CanMoveTo(entityID, x, y+dy):
		y += dy
	}

	entity.BoundingBox.MoveTo(x, y)
	return x, y
}

// canMoveToWorldPosition checks collision with world tiles
func (cs *CollisionSystem) canMoveToWorldPosition(boundingBox *BoundingBox) bool {
	width, height := cs.tileChecker.GetWorldBounds()

	minX, minY, maxX, maxY := boundingBox.GetBounds()
	if minX < 0 || minY < 0 || maxX >= width || maxY >= height {
		return false
	}

	// Convert to tile coordinates
	startTileX := int(math.Floor(minX / cs.tileSize))
	startTileY := int(math.Floor(minY / cs.tileSize))
	endTileX := int(math.Floor(maxX / cs.tileSize))
	endTileY := int(math.Floor(maxY / cs.tileSize))

	// Check all tiles that the bounding box overlaps
	for tileY := startTileY; tileY <= endTileY; tileY++ {
		for tileX := startTileX; tileX <= endTileX; tileX++ {
			if cs.tileChecker.IsTileBlocking(tileX, tileY) {
				return false
			}
		}
	}

	return true
}

// canMoveToEntityPosition checks collision with other entities
func (cs *CollisionSystem) canMoveToEntityPosition(movingEntityID string, boundingBox *BoundingBox) bool {
	for id, entity := range cs.entities {
		if id == movingEntityID || !entity.Solid {
			continue
		}
		if boundingBox.Intersects(entity.BoundingBox) {
			return false
		}
	}
	return true
}
