package physics

import (
	"time"

	"github.com/unitoftime/ecs"
	"github.com/unitoftime/flow/phy2"

	"github.com/unitoftime/tiled/engine/tilemap"
)

type Input struct {
	Up, Down, Left, Right bool
}

// Collider is an axis aligned box anchored at the entity's position (top-left).
type Collider struct {
	W, H float64
}

func (c Collider) Bounds(pos phy2.Pos) tilemap.RectF {
	return tilemap.R(pos.X, pos.Y, c.W, c.H)
}

// Velocity returns the per-second direction the input asks for. Y grows downwards.
func (i Input) Velocity(speed float64) phy2.Vec2 {
	v := phy2.Vec2{}
	if i.Left {
		v.X -= speed
	}
	if i.Right {
		v.X += speed
	}
	if i.Up {
		v.Y -= speed
	}
	if i.Down {
		v.Y += speed
	}
	return v
}

// MoveCharacter applies one step of input to pos, sliding along collidable tiles of layerName.
// ResolveCollision grants at most one axis, so the Y axis gets a second pass from wherever X ended up.
func MoveCharacter(input *Input, pos *phy2.Pos, collider *Collider, m *tilemap.Map, layerName string, speed float64, dt time.Duration) {
	vel := input.Velocity(speed)
	if vel == (phy2.Vec2{}) {
		return
	}

	current := phy2.Vec2(*pos)
	target := current.Add(vel.Scaled(dt.Seconds()))
	size := phy2.V2(collider.W, collider.H)
	next := ResolveCollision(m, layerName, current, target, size)
	if next.Y != target.Y && !CheckCollision(m, layerName, tilemap.R(next.X, target.Y, size.X, size.Y)) {
		next.Y = target.Y
	}

	*pos = phy2.Pos(next)
}

// MoveCharacters runs MoveCharacter over every entity with an Input, a Pos and a Collider.
func MoveCharacters(world *ecs.World, m *tilemap.Map, layerName string, speed float64, dt time.Duration) {
	ecs.Map3(world, func(id ecs.Id, input *Input, pos *phy2.Pos, collider *Collider) {
		MoveCharacter(input, pos, collider, m, layerName, speed, dt)
	})
}
