package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/unitoftime/ecs"
	"github.com/unitoftime/flow/phy2"

	"github.com/unitoftime/tiled/engine/physics"
)

// Sprite is a flat colored box drawn at a smoothed copy of the entity position.
type Sprite struct {
	Position phy2.Vec2
	W, H     float64
	Color    color.RGBA
}

type Keybinds struct {
	Up, Down, Left, Right ebiten.Key
}

func ArrowKeybinds() Keybinds {
	return Keybinds{
		Up:    ebiten.KeyArrowUp,
		Down:  ebiten.KeyArrowDown,
		Left:  ebiten.KeyArrowLeft,
		Right: ebiten.KeyArrowRight,
	}
}

// Note: val should probably be between 0 and 1
func Interpolate(a, b phy2.Vec2, lowerBound, upperBound float64) phy2.Vec2 {
	delta := b.Sub(a)
	dMag := delta.Len()

	interpValue := 0.0
	if dMag > upperBound {
		interpValue = 1.0
	} else if dMag > lowerBound {
		// y - y1 = m(x - x1)
		slope := 1 / (upperBound - lowerBound)
		interpValue = slope * (dMag - lowerBound)
	}

	return a.Add(delta.Scaled(interpValue))
}

func InterpolateSpritePositions(world *ecs.World) {
	ecs.Map2(world, func(id ecs.Id, sprite *Sprite, pos *phy2.Pos) {
		sprite.Position = Interpolate(sprite.Position, phy2.Vec2(*pos), 1.0, 16.0)
	})
}

func DrawSprites(dst *ebiten.Image, world *ecs.World, camera *Camera) {
	geom := camera.GeoM()
	zoom := float32(camera.Zoom)
	ecs.Map(world, func(id ecs.Id, sprite *Sprite) {
		x, y := geom.Apply(sprite.Position.X, sprite.Position.Y)
		vector.DrawFilledRect(dst, float32(x), float32(y), float32(sprite.W)*zoom, float32(sprite.H)*zoom, sprite.Color, false)
	})
}

func CaptureInput(world *ecs.World) {
	ecs.Map2(world, func(id ecs.Id, keybinds *Keybinds, input *physics.Input) {
		input.Left = ebiten.IsKeyPressed(keybinds.Left)
		input.Right = ebiten.IsKeyPressed(keybinds.Right)
		input.Up = ebiten.IsKeyPressed(keybinds.Up)
		input.Down = ebiten.IsKeyPressed(keybinds.Down)
	})
}
