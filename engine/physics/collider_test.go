package physics

import (
	"testing"
	"time"

	"github.com/unitoftime/ecs"
	"github.com/unitoftime/flow/phy2"
	"github.com/unitoftime/flow/tile"

	"github.com/unitoftime/tiled/engine/tilemap"
)

// wallMap returns a 4x4 map of 16px tiles with walls at the given tile coordinates.
func wallMap(walls ...tile.TilePosition) *tilemap.Map {
	m := tilemap.New(4, 4, 16, 16)
	l := tilemap.NewLayer("collision", 4, 4)
	for _, w := range walls {
		t := tilemap.Tile{
			Gid:      1,
			Position: m.TileToWorld(w),
		}
		t.SetCollidable(true)
		l.SetTile(w.X, w.Y, t)
	}
	// A visible but non-colliding tile
	l.SetTile(3, 3, tilemap.Tile{Gid: 2, Position: m.TileToWorld(tile.TilePosition{X: 3, Y: 3})})
	m.AddLayer(l)
	return m
}

func TestCheckCollision(t *testing.T) {
	m := wallMap(tile.TilePosition{X: 0, Y: 0}, tile.TilePosition{X: 2, Y: 1})

	tests := []struct {
		name   string
		layer  string
		bounds tilemap.RectF
		want   bool
	}{
		{"on wall", "collision", tilemap.R(2, 2, 4, 4), true},
		{"free tile", "collision", tilemap.R(20, 2, 4, 4), false},
		{"spanning into wall", "collision", tilemap.R(28, 12, 8, 8), true},
		{"non colliding tile", "collision", tilemap.R(50, 50, 4, 4), false},
		{"missing layer", "nope", tilemap.R(2, 2, 4, 4), false},
		{"outside above left", "collision", tilemap.R(-100, -100, 10, 10), false},
		{"just above map", "collision", tilemap.R(2, -10, 4, 4), false},
		{"outside below right", "collision", tilemap.R(100, 100, 10, 10), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckCollision(m, tt.layer, tt.bounds); got != tt.want {
				t.Errorf("CheckCollision(%v) = %v, want %v", tt.bounds, got, tt.want)
			}
		})
	}
}

func TestGetCollidingTiles(t *testing.T) {
	m := wallMap(tile.TilePosition{X: 2, Y: 1}, tile.TilePosition{X: 0, Y: 2}, tile.TilePosition{X: 1, Y: 0})

	got := GetCollidingTiles(m, "collision", tilemap.R(0, 0, 63, 63))
	if len(got) != 3 {
		t.Fatalf("expected 3 tiles, got %d", len(got))
	}
	want := []phy2.Vec2{phy2.V2(16, 0), phy2.V2(32, 16), phy2.V2(0, 32)}
	for i := range want {
		if got[i].Position != want[i] {
			t.Errorf("tile %d at %v, want %v", i, got[i].Position, want[i])
		}
	}

	// Results are copies
	got[0].SetCollidable(false)
	if !m.IsTileCollidable("collision", 1, 0) {
		t.Errorf("layer tile was modified through result")
	}

	none := GetCollidingTiles(m, "missing", tilemap.R(0, 0, 63, 63))
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty, non-nil result")
	}
	none = GetCollidingTiles(m, "collision", tilemap.R(48, 48, 8, 8))
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty, non-nil result")
	}
}

func TestResolveCollision(t *testing.T) {
	size := phy2.V2(8, 8)
	current := phy2.V2(0, 0)

	tests := []struct {
		name   string
		walls  []tile.TilePosition
		target phy2.Vec2
		want   phy2.Vec2
	}{
		{"x granted first", nil, phy2.V2(20, 20), phy2.V2(20, 0)},
		{"x blocked y granted", []tile.TilePosition{{X: 2, Y: 0}}, phy2.V2(34, 20), phy2.V2(0, 20)},
		{"both blocked", []tile.TilePosition{{X: 2, Y: 0}, {X: 0, Y: 2}}, phy2.V2(34, 34), current},
		{"pure x", nil, phy2.V2(5, 0), phy2.V2(5, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := wallMap(tt.walls...)
			if got := ResolveCollision(m, "collision", current, tt.target, size); got != tt.want {
				t.Errorf("ResolveCollision(%v) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}

func TestMoveCharacters(t *testing.T) {
	m := wallMap(tile.TilePosition{X: 1, Y: 0})
	world := ecs.NewWorld()

	walker := world.NewId()
	ecs.Write(world, walker,
		ecs.C(Input{Down: true}),
		ecs.C(phy2.Pos{X: 0, Y: 0}),
		ecs.C(Collider{W: 8, H: 8}),
	)

	blocked := world.NewId()
	ecs.Write(world, blocked,
		ecs.C(Input{Right: true}),
		ecs.C(phy2.Pos{X: 4, Y: 4}),
		ecs.C(Collider{W: 8, H: 8}),
	)

	MoveCharacters(world, m, "collision", 100, 100*time.Millisecond)

	pos, ok := ecs.Read[phy2.Pos](world, walker)
	if !ok || pos.X != 0 || pos.Y != 10 {
		t.Errorf("walker at %v", pos)
	}

	// Moving right would overlap tile (1,0)
	pos, ok = ecs.Read[phy2.Pos](world, blocked)
	if !ok || pos.X != 4 || pos.Y != 4 {
		t.Errorf("blocked entity moved to %v", pos)
	}
}

func BenchmarkCheckCollision(b *testing.B) {
	m := wallMap(tile.TilePosition{X: 3, Y: 3})
	bounds := tilemap.R(0, 0, 40, 40)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		CheckCollision(m, "collision", bounds)
	}
}
