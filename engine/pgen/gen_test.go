package pgen

import (
	"bytes"
	"math/rand"
	"testing"
	"testing/fstest"

	"github.com/ungerik/go3d/float64/vec2"

	"github.com/unitoftime/tiled/engine/tilemap"
	"github.com/unitoftime/tiled/engine/tmx"
)

func TestPathEndpoints(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	start := vec2.T{0, 5}
	end := vec2.T{20, 5}

	path := Path(rng, start, end, 6, 3)
	if len(path) != 6 {
		t.Fatalf("expected 6 points, got %d", len(path))
	}
	if path[0] != start {
		t.Errorf("path starts at %v", path[0])
	}

	// Sorted by distance from start
	for i := 1; i < len(path); i++ {
		a := vec2.Sub(&start, &path[i-1])
		b := vec2.Sub(&start, &path[i])
		if a.LengthSqr() > b.LengthSqr() {
			t.Fatalf("point %d closer than %d", i, i-1)
		}
	}
}

func TestGenerateIslandLoads(t *testing.T) {
	cfg := DefaultIslandConfig(42)
	cfg.Width = 24
	cfg.Height = 20

	doc := GenerateIsland(cfg)
	dat, err := tmx.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	again, err := tmx.Marshal(GenerateIsland(cfg))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(dat, again) {
		t.Errorf("generation is not deterministic for a seed")
	}

	fsys := fstest.MapFS{"island.tmx": {Data: dat}}
	m, err := tmx.Load(fsys, "island.tmx", nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.Width() != 24 || m.Height() != 20 || m.LayerCount() != 2 {
		t.Fatalf("unexpected map %dx%d with %d layers", m.Width(), m.Height(), m.LayerCount())
	}

	ground := m.GetLayer("Ground")
	collision := m.GetLayer("Collision")
	if collision.Type != tilemap.LayerCollision {
		t.Errorf("collision layer type %v", collision.Type)
	}

	// The map corners are always water
	corner, _ := ground.Get(0, 0)
	if corner.LocalId != WaterTile || !corner.IsCollidable() {
		t.Errorf("expected water corner, got %+v", corner)
	}

	ground.Each(func(x, y int, tile *tilemap.Tile) {
		if tile.IsEmpty() {
			t.Fatalf("(%d,%d) ground is empty", x, y)
		}
		c, _ := collision.Get(x, y)
		if (tile.LocalId == WaterTile) != !c.IsEmpty() {
			t.Fatalf("(%d,%d) collision does not match water", x, y)
		}
	})

	// The road crosses the west edge
	road := false
	for y := 0; y < m.Height(); y++ {
		if tile, _ := ground.Get(0, y); tile.LocalId == RoadTile {
			road = true
		}
	}
	if !road {
		t.Errorf("no road on the west edge")
	}
}

func TestTilesetImage(t *testing.T) {
	img := TilesetImage(8)
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 8 {
		t.Fatalf("unexpected size %v", img.Bounds())
	}
	if img.RGBAAt(9, 1) != tileColors[SandTile] {
		t.Errorf("unexpected color at sand tile")
	}
}

func TestNoiseMapNormalizesOctaves(t *testing.T) {
	n := NewNoiseMap(7, []Octave{{Freq: 0.1, Scale: 3}, {Freq: 0.3, Scale: 1}, {Freq: 0.5, Scale: -2}}, 1)

	weights := n.Octaves()
	if weights[0].Scale != 0.75 || weights[1].Scale != 0.25 || weights[2].Scale != 0 {
		t.Fatalf("unexpected weights %v", weights)
	}

	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if v := n.Get(x, y); v < 0 || v > 1 {
				t.Fatalf("height %v at %d,%d outside [0, 1]", v, x, y)
			}
		}
	}

	flat := NewNoiseMap(7, []Octave{{Freq: 0.1}, {Freq: 0.2}}, 1)
	if w := flat.Octaves(); w[0].Scale != 0.5 || w[1].Scale != 0.5 {
		t.Errorf("zero weights should be shared, got %v", w)
	}
}
