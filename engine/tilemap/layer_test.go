package tilemap

import (
	"image"
	"testing"

	"github.com/unitoftime/flow/phy2"
)

type fakeTexture struct{}

func (fakeTexture) Bounds() image.Rectangle { return image.Rect(0, 0, 64, 64) }

type recordTarget struct {
	calls    int
	vertices int
}

func (r *recordTarget) DrawTriangles(vertices []Vertex, tex Texture) {
	r.calls++
	r.vertices += len(vertices)
}

func solidTile(gid uint32, x, y int) Tile {
	return Tile{
		Gid:         gid,
		LocalId:     int(gid - 1),
		TextureRect: Rect{int(gid-1) * 16, 0, 16, 16},
		Position:    phy2.V2(float64(x*16), float64(y*16)),
	}
}

func TestLayerBoundsChecked(t *testing.T) {
	l := NewLayer("ground", 3, 2)

	if _, ok := l.Get(3, 0); ok {
		t.Errorf("expected (3,0) out of range")
	}
	if _, ok := l.Get(-1, 0); ok {
		t.Errorf("expected (-1,0) out of range")
	}
	if l.At(0, 2) != nil {
		t.Errorf("expected nil for (0,2)")
	}

	// Out of range writes are dropped
	l.SetTile(5, 5, solidTile(1, 5, 5))
	l.SetTile(-1, 0, solidTile(1, 0, 0))
	l.Each(func(x, y int, tile *Tile) {
		if !tile.IsEmpty() {
			t.Errorf("unexpected tile at %d,%d", x, y)
		}
	})

	l.SetTile(2, 1, solidTile(4, 2, 1))
	tile, ok := l.Get(2, 1)
	if !ok || tile.Gid != 4 {
		t.Fatalf("expected gid 4 at (2,1), got %v %v", tile, ok)
	}

	// At returns a reference into the grid
	l.At(2, 1).SetCollidable(true)
	tile, _ = l.Get(2, 1)
	if !tile.IsCollidable() {
		t.Errorf("expected mutation through At to stick")
	}
}

func TestLayerBuildVertexArray(t *testing.T) {
	l := NewLayer("ground", 2, 2)
	l.Opacity = 0.5
	l.SetTile(0, 0, solidTile(1, 0, 0))
	l.SetTile(1, 1, solidTile(2, 1, 1))

	if l.Built() {
		t.Fatalf("layer should not be built yet")
	}
	l.BuildVertexArray(16, 16)

	verts := l.Vertices()
	if len(verts) != 12 {
		t.Fatalf("expected 12 vertices, got %d", len(verts))
	}

	// First quad: tile (0,0) with rect {0,0,16,16}
	want := []Vertex{
		{X: 0, Y: 0, U: 0, V: 0},
		{X: 16, Y: 0, U: 16, V: 0},
		{X: 0, Y: 16, U: 0, V: 16},
		{X: 0, Y: 16, U: 0, V: 16},
		{X: 16, Y: 0, U: 16, V: 0},
		{X: 16, Y: 16, U: 16, V: 16},
	}
	for i, w := range want {
		v := verts[i]
		if v.X != w.X || v.Y != w.Y || v.U != w.U || v.V != w.V {
			t.Errorf("vertex %d = %+v, want %+v", i, v, w)
		}
		if v.Color.A != 127 {
			t.Errorf("vertex %d alpha = %d, want 127", i, v.Color.A)
		}
	}

	// Second quad sits at (16,16) and samples the second tile
	if verts[6].X != 16 || verts[6].Y != 16 || verts[6].U != 16 {
		t.Errorf("unexpected second quad origin %+v", verts[6])
	}
}

func TestLayerBuildIdempotent(t *testing.T) {
	l := NewLayer("ground", 4, 4)
	for i := 0; i < 4; i++ {
		l.SetTile(i, i, solidTile(uint32(i+1), i, i))
	}
	l.BuildVertexArray(16, 16)
	first := append([]Vertex(nil), l.Vertices()...)
	l.BuildVertexArray(16, 16)
	second := l.Vertices()

	if len(first) != len(second) {
		t.Fatalf("vertex count changed %d -> %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("vertex %d changed %+v -> %+v", i, first[i], second[i])
		}
	}
}

func TestLayerBatchIsSnapshot(t *testing.T) {
	l := NewLayer("ground", 2, 1)
	l.SetTile(0, 0, solidTile(1, 0, 0))
	l.BuildVertexArray(16, 16)

	l.SetTile(1, 0, solidTile(1, 1, 0))
	if l.VertexCount() != 6 {
		t.Fatalf("batch changed without a rebuild")
	}
	l.BuildVertexArray(16, 16)
	if l.VertexCount() != 12 {
		t.Fatalf("expected 12 vertices after rebuild, got %d", l.VertexCount())
	}
}

func TestTileUVFlips(t *testing.T) {
	base := Tile{Gid: 1, TextureRect: Rect{0, 0, 16, 16}}

	tests := []struct {
		name  string
		flags Flags
		tl    [2]float32 // uv at the top-left vertex
	}{
		{"none", 0, [2]float32{0, 0}},
		{"horizontal", FlagFlipH, [2]float32{16, 0}},
		{"vertical", FlagFlipV, [2]float32{0, 16}},
		{"both", FlagFlipH | FlagFlipV, [2]float32{16, 16}},
		{"diagonal", FlagFlipD, [2]float32{0, 0}},
		{"rotate cw", FlagFlipD | FlagFlipH, [2]float32{0, 16}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tile := base
			tile.Set(tt.flags, true)
			uv := tileUV(&tile)
			if uv[0] != tt.tl {
				t.Errorf("top-left uv = %v, want %v", uv[0], tt.tl)
			}
		})
	}
}

func TestLayerDraw(t *testing.T) {
	l := NewLayer("ground", 1, 1)
	l.SetTile(0, 0, solidTile(1, 0, 0))

	target := &recordTarget{}
	l.SetTexture(fakeTexture{})
	l.Draw(target)
	if target.calls != 0 {
		t.Fatalf("unbuilt layer should not draw")
	}

	l.BuildVertexArray(16, 16)
	l.Visible = false
	l.Draw(target)
	if target.calls != 0 {
		t.Fatalf("invisible layer should not draw")
	}

	l.Visible = true
	l.Draw(target)
	if target.calls != 1 || target.vertices != 6 {
		t.Fatalf("expected one draw of 6 vertices, got %d/%d", target.calls, target.vertices)
	}

	l.Dispose()
	l.Draw(target)
	if target.calls != 1 {
		t.Fatalf("disposed layer should not draw")
	}
}

func TestParseLayerType(t *testing.T) {
	tests := []struct {
		in   string
		want LayerType
		ok   bool
	}{
		{"Collision", LayerCollision, true},
		{" background ", LayerBackground, true},
		{"foreground", LayerForeground, true},
		{"ground", LayerGround, true},
		{"water", LayerGround, false},
	}
	for _, tt := range tests {
		got, ok := ParseLayerType(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseLayerType(%q) = %v %v, want %v %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
