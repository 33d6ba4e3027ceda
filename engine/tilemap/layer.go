package tilemap

import (
	"image/color"
	"strings"

	"github.com/unitoftime/flow/phy2"
	"github.com/zyedidia/generic"
)

type LayerType uint8

const (
	LayerBackground LayerType = iota
	LayerGround
	LayerCollision
	LayerForeground
)

// RenderOrder is the sort key used when the map re-sorts its layers.
func (t LayerType) RenderOrder() int {
	switch t {
	case LayerBackground:
		return 0
	case LayerGround:
		return 1
	case LayerCollision:
		return 2
	case LayerForeground:
		return 3
	}
	return 1
}

func (t LayerType) String() string {
	switch t {
	case LayerBackground:
		return "background"
	case LayerGround:
		return "ground"
	case LayerCollision:
		return "collision"
	case LayerForeground:
		return "foreground"
	}
	return "unknown"
}

// ParseLayerType maps a type name (case-insensitive) to a LayerType.
func ParseLayerType(s string) (LayerType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "background":
		return LayerBackground, true
	case "ground":
		return LayerGround, true
	case "collision":
		return LayerCollision, true
	case "foreground":
		return LayerForeground, true
	}
	return LayerGround, false
}

// Vertex is one corner of a batched triangle. X/Y are world pixels, U/V are texels.
type Vertex struct {
	X, Y  float32
	U, V  float32
	Color color.RGBA
}

// Target receives a layer's batch once per frame.
type Target interface {
	DrawTriangles(vertices []Vertex, tex Texture)
}

// Layer is a fixed size, row-major grid of tiles plus a vertex batch derived from it.
// The batch is a snapshot: mutating tiles after BuildVertexArray leaves it stale until the next build.
type Layer struct {
	Name       string
	Opacity    float64
	Visible    bool
	Type       LayerType
	Offset     phy2.Vec2
	Properties map[string]string

	width, height int
	tiles         []Tile

	texture  Texture
	vertices []Vertex
	built    bool
}

// NewLayer returns a layer whose cells are all empty tiles.
func NewLayer(name string, width, height int) *Layer {
	width = generic.Max(width, 0)
	height = generic.Max(height, 0)

	l := &Layer{
		Name:       name,
		Opacity:    1.0,
		Visible:    true,
		Type:       LayerGround,
		Properties: make(map[string]string),
		width:      width,
		height:     height,
		tiles:      make([]Tile, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			l.tiles[y*width+x] = CreateEmpty(phy2.Vec2{})
		}
	}
	return l
}

// placeEmpty sets the position of every empty cell to the top-left of that cell.
func (l *Layer) placeEmpty(tileWidth, tileHeight int) {
	for i := range l.tiles {
		if l.tiles[i].IsEmpty() {
			l.tiles[i].Position = phy2.V2(float64(i%l.width*tileWidth), float64(i/l.width*tileHeight))
		}
	}
}

func (l *Layer) Width() int  { return l.width }
func (l *Layer) Height() int { return l.height }

func (l *Layer) index(x, y int) (int, bool) {
	if x < 0 || x >= l.width || y < 0 || y >= l.height {
		return 0, false
	}
	return y*l.width + x, true
}

// Get returns a copy of the tile at x, y. ok is false when out of range.
func (l *Layer) Get(x, y int) (Tile, bool) {
	i, ok := l.index(x, y)
	if !ok {
		return Tile{}, false
	}
	return l.tiles[i], true
}

// At returns a reference to the tile at x, y, or nil when out of range.
// The reference must not be held across SetTile calls.
func (l *Layer) At(x, y int) *Tile {
	i, ok := l.index(x, y)
	if !ok {
		return nil
	}
	return &l.tiles[i]
}

// SetTile replaces the tile at x, y. Out of range writes are ignored.
func (l *Layer) SetTile(x, y int, t Tile) {
	i, ok := l.index(x, y)
	if !ok {
		return
	}
	l.tiles[i] = t
}

// Each calls fn for every cell in row-major order.
func (l *Layer) Each(fn func(x, y int, t *Tile)) {
	for y := 0; y < l.height; y++ {
		for x := 0; x < l.width; x++ {
			fn(x, y, &l.tiles[y*l.width+x])
		}
	}
}

func (l *Layer) SetTexture(tex Texture) {
	l.texture = tex
}

func (l *Layer) Texture() Texture {
	return l.texture
}

func (l *Layer) Property(key string) (string, bool) {
	val, ok := l.Properties[key]
	return val, ok
}

// BuildVertexArray discards the previous batch and emits two triangles per non-empty tile.
func (l *Layer) BuildVertexArray(tileWidth, tileHeight int) {
	count := 0
	for i := range l.tiles {
		if !l.tiles[i].IsEmpty() {
			count++
		}
	}

	l.vertices = make([]Vertex, 0, count*6)

	alpha := uint8(generic.Clamp(l.Opacity, 0, 1) * 255)
	col := color.RGBA{255, 255, 255, alpha}

	tw := float32(tileWidth)
	th := float32(tileHeight)
	ox := float32(l.Offset.X)
	oy := float32(l.Offset.Y)

	for y := 0; y < l.height; y++ {
		for x := 0; x < l.width; x++ {
			tile := &l.tiles[y*l.width+x]
			if tile.IsEmpty() {
				continue
			}

			left := float32(x)*tw + ox
			top := float32(y)*th + oy
			right := left + tw
			bottom := top + th

			uv := tileUV(tile)

			l.vertices = append(l.vertices,
				Vertex{left, top, uv[0][0], uv[0][1], col},
				Vertex{right, top, uv[1][0], uv[1][1], col},
				Vertex{left, bottom, uv[2][0], uv[2][1], col},

				Vertex{left, bottom, uv[2][0], uv[2][1], col},
				Vertex{right, top, uv[1][0], uv[1][1], col},
				Vertex{right, bottom, uv[3][0], uv[3][1], col},
			)
		}
	}
	l.built = true
}

// tileUV returns texel coordinates for the TL, TR, BL, BR corners of a quad.
// Horizontal and vertical flips mirror the corner, then a diagonal flip swaps its axes.
func tileUV(t *Tile) [4][2]float32 {
	r := t.TextureRect
	us := [2]float32{float32(r.X), float32(r.X + r.W)}
	vs := [2]float32{float32(r.Y), float32(r.Y + r.H)}

	var uv [4][2]float32
	corners := [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	for i, c := range corners {
		u, v := c[0], c[1]
		if t.FlippedH() {
			u = 1 - u
		}
		if t.FlippedV() {
			v = 1 - v
		}
		if t.FlippedD() {
			u, v = v, u
		}
		uv[i] = [2]float32{us[u], vs[v]}
	}
	return uv
}

func (l *Layer) Built() bool {
	return l.built
}

func (l *Layer) Vertices() []Vertex {
	return l.vertices
}

func (l *Layer) VertexCount() int {
	return len(l.vertices)
}

// Draw submits the batch with the layer's bound texture.
func (l *Layer) Draw(target Target) {
	if !l.Visible || !l.built || len(l.vertices) == 0 {
		return
	}
	if l.texture == nil {
		return
	}
	target.DrawTriangles(l.vertices, l.texture)
}

// Dispose drops the batch and the bound texture.
func (l *Layer) Dispose() {
	l.vertices = nil
	l.built = false
	l.texture = nil
}
