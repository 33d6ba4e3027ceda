package tilemap

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/unitoftime/flow/phy2"
	"github.com/unitoftime/flow/tile"
	"github.com/zyedidia/generic"
)

// Camera exposes the world space rectangle it currently shows.
type Camera interface {
	VisibleRect() RectF
}

// Map is an ordered stack of layers sharing a set of tilesets.
// Width/Height are in tiles, TileWidth/TileHeight in pixels, all fixed at construction.
type Map struct {
	Orientation     string
	BackgroundColor string
	Properties      map[string]string

	Visible  bool
	AutoSort bool // re-sort layers by render order on Draw after adds/removes
	Culling  bool // compute the camera rect on Draw

	width, height         int
	tileWidth, tileHeight int

	layers     []*Layer
	layerIndex map[string]*Layer
	tilesets   []*Tileset // ascending FirstGid

	camera   Camera
	cullRect RectF
	dirty    bool
}

// New returns an empty map. Tile sizes below one pixel are raised to one.
func New(width, height, tileWidth, tileHeight int) *Map {
	return &Map{
		Orientation: "orthogonal",
		Properties:  make(map[string]string),
		Visible:     true,
		AutoSort:    true,
		width:       width,
		height:      height,
		tileWidth:   generic.Max(tileWidth, 1),
		tileHeight:  generic.Max(tileHeight, 1),
		layers:      make([]*Layer, 0),
		layerIndex:  make(map[string]*Layer),
		tilesets:    make([]*Tileset, 0),
	}
}

func (m *Map) Width() int      { return m.width }
func (m *Map) Height() int     { return m.height }
func (m *Map) TileWidth() int  { return m.tileWidth }
func (m *Map) TileHeight() int { return m.tileHeight }

// PixelSize returns the map size in world pixels
func (m *Map) PixelSize() phy2.Vec2 {
	return phy2.V2(float64(m.width*m.tileWidth), float64(m.height*m.tileHeight))
}

// WorldToTile truncates toward zero, so small negative positions land on tile 0.
func (m *Map) WorldToTile(p phy2.Vec2) tile.TilePosition {
	return tile.TilePosition{
		X: int(p.X) / m.tileWidth,
		Y: int(p.Y) / m.tileHeight,
	}
}

// TileToWorld returns the top-left corner of the tile.
func (m *Map) TileToWorld(t tile.TilePosition) phy2.Vec2 {
	return phy2.V2(float64(t.X*m.tileWidth), float64(t.Y*m.tileHeight))
}

func (m *Map) TileToWorldCenter(t tile.TilePosition) phy2.Vec2 {
	return m.TileToWorld(t).Add(phy2.V2(float64(m.tileWidth)/2, float64(m.tileHeight)/2))
}

func (m *Map) IsValidTileCoord(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

// AddLayer appends the layer. It is rejected if a layer with the same name already exists.
// Empty cells of an accepted layer are moved to their own cell position.
func (m *Map) AddLayer(l *Layer) bool {
	if l == nil {
		return false
	}
	if _, exists := m.layerIndex[l.Name]; exists {
		log.Warn().Str("src", "tilemap").Str("layer", l.Name).Msg("Duplicate layer name, layer rejected")
		return false
	}
	l.placeEmpty(m.tileWidth, m.tileHeight)
	m.layers = append(m.layers, l)
	m.layerIndex[l.Name] = l
	m.dirty = true
	return true
}

// RemoveLayer removes and disposes the named layer.
func (m *Map) RemoveLayer(name string) bool {
	l, ok := m.layerIndex[name]
	if !ok {
		return false
	}
	for i := range m.layers {
		if m.layers[i] == l {
			m.layers = append(m.layers[:i], m.layers[i+1:]...)
			break
		}
	}
	delete(m.layerIndex, name)
	l.Dispose()
	m.dirty = true
	return true
}

// GetLayer returns the named layer or nil.
func (m *Map) GetLayer(name string) *Layer {
	return m.layerIndex[name]
}

// Layers returns the layers in draw order. The slice must not be modified.
func (m *Map) Layers() []*Layer {
	return m.layers
}

func (m *Map) LayerCount() int {
	return len(m.layers)
}

// GetLayersWithProperty returns every layer whose property key equals value, in layer order.
func (m *Map) GetLayersWithProperty(key, value string) []*Layer {
	ret := make([]*Layer, 0)
	for _, l := range m.layers {
		if v, ok := l.Properties[key]; ok && v == value {
			ret = append(ret, l)
		}
	}
	return ret
}

// AddTileset inserts the tileset keeping the list sorted by FirstGid.
func (m *Map) AddTileset(ts *Tileset) {
	if ts == nil {
		return
	}
	i := sort.Search(len(m.tilesets), func(i int) bool {
		return m.tilesets[i].FirstGid > ts.FirstGid
	})
	m.tilesets = append(m.tilesets, nil)
	copy(m.tilesets[i+1:], m.tilesets[i:])
	m.tilesets[i] = ts
}

func (m *Map) Tilesets() []*Tileset {
	return m.tilesets
}

// GetTilesetForGid scans from the highest FirstGid down and returns the first tileset owning gid.
func (m *Map) GetTilesetForGid(gid uint32) *Tileset {
	for i := len(m.tilesets) - 1; i >= 0; i-- {
		if m.tilesets[i].ContainsGid(gid) {
			return m.tilesets[i]
		}
	}
	return nil
}

// GetTileAt returns a reference to the tile in the named layer, or nil.
func (m *Map) GetTileAt(layerName string, x, y int) *Tile {
	l := m.GetLayer(layerName)
	if l == nil {
		return nil
	}
	return l.At(x, y)
}

func (m *Map) IsTileCollidable(layerName string, x, y int) bool {
	t := m.GetTileAt(layerName, x, y)
	if t == nil {
		return false
	}
	return t.IsCollidable()
}

// SortLayers stable-sorts the layers by their type's render order.
func (m *Map) SortLayers() {
	sort.SliceStable(m.layers, func(i, j int) bool {
		return m.layers[i].Type.RenderOrder() < m.layers[j].Type.RenderOrder()
	})
	m.dirty = false
}

// BuildAllLayers rebuilds every layer's batch and optionally re-sorts the layers.
func (m *Map) BuildAllLayers(sortLayers bool) {
	for _, l := range m.layers {
		l.BuildVertexArray(m.tileWidth, m.tileHeight)
	}
	if sortLayers {
		m.SortLayers()
	}
}

func (m *Map) SetCamera(c Camera) {
	m.camera = c
}

func (m *Map) Camera() Camera {
	return m.camera
}

// CullRect returns the camera rectangle computed on the last Draw.
// It is advisory: layers are still drawn whole.
func (m *Map) CullRect() (RectF, bool) {
	if m.camera == nil || !m.Culling {
		return RectF{}, false
	}
	return m.cullRect, true
}

// Update is reserved for animated tiles.
func (m *Map) Update(dt time.Duration) {
}

func (m *Map) Draw(target Target) {
	if !m.Visible {
		return
	}

	if m.AutoSort && m.dirty {
		m.SortLayers()
	}

	if m.camera != nil && m.Culling {
		m.cullRect = m.camera.VisibleRect()
	}

	for _, l := range m.layers {
		if !l.Visible {
			continue
		}
		l.Draw(target)
	}
}

// Destroy disposes every layer and empties the map.
func (m *Map) Destroy() {
	for _, l := range m.layers {
		l.Dispose()
	}
	m.layers = m.layers[:0]
	m.layerIndex = make(map[string]*Layer)
	m.tilesets = m.tilesets[:0]
	m.camera = nil
	m.dirty = false
}
