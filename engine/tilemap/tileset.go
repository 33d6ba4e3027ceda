package tilemap

import (
	"image"
)

// Texture is whatever the host renderer binds when drawing a layer.
// *ebiten.Image satisfies it.
type Texture interface {
	Bounds() image.Rectangle
}

// Tileset is a texture atlas that owns the gid range [FirstGid, FirstGid+TileCount).
type Tileset struct {
	Name       string
	FirstGid   uint32
	TileWidth  int
	TileHeight int
	Columns    int
	Spacing    int
	Margin     int
	TileCount  int

	Image   string // path the texture was loaded from
	Texture Texture

	// LocalId -> custom properties
	Properties map[int]map[string]string
}

func NewTileset(name string, firstGid uint32, tileWidth, tileHeight, columns, tileCount int) *Tileset {
	return &Tileset{
		Name:       name,
		FirstGid:   firstGid,
		TileWidth:  tileWidth,
		TileHeight: tileHeight,
		Columns:    columns,
		TileCount:  tileCount,
		Properties: make(map[int]map[string]string),
	}
}

func (ts *Tileset) ContainsGid(gid uint32) bool {
	return gid >= ts.FirstGid && uint64(gid) < uint64(ts.FirstGid)+uint64(ts.TileCount)
}

// GidToLocalId returns gid-FirstGid, or -1 if the gid is not owned by this tileset.
func (ts *Tileset) GidToLocalId(gid uint32) int {
	if !ts.ContainsGid(gid) {
		return -1
	}
	return int(gid - ts.FirstGid)
}

// TileRect returns the source rectangle of a local tile inside the atlas.
func (ts *Tileset) TileRect(localId int) Rect {
	columns := ts.Columns
	if columns <= 0 {
		columns = 1
	}
	col := localId % columns
	row := localId / columns
	return Rect{
		X: ts.Margin + col*(ts.TileWidth+ts.Spacing),
		Y: ts.Margin + row*(ts.TileHeight+ts.Spacing),
		W: ts.TileWidth,
		H: ts.TileHeight,
	}
}

func (ts *Tileset) TileProperties(localId int) (map[string]string, bool) {
	props, ok := ts.Properties[localId]
	return props, ok
}

func (ts *Tileset) TileProperty(localId int, key string) (string, bool) {
	props, ok := ts.Properties[localId]
	if !ok {
		return "", false
	}
	val, ok := props[key]
	return val, ok
}

func (ts *Tileset) SetTileProperty(localId int, key, value string) {
	if ts.Properties == nil {
		ts.Properties = make(map[int]map[string]string)
	}
	props, ok := ts.Properties[localId]
	if !ok {
		props = make(map[string]string)
		ts.Properties[localId] = props
	}
	props[key] = value
}
