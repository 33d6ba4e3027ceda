package serdes

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/unitoftime/flow/phy2"

	"github.com/unitoftime/tiled/engine/tilemap"
	"github.com/unitoftime/tiled/engine/tmx"
)

const SnapshotVersion uint16 = 1

type Property struct {
	Key, Value string
}

type TileProperties struct {
	LocalId    int32
	Properties []Property
}

type TilesetData struct {
	Name                  string
	FirstGid              uint32
	TileWidth, TileHeight int32
	Columns               int32
	Spacing, Margin       int32
	TileCount             int32
	Image                 string
	Tiles                 []TileProperties
}

type LayerData struct {
	Name          string
	Width, Height int32
	Opacity       float64
	Visible       bool
	Type          uint8
	OffsetX       float64
	OffsetY       float64
	Properties    []Property
	Gids          []uint32 // row-major, flip bits encoded as in TMX
	Collidable    []uint32 // cell indices with the collidable flag set
}

// MapData is a baked, format independent copy of a map's content.
type MapData struct {
	Width, Height         int32
	TileWidth, TileHeight int32
	Orientation           string
	BackgroundColor       string
	Properties            []Property
	Tilesets              []TilesetData
	Layers                []LayerData
}

func properties(m map[string]string) []Property {
	ret := make([]Property, 0, len(m))
	for k, v := range m {
		ret = append(ret, Property{k, v})
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Key < ret[j].Key })
	return ret
}

func propertyMap(props []Property) map[string]string {
	ret := make(map[string]string, len(props))
	for _, p := range props {
		ret[p.Key] = p.Value
	}
	return ret
}

// Snapshot copies the map's content. Textures and vertex batches are not part of it.
func Snapshot(m *tilemap.Map) MapData {
	dat := MapData{
		Width:           int32(m.Width()),
		Height:          int32(m.Height()),
		TileWidth:       int32(m.TileWidth()),
		TileHeight:      int32(m.TileHeight()),
		Orientation:     m.Orientation,
		BackgroundColor: m.BackgroundColor,
		Properties:      properties(m.Properties),
	}

	for _, ts := range m.Tilesets() {
		tsd := TilesetData{
			Name:       ts.Name,
			FirstGid:   ts.FirstGid,
			TileWidth:  int32(ts.TileWidth),
			TileHeight: int32(ts.TileHeight),
			Columns:    int32(ts.Columns),
			Spacing:    int32(ts.Spacing),
			Margin:     int32(ts.Margin),
			TileCount:  int32(ts.TileCount),
			Image:      ts.Image,
		}
		for localId, props := range ts.Properties {
			tsd.Tiles = append(tsd.Tiles, TileProperties{int32(localId), properties(props)})
		}
		sort.Slice(tsd.Tiles, func(i, j int) bool { return tsd.Tiles[i].LocalId < tsd.Tiles[j].LocalId })
		dat.Tilesets = append(dat.Tilesets, tsd)
	}

	for _, l := range m.Layers() {
		ld := LayerData{
			Name:       l.Name,
			Width:      int32(l.Width()),
			Height:     int32(l.Height()),
			Opacity:    l.Opacity,
			Visible:    l.Visible,
			Type:       uint8(l.Type),
			OffsetX:    l.Offset.X,
			OffsetY:    l.Offset.Y,
			Properties: properties(l.Properties),
			Gids:       make([]uint32, 0, l.Width()*l.Height()),
		}
		l.Each(func(x, y int, t *tilemap.Tile) {
			if t.IsEmpty() {
				ld.Gids = append(ld.Gids, 0)
				return
			}
			if t.IsCollidable() {
				ld.Collidable = append(ld.Collidable, uint32(y*l.Width()+x))
			}
			ld.Gids = append(ld.Gids, tmx.EncodeGID(t.Gid, t.Flags()))
		})
		dat.Layers = append(dat.Layers, ld)
	}

	return dat
}

// Restore rebuilds a map from a snapshot. Textures may be nil.
func Restore(dat MapData, textures tmx.TextureProvider) (*tilemap.Map, error) {
	if dat.Width <= 0 || dat.Height <= 0 || dat.TileWidth <= 0 || dat.TileHeight <= 0 {
		return nil, fmt.Errorf("%w: snapshot %dx%d tiles of %dx%d px", tmx.ErrInvalidDimensions,
			dat.Width, dat.Height, dat.TileWidth, dat.TileHeight)
	}

	m := tilemap.New(int(dat.Width), int(dat.Height), int(dat.TileWidth), int(dat.TileHeight))
	m.Orientation = dat.Orientation
	m.BackgroundColor = dat.BackgroundColor
	m.Properties = propertyMap(dat.Properties)

	for _, tsd := range dat.Tilesets {
		ts := tilemap.NewTileset(tsd.Name, tsd.FirstGid, int(tsd.TileWidth), int(tsd.TileHeight), int(tsd.Columns), int(tsd.TileCount))
		ts.Spacing = int(tsd.Spacing)
		ts.Margin = int(tsd.Margin)
		ts.Image = tsd.Image
		for _, tile := range tsd.Tiles {
			for _, p := range tile.Properties {
				ts.SetTileProperty(int(tile.LocalId), p.Key, p.Value)
			}
		}

		if textures != nil && ts.Image != "" {
			tex, err := textures.Texture(ts.Image)
			if err != nil {
				log.Warn().Str("src", "serdes").Str("image", ts.Image).Err(err).Msg("Unable to load tileset image")
			} else {
				ts.Texture = tex
			}
		}
		m.AddTileset(ts)
	}

	for _, ld := range dat.Layers {
		if ld.Width <= 0 || ld.Height <= 0 {
			return nil, fmt.Errorf("%w: layer %q %dx%d", tmx.ErrInvalidDimensions, ld.Name, ld.Width, ld.Height)
		}
		l := tilemap.NewLayer(ld.Name, int(ld.Width), int(ld.Height))
		l.Opacity = ld.Opacity
		l.Visible = ld.Visible
		l.Type = tilemap.LayerType(ld.Type)
		l.Offset = phy2.V2(ld.OffsetX, ld.OffsetY)
		l.Properties = propertyMap(ld.Properties)

		tmx.FillLayer(m, l, ld.Gids)

		// The snapshot's flags are authoritative over tileset properties
		l.Each(func(x, y int, t *tilemap.Tile) {
			t.SetCollidable(false)
		})
		for _, i := range ld.Collidable {
			if t := l.At(int(i)%l.Width(), int(i)/l.Width()); t != nil && !t.IsEmpty() {
				t.SetCollidable(true)
			}
		}

		if !m.AddLayer(l) {
			return nil, fmt.Errorf("%w: duplicate layer %q", tmx.ErrMalformed, ld.Name)
		}
	}

	return m, nil
}
