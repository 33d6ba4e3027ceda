package tmx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/unitoftime/flow/phy2"
	"github.com/unitoftime/flow/tile"
	"github.com/zyedidia/generic"

	"github.com/unitoftime/tiled/engine/tilemap"
)

var (
	ErrNoMapElement        = errors.New("missing <map> element")
	ErrInvalidDimensions   = errors.New("dimensions must be positive")
	ErrMissingResource     = errors.New("missing resource")
	ErrMalformed           = errors.New("malformed document")
	ErrUnsupportedEncoding = errors.New("unsupported tile data encoding")
)

// TextureProvider turns an image path into a texture handle.
type TextureProvider interface {
	Texture(path string) (tilemap.Texture, error)
}

// Loader reads TMX maps and TSX tilesets out of a filesystem.
// Textures may be nil, in which case tilesets load without textures.
type Loader struct {
	FS       fs.FS
	Textures TextureProvider
	Logger   *zerolog.Logger // nil uses the global logger
}

func NewLoader(fsys fs.FS, textures TextureProvider) *Loader {
	return &Loader{
		FS:       fsys,
		Textures: textures,
	}
}

// Load is a shorthand for NewLoader(fsys, textures).Load(p)
func Load(fsys fs.FS, p string, textures TextureProvider) (*tilemap.Map, error) {
	return NewLoader(fsys, textures).Load(p)
}

func (l *Loader) logger() *zerolog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return &log.Logger
}

// Load parses the map at p and everything it references.
// On failure the returned map is nil; a partially built map is never returned.
func (l *Loader) Load(p string) (*tilemap.Map, error) {
	doc, err := l.ReadMap(p)
	if err != nil {
		l.logger().Error().Str("src", "tmx").Str("path", p).Err(err).Msg("Failed to load map")
		return nil, err
	}

	m, err := l.Build(doc, path.Dir(p))
	if err != nil {
		l.logger().Error().Str("src", "tmx").Str("path", p).Err(err).Msg("Failed to build map")
		return nil, err
	}

	l.logger().Info().Str("src", "tmx").Str("path", p).
		Int("width", m.Width()).Int("height", m.Height()).
		Int("layers", m.LayerCount()).Int("tilesets", len(m.Tilesets())).
		Msg("Loaded map")
	return m, nil
}

// ReadMap parses and validates the TMX document without resolving anything it references.
func (l *Loader) ReadMap(p string) (*Map, error) {
	dat, err := fs.ReadFile(l.FS, p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMissingResource, p, err)
	}

	doc := Map{}
	found, err := decodeRoot(dat, "map", &doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", p, ErrNoMapElement)
	}
	if err := validateMap(&doc); err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return &doc, nil
}

func validateMap(doc *Map) error {
	if doc.Width <= 0 || doc.Height <= 0 || doc.TileWidth <= 0 || doc.TileHeight <= 0 {
		return fmt.Errorf("%w: map %dx%d tiles of %dx%d px", ErrInvalidDimensions,
			doc.Width, doc.Height, doc.TileWidth, doc.TileHeight)
	}
	return nil
}

// decodeRoot decodes the first element of the document into v if it is named root.
func decodeRoot(dat []byte, root string, v any) (bool, error) {
	dec := xml.NewDecoder(bytes.NewReader(dat))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != root {
			return false, nil
		}
		if err := dec.DecodeElement(v, &start); err != nil {
			return false, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		return true, nil
	}
}

// Build populates a tilemap from a parsed document. dir is the directory that
// relative tileset and image paths are resolved against.
func (l *Loader) Build(doc *Map, dir string) (*tilemap.Map, error) {
	if err := validateMap(doc); err != nil {
		return nil, err
	}

	m := tilemap.New(doc.Width, doc.Height, doc.TileWidth, doc.TileHeight)
	if doc.Orientation != "" {
		m.Orientation = doc.Orientation
	}
	if m.Orientation != "orthogonal" {
		l.logger().Warn().Str("src", "tmx").Str("orientation", m.Orientation).Msg("Only orthogonal maps are rendered correctly")
	}
	if doc.Infinite != 0 {
		l.logger().Warn().Str("src", "tmx").Msg("Infinite maps are not supported, chunked layers will be empty")
	}
	m.BackgroundColor = doc.BackgroundColor
	m.Properties = propertyMap(doc.Properties)

	for i := range doc.Tilesets {
		ts, err := l.loadTileset(doc.Tilesets[i], dir)
		if err != nil {
			l.logger().Warn().Str("src", "tmx").Err(err).Msg("Skipping tileset")
			continue
		}
		m.AddTileset(ts)
	}

	for i := range doc.Layers {
		l.loadLayer(m, doc.Layers[i], rootGroup)
	}

	skipped := len(doc.ObjectGroups) + len(doc.ImageLayers)
	for i := range doc.Groups {
		skipped += l.loadGroup(m, doc.Groups[i], rootGroup)
	}
	if skipped > 0 {
		l.logger().Debug().Str("src", "tmx").Int("count", skipped).Msg("Skipped non-tile layers")
	}

	return m, nil
}

// LoadTileset reads a standalone TSX file. The returned tileset has FirstGid 0.
func (l *Loader) LoadTileset(p string) (*tilemap.Tileset, error) {
	return l.loadTileset(Tileset{Source: path.Base(p)}, path.Dir(p))
}

func (l *Loader) loadTileset(ref Tileset, dir string) (*tilemap.Tileset, error) {
	src := ref
	base := dir

	if ref.Source != "" {
		tsxPath := path.Join(dir, ref.Source)
		dat, err := fs.ReadFile(l.FS, tsxPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMissingResource, tsxPath, err)
		}

		tsx := Tileset{}
		found, err := decodeRoot(dat, "tileset", &tsx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tsxPath, err)
		}
		if !found {
			return nil, fmt.Errorf("%w: %s: missing <tileset> element", ErrMalformed, tsxPath)
		}
		src = tsx
		base = path.Dir(tsxPath)
	}

	if src.TileWidth <= 0 || src.TileHeight <= 0 {
		return nil, fmt.Errorf("%w: tileset %q tile size %dx%d", ErrInvalidDimensions, src.Name, src.TileWidth, src.TileHeight)
	}

	columns := src.Columns
	tileCount := src.TileCount
	if src.Image != nil {
		if columns <= 0 && src.Image.Width > 0 {
			columns = (src.Image.Width - 2*src.Margin + src.Spacing) / (src.TileWidth + src.Spacing)
		}
		if tileCount <= 0 && src.Image.Height > 0 {
			rows := (src.Image.Height - 2*src.Margin + src.Spacing) / (src.TileHeight + src.Spacing)
			tileCount = generic.Max(columns, 0) * generic.Max(rows, 0)
		}
	}

	// The map's firstgid always wins over anything in the TSX
	ts := tilemap.NewTileset(src.Name, ref.FirstGid, src.TileWidth, src.TileHeight, columns, tileCount)
	ts.Spacing = src.Spacing
	ts.Margin = src.Margin

	for _, st := range src.Tiles {
		for _, p := range st.Properties {
			ts.SetTileProperty(st.ID, p.Name, p.Val())
		}
	}

	if src.Image == nil || src.Image.Source == "" {
		l.logger().Warn().Str("src", "tmx").Str("tileset", ts.Name).Msg("Tileset has no image")
		return ts, nil
	}

	ts.Image = path.Join(base, src.Image.Source)
	if l.Textures != nil {
		tex, err := l.Textures.Texture(ts.Image)
		if err != nil {
			l.logger().Warn().Str("src", "tmx").Str("tileset", ts.Name).Str("image", ts.Image).Err(err).Msg("Unable to load tileset image")
		} else {
			ts.Texture = tex
		}
	}

	return ts, nil
}

// inherited carries the combined attributes of the groups enclosing a layer.
type inherited struct {
	opacity float64
	visible bool
	offset  phy2.Vec2
}

var rootGroup = inherited{opacity: 1, visible: true}

func (g inherited) apply(opacity *float64, visible *int, offsetX, offsetY float64) inherited {
	if opacity != nil {
		g.opacity *= *opacity
	}
	if visible != nil && *visible == 0 {
		g.visible = false
	}
	g.offset = g.offset.Add(phy2.V2(offsetX, offsetY))
	return g
}

// loadGroup flattens the tile layers of a group into the map after the
// top-level layers. It returns the number of non-tile layers it skipped.
func (l *Loader) loadGroup(m *tilemap.Map, xg Group, parent inherited) int {
	g := parent.apply(xg.Opacity, xg.Visible, xg.OffsetX, xg.OffsetY)
	for i := range xg.Layers {
		l.loadLayer(m, xg.Layers[i], g)
	}

	skipped := len(xg.ObjectGroups) + len(xg.ImageLayers)
	for i := range xg.Groups {
		skipped += l.loadGroup(m, xg.Groups[i], g)
	}
	return skipped
}

func (l *Loader) loadLayer(m *tilemap.Map, xl Layer, parent inherited) {
	if xl.Width <= 0 || xl.Height <= 0 {
		l.logger().Warn().Str("src", "tmx").Str("layer", xl.Name).
			Int("width", xl.Width).Int("height", xl.Height).
			Msg("Skipping layer with invalid dimensions")
		return
	}

	attrs := parent.apply(xl.Opacity, xl.Visible, xl.OffsetX, xl.OffsetY)
	layer := tilemap.NewLayer(xl.Name, xl.Width, xl.Height)
	layer.Opacity = attrs.opacity
	layer.Visible = attrs.visible
	layer.Offset = attrs.offset
	layer.Properties = propertyMap(xl.Properties)
	layer.Type = InferLayerType(xl.Name, layer.Properties)

	gids, err := DecodeData(xl.Data)
	if err != nil {
		l.logger().Warn().Str("src", "tmx").Str("layer", xl.Name).Err(err).Msg("Unable to decode tile data, layer left empty")
		gids = nil
	}

	expected := xl.Width * xl.Height
	if gids != nil && len(gids) != expected {
		l.logger().Warn().Str("src", "tmx").Str("layer", xl.Name).
			Int("expected", expected).Int("decoded", len(gids)).
			Msg("Tile count does not match layer size")
	}

	used := FillLayer(m, layer, gids)
	if len(used) > 1 {
		l.logger().Warn().Str("src", "tmx").Str("layer", xl.Name).Int("tilesets", len(used)).
			Msg("Layer uses more than one tileset, only the first is bound")
	}

	m.AddLayer(layer)
}

// InferLayerType picks the type property first, then a name match, then Ground.
func InferLayerType(name string, props map[string]string) tilemap.LayerType {
	if v, ok := props["type"]; ok {
		if t, ok := tilemap.ParseLayerType(v); ok {
			return t
		}
	}

	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "collision"):
		return tilemap.LayerCollision
	case strings.Contains(lower, "background"):
		return tilemap.LayerBackground
	case strings.Contains(lower, "foreground"):
		return tilemap.LayerForeground
	}
	return tilemap.LayerGround
}

// FillLayer writes raw gids into the layer row-major. Gids past the end of the
// layer are ignored and cells past the end of gids become empty tiles at their
// own position. It binds the texture of the first tileset referenced and
// returns every tileset referenced, in first use order.
func FillLayer(m *tilemap.Map, layer *tilemap.Layer, gids []uint32) []*tilemap.Tileset {
	used := make([]*tilemap.Tileset, 0, 1)

	w := layer.Width()
	for i := 0; i < w*layer.Height(); i++ {
		x, y := i%w, i/w
		pos := m.TileToWorld(tile.TilePosition{X: x, Y: y})
		if i >= len(gids) {
			layer.SetTile(x, y, tilemap.CreateEmpty(pos))
			continue
		}

		t, ts := decodeTile(m, gids[i], pos)
		layer.SetTile(x, y, t)
		if ts == nil {
			continue
		}

		seen := false
		for _, u := range used {
			if u == ts {
				seen = true
				break
			}
		}
		if !seen {
			used = append(used, ts)
		}
	}

	if len(used) > 0 {
		layer.SetTexture(used[0].Texture)
	}
	return used
}

// DecodeTile resolves a raw gid into a tile at pos. Anything that cannot be
// resolved becomes an empty tile.
func DecodeTile(m *tilemap.Map, raw uint32, pos phy2.Vec2) tilemap.Tile {
	t, _ := decodeTile(m, raw, pos)
	return t
}

func decodeTile(m *tilemap.Map, raw uint32, pos phy2.Vec2) (tilemap.Tile, *tilemap.Tileset) {
	id, flags := DecodeGID(raw)
	if id == 0 {
		return tilemap.CreateEmpty(pos), nil
	}

	ts := m.GetTilesetForGid(id)
	if ts == nil {
		return tilemap.CreateEmpty(pos), nil
	}
	local := ts.GidToLocalId(id)
	if local < 0 {
		return tilemap.CreateEmpty(pos), nil
	}

	t := tilemap.Tile{
		Gid:         id,
		LocalId:     local,
		TextureRect: ts.TileRect(local),
		Position:    pos,
	}
	t.Set(flags, true)

	if v, ok := ts.TileProperty(local, "collision"); ok && (v == "true" || v == "1") {
		t.SetCollidable(true)
	}
	return t, ts
}
