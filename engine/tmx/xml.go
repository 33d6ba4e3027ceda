package tmx

import (
	"encoding/xml"
)

// Map is the <map> root of a TMX document.
type Map struct {
	XMLName         xml.Name     `xml:"map"`
	Version         string       `xml:"version,attr,omitempty"`
	TiledVersion    string       `xml:"tiledversion,attr,omitempty"`
	Orientation     string       `xml:"orientation,attr,omitempty"`
	RenderOrder     string       `xml:"renderorder,attr,omitempty"`
	Width           int          `xml:"width,attr"`
	Height          int          `xml:"height,attr"`
	TileWidth       int          `xml:"tilewidth,attr"`
	TileHeight      int          `xml:"tileheight,attr"`
	Infinite        int          `xml:"infinite,attr,omitempty"`
	BackgroundColor string       `xml:"backgroundcolor,attr,omitempty"`
	Properties      []Property   `xml:"properties>property"`
	Tilesets        []Tileset    `xml:"tileset"`
	Layers          []Layer      `xml:"layer"`
	ObjectGroups    []xmlSkipped `xml:"objectgroup"`
	ImageLayers     []xmlSkipped `xml:"imagelayer"`
	Groups          []Group      `xml:"group"`
}

// Tileset is either a <tileset> reference inside a map or the root of a TSX file.
type Tileset struct {
	XMLName    xml.Name      `xml:"tileset"`
	FirstGid   uint32        `xml:"firstgid,attr,omitempty"`
	Source     string        `xml:"source,attr,omitempty"`
	Name       string        `xml:"name,attr,omitempty"`
	TileWidth  int           `xml:"tilewidth,attr,omitempty"`
	TileHeight int           `xml:"tileheight,attr,omitempty"`
	Spacing    int           `xml:"spacing,attr,omitempty"`
	Margin     int           `xml:"margin,attr,omitempty"`
	TileCount  int           `xml:"tilecount,attr,omitempty"`
	Columns    int           `xml:"columns,attr,omitempty"`
	Image      *Image        `xml:"image"`
	Properties []Property    `xml:"properties>property"`
	Tiles      []TilesetTile `xml:"tile"`
}

type Image struct {
	Source string `xml:"source,attr"`
	Width  int    `xml:"width,attr,omitempty"`
	Height int    `xml:"height,attr,omitempty"`
}

// TilesetTile carries the per-tile properties of a tileset.
type TilesetTile struct {
	ID         int        `xml:"id,attr"`
	Type       string     `xml:"type,attr,omitempty"`
	Properties []Property `xml:"properties>property"`
}

type Property struct {
	Name  string `xml:"name,attr"`
	Type  string `xml:"type,attr,omitempty"`
	Value string `xml:"value,attr,omitempty"`
	Text  string `xml:",chardata"` // multi-line string properties
}

// Val returns the attribute value, falling back to the element text.
func (p Property) Val() string {
	if p.Value != "" {
		return p.Value
	}
	return p.Text
}

type Layer struct {
	ID         int        `xml:"id,attr,omitempty"`
	Name       string     `xml:"name,attr"`
	Width      int        `xml:"width,attr"`
	Height     int        `xml:"height,attr"`
	Opacity    *float64   `xml:"opacity,attr"`
	Visible    *int       `xml:"visible,attr"`
	OffsetX    float64    `xml:"offsetx,attr,omitempty"`
	OffsetY    float64    `xml:"offsety,attr,omitempty"`
	Properties []Property `xml:"properties>property"`
	Data       Data       `xml:"data"`
}

// Group nests layers and other groups. Its opacity and visibility multiply
// into every layer below it and its offset adds to theirs.
type Group struct {
	ID           int          `xml:"id,attr,omitempty"`
	Name         string       `xml:"name,attr"`
	Opacity      *float64     `xml:"opacity,attr"`
	Visible      *int         `xml:"visible,attr"`
	OffsetX      float64      `xml:"offsetx,attr,omitempty"`
	OffsetY      float64      `xml:"offsety,attr,omitempty"`
	Properties   []Property   `xml:"properties>property"`
	Layers       []Layer      `xml:"layer"`
	Groups       []Group      `xml:"group"`
	ObjectGroups []xmlSkipped `xml:"objectgroup"`
	ImageLayers  []xmlSkipped `xml:"imagelayer"`
}

// Data holds the tile payload of a layer in one of the supported encodings.
type Data struct {
	Encoding    string     `xml:"encoding,attr,omitempty"`
	Compression string     `xml:"compression,attr,omitempty"`
	Tiles       []DataTile `xml:"tile"`
	Content     string     `xml:",chardata"`
}

type DataTile struct {
	Gid uint32 `xml:"gid,attr,omitempty"`
}

type xmlSkipped struct {
	Name string `xml:"name,attr"`
}

func propertyMap(props []Property) map[string]string {
	ret := make(map[string]string, len(props))
	for _, p := range props {
		ret[p.Name] = p.Val()
	}
	return ret
}

// Marshal writes a TMX document with the standard XML header.
func Marshal(m *Map) ([]byte, error) {
	dat, err := xml.MarshalIndent(m, "", " ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), dat...), nil
}
