package render

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/unitoftime/tiled/engine/tilemap"
)

// TilemapRender draws a map behind its background color through a camera.
type TilemapRender struct {
	tmap       *tilemap.Map
	screen     *Screen
	background color.RGBA
}

func NewTilemapRender(m *tilemap.Map) *TilemapRender {
	bg, _ := ParseColor(m.BackgroundColor)
	return &TilemapRender{
		tmap:       m,
		screen:     NewScreen(),
		background: bg,
	}
}

func (r *TilemapRender) Map() *tilemap.Map {
	return r.tmap
}

func (r *TilemapRender) Draw(dst *ebiten.Image, camera *Camera) {
	if r.background.A > 0 {
		dst.Fill(r.background)
	}
	r.screen.Begin(dst, camera.GeoM())
	r.tmap.Draw(r.screen)
}

// ParseColor reads Tiled's #RRGGBB and #AARRGGBB colors.
func ParseColor(s string) (color.RGBA, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 && len(s) != 8 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}

	c := color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}
	if len(s) == 8 {
		c.A = uint8(v >> 24)
	}
	return c, true
}
