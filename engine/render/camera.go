package render

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/unitoftime/flow/phy2"
	"github.com/zyedidia/generic"

	"github.com/unitoftime/tiled/engine/tilemap"
)

const (
	MinZoom = 0.25
	MaxZoom = 8.0
)

// Camera centers Position on the screen. It satisfies tilemap.Camera.
type Camera struct {
	Position phy2.Vec2
	Zoom     float64

	width, height float64
	mat           ebiten.GeoM
}

func NewCamera(width, height int, x, y float64) *Camera {
	return &Camera{
		Position: phy2.V2(x, y),
		Zoom:     1.0,
		width:    float64(width),
		height:   float64(height),
	}
}

// SetViewport sets the screen size in pixels
func (c *Camera) SetViewport(width, height int) {
	c.width = float64(width)
	c.height = float64(height)
}

func (c *Camera) Update() {
	c.Zoom = generic.Clamp(c.Zoom, MinZoom, MaxZoom)

	c.mat.Reset()
	c.mat.Translate(math.Floor(-c.Position.X), math.Floor(-c.Position.Y))
	c.mat.Scale(c.Zoom, c.Zoom)
	c.mat.Translate(c.width/2, c.height/2)
}

func (c *Camera) GeoM() ebiten.GeoM {
	return c.mat
}

// VisibleRect returns the world rectangle covered by the viewport
func (c *Camera) VisibleRect() tilemap.RectF {
	zoom := generic.Clamp(c.Zoom, MinZoom, MaxZoom)
	w := c.width / zoom
	h := c.height / zoom
	return tilemap.R(c.Position.X-w/2, c.Position.Y-h/2, w, h)
}

// ScreenToWorld converts a screen pixel (eg the cursor) into world space
func (c *Camera) ScreenToWorld(x, y int) phy2.Vec2 {
	inv := c.mat
	inv.Invert()
	wx, wy := inv.Apply(float64(x), float64(y))
	return phy2.V2(wx, wy)
}
