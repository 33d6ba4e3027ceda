package physics

import (
	"github.com/unitoftime/flow/phy2"
	"github.com/unitoftime/flow/tile"
	"github.com/zyedidia/generic"

	"github.com/unitoftime/tiled/engine/tilemap"
)

// tileSpan converts pixel bounds into the inclusive tile rectangle they cover,
// clipped to the layer. ok is false when nothing of the layer is covered.
func tileSpan(m *tilemap.Map, l *tilemap.Layer, bounds tilemap.RectF) (lo, hi tile.TilePosition, ok bool) {
	size := m.PixelSize()
	if !bounds.Intersects(tilemap.R(0, 0, size.X, size.Y)) {
		// WorldToTile truncates, so boxes just above or left of the map would otherwise land on row/column 0
		return lo, hi, false
	}

	lo = m.WorldToTile(bounds.Min())
	hi = m.WorldToTile(bounds.Max())

	lo.X = generic.Max(lo.X, 0)
	lo.Y = generic.Max(lo.Y, 0)
	hi.X = generic.Min(hi.X, l.Width()-1)
	hi.Y = generic.Min(hi.Y, l.Height()-1)
	return lo, hi, lo.X <= hi.X && lo.Y <= hi.Y
}

// CheckCollision reports whether any collidable tile of the named layer overlaps bounds.
// A missing layer never collides.
func CheckCollision(m *tilemap.Map, layerName string, bounds tilemap.RectF) bool {
	l := m.GetLayer(layerName)
	if l == nil {
		return false
	}

	lo, hi, ok := tileSpan(m, l, bounds)
	if !ok {
		return false
	}
	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			if t := l.At(x, y); t != nil && t.IsCollidable() {
				return true
			}
		}
	}
	return false
}

// GetCollidingTiles returns copies of every collidable tile overlapping bounds, row-major.
func GetCollidingTiles(m *tilemap.Map, layerName string, bounds tilemap.RectF) []tilemap.Tile {
	ret := make([]tilemap.Tile, 0)
	l := m.GetLayer(layerName)
	if l == nil {
		return ret
	}

	lo, hi, ok := tileSpan(m, l, bounds)
	if !ok {
		return ret
	}
	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			if t := l.At(x, y); t != nil && t.IsCollidable() {
				ret = append(ret, *t)
			}
		}
	}
	return ret
}

// ResolveCollision slides a box of the given size from current towards target.
// X movement is tried first, then Y; if both collide the box stays put.
func ResolveCollision(m *tilemap.Map, layerName string, current, target, size phy2.Vec2) phy2.Vec2 {
	xOnly := phy2.V2(target.X, current.Y)
	if !CheckCollision(m, layerName, tilemap.R(xOnly.X, xOnly.Y, size.X, size.Y)) {
		return xOnly
	}

	yOnly := phy2.V2(current.X, target.Y)
	if !CheckCollision(m, layerName, tilemap.R(yOnly.X, yOnly.Y, size.X, size.Y)) {
		return yOnly
	}

	return current
}
