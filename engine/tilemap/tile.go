package tilemap

import (
	"github.com/unitoftime/flow/phy2"
)

// Flags is a packed set of independent per-tile booleans.
type Flags uint8

const (
	FlagCollidable Flags = 1 << iota
	FlagFlipH
	FlagFlipV
	FlagFlipD
)

// FlipMask covers the three flip flags.
const FlipMask = FlagFlipH | FlagFlipV | FlagFlipD

// Rect is a pixel rectangle inside a texture.
type Rect struct {
	X, Y, W, H int
}

// RectF is a world space rectangle in pixels.
type RectF struct {
	X, Y, W, H float64
}

func R(x, y, w, h float64) RectF {
	return RectF{x, y, w, h}
}

// Min returns the top-left corner
func (r RectF) Min() phy2.Vec2 {
	return phy2.V2(r.X, r.Y)
}

// Max returns the bottom-right corner
func (r RectF) Max() phy2.Vec2 {
	return phy2.V2(r.X+r.W, r.Y+r.H)
}

func (r RectF) Moved(v phy2.Vec2) RectF {
	return RectF{r.X + v.X, r.Y + v.Y, r.W, r.H}
}

// Intersects reports whether the two rectangles overlap with a non-zero area.
func (r RectF) Intersects(o RectF) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Tile is a single cell of a layer. Gid has the flip bits stripped, the flips live in flags.
// A Tile with Gid 0 is empty and its other fields carry no meaning.
type Tile struct {
	Gid         uint32
	LocalId     int
	TextureRect Rect
	Position    phy2.Vec2 // top-left, in pixels
	flags       Flags
}

// CreateEmpty returns an empty tile placed at pos.
func CreateEmpty(pos phy2.Vec2) Tile {
	return Tile{
		Gid:      0,
		LocalId:  -1,
		Position: pos,
	}
}

func (t Tile) IsEmpty() bool {
	return t.Gid == 0
}

// Equal compares Gid, LocalId and Position. Flags are not part of a tile's identity.
func (t Tile) Equal(o Tile) bool {
	return t.Gid == o.Gid && t.LocalId == o.LocalId && t.Position == o.Position
}

func (t Tile) Flags() Flags {
	return t.flags
}

func (t Tile) Has(f Flags) bool {
	return t.flags&f == f
}

// Set turns the given flags on or off, leaving every other flag untouched.
func (t *Tile) Set(f Flags, on bool) {
	if on {
		t.flags |= f
	} else {
		t.flags &^= f
	}
}

func (t Tile) IsCollidable() bool { return t.Has(FlagCollidable) }
func (t Tile) FlippedH() bool     { return t.Has(FlagFlipH) }
func (t Tile) FlippedV() bool     { return t.Has(FlagFlipV) }
func (t Tile) FlippedD() bool     { return t.Has(FlagFlipD) }

func (t *Tile) SetCollidable(on bool) { t.Set(FlagCollidable, on) }
func (t *Tile) SetFlippedH(on bool)   { t.Set(FlagFlipH, on) }
func (t *Tile) SetFlippedV(on bool)   { t.Set(FlagFlipV, on) }
func (t *Tile) SetFlippedD(on bool)   { t.Set(FlagFlipD, on) }
