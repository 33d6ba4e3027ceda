package tmx

import (
	"github.com/unitoftime/tiled/engine/tilemap"
)

// Bit layout of a raw gid, as Tiled writes it.
const (
	FlipH   uint32 = 0x80000000
	FlipV   uint32 = 0x40000000
	FlipD   uint32 = 0x20000000
	GidMask uint32 = 0x1FFFFFFF
)

// DecodeGID splits a raw gid into the tile id and its flip flags.
func DecodeGID(raw uint32) (uint32, tilemap.Flags) {
	var flags tilemap.Flags
	if raw&FlipH != 0 {
		flags |= tilemap.FlagFlipH
	}
	if raw&FlipV != 0 {
		flags |= tilemap.FlagFlipV
	}
	if raw&FlipD != 0 {
		flags |= tilemap.FlagFlipD
	}
	return raw & GidMask, flags
}

// EncodeGID is the inverse of DecodeGID. Non-flip flags are ignored.
func EncodeGID(id uint32, flags tilemap.Flags) uint32 {
	raw := id & GidMask
	if flags&tilemap.FlagFlipH != 0 {
		raw |= FlipH
	}
	if flags&tilemap.FlagFlipV != 0 {
		raw |= FlipV
	}
	if flags&tilemap.FlagFlipD != 0 {
		raw |= FlipD
	}
	return raw
}
