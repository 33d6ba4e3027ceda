package tmx

import (
	"testing"

	"github.com/unitoftime/tiled/engine/tilemap"
)

func TestDecodeGID(t *testing.T) {
	tests := []struct {
		raw   uint32
		id    uint32
		flags tilemap.Flags
	}{
		{0, 0, 0},
		{17, 17, 0},
		{17 | FlipH, 17, tilemap.FlagFlipH},
		{17 | FlipV, 17, tilemap.FlagFlipV},
		{17 | FlipD, 17, tilemap.FlagFlipD},
		{FlipH | FlipV | FlipD | GidMask, GidMask, tilemap.FlipMask},
	}
	for _, tt := range tests {
		id, flags := DecodeGID(tt.raw)
		if id != tt.id || flags != tt.flags {
			t.Errorf("DecodeGID(%#x) = %d %b, want %d %b", tt.raw, id, flags, tt.id, tt.flags)
		}
	}
}

func TestGIDRoundTrip(t *testing.T) {
	for _, flags := range []tilemap.Flags{0, tilemap.FlagFlipH, tilemap.FlagFlipV | tilemap.FlagFlipD, tilemap.FlipMask} {
		raw := EncodeGID(42, flags)
		id, got := DecodeGID(raw)
		if id != 42 || got != flags {
			t.Errorf("round trip %b -> %d %b", flags, id, got)
		}
	}

	// Collision is not part of the gid
	if raw := EncodeGID(3, tilemap.FlagCollidable); raw != 3 {
		t.Errorf("expected 3, got %#x", raw)
	}
}
