package serdes

import (
	"fmt"

	"github.com/unitoftime/binary"

	"github.com/unitoftime/tiled/engine/tilemap"
	"github.com/unitoftime/tiled/engine/tmx"
)

type PackedMap struct {
	Version uint16
	Payload []byte
}

// MarshalMap bakes the map into the binary snapshot format
func MarshalMap(m *tilemap.Map) ([]byte, error) {
	payload, err := binary.Marshal(Snapshot(m))
	if err != nil {
		return nil, err
	}

	return binary.Marshal(PackedMap{
		Version: SnapshotVersion,
		Payload: payload,
	})
}

func UnmarshalMap(dat []byte, textures tmx.TextureProvider) (*tilemap.Map, error) {
	msg := PackedMap{}
	err := binary.Unmarshal(dat, &msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tmx.ErrMalformed, err)
	}
	if msg.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: snapshot version %d, expected %d", tmx.ErrMalformed, msg.Version, SnapshotVersion)
	}

	snap := MapData{}
	err = binary.Unmarshal(msg.Payload, &snap)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tmx.ErrMalformed, err)
	}
	return Restore(snap, textures)
}
