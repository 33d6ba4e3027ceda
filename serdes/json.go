package serdes

import (
	"encoding/json"
	"fmt"

	"github.com/unitoftime/tiled/engine/tilemap"
	"github.com/unitoftime/tiled/engine/tmx"
)

func MarshalMapJSON(m *tilemap.Map) ([]byte, error) {
	return json.MarshalIndent(Snapshot(m), "", "  ")
}

func UnmarshalMapJSON(dat []byte, textures tmx.TextureProvider) (*tilemap.Map, error) {
	snap := MapData{}
	if err := json.Unmarshal(dat, &snap); err != nil {
		return nil, fmt.Errorf("%w: %w", tmx.ErrMalformed, err)
	}
	return Restore(snap, textures)
}
