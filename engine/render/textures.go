package render

import (
	"fmt"
	"path"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog/log"
	"github.com/zyedidia/generic/cache"

	"github.com/unitoftime/tiled/engine/asset"
	"github.com/unitoftime/tiled/engine/tilemap"
)

// Textures loads tileset images as ebiten images and keeps the most recent ones around.
// If an atlas is attached, images packed into it are served as sub images instead.
type Textures struct {
	load  *asset.Load
	cache *cache.Cache[string, *ebiten.Image]

	atlas      *asset.Spritesheet
	atlasImage *ebiten.Image
}

func NewTextures(load *asset.Load, capacity int) *Textures {
	if capacity <= 0 {
		capacity = 64
	}
	return &Textures{
		load:  load,
		cache: cache.New[string, *ebiten.Image](capacity),
	}
}

// UseAtlas loads a packed spritesheet. Frames are looked up by image file name.
func (t *Textures) UseAtlas(jsonPath string) error {
	sheet, err := t.load.Spritesheet(jsonPath)
	if err != nil {
		return fmt.Errorf("load atlas %s: %w", jsonPath, err)
	}
	t.atlas = sheet
	t.atlasImage = ebiten.NewImageFromImage(sheet.Image())
	return nil
}

func (t *Textures) Texture(p string) (tilemap.Texture, error) {
	img, err := t.Image(p)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (t *Textures) Image(p string) (*ebiten.Image, error) {
	if img, ok := t.cache.Get(p); ok {
		return img, nil
	}

	if t.atlas != nil {
		if rect, err := t.atlas.Get(path.Base(p)); err == nil {
			img := t.atlasImage.SubImage(rect).(*ebiten.Image)
			t.cache.Put(p, img)
			return img, nil
		}
	}

	src, err := t.load.Image(p)
	if err != nil {
		return nil, err
	}
	img := ebiten.NewImageFromImage(src)
	t.cache.Put(p, img)

	log.Debug().Str("src", "render").Str("path", p).Msg("Loaded texture")
	return img, nil
}
