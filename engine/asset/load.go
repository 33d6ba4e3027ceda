package asset

import (
	"encoding/json"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"io/fs"

	"github.com/unitoftime/packer"
	"gopkg.in/yaml.v3"
)

type Load struct {
	filesystem fs.FS
}

func NewLoad(filesystem fs.FS) *Load {
	return &Load{filesystem}
}

func (load *Load) Open(path string) (fs.File, error) {
	return load.filesystem.Open(path)
}

// FS returns the filesystem the loader reads from
func (load *Load) FS() fs.FS {
	return load.filesystem
}

func (load *Load) Image(path string) (image.Image, error) {
	file, err := load.filesystem.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func (load *Load) readAll(path string) ([]byte, error) {
	file, err := load.filesystem.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

func (load *Load) Json(path string, dat interface{}) error {
	jsonData, err := load.readAll(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(jsonData, dat)
}

func (load *Load) Yaml(path string, dat interface{}) error {
	yamlData, err := load.readAll(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(yamlData, dat)
}

// Spritesheet loads a packed atlas description and the image it names.
func (load *Load) Spritesheet(path string) (*Spritesheet, error) {
	serializedSpritesheet := packer.SerializedSpritesheet{}
	err := load.Json(path, &serializedSpritesheet)
	if err != nil {
		return nil, err
	}

	img, err := load.Image(serializedSpritesheet.ImageName)
	if err != nil {
		return nil, err
	}

	lookup := make(map[string]image.Rectangle)
	for k, v := range serializedSpritesheet.Frames {
		x, y := int(v.Frame.X), int(v.Frame.Y)
		lookup[k] = image.Rect(x, y, x+int(v.Frame.W), y+int(v.Frame.H))
	}

	return NewSpritesheet(img, lookup), nil
}

// Spritesheet is an atlas image plus the named regions packed into it.
type Spritesheet struct {
	image  image.Image
	lookup map[string]image.Rectangle
}

func NewSpritesheet(img image.Image, lookup map[string]image.Rectangle) *Spritesheet {
	return &Spritesheet{
		image:  img,
		lookup: lookup,
	}
}

func (s *Spritesheet) Get(name string) (image.Rectangle, error) {
	rect, ok := s.lookup[name]
	if !ok {
		return image.Rectangle{}, fmt.Errorf("invalid sprite name: %s", name)
	}
	return rect, nil
}

func (s *Spritesheet) Image() image.Image {
	return s.image
}
