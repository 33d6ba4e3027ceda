package pgen

import (
	"image"
	"image/color"
	"math"
	"math/rand"
	"strconv"

	"github.com/ungerik/go3d/float64/vec2"

	"github.com/unitoftime/tiled/engine/tmx"
)

// Local ids of the generated tileset
const (
	WaterTile = iota
	SandTile
	GrassTile
	RoadTile
	tileKinds
)

var tileColors = [tileKinds]color.RGBA{
	WaterTile: {40, 90, 200, 255},
	SandTile:  {220, 200, 130, 255},
	GrassTile: {70, 160, 60, 255},
	RoadTile:  {130, 100, 70, 255},
}

type IslandConfig struct {
	Seed          int64
	Width, Height int
	TileSize      int
	TilesetImage  string // image path as written into the document
	RoadPoints    int
	RoadWidth     int
}

func DefaultIslandConfig(seed int64) IslandConfig {
	return IslandConfig{
		Seed:         seed,
		Width:        64,
		Height:       64,
		TileSize:     16,
		TilesetImage: "island.png",
		RoadPoints:   8,
		RoadWidth:    1,
	}
}

// GenerateIsland builds a TMX document of a noise island crossed by a road.
// Water is written to both the Ground and the Collision layer.
func GenerateIsland(cfg IslandConfig) *tmx.Map {
	octaves := []Octave{
		{0.01, 0.6},
		{0.05, 0.3},
		{0.1, 0.07},
		{0.2, 0.02},
		{0.4, 0.01},
	}
	exponent := 0.8
	terrain := NewNoiseMap(cfg.Seed, octaves, exponent)

	waterLevel := 0.5
	beachLevel := waterLevel + 0.1
	islandExponent := 2.0

	ground := make([]int, cfg.Width*cfg.Height)
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			height := terrain.Get(x, y)

			// Modify height to represent an island
			{
				dx := float64(x)/float64(cfg.Width) - 0.5
				dy := float64(y)/float64(cfg.Height) - 0.5
				d := math.Sqrt(dx*dx+dy*dy) * 2
				d = math.Pow(d, islandExponent)
				height = (1 - d + height) / 2
			}

			kind := GrassTile
			if height < waterLevel {
				kind = WaterTile
			} else if height < beachLevel {
				kind = SandTile
			}
			ground[y*cfg.Width+x] = kind
		}
	}

	carveRoad(ground, cfg)

	groundGids := make([]uint32, len(ground))
	collisionGids := make([]uint32, len(ground))
	for i, kind := range ground {
		groundGids[i] = uint32(kind) + 1
		if kind == WaterTile {
			collisionGids[i] = uint32(kind) + 1
		}
	}

	return &tmx.Map{
		Version:     "1.10",
		Orientation: "orthogonal",
		RenderOrder: "right-down",
		Width:       cfg.Width,
		Height:      cfg.Height,
		TileWidth:   cfg.TileSize,
		TileHeight:  cfg.TileSize,
		Properties: []tmx.Property{
			{Name: "seed", Type: "int", Value: strconv.FormatInt(cfg.Seed, 10)},
		},
		Tilesets: []tmx.Tileset{islandTileset(cfg)},
		Layers: []tmx.Layer{
			csvLayer(1, "Ground", cfg.Width, cfg.Height, groundGids),
			csvLayer(2, "Collision", cfg.Width, cfg.Height, collisionGids),
		},
	}
}

// carveRoad lays a road from the west edge to the east edge through the middle of the island.
func carveRoad(ground []int, cfg IslandConfig) {
	if cfg.RoadPoints < 2 {
		return
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	mid := float64(cfg.Height) / 2
	start := vec2.T{0, mid}
	end := vec2.T{float64(cfg.Width - 1), mid}
	points := Path(rng, start, end, cfg.RoadPoints, float64(cfg.Height)/6)

	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		delta := vec2.Sub(&b, &a)
		steps := int(math.Ceil(math.Max(math.Abs(delta[0]), math.Abs(delta[1])))) + 1
		for s := 0; s <= steps; s++ {
			p := vec2.Interpolate(&a, &b, float64(s)/float64(steps))
			paint(ground, cfg, int(math.Round(p[0])), int(math.Round(p[1])), cfg.RoadWidth)
		}
	}
}

func paint(ground []int, cfg IslandConfig, cx, cy, radius int) {
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			if x < 0 || x >= cfg.Width || y < 0 || y >= cfg.Height {
				continue
			}
			ground[y*cfg.Width+x] = RoadTile
		}
	}
}

func islandTileset(cfg IslandConfig) tmx.Tileset {
	return tmx.Tileset{
		FirstGid:   1,
		Name:       "island",
		TileWidth:  cfg.TileSize,
		TileHeight: cfg.TileSize,
		TileCount:  tileKinds,
		Columns:    tileKinds,
		Image: &tmx.Image{
			Source: cfg.TilesetImage,
			Width:  cfg.TileSize * tileKinds,
			Height: cfg.TileSize,
		},
		Tiles: []tmx.TilesetTile{
			{
				ID:         WaterTile,
				Type:       "water",
				Properties: []tmx.Property{{Name: "collision", Type: "bool", Value: "true"}},
			},
		},
	}
}

func csvLayer(id int, name string, w, h int, gids []uint32) tmx.Layer {
	return tmx.Layer{
		ID:     id,
		Name:   name,
		Width:  w,
		Height: h,
		Data: tmx.Data{
			Encoding: "csv",
			Content:  tmx.EncodeCSV(gids, w),
		},
	}
}

// TilesetImage renders the flat colored tiles the generated tileset points at.
func TilesetImage(tileSize int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, tileSize*tileKinds, tileSize))
	for kind := 0; kind < tileKinds; kind++ {
		for y := 0; y < tileSize; y++ {
			for x := 0; x < tileSize; x++ {
				img.SetRGBA(kind*tileSize+x, y, tileColors[kind])
			}
		}
	}
	return img
}
