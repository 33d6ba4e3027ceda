package main

import (
	"flag"
	"image/color"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog/log"
	"github.com/unitoftime/ecs"
	"github.com/unitoftime/flow/phy2"

	"github.com/unitoftime/tiled/config"
	"github.com/unitoftime/tiled/engine/asset"
	"github.com/unitoftime/tiled/engine/loop"
	"github.com/unitoftime/tiled/engine/physics"
	"github.com/unitoftime/tiled/engine/render"
	"github.com/unitoftime/tiled/engine/tilemap"
	"github.com/unitoftime/tiled/engine/tmx"
)

var configPath = flag.String("config", "", "toml config `file`")
var mapName = flag.String("map", "", "manifest map to open instead of the configured start map")

func check(err error) {
	if err != nil {
		log.Fatal().Err(err).Msg("tmxview")
	}
}

type Game struct {
	cfg *config.Config

	world     *ecs.World
	player    ecs.Id
	tmap      *tilemap.Map
	mapRender *render.TilemapRender
	camera    *render.Camera
	physics   *loop.FixedStep

	lastUpdate time.Time
}

func main() {
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	check(err)
	cfg.Logging.Apply()

	load := asset.NewLoad(os.DirFS(cfg.Assets.Root))
	manifest, err := asset.LoadManifest(load, cfg.Assets.Manifest)
	check(err)

	name := cfg.Game.StartMap
	if *mapName != "" {
		name = *mapName
	}
	if name == "" && len(manifest.Maps()) > 0 {
		name = manifest.Maps()[0].Name
	}
	entry, ok := manifest.Get(name)
	if !ok {
		log.Fatal().Str("map", name).Msg("Map not found in manifest")
	}
	if entry.CollisionLayer == "" {
		entry.CollisionLayer = cfg.Game.CollisionLayer
	}

	textures := render.NewTextures(load, cfg.Assets.TextureCache)
	if cfg.Assets.Atlas != "" {
		check(textures.UseAtlas(cfg.Assets.Atlas))
	}

	tmap, err := tmx.NewLoader(load.FS(), textures).Load(entry.Path)
	check(err)
	tmap.AutoSort = cfg.Game.AutoSort
	tmap.Culling = cfg.Camera.Culling
	tmap.BuildAllLayers(true)

	game := NewGame(cfg, tmap, entry)
	log.Info().Str("map", entry.Name).Str("path", entry.Path).Msg("Starting viewer")

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	check(ebiten.RunGame(game))
}

func NewGame(cfg *config.Config, tmap *tilemap.Map, entry asset.MapEntry) *Game {
	world := ecs.NewWorld()

	player := world.NewId()
	ecs.Write(world, player,
		ecs.C(physics.Input{}),
		ecs.C(render.ArrowKeybinds()),
		ecs.C(phy2.Pos{X: entry.SpawnX, Y: entry.SpawnY}),
		ecs.C(physics.Collider{W: cfg.Game.PlayerWidth, H: cfg.Game.PlayerHeight}),
		ecs.C(render.Sprite{
			Position: phy2.V2(entry.SpawnX, entry.SpawnY),
			W:        cfg.Game.PlayerWidth,
			H:        cfg.Game.PlayerHeight,
			Color:    color.RGBA{230, 60, 60, 255},
		}),
	)

	camera := render.NewCamera(cfg.Window.Width, cfg.Window.Height, entry.SpawnX, entry.SpawnY)
	camera.Zoom = cfg.Camera.Zoom
	tmap.SetCamera(camera)

	collisionLayer := entry.CollisionLayer
	physicsSystems := []loop.System{
		{Name: "MoveCharacters", Func: func(dt time.Duration) {
			physics.MoveCharacters(world, tmap, collisionLayer, cfg.Game.PlayerSpeed, dt)
		}},
	}

	return &Game{
		cfg:        cfg,
		world:      world,
		player:     player,
		tmap:       tmap,
		mapRender:  render.NewTilemapRender(tmap),
		camera:     camera,
		physics:    loop.NewFixedStep(cfg.Game.TickRate, physicsSystems...),
		lastUpdate: time.Now(),
	}
}

func (g *Game) Update() error {
	now := time.Now()
	dt := now.Sub(g.lastUpdate)
	g.lastUpdate = now

	render.CaptureInput(g.world)
	g.physics.Advance(dt)
	render.InterpolateSpritePositions(g.world)

	_, wheel := ebiten.Wheel()
	g.camera.Zoom += wheel * 0.1

	if sprite, ok := ecs.Read[render.Sprite](g.world, g.player); ok {
		center := sprite.Position.Add(phy2.V2(sprite.W/2, sprite.H/2))
		g.camera.Position = render.Interpolate(g.camera.Position, center, 0, 64)
	}
	g.camera.Update()

	g.tmap.Update(dt)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.mapRender.Draw(screen, g.camera)
	render.DrawSprites(screen, g.world, g.camera)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.camera.SetViewport(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
