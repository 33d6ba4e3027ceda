package main

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/unitoftime/flow/phy2"

	"github.com/unitoftime/tiled/engine/asset"
	"github.com/unitoftime/tiled/engine/pgen"
	"github.com/unitoftime/tiled/engine/tilemap"
	"github.com/unitoftime/tiled/engine/tmx"
	"github.com/unitoftime/tiled/serdes"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "validate":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Usage: maptools validate <asset-root> <manifest>")
			os.Exit(1)
		}
		os.Exit(runValidate(args[0], args[1]))
	case "stats":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: maptools stats <map.tmx>")
			os.Exit(1)
		}
		os.Exit(runStats(args[0]))
	case "bake":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Usage: maptools bake <map.tmx> <out.bin|out.json>")
			os.Exit(1)
		}
		os.Exit(runBake(args[0], args[1]))
	case "gen":
		if len(args) < 1 || len(args) > 2 {
			fmt.Fprintln(os.Stderr, "Usage: maptools gen <out.tmx> [seed]")
			os.Exit(1)
		}
		os.Exit(runGen(args))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: maptools <command> <args>

Commands:
  validate <asset-root> <manifest>   Load every map in the manifest and check spawns
  stats    <map.tmx>                 Show layers, tilesets and collidable %
  bake     <map.tmx> <out>           Write a binary (or .json) snapshot of the map
  gen      <out.tmx> [seed]          Generate an island map and its tileset image`)
}

// loadFile loads a map from the OS filesystem, allowing tilesets anywhere on disk.
func loadFile(p string) (*tilemap.Map, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return nil, err
	}
	root := filepath.VolumeName(abs) + string(filepath.Separator)
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return nil, err
	}
	return tmx.Load(os.DirFS(root), filepath.ToSlash(rel), nil)
}

// --- validate ---

func runValidate(root, manifestPath string) int {
	fsys := os.DirFS(root)
	manifest, err := asset.LoadManifest(asset.NewLoad(fsys), manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
		return 1
	}

	errors := 0
	for _, entry := range manifest.Maps() {
		fmt.Printf("Validating %q...\n", entry.Name)

		m, err := tmx.Load(fsys, entry.Path, nil)
		if err != nil {
			fmt.Printf("  ERROR: %v\n", err)
			errors++
			continue
		}

		mapErrors := 0
		if entry.CollisionLayer != "" && m.GetLayer(entry.CollisionLayer) == nil {
			fmt.Printf("  ERROR: collision layer %q not found\n", entry.CollisionLayer)
			mapErrors++
		}

		spawn := m.WorldToTile(phy2.V2(entry.SpawnX, entry.SpawnY))
		if !m.IsValidTileCoord(spawn.X, spawn.Y) {
			fmt.Printf("  ERROR: spawn (%g,%g) is outside the map\n", entry.SpawnX, entry.SpawnY)
			mapErrors++
		} else if entry.CollisionLayer != "" && m.IsTileCollidable(entry.CollisionLayer, spawn.X, spawn.Y) {
			fmt.Printf("  ERROR: spawn (%g,%g) is on a collidable tile\n", entry.SpawnX, entry.SpawnY)
			mapErrors++
		}

		for _, ts := range m.Tilesets() {
			if ts.Image == "" {
				fmt.Printf("  ERROR: tileset %q has no image\n", ts.Name)
				mapErrors++
			} else if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(ts.Image))); err != nil {
				fmt.Printf("  ERROR: tileset %q image %s: %v\n", ts.Name, ts.Image, err)
				mapErrors++
			}
		}

		if mapErrors == 0 {
			fmt.Printf("  OK (%dx%d, %d layers, %d tilesets)\n", m.Width(), m.Height(), m.LayerCount(), len(m.Tilesets()))
		}
		errors += mapErrors
	}

	if errors > 0 {
		fmt.Printf("\n%d error(s) found\n", errors)
		return 1
	}
	fmt.Printf("\nAll %d maps valid\n", len(manifest.Maps()))
	return 0
}

// --- stats ---

func runStats(path string) int {
	m, err := loadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	total := m.Width() * m.Height()
	fmt.Printf("%s (%dx%d = %d tiles of %dx%d px, %s)\n\n", filepath.Base(path),
		m.Width(), m.Height(), total, m.TileWidth(), m.TileHeight(), m.Orientation)

	fmt.Println("Tilesets:")
	for _, ts := range m.Tilesets() {
		fmt.Printf("  %-16s gids %d..%d  %s\n", ts.Name, ts.FirstGid, ts.FirstGid+uint32(ts.TileCount)-1, ts.Image)
	}

	fmt.Println("\nLayers:")
	usage := make(map[string]int)
	for _, l := range m.Layers() {
		filled, solid := 0, 0
		l.Each(func(x, y int, t *tilemap.Tile) {
			if t.IsEmpty() {
				return
			}
			filled++
			if t.IsCollidable() {
				solid++
			}
			if ts := m.GetTilesetForGid(t.Gid); ts != nil {
				usage[ts.Name]++
			}
		})

		cells := l.Width() * l.Height()
		pct := 0.0
		if cells > 0 {
			pct = float64(filled) / float64(cells) * 100
		}
		bar := strings.Repeat("█", int(pct/5))
		fmt.Printf("  %-16s %-10s %5d filled (%5.1f%%) %5d collidable %s\n", l.Name, l.Type, filled, pct, solid, bar)
	}

	type entry struct {
		name  string
		count int
	}
	var sorted []entry
	for name, count := range usage {
		sorted = append(sorted, entry{name, count})
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].count > sorted[j].count })

	fmt.Println("\nTileset usage:")
	for _, e := range sorted {
		fmt.Printf("  %-16s %d\n", e.name, e.count)
	}
	return 0
}

// --- bake ---

func runBake(path, out string) int {
	m, err := loadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	var dat []byte
	if strings.HasSuffix(out, ".json") {
		dat, err = serdes.MarshalMapJSON(m)
	} else {
		dat, err = serdes.MarshalMap(m)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if err := os.WriteFile(out, dat, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Printf("Baked %s -> %s (%d bytes)\n", path, out, len(dat))
	return 0
}

// --- gen ---

func runGen(args []string) int {
	out := args[0]
	seed := int64(0)
	if len(args) == 2 {
		s, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid seed %q: %v\n", args[1], err)
			return 1
		}
		seed = s
	}

	cfg := pgen.DefaultIslandConfig(seed)
	cfg.TilesetImage = strings.TrimSuffix(filepath.Base(out), filepath.Ext(out)) + ".png"

	dat, err := tmx.Marshal(pgen.GenerateIsland(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := os.WriteFile(out, dat, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	imgPath := filepath.Join(filepath.Dir(out), cfg.TilesetImage)
	file, err := os.Create(imgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer file.Close()
	if err := png.Encode(file, pgen.TilesetImage(cfg.TileSize)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Printf("Generated %s and %s (seed %d)\n", out, imgPath, seed)
	return 0
}
