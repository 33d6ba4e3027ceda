package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Window  WindowConfig  `toml:"window"`
	Assets  AssetsConfig  `toml:"assets"`
	Game    GameConfig    `toml:"game"`
	Camera  CameraConfig  `toml:"camera"`
	Logging LoggingConfig `toml:"logging"`
}

type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

type AssetsConfig struct {
	Root         string `toml:"root"`     // directory every asset path is relative to
	Manifest     string `toml:"manifest"` // yaml map list
	Atlas        string `toml:"atlas"`    // optional packed spritesheet json
	TextureCache int    `toml:"texture_cache"`
}

type GameConfig struct {
	StartMap       string        `toml:"start_map"`
	CollisionLayer string        `toml:"collision_layer"` // used when the manifest entry names none
	AutoSort       bool          `toml:"auto_sort"`
	TickRate       time.Duration `toml:"tick_rate"`
	PlayerSpeed    float64       `toml:"player_speed"` // pixels per second
	PlayerWidth    float64       `toml:"player_width"`
	PlayerHeight   float64       `toml:"player_height"`
}

type CameraConfig struct {
	Zoom    float64 `toml:"zoom"`
	Culling bool    `toml:"culling"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault returns the defaults when path is empty.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return defaults(), nil
	}
	return Load(path)
}

func defaults() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "tmxview",
			Width:  1280,
			Height: 720,
		},
		Assets: AssetsConfig{
			Root:         "assets",
			Manifest:     "maps.yaml",
			TextureCache: 64,
		},
		Game: GameConfig{
			CollisionLayer: "Collision",
			AutoSort:       true,
			TickRate:       16 * time.Millisecond,
			PlayerSpeed:    125.0,
			PlayerWidth:    12,
			PlayerHeight:   12,
		},
		Camera: CameraConfig{
			Zoom:    2.0,
			Culling: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Apply configures the global zerolog logger.
func (l LoggingConfig) Apply() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(strings.ToLower(l.Level))
	if err != nil || l.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if l.Format != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
