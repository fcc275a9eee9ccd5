// Package config provides configuration loading and management.
package config

import (
	"image/color"

	"gopkg.in/yaml.v3"

	"github.com/user/vidcomp/pkg/ports"
)

// Config represents the full configuration for vidcomp.
type Config struct {
	// Inputs
	VideoA string `yaml:"video_a"`
	VideoB string `yaml:"video_b"`

	// Comparison
	Mode        string      `yaml:"mode"`
	FrameOffset int         `yaml:"frame_offset"`
	Opacity     float64     `yaml:"opacity"`
	Split       float64     `yaml:"split"`
	ShowLabels  bool        `yaml:"show_labels"`
	Theme       ThemeConfig `yaml:"theme"`

	// Canvas; zero means the larger of the two native resolutions.
	TargetWidth  int `yaml:"target_width"`
	TargetHeight int `yaml:"target_height"`

	// Playback
	FPS float64 `yaml:"fps"` // 0 = mean of the two native rates

	// Decoding
	FFmpegPath     string `yaml:"ffmpeg_path"`
	FFprobePath    string `yaml:"ffprobe_path"`
	FetchTimeoutMs int    `yaml:"fetch_timeout_ms"`

	// Presentation
	ListenAddr  string `yaml:"listen"`
	JPEGQuality int    `yaml:"jpeg_quality"`

	// Snapshots
	SnapshotDir string `yaml:"snapshot_dir"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`
}

// ThemeConfig represents theming options as hex color strings.
type ThemeConfig struct {
	SeparatorColor  string `yaml:"separator_color"`
	LabelColor      string `yaml:"label_color"`
	ShadowColor     string `yaml:"shadow_color"`
	BackgroundColor string `yaml:"background_color"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Mode:       "side-by-side",
		Opacity:    0.5,
		Split:      0.5,
		ShowLabels: true,
		Theme: ThemeConfig{
			SeparatorColor:  "#00ff00",
			LabelColor:      "#ffffff",
			ShadowColor:     "#000000",
			BackgroundColor: "#1c1c1c",
		},

		FetchTimeoutMs: 3000,

		ListenAddr:  "127.0.0.1:8793",
		JPEGQuality: 85,

		SnapshotDir: ".",
		DebugDir:    "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file on top of defaults.
func LoadFromFile(fs ports.FileSystem, path string) (Config, error) {
	cfg := Defaults()

	data, err := fs.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// ParseColor parses a "#rrggbb" hex color string. Malformed input yields
// black.
func ParseColor(hex string) color.Color {
	if len(hex) == 0 {
		return color.Black
	}

	if hex[0] == '#' {
		hex = hex[1:]
	}

	if len(hex) != 6 {
		return color.Black
	}

	return color.RGBA{
		R: hexValue(hex[0])<<4 | hexValue(hex[1]),
		G: hexValue(hex[2])<<4 | hexValue(hex[3]),
		B: hexValue(hex[4])<<4 | hexValue(hex[5]),
		A: 255,
	}
}

func hexValue(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}
