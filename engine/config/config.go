// Package config loads the application configuration from TOML.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/math"
	"github.com/spaghettifunk/anima-gl/engine/renderer/device"
)

type Config struct {
	Window   WindowConfig   `toml:"window"`
	Renderer RendererConfig `toml:"renderer"`
	Log      LogConfig      `toml:"log"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	PosX   int    `toml:"pos_x"`
	PosY   int    `toml:"pos_y"`
	VSync  bool   `toml:"vsync"`
}

type RendererConfig struct {
	// RGBA, each component clamped into [0, 255].
	ClearColor [4]int `toml:"clear_color"`
	// static, dynamic or stream.
	BufferUsage string `toml:"buffer_usage"`
	// cube or quad.
	Mesh string `toml:"mesh"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type MetricsConfig struct {
	// Addr of the Prometheus endpoint; empty disables it.
	Addr string `toml:"addr"`
}

func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "anima-gl",
			Width:  1280,
			Height: 720,
			PosX:   100,
			PosY:   100,
			VSync:  true,
		},
		Renderer: RendererConfig{
			ClearColor:  [4]int{25, 25, 38, 255},
			BufferUsage: "static",
			Mesh:        "cube",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a TOML document over the defaults. Unknown keys are errors.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if _, err := parseBufferUsage(c.Renderer.BufferUsage); err != nil {
		return err
	}
	switch c.Renderer.Mesh {
	case "cube", "quad":
	default:
		return fmt.Errorf("unknown mesh %q, must be cube or quad", c.Renderer.Mesh)
	}
	if _, err := core.ParseLogLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	return nil
}

func (c *Config) ClearColor() math.Color {
	return math.ColorFromInts(c.Renderer.ClearColor)
}

// BufferUsage returns the usage hint for vertex buffers. The config must be
// valid.
func (c *Config) BufferUsage() device.BufferUsage {
	u, err := parseBufferUsage(c.Renderer.BufferUsage)
	if err != nil {
		core.LogWarn("%s, falling back to static", err)
		return device.StaticDraw
	}
	return u
}

func (c *Config) LogLevel() core.LogLevel {
	level, err := core.ParseLogLevel(c.Log.Level)
	if err != nil {
		return core.LogLevelInfo
	}
	return level
}

func parseBufferUsage(s string) (device.BufferUsage, error) {
	switch s {
	case "static":
		return device.StaticDraw, nil
	case "dynamic":
		return device.DynamicDraw, nil
	case "stream":
		return device.StreamDraw, nil
	}
	return 0, fmt.Errorf("unknown buffer usage %q, must be static, dynamic or stream", s)
}
