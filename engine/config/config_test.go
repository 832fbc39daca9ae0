package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/math"
	"github.com/spaghettifunk/anima-gl/engine/renderer/device"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, device.StaticDraw, cfg.BufferUsage())
	assert.Equal(t, math.ColorFromRGBA(25, 25, 38, 255), cfg.ClearColor())
	assert.Equal(t, core.LogLevelInfo, cfg.LogLevel())
	assert.Empty(t, cfg.Metrics.Addr)
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[window]
title = "demo"
width = 640

[renderer]
clear_color = [300, -5, 128, 255]
buffer_usage = "dynamic"
mesh = "quad"

[log]
level = "debug"

[metrics]
addr = ":9100"
`))
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.Window.Title)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.True(t, cfg.Window.VSync)
	assert.Equal(t, device.DynamicDraw, cfg.BufferUsage())
	assert.Equal(t, "quad", cfg.Renderer.Mesh)
	assert.Equal(t, math.ColorFromRGBA(255, 0, 128, 255), cfg.ClearColor())
	assert.Equal(t, core.LogLevelDebug, cfg.LogLevel())
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"unknown key":   "[window]\nfullscreen = true\n",
		"zero width":    "[window]\nwidth = 0\n",
		"buffer usage":  "[renderer]\nbuffer_usage = \"forever\"\n",
		"mesh":          "[renderer]\nmesh = \"teapot\"\n",
		"log level":     "[log]\nlevel = \"loud\"\n",
		"malformed doc": "[window\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anima.toml")
	require.NoError(t, os.WriteFile(path, []byte("[renderer]\nmesh = \"quad\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "quad", cfg.Renderer.Mesh)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anima.toml")
	require.NoError(t, os.WriteFile(path, []byte("[renderer]\nclear_color = [0, 0, 0, 255]\n"), 0o644))

	w, err := NewWatcher(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 16)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(c *Config) { reloaded <- c })
	}()

	require.NoError(t, os.WriteFile(path, []byte("[renderer]\nclear_color = [10, 20, 30, 255]\n"), 0o644))

	want := math.ColorFromRGBA(10, 20, 30, 255)
	timeout := time.After(5 * time.Second)
	for found := false; !found; {
		select {
		case c := <-reloaded:
			// A write can be observed before the file is complete.
			found = c.ClearColor() == want
		case <-timeout:
			t.Fatal("config was not reloaded")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
