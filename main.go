/*
This is an example of application that will use the
engine package to test things out
*/
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spaghettifunk/anima-gl/engine"
	"github.com/spaghettifunk/anima-gl/engine/config"
	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/metrics"
	"github.com/spaghettifunk/anima-gl/testbed"
)

func main() {
	configPath := flag.String("config", "anima.toml", "path of the TOML configuration; missing files fall back to defaults")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		core.LogFatal(err.Error())
	}
	core.SetLogLevel(cfg.LogLevel())

	// signal context to capture system calls
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	reg := metrics.NewRegistry()
	if cfg.Metrics.Addr != "" {
		srv := metrics.NewServer(cfg.Metrics.Addr, reg)
		go func() {
			core.LogInfo("serving metrics on %s", cfg.Metrics.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				core.LogWarn("metrics server exited: %s", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	tb := testbed.NewTestGame(&engine.ApplicationConfig{Config: cfg, ConfigPath: *configPath})

	e, err := engine.New(tb.Game, reg)
	if err != nil {
		core.LogFatal(err.Error())
	}

	if _, err := os.Stat(*configPath); err == nil {
		go func() {
			if err := config.Watch(ctx, *configPath, e.Reload); err != nil {
				core.LogWarn("config watcher stopped: %s", err)
			}
		}()
	}

	if err := e.Initialize(); err != nil {
		_ = e.Shutdown()
		core.LogFatal(err.Error())
	}

	// run engine on the main thread, it owns the GL context
	runErr := e.Run(ctx)
	if err := e.Shutdown(); err != nil {
		core.LogError(err.Error())
	}
	if runErr != nil {
		core.LogFatal(runErr.Error())
	}
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		core.LogInfo("no config at %s, using defaults", path)
		return config.Default(), nil
	}
	return cfg, err
}
