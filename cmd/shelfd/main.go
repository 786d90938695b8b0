// Command shelfd runs the shelf daemon: it owns the zone databases, exposes
// the HTTP API used by the shelf CLI, and drives scheduled database
// snapshots.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"shelf/internal/backup"
	"shelf/internal/config"
	"shelf/internal/daemon"
	"shelf/internal/logging"
	"shelf/internal/oracle"
	"shelf/internal/pipeline"
	"shelf/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("ensure directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	zones, err := store.OpenZones(cfg)
	if err != nil {
		logger.Error("open zone stores", logging.Error(err))
		return
	}
	defer zones.Close()

	client := oracle.NewClient(cfg.LLM)
	pl := pipeline.New(cfg, zones, client, logger)

	d, err := daemon.New(cfg, zones, pl, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		return
	}
	defer d.Close()

	snapshots, err := backup.New(cfg, zones, logger)
	if err != nil {
		logger.Error("create snapshot scheduler", logging.Error(err))
		return
	}
	if err := snapshots.Start(); err != nil {
		logger.Warn("snapshot scheduler start", logging.Error(err))
	}
	defer snapshots.Stop() //nolint:errcheck

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("shelfd shutting down")
}
