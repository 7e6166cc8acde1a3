package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"taskpad/internal/config"
	"taskpad/internal/logging"
	"taskpad/internal/persist"
	"taskpad/internal/storage"
	"taskpad/internal/task"
)

var errUnknownTask = errors.New("unknown task id")

// app is everything a command needs, opened from the config.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	prefs  *persist.Adapter
	store  *task.Store
}

func withApp(flags *globalFlags, fn func(a *app) error) error {
	path := flags.configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, logCloser, err := logging.New(cfg.LogPath, flags.debug)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logCloser.Close()

	kv, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer kv.Close()

	adapter := persist.New(kv, logger)
	a := &app{
		cfg:    cfg,
		logger: logger,
		prefs:  adapter,
		store:  task.NewStore(adapter),
	}
	logger.Debug("store opened", "db", cfg.DBPath, "tasks", a.store.Len())
	return fn(a)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}
