package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/ariano/internal/catalog"
	"github.com/abhisek/ariano/internal/config"
	"github.com/abhisek/ariano/internal/grading"
	"github.com/abhisek/ariano/internal/logger"
	"github.com/abhisek/ariano/internal/progress"
	"github.com/abhisek/ariano/internal/store"
)

// deps holds everything a command needs. Close releases the storage
// backend and flushes the logger.
type deps struct {
	cfg     *config.Config
	log     *zap.Logger
	catalog *catalog.Catalog
	tracker *progress.Tracker
	grader  *grading.Grader
	closers []func() error
}

// flagKeys maps persistent flags to the config keys they override.
var flagKeys = map[string]string{
	"db":      "storage.db_path",
	"backend": "storage.backend",
	"catalog": "catalog.path",
}

// loadConfig merges defaults, the config file, ARIANO_ env vars and flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := config.New()
	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind --%s: %w", flag, err)
			}
		}
	}
	file, _ := cmd.Flags().GetString("config")
	return config.Load(v, file)
}

// buildDeps loads config, sets up logging, opens the configured storage
// backend and loads the catalog. Console log output goes to console.
func buildDeps(cmd *cobra.Command, console io.Writer) (*deps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log, console)
	if err != nil {
		return nil, err
	}
	d := &deps{cfg: cfg, log: log, grader: grading.NewGrader()}

	cat, err := loadCatalog(cfg.Catalog.Path)
	if err != nil {
		d.Close()
		return nil, err
	}
	d.catalog = cat

	slot, err := d.openSlot(cmd)
	if err != nil {
		d.Close()
		return nil, err
	}

	ps := store.NewProgressStore(slot, log.Named("store"))
	d.tracker = progress.NewTracker(ps, cat, progress.Options{
		Strict: cfg.Progress.StrictCatalog,
		Logger: log.Named("progress"),
	})

	log.Debug("dependencies ready",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("key", cfg.Storage.Key),
		zap.Int("modules", cat.Len()))
	return d, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return cat, nil
}

// openSlot opens the persistence slot for the configured backend.
func (d *deps) openSlot(cmd *cobra.Command) (store.Slot, error) {
	key := d.cfg.Storage.Key

	switch d.cfg.Storage.Backend {
	case config.BackendMemory:
		return store.NewMemorySlot(), nil

	case config.BackendRedis:
		rc := store.DefaultRedisConfig()
		rc.Addr = d.cfg.Redis.Addr
		rc.Password = d.cfg.Redis.Password
		rc.DB = d.cfg.Redis.DB
		slot, err := store.OpenRedis(cmd.Context(), rc, key)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, slot.Close)
		return slot, nil

	default:
		dbPath, err := resolveDBPath(d.cfg)
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		d.closers = append(d.closers, st.Close)
		d.log.Debug("sqlite store opened", zap.String("path", dbPath))
		return st.Slot(key), nil
	}
}

func (d *deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	_ = d.log.Sync()
	return errors.Join(errs...)
}

// resolveDBPath returns the database path from --db / config / ARIANO_DB,
// falling back to the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if p := cfg.Storage.DBPath; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
