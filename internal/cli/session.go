package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/idilsaglam/wt/internal/category"
	"github.com/idilsaglam/wt/internal/config"
	"github.com/idilsaglam/wt/internal/logging"
	"github.com/idilsaglam/wt/internal/store"
	"github.com/idilsaglam/wt/internal/store/jsonstore"
	"github.com/idilsaglam/wt/internal/store/memstore"
	"github.com/idilsaglam/wt/internal/store/sqlitestore"
	"github.com/idilsaglam/wt/internal/todo"
	"github.com/idilsaglam/wt/internal/ui"
)

// session is everything one invocation works with.
type session struct {
	cfg   *config.Config
	log   *zap.Logger
	kv    store.KV
	todos *todo.Store
	cats  *category.Controller
}

func loadConfig(opt *Options) (*config.Config, error) {
	cfg, err := config.Load(opt.ConfigPath)
	if err != nil {
		if errors.Is(err, config.ErrInvalid) {
			return nil, usageError{msg: err.Error()}
		}
		return nil, err
	}
	if opt.Driver != "" {
		cfg.Storage.Driver = opt.Driver
	}
	if opt.Dir != "" {
		cfg.Storage.Dir = opt.Dir
	}
	if opt.Theme != "" {
		cfg.UI.Theme = opt.Theme
	}
	if err := cfg.Finalize(); err != nil {
		return nil, usageError{msg: err.Error()}
	}
	return cfg, nil
}

// openKV opens the configured storage backend.
func openKV(cfg *config.Config) (store.KV, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		s, err := sqlitestore.Open(cfg.SQLitePath())
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverMemory:
		return memstore.New(), nil
	default:
		s, err := jsonstore.New(cfg.Storage.Dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// openSession loads config, logging, storage and the todo store. A corrupt
// collection is reported on warn and the session continues empty.
func openSession(ctx context.Context, opt *Options, warn io.Writer) (*session, error) {
	cfg, err := loadConfig(opt)
	if err != nil {
		return nil, err
	}
	ui.SetTheme(cfg.UI.Theme)

	log, err := logging.New(cfg, opt.Verbose)
	if err != nil {
		return nil, err
	}
	kv, err := openKV(cfg)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Driver, err)
	}
	log.Debug("storage opened", zap.String("driver", cfg.Storage.Driver), zap.String("dir", cfg.Storage.Dir))

	todos, err := todo.Open(ctx, kv, todo.WithLogger(log))
	if err != nil {
		if todos == nil {
			kv.Close()
			_ = log.Sync()
			return nil, fmt.Errorf("load: %w", err)
		}
		var ce *todo.CorruptStateError
		switch {
		case errors.As(err, &ce) && ce.Backup != "":
			ui.Warn(warn, "stored todos were unreadable; starting empty (copy kept under "+ce.Backup+")")
		case errors.Is(err, todo.ErrCorruptState):
			ui.Warn(warn, "stored todos were unreadable and could not be backed up; starting empty")
		}
	}

	return &session{
		cfg:   cfg,
		log:   log,
		kv:    kv,
		todos: todos,
		cats:  category.New(),
	}, nil
}

// Close flushes pending writes and releases storage.
func (s *session) Close() error {
	err := s.todos.Close()
	if cerr := s.kv.Close(); cerr != nil && err == nil {
		err = cerr
	}
	_ = s.log.Sync()
	return err
}
