package backend

import (
	"context"
	"fmt"
	"log/slog"

	"suma/internal/config"
	"suma/internal/ledger/document"
	"suma/internal/ledger/sqlite"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory.
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend implements Factory.CreateBackend.
func (f *DefaultFactory) CreateBackend(_ context.Context, cfg Config) (*Result, error) {
	switch cfg.Type {
	case SQLiteBackend:
		store, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		f.logger.Info("Initialized sqlite backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Store: store, Cleanup: store.Close}, nil

	case DocumentBackend:
		store := document.NewFromDir(cfg.DocumentDataDir)
		f.logger.Info("Initialized document backend", "data_directory", cfg.DocumentDataDir)
		return &Result{Store: store, Cleanup: store.Close}, nil

	default:
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}
}

// FromAppConfig converts application config to backend config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	t := Type(appConfig.DataBackend)
	if !t.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}
	return Config{
		Type:            t,
		SQLiteDBPath:    appConfig.SQLiteDBPath,
		DocumentDataDir: appConfig.DocumentDataDir,
	}, nil
}
