package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/revijouer/core/internal/domain/entities"
	"github.com/revijouer/core/internal/infrastructure/logger"
	"github.com/revijouer/core/internal/ports"
)

// SettingsRepositoryImpl implements the SettingsRepository interface over a
// single JSON file
type SettingsRepositoryImpl struct {
	path   string
	logger *logger.Logger
	mu     sync.Mutex
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(path string, logger *logger.Logger) ports.SettingsRepository {
	return &SettingsRepositoryImpl{
		path:   path,
		logger: logger.WithComponent("settings_repository"),
	}
}

func (r *SettingsRepositoryImpl) Load(ctx context.Context) (entities.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !fileExists(r.path) {
		defaults := entities.DefaultSettings()
		if err := writeJSON(r.path, defaults); err != nil {
			return defaults, fmt.Errorf("create settings file: %w", err)
		}
		r.logger.Infow("Created settings file with default values", "path", r.path)
		return defaults, nil
	}

	settings := entities.Settings{}
	if err := readJSON(r.path, &settings); err != nil {
		return entities.DefaultSettings(), fmt.Errorf("load settings: %w", err)
	}
	// a file holding JSON null decodes into a nil map
	if settings == nil {
		settings = entities.Settings{}
	}

	if added := settings.WithDefaults(); len(added) > 0 {
		r.logger.Debugw("Backfilled missing settings", "keys", added)
	}

	return settings, nil
}

func (r *SettingsRepositoryImpl) Save(ctx context.Context, settings entities.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := writeJSON(r.path, settings); err != nil {
		r.logger.LogFileOperation("save_settings", r.path, err)
		return fmt.Errorf("save settings: %w", err)
	}
	r.logger.LogFileOperation("save_settings", r.path, nil)
	return nil
}
