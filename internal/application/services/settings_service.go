package services

import (
	"context"
	"fmt"

	"github.com/revijouer/core/internal/domain/entities"
	"github.com/revijouer/core/internal/infrastructure/logger"
	"github.com/revijouer/core/internal/ports"
)

// SettingsService handles user preferences
type SettingsService struct {
	repo   ports.SettingsRepository
	logger *logger.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(repo ports.SettingsRepository, logger *logger.Logger) *SettingsService {
	return &SettingsService{
		repo:   repo,
		logger: logger,
	}
}

// Get returns the current settings. Read failures are logged and the
// defaults are returned instead.
func (s *SettingsService) Get(ctx context.Context) entities.Settings {
	settings, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Warnw("Failed to load settings, using defaults", "error", err)
	}
	if settings == nil {
		settings = entities.DefaultSettings()
	}
	return settings
}

// Update merges the provided fields into the stored settings
func (s *SettingsService) Update(ctx context.Context, req ports.UpdateSettingsRequest) (entities.Settings, error) {
	settings := s.Get(ctx)

	if req.AutoValidate != nil {
		settings[entities.SettingAutoValidate] = *req.AutoValidate
	}
	if req.FontFamily != nil {
		settings[entities.SettingFontFamily] = *req.FontFamily
	}
	if req.FontColor != nil {
		settings[entities.SettingFontColor] = *req.FontColor
	}

	if err := s.repo.Save(ctx, settings); err != nil {
		s.logger.WithError(err).Errorw("Failed to save settings")
		return settings, fmt.Errorf("failed to save settings: %w", err)
	}

	s.logger.Infow("Settings saved", "auto_validate", settings.AutoValidate())
	return settings, nil
}

// SetFocusedFolder stores the folder the fill-in-the-blank game is narrowed
// to. An empty path clears it.
func (s *SettingsService) SetFocusedFolder(ctx context.Context, path string) error {
	settings := s.Get(ctx)
	settings[entities.SettingFocusedFolder] = path

	if err := s.repo.Save(ctx, settings); err != nil {
		return fmt.Errorf("failed to save focused folder: %w", err)
	}
	return nil
}
