package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revijouer/core/internal/domain/entities"
	"github.com/revijouer/core/internal/infrastructure/logger"
)

func TestSettingsRepository_LoadCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	repo := NewSettingsRepository(path, logger.NewNop())

	settings, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultSettings(), settings)
	assert.FileExists(t, path)
}

func TestSettingsRepository_LoadBackfillsMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"auto_validate": false, "theme": "dark"}`), 0o644))
	repo := NewSettingsRepository(path, logger.NewNop())

	settings, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, settings.AutoValidate())
	assert.Equal(t, "dark", settings["theme"])
	assert.Equal(t, "Arial, sans-serif", settings.FontFamily())
	assert.Equal(t, "#000000", settings.FontColor())
	assert.Equal(t, "", settings.FocusedFolder())
}

func TestSettingsRepository_MalformedFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"auto_validate": fal`), 0o644))
	repo := NewSettingsRepository(path, logger.NewNop())

	settings, err := repo.Load(context.Background())
	assert.Error(t, err)
	assert.Equal(t, entities.DefaultSettings(), settings)
}

func TestSettingsRepository_SaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	repo := NewSettingsRepository(path, logger.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, entities.Settings{
		entities.SettingAutoValidate: false,
		entities.SettingFontColor:    "#ff0000",
	}))

	settings, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.False(t, settings.AutoValidate())
	assert.Equal(t, "#ff0000", settings.FontColor())
	assert.Equal(t, "Arial, sans-serif", settings.FontFamily())
}
