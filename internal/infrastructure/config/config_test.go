package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.Server.GetAddr())
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, 168*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "http://localhost:8765", cfg.Anki.Endpoint())
	assert.Equal(t, 6, cfg.Anki.Version)
	assert.Equal(t, filepath.Join("assets", "Data", "fill_the_blanks"), cfg.Data.FillInBlankPath())
	assert.Equal(t, filepath.Join("assets", "Data", "image_matching"), cfg.Data.ImageMatchingPath())
	assert.Equal(t, filepath.Join("assets", "images"), cfg.Data.ImagesPath())
	assert.Equal(t, filepath.Join("assets", "settings.json"), cfg.Data.SettingsPath())
	assert.Equal(t, filepath.Join("assets", "Data", "scores.json"), cfg.Data.ScoresPath())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REVIJOUER_DATA_ROOT", "/srv/revijouer")
	t.Setenv("ANKI_EMAIL", "eleve@example.com")
	t.Setenv("SESSION_BACKEND", "redis")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/srv/revijouer", cfg.Data.Root)
	assert.Equal(t, "eleve@example.com", cfg.Anki.Email)
	assert.Equal(t, "redis", cfg.Session.Backend)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"port":    {"SERVER_PORT": "70000"},
		"backend": {"SESSION_BACKEND": "memcached"},
		"format":  {"LOG_FORMAT": "xml"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
