package services

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/revijouer/core/internal/adapters/repository"
	"github.com/revijouer/core/internal/adapters/session"
	"github.com/revijouer/core/internal/infrastructure/logger"
)

type testEnv struct {
	dir       string
	fillRoot  string
	imageRoot string

	settings  *SettingsService
	scores    *ScoreService
	questions *QuestionService
	tree      *TreeService
	game      *GameService
	sessions  *session.MemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	log := logger.NewNop()

	env := &testEnv{
		dir:       dir,
		fillRoot:  filepath.Join(dir, "Data", "fill_the_blanks"),
		imageRoot: filepath.Join(dir, "Data", "image_matching"),
		sessions:  session.NewMemoryStore(time.Hour),
	}
	require.NoError(t, os.MkdirAll(env.fillRoot, 0o755))
	require.NoError(t, os.MkdirAll(env.imageRoot, 0o755))

	questionRepo := repository.NewQuestionRepository(env.fillRoot, env.imageRoot, log)
	files := repository.NewTreeRepository(env.fillRoot, env.imageRoot, log)

	env.settings = NewSettingsService(repository.NewSettingsRepository(filepath.Join(dir, "settings.json"), log), log)
	env.scores = NewScoreService(repository.NewScoreRepository(filepath.Join(dir, "Data", "scores.json"), log), env.sessions, log)
	env.questions = NewQuestionService(questionRepo, files, log)
	env.tree = NewTreeService(files, env.settings, log)
	env.game = NewGameService(questionRepo, files, env.settings, env.scores, nil, log)
	env.game.shuffle = func([]string) {}
	return env
}

func (e *testEnv) writeQuestion(t *testing.T, rel string, data map[string]any) {
	t.Helper()
	path := filepath.Join(e.fillRoot, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))
}

func (e *testEnv) writeImageQuestion(t *testing.T, rel string, data map[string]any) {
	t.Helper()
	path := filepath.Join(e.imageRoot, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))
}

func (e *testEnv) readQuestion(t *testing.T, rel string) map[string]any {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(e.fillRoot, filepath.FromSlash(rel)))
	require.NoError(t, err)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func (e *testEnv) readScoresFile(t *testing.T) map[string]int {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(e.dir, "Data", "scores.json"))
	require.NoError(t, err)
	out := map[string]int{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func question(text, answer string, options ...string) map[string]any {
	return map[string]any{"text": text, "options": options, "correct_answer": answer}
}

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func strPtr(v string) *string { return &v }
