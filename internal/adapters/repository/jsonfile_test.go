package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON_FileMode(t *testing.T) {
	dir := t.TempDir()

	created := filepath.Join(dir, "scores.json")
	require.NoError(t, writeJSON(created, map[string]int{"texte_a_trous": 1}))
	info, err := os.Stat(created)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	existing := filepath.Join(dir, "question001.json")
	writeFile(t, existing, fillInBlank("Les grenouilles sont des ___", "amphibiens", "amphibiens", "reptiles"))
	require.NoError(t, os.Chmod(existing, 0o640))

	require.NoError(t, writeJSON(existing, map[string]any{"completed": true}))
	info, err = os.Stat(existing)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	assert.Equal(t, true, readFile(t, existing)["completed"])

	leftovers, err := filepath.Glob(filepath.Join(dir, ".*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}
