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
	"github.com/revijouer/core/internal/ports"
)

const fib = entities.GameTypeFillInBlank

func newTreeRepo(t *testing.T) (*TreeRepositoryImpl, string) {
	t.Helper()
	dir := t.TempDir()
	fill := filepath.Join(dir, "fill_the_blanks")
	require.NoError(t, os.MkdirAll(fill, 0o755))
	repo := NewTreeRepository(fill, filepath.Join(dir, "image_matching"), logger.NewNop()).(*TreeRepositoryImpl)
	return repo, fill
}

func TestTreeRepository_Tree(t *testing.T) {
	repo, root := newTreeRepo(t)
	writeFile(t, filepath.Join(root, "unit1", "question001.json"), map[string]any{
		"text": "Q1", "options": []string{"a"}, "correct_answer": "a", "completed": true,
		"statistics": map[string]any{"correct_answers": 2, "wrong_answers": 1},
	})
	writeFile(t, filepath.Join(root, "question002.json"), fillInBlank("Q2", "a", "a", "b"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".hidden"), 0o755))

	tree, err := repo.Tree(context.Background(), fib)
	require.NoError(t, err)
	require.Len(t, tree, 3)

	assert.Equal(t, "empty", tree[0].Name)
	assert.Equal(t, entities.NodeTypeFolder, tree[0].Type)
	assert.Empty(t, tree[0].Children)

	assert.Equal(t, entities.NodeTypeQuestion, tree[1].Type)
	assert.Equal(t, "002", tree[1].ID)
	assert.Equal(t, &entities.QuestionStatistics{}, tree[1].Statistics)

	unit := tree[2]
	assert.Equal(t, "unit1", unit.Path)
	require.Len(t, unit.Children, 1)
	assert.Equal(t, "unit1/question001.json", unit.Children[0].File)
	assert.True(t, unit.Children[0].Completed)
	assert.Equal(t, 2, unit.Children[0].Statistics.CorrectAnswers)
}

func TestTreeRepository_CreateFolder(t *testing.T) {
	repo, root := newTreeRepo(t)
	ctx := context.Background()

	path, err := repo.CreateFolder(ctx, fib, "", "unit1")
	require.NoError(t, err)
	assert.Equal(t, "unit1", path)
	assert.DirExists(t, filepath.Join(root, "unit1"))

	path, err = repo.CreateFolder(ctx, fib, "unit1", "chapitre")
	require.NoError(t, err)
	assert.Equal(t, "unit1/chapitre", path)

	_, err = repo.CreateFolder(ctx, fib, "", "unit1")
	assert.ErrorIs(t, err, entities.ErrFolderExists)

	for _, name := range []string{"", "  ", "a/b", `a\b`, ".."} {
		_, err = repo.CreateFolder(ctx, fib, "", name)
		assert.ErrorIs(t, err, entities.ErrInvalidName, name)
	}

	_, err = repo.CreateFolder(ctx, fib, "../..", "escape")
	assert.ErrorIs(t, err, entities.ErrInvalidPath)
}

func TestTreeRepository_RenameFolder(t *testing.T) {
	repo, root := newTreeRepo(t)
	ctx := context.Background()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "unit1", "sub"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "unit1", "taken"), 0o755))

	newPath, err := repo.RenameFolder(ctx, fib, "unit1/sub", "renamed")
	require.NoError(t, err)
	assert.Equal(t, "unit1/renamed", newPath)
	assert.DirExists(t, filepath.Join(root, "unit1", "renamed"))
	assert.NoDirExists(t, filepath.Join(root, "unit1", "sub"))

	_, err = repo.RenameFolder(ctx, fib, "unit1/renamed", "taken")
	assert.ErrorIs(t, err, entities.ErrFolderExists)

	_, err = repo.RenameFolder(ctx, fib, "missing", "other")
	assert.ErrorIs(t, err, entities.ErrFolderNotFound)

	_, err = repo.RenameFolder(ctx, fib, "", "root")
	assert.ErrorIs(t, err, entities.ErrInvalidPath)
}

func TestTreeRepository_DeleteFolder(t *testing.T) {
	repo, root := newTreeRepo(t)
	ctx := context.Background()
	writeFile(t, filepath.Join(root, "unit1", "question001.json"), fillInBlank("Q1", "a", "a", "b"))

	require.NoError(t, repo.DeleteFolder(ctx, fib, "unit1"))
	assert.NoDirExists(t, filepath.Join(root, "unit1"))

	assert.ErrorIs(t, repo.DeleteFolder(ctx, fib, "unit1"), entities.ErrFolderNotFound)
	assert.ErrorIs(t, repo.DeleteFolder(ctx, fib, ""), entities.ErrInvalidPath)
	assert.ErrorIs(t, repo.DeleteFolder(ctx, fib, "../"), entities.ErrInvalidPath)
	assert.DirExists(t, root)
}

func TestTreeRepository_DeleteQuestion(t *testing.T) {
	repo, root := newTreeRepo(t)
	ctx := context.Background()
	writeFile(t, filepath.Join(root, "unit1", "question001.json"), fillInBlank("Q1", "a", "a", "b"))
	writeFile(t, filepath.Join(root, "notes.json"), `{}`)

	assert.ErrorIs(t, repo.DeleteQuestion(ctx, fib, "notes.json"), entities.ErrInvalidFileName)
	assert.ErrorIs(t, repo.DeleteQuestion(ctx, fib, "question009.json"), entities.ErrFileNotFound)

	require.NoError(t, repo.DeleteQuestion(ctx, fib, "unit1/question001.json"))
	assert.NoFileExists(t, filepath.Join(root, "unit1", "question001.json"))
}

func TestTreeRepository_ToggleCompletionTwiceRestores(t *testing.T) {
	repo, root := newTreeRepo(t)
	ctx := context.Background()
	path := filepath.Join(root, "question001.json")
	writeFile(t, path, map[string]any{"text": "Q1", "options": []string{"a", "b"}, "correct_answer": "a", "extra": "kept"})
	before, err := os.Stat(path)
	require.NoError(t, err)

	completed, err := repo.ToggleCompletion(ctx, fib, "question001.json")
	require.NoError(t, err)
	assert.True(t, completed)
	assert.Equal(t, true, readFile(t, path)["completed"])

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.Mode().Perm(), after.Mode().Perm())

	completed, err = repo.ToggleCompletion(ctx, fib, "question001.json")
	require.NoError(t, err)
	assert.False(t, completed)

	data := readFile(t, path)
	assert.Equal(t, false, data["completed"])
	assert.Equal(t, "kept", data["extra"])
	assert.Equal(t, "Q1", data["text"])
}

func TestTreeRepository_MoveItemsWithCollision(t *testing.T) {
	repo, root := newTreeRepo(t)
	ctx := context.Background()
	writeFile(t, filepath.Join(root, "a", "question001.json"), fillInBlank("from a", "x", "x", "y"))
	writeFile(t, filepath.Join(root, "b", "question001.json"), fillInBlank("in b", "x", "x", "y"))

	result, err := repo.MoveItems(ctx, fib, []ports.MoveItem{{Path: "a/question001.json", Type: "question"}}, "b")
	require.NoError(t, err)
	require.Len(t, result.Moved, 1)
	assert.Equal(t, "b/question001_1.json", result.Moved[0].To)
	assert.Empty(t, result.Skipped)

	assert.Equal(t, "in b", readFile(t, filepath.Join(root, "b", "question001.json"))["text"])
	assert.Equal(t, "from a", readFile(t, filepath.Join(root, "b", "question001_1.json"))["text"])
	assert.NoFileExists(t, filepath.Join(root, "a", "question001.json"))
}

func TestTreeRepository_MoveItemsSkips(t *testing.T) {
	repo, root := newTreeRepo(t)
	ctx := context.Background()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "parent", "child"), 0o755))
	writeFile(t, filepath.Join(root, "b", "question002.json"), fillInBlank("Q2", "x", "x", "y"))
	writeFile(t, filepath.Join(root, "question003.json"), fillInBlank("Q3", "x", "x", "y"))

	result, err := repo.MoveItems(ctx, fib, []ports.MoveItem{
		{Path: "missing.json"},
		{Path: "b/question002.json"},
		{Path: "parent", Type: "folder"},
		{Path: "question003.json"},
	}, "parent/child")
	require.NoError(t, err)

	require.Len(t, result.Moved, 2)
	assert.Equal(t, "b/question002.json", result.Moved[0].From)
	assert.Equal(t, "parent/child/question002.json", result.Moved[0].To)
	assert.Equal(t, "parent/child/question003.json", result.Moved[1].To)

	require.Len(t, result.Skipped, 2)
	assert.Equal(t, "missing.json", result.Skipped[0].Path)
	assert.Equal(t, "parent", result.Skipped[1].Path)
	assert.DirExists(t, filepath.Join(root, "parent", "child"))

	again, err := repo.MoveItems(ctx, fib, []ports.MoveItem{{Path: "parent/child/question003.json"}}, "parent/child")
	require.NoError(t, err)
	assert.Empty(t, again.Moved)
	assert.Len(t, again.Skipped, 1)
}

func TestTreeRepository_MoveItemsMissingTarget(t *testing.T) {
	repo, _ := newTreeRepo(t)

	_, err := repo.MoveItems(context.Background(), fib, []ports.MoveItem{{Path: "x"}}, "nowhere")
	assert.ErrorIs(t, err, entities.ErrFolderNotFound)
}

func TestTreeRepository_WriteQuestion(t *testing.T) {
	repo, root := newTreeRepo(t)
	ctx := context.Background()

	rel, err := repo.WriteQuestion(ctx, fib, "", 12, fillInBlank("Q12", "a", "a", "b"))
	require.NoError(t, err)
	assert.Equal(t, "question012.json", rel)
	assert.FileExists(t, filepath.Join(root, "question012.json"))

	_, err = repo.WriteQuestion(ctx, fib, "", 12, fillInBlank("again", "a", "a", "b"))
	assert.ErrorIs(t, err, entities.ErrInvalidQuestion)

	_, err = repo.WriteQuestion(ctx, fib, "nope", 13, fillInBlank("Q13", "a", "a", "b"))
	assert.ErrorIs(t, err, entities.ErrFolderNotFound)
}
