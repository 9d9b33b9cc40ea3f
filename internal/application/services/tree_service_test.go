package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revijouer/core/internal/domain/entities"
	"github.com/revijouer/core/internal/ports"
)

func TestTreeService_FocusRequiresExistingFolder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	assert.ErrorIs(t, env.tree.Focus(ctx, "unit1"), entities.ErrFolderNotFound)

	require.NoError(t, os.MkdirAll(filepath.Join(env.fillRoot, "unit1"), 0o755))
	require.NoError(t, env.tree.Focus(ctx, "unit1/"))
	assert.Equal(t, "unit1", env.settings.Get(ctx).FocusedFolder())

	require.NoError(t, env.tree.ClearFocus(ctx))
	assert.Equal(t, "", env.settings.Get(ctx).FocusedFolder())
}

func TestTreeService_RenameFollowsFocus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, os.MkdirAll(filepath.Join(env.fillRoot, "unit1", "frogs"), 0o755))
	require.NoError(t, env.tree.Focus(ctx, "unit1/frogs"))

	newPath, err := env.tree.RenameFolder(ctx, ports.RenameFolderRequest{OldPath: "unit1", NewName: "amphibiens"})
	require.NoError(t, err)
	assert.Equal(t, "amphibiens", newPath)
	assert.Equal(t, "amphibiens/frogs", env.settings.Get(ctx).FocusedFolder())
}

func TestTreeService_DeleteClearsFocus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, os.MkdirAll(filepath.Join(env.fillRoot, "unit1", "sub"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(env.fillRoot, "unit2"), 0o755))
	require.NoError(t, env.tree.Focus(ctx, "unit1/sub"))

	require.NoError(t, env.tree.DeleteFolder(ctx, ports.FolderPathRequest{Path: "unit2"}))
	assert.Equal(t, "unit1/sub", env.settings.Get(ctx).FocusedFolder())

	require.NoError(t, env.tree.DeleteFolder(ctx, ports.FolderPathRequest{Path: "unit1"}))
	assert.Equal(t, "", env.settings.Get(ctx).FocusedFolder())
}

func TestTreeService_MoveFollowsFocus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, os.MkdirAll(filepath.Join(env.fillRoot, "unit1"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(env.fillRoot, "archive"), 0o755))
	require.NoError(t, env.tree.Focus(ctx, "unit1"))

	result, err := env.tree.MoveItems(ctx, ports.MoveItemsRequest{
		Items:        []ports.MoveItem{{Path: "unit1", Type: "folder"}},
		TargetFolder: "archive",
	})
	require.NoError(t, err)
	require.Len(t, result.Moved, 1)
	assert.Equal(t, "archive/unit1", env.settings.Get(ctx).FocusedFolder())
}

func TestTreeService_ImageMatchingTreeIsSeparate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.writeImageQuestion(t, "animaux/question001.json", map[string]any{
		"image": "images/poule.png",
		"words": map[string]any{"correct": "poule", "incorrect": []string{"vache"}},
	})

	tree, err := env.tree.Tree(ctx, entities.GameTypeImageMatching)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "images/poule.png", tree[0].Children[0].Text)

	fill, err := env.tree.Tree(ctx, entities.GameTypeFillInBlank)
	require.NoError(t, err)
	assert.Empty(t, fill)
}

func TestTreeService_ToggleTwiceRestores(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.writeQuestion(t, "question001.json", question("Q1", "a", "a", "b"))
	req := ports.QuestionFileRequest{File: "question001.json"}

	first, err := env.tree.ToggleCompletion(ctx, req)
	require.NoError(t, err)
	second, err := env.tree.ToggleCompletion(ctx, req)
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
	assert.Equal(t, false, env.readQuestion(t, "question001.json")["completed"])
}
