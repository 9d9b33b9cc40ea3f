package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revijouer/core/internal/domain/entities"
	"github.com/revijouer/core/internal/infrastructure/logger"
)

func newQuestionRepo(t *testing.T) (*QuestionRepositoryImpl, string, string) {
	t.Helper()
	dir := t.TempDir()
	fill := filepath.Join(dir, "fill_the_blanks")
	image := filepath.Join(dir, "image_matching")
	repo := NewQuestionRepository(fill, image, logger.NewNop()).(*QuestionRepositoryImpl)
	return repo, fill, image
}

func TestQuestionRepository_LoadAllSortsByID(t *testing.T) {
	repo, fill, _ := newQuestionRepo(t)
	writeFile(t, filepath.Join(fill, "unit3", "question010.json"), fillInBlank("Les grenouilles sont des ___", "amphibiens", "amphibiens", "reptiles"))
	writeFile(t, filepath.Join(fill, "question002.json"), fillInBlank("Q2", "a", "a", "b"))
	writeFile(t, filepath.Join(fill, "question7.json"), fillInBlank("Q7", "a", "a", "b"))

	require.NoError(t, repo.LoadAll(context.Background()))

	questions := repo.ListFillInBlank()
	require.Len(t, questions, 3)
	assert.Equal(t, []int{2, 7, 10}, []int{questions[0].ID, questions[1].ID, questions[2].ID})
	assert.Equal(t, "unit3/question010.json", questions[2].Path)
	assert.Equal(t, "amphibiens", questions[2].CorrectAnswer)
	assert.Equal(t, 10, repo.MaxID(entities.GameTypeFillInBlank))
}

func TestQuestionRepository_FirstDuplicateWins(t *testing.T) {
	repo, fill, _ := newQuestionRepo(t)
	writeFile(t, filepath.Join(fill, "a", "question001.json"), fillInBlank("first", "x", "x", "y"))
	writeFile(t, filepath.Join(fill, "b", "question001.json"), fillInBlank("second", "x", "x", "y"))

	require.NoError(t, repo.LoadAll(context.Background()))

	questions := repo.ListFillInBlank()
	require.Len(t, questions, 1)
	assert.Equal(t, "first", questions[0].Text)
}

func TestQuestionRepository_SkipsBadFilesAndHiddenFolders(t *testing.T) {
	repo, fill, _ := newQuestionRepo(t)
	writeFile(t, filepath.Join(fill, "question001.json"), fillInBlank("ok", "x", "x", "y"))
	writeFile(t, filepath.Join(fill, "question002.json"), "{not json")
	writeFile(t, filepath.Join(fill, "questionABC.json"), fillInBlank("bad name", "x", "x", "y"))
	writeFile(t, filepath.Join(fill, ".focused_backup_unit1", "question003.json"), fillInBlank("hidden", "x", "x", "y"))
	writeFile(t, filepath.Join(fill, "notes.json"), `{}`)

	require.NoError(t, repo.LoadAll(context.Background()))

	questions := repo.ListFillInBlank()
	require.Len(t, questions, 1)
	assert.Equal(t, 1, questions[0].ID)
}

func TestQuestionRepository_ImageMatchingReadsBothLayouts(t *testing.T) {
	repo, _, image := newQuestionRepo(t)
	writeFile(t, filepath.Join(image, "question001.json"), map[string]any{
		"image": "images/grenouille.png",
		"words": map[string]any{"correct": "grenouille", "incorrect": []string{"poule", "chat"}},
	})
	writeFile(t, filepath.Join(image, "question002.json"), map[string]any{
		"text":            "Quel animal ?",
		"image_path":      "images/poule.png",
		"correct_word":    "poule",
		"incorrect_words": []string{"vache"},
	})
	writeFile(t, filepath.Join(image, "question003.json"), map[string]any{
		"image": "images/vide.png",
		"words": map[string]any{"correct": "vide"},
	})

	require.NoError(t, repo.LoadAll(context.Background()))

	questions := repo.ListImageMatching()
	require.Len(t, questions, 2)
	assert.Equal(t, "images/grenouille.png", questions[0].ImagePath)
	assert.Equal(t, []string{"grenouille", "poule", "chat"}, questions[0].Words())
	assert.Equal(t, "Quel animal ?", questions[1].Text)
	assert.Equal(t, "poule", questions[1].CorrectWord)
}

func TestQuestionRepository_GetByID(t *testing.T) {
	repo, fill, _ := newQuestionRepo(t)
	writeFile(t, filepath.Join(fill, "question004.json"), fillInBlank("Q4", "a", "a", "b"))
	require.NoError(t, repo.LoadAll(context.Background()))

	q, err := repo.GetFillInBlankByID(4)
	require.NoError(t, err)
	assert.Equal(t, "Q4", q.Text)

	_, err = repo.GetFillInBlankByID(5)
	assert.ErrorIs(t, err, entities.ErrQuestionNotFound)

	_, err = repo.GetImageMatchingByID(1)
	assert.ErrorIs(t, err, entities.ErrQuestionNotFound)
}

func TestQuestionRepository_MissingRootsAreEmpty(t *testing.T) {
	repo, _, _ := newQuestionRepo(t)

	require.NoError(t, repo.LoadAll(context.Background()))
	assert.Empty(t, repo.ListFillInBlank())
	assert.Empty(t, repo.ListImageMatching())
	assert.Equal(t, 0, repo.MaxID(entities.GameTypeImageMatching))
}
