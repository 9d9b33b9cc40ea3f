package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revijouer/core/internal/domain/entities"
	"github.com/revijouer/core/internal/ports"
)

func TestQuestionService_SaveFillInBlankRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.writeQuestion(t, "unit1/question004.json", question("Q4", "a", "a", "b"))
	env.writeQuestion(t, "question002.json", question("Q2", "a", "a", "b"))

	saved, err := env.questions.SaveQuestion(ctx, ports.SaveQuestionRequest{
		GameType:      "texte_a_trous",
		Text:          "La grenouille est un ___",
		Options:       []string{"amphibien", "reptile", "oiseau"},
		CorrectAnswer: "amphibien",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, saved.ID)
	assert.Equal(t, "question005.json", saved.File)

	questions, err := env.questions.ListFillInBlank(ctx)
	require.NoError(t, err)
	require.Len(t, questions, 3)
	created := questions[2]
	assert.Equal(t, 5, created.ID)
	assert.Equal(t, "La grenouille est un ___", created.Text)
	assert.Equal(t, []string{"amphibien", "reptile", "oiseau"}, created.Options)
	assert.Equal(t, "amphibien", created.CorrectAnswer)
}

func TestQuestionService_SaveIntoFolder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.tree.CreateFolder(ctx, ports.CreateFolderRequest{Name: "unit3"})
	require.NoError(t, err)

	saved, err := env.questions.SaveQuestion(ctx, ports.SaveQuestionRequest{
		GameType:      "texte_a_trous",
		Folder:        "unit3",
		Text:          "Q",
		Options:       []string{"x", "y"},
		CorrectAnswer: "y",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, saved.ID)
	assert.Equal(t, "unit3/question001.json", saved.File)

	_, err = env.questions.SaveQuestion(ctx, ports.SaveQuestionRequest{
		GameType: "texte_a_trous", Folder: "missing", Text: "Q", Options: []string{"x", "y"}, CorrectAnswer: "y",
	})
	assert.ErrorIs(t, err, entities.ErrFolderNotFound)
}

func TestQuestionService_SaveValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  ports.SaveQuestionRequest
		want error
	}{
		{"unknown game", ports.SaveQuestionRequest{GameType: "pendu"}, entities.ErrInvalidGameType},
		{"no text", ports.SaveQuestionRequest{GameType: "texte_a_trous", Options: []string{"a", "b"}, CorrectAnswer: "a"}, entities.ErrInvalidQuestion},
		{"one option", ports.SaveQuestionRequest{GameType: "texte_a_trous", Text: "t", Options: []string{"a"}, CorrectAnswer: "a"}, entities.ErrInvalidQuestion},
		{"answer not an option", ports.SaveQuestionRequest{GameType: "texte_a_trous", Text: "t", Options: []string{"a", "b"}, CorrectAnswer: "c"}, entities.ErrInvalidQuestion},
		{"no image", ports.SaveQuestionRequest{GameType: "relier_images", CorrectWord: "w", IncorrectWords: []string{"x"}}, entities.ErrInvalidQuestion},
		{"no distractors", ports.SaveQuestionRequest{GameType: "relier_images", ImagePath: "i.png", CorrectWord: "w"}, entities.ErrInvalidQuestion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.questions.SaveQuestion(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestQuestionService_SaveImageMatchingNestedSchema(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	saved, err := env.questions.SaveQuestion(ctx, ports.SaveQuestionRequest{
		GameType:       "relier_images",
		ImagePath:      "images/poule.png",
		CorrectWord:    "poule",
		IncorrectWords: []string{"vache", "chat"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, saved.ID)

	questions, err := env.questions.ListImageMatching(ctx)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "images/poule.png", questions[0].ImagePath)
	assert.Equal(t, []string{"poule", "vache", "chat"}, questions[0].Words())
}
