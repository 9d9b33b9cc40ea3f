package http

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revijouer/core/internal/domain/entities"
	"github.com/revijouer/core/web"
)

func renderPage(t *testing.T, r *Renderer, name string, data echo.Map) string {
	t.Helper()
	var buf bytes.Buffer
	page := Page{Title: "Test", Settings: entities.DefaultSettings(), Data: data}
	require.NoError(t, r.Render(&buf, name, page, nil))
	return buf.String()
}

func TestRenderer_EmbeddedPages(t *testing.T) {
	r, err := NewRenderer(web.FS)
	require.NoError(t, err)

	stats := &entities.QuestionStatistics{CorrectAnswers: 3, WrongAnswers: 1}
	tree := []*entities.TreeNode{
		{
			Type: "folder", Name: "unit1", Path: "unit1",
			Children: []*entities.TreeNode{
				{Type: "question", Name: "question001.json", Path: "unit1/question001.json", ID: "1", Text: "Les grenouilles sont des ___", Statistics: stats},
			},
		},
		{Type: "question", Name: "question002.json", Path: "question002.json", ID: "2", Text: "Done", Completed: true},
	}

	tests := []struct {
		name     string
		data     echo.Map
		contains []string
	}{
		{
			name:     "index.html",
			data:     echo.Map{"Scores": entities.Scores{"texte_a_trous": 7, "relier_images": 2}},
			contains: []string{`id="score-texte_a_trous">7<`, `id="score-relier_images">2<`, "/static/js/menu.js"},
		},
		{
			name:     "settings.html",
			data:     nil,
			contains: []string{`id="settings-form"`, "Comic Sans MS, cursive", "selected"},
		},
		{
			name: "texte_a_trous.html",
			data: echo.Map{
				"Question": &entities.FillInBlankQuestion{
					ID: 4, Text: "Les grenouilles sont des ___", Options: []string{"amphibiens", "reptiles"}, CorrectAnswer: "amphibiens",
				},
				"QuestionID":     4,
				"TotalQuestions": 3,
				"Scores":         entities.NewScores(),
				"FocusedFolder":  "unit1",
			},
			contains: []string{`data-question-id="4"`, `data-answer="amphibiens"`, `data-focus="unit1"`, `id="clear-focus"`},
		},
		{
			name:     "texte_a_trous.html",
			data:     echo.Map{"Scores": entities.NewScores()},
			contains: []string{"Aucune question disponible"},
		},
		{
			name: "relier_images.html",
			data: echo.Map{
				"Question":       &entities.ImageMatchingQuestion{ID: 2, ImagePath: "assets/images/poule.png", CorrectWord: "poule"},
				"Words":          []string{"vache", "poule"},
				"QuestionID":     2,
				"TotalQuestions": 2,
				"Scores":         entities.NewScores(),
			},
			contains: []string{`src="/media/poule.png"`, `data-answer="vache"`, "question_id=3"},
		},
		{
			name:     "create_question.html",
			data:     echo.Map{"GameType": "relier_images"},
			contains: []string{`name="image_path"`, `name="incorrect_words"`},
		},
		{
			name:     "questions_tree.html",
			data:     echo.Map{"Tree": tree, "GameType": "texte_a_trous", "FocusedFolder": ""},
			contains: []string{`data-path="unit1"`, `value="unit1/question001.json"`, "(75%)", "node question completed", "Réactiver"},
		},
		{
			name:     "anki.html",
			data:     echo.Map{"Authenticated": true},
			contains: []string{`data-authenticated="true"`},
		},
		{
			name:     "anki_training.html",
			data:     echo.Map{"DeckName": "SVT::Cellule"},
			contains: []string{`data-deck="SVT::Cellule"`, "/static/js/anki_training.js"},
		},
	}

	for i, tt := range tests {
		t.Run(fmt.Sprintf("%d_%s", i, tt.name), func(t *testing.T) {
			out := renderPage(t, r, tt.name, tt.data)
			assert.Contains(t, out, "<title>Test - Révijouer</title>")
			assert.Contains(t, out, "/static/js/main.js")
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestRenderer_AppliesFontSettings(t *testing.T) {
	r, err := NewRenderer(web.FS)
	require.NoError(t, err)

	settings := entities.DefaultSettings()
	settings["font_family"] = "Georgia, serif"
	settings["font_color"] = "#336699"

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "settings.html", Page{Title: "Paramètres", Settings: settings, Data: echo.Map{}}, nil))
	assert.Contains(t, buf.String(), "font-family: Georgia, serif")
	assert.Contains(t, buf.String(), "#336699")
}

func TestRenderer_UnknownPage(t *testing.T) {
	r, err := NewRenderer(web.FS)
	require.NoError(t, err)

	err = r.Render(&bytes.Buffer{}, "missing.html", Page{}, nil)
	assert.Error(t, err)
}

func TestNewRenderer_NoPages(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/layout.html": {Data: []byte(`{{define "layout"}}{{end}}`)},
	}
	_, err := NewRenderer(fsys)
	assert.Error(t, err)
}

func TestImageURL(t *testing.T) {
	tests := []struct {
		ref  string
		want template.URL
	}{
		{"poule.png", "/media/poule.png"},
		{"images/poule.png", "/media/poule.png"},
		{"assets/images/image_interaction/question1.png", "/media/image_interaction/question1.png"},
		{`assets\images\vache.png`, "/media/vache.png"},
		{"ma poule.png", "/media/ma%20poule.png"},
		{"https://example.org/chat.png", "https://example.org/chat.png"},
		{"data:image/png;base64,iVBORw0KGgo=", "data:image/png;base64,iVBORw0KGgo="},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			assert.Equal(t, tt.want, imageURL(tt.ref))
		})
	}
}

func TestSuccessRatio(t *testing.T) {
	assert.Equal(t, 0, successRatio(nil))
	assert.Equal(t, 0, successRatio(&entities.QuestionStatistics{}))
	assert.Equal(t, 50, successRatio(&entities.QuestionStatistics{CorrectAnswers: 1, WrongAnswers: 1}))
	assert.Equal(t, 66, successRatio(&entities.QuestionStatistics{CorrectAnswers: 2, WrongAnswers: 1}))
}

func TestGameLabel(t *testing.T) {
	assert.Equal(t, "Texte à trous", gameLabel("texte_a_trous"))
	assert.Equal(t, "Relier les images", gameLabel("relier_images"))
	assert.Equal(t, "autre jeu", gameLabel("autre_jeu"))
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("create: %w", entities.ErrFolderExists), "Un dossier avec ce nom existe déjà"},
		{fmt.Errorf("rename: %w", entities.ErrFolderNotFound), "Folder not found"},
		{entities.ErrFileNotFound, "File not found"},
		{entities.ErrInvalidName, "Invalid folder name"},
		{fmt.Errorf("%w: at least two options are required", entities.ErrInvalidQuestion), "at least two options are required"},
		{fmt.Errorf("wrap: %w", entities.ErrAnkiNotAuthenticated), "Not authenticated"},
		{fmt.Errorf("bind: %w", entities.ErrInvalidQuestionID), "Invalid question ID"},
		{errors.New("disk on fire"), "fallback"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, errorMessage(tt.err, "fallback"))
	}
}

func TestQueryInt(t *testing.T) {
	e := echo.New()

	tests := []struct {
		query string
		want  *int
	}{
		{"", nil},
		{"?question_id=abc", nil},
		{"?question_id=12", intPtr(12)},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/game/texte_a_trous"+tt.query, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		assert.Equal(t, tt.want, queryInt(c, "question_id"))
	}
}

func intPtr(v int) *int { return &v }
