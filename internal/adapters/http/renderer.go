package http

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strings"

	"github.com/go-sprout/sprout"
	"github.com/labstack/echo/v4"

	"github.com/revijouer/core/internal/domain/entities"
)

const layoutTemplate = "templates/layout.html"

var fontChoices = []string{
	"Arial, sans-serif",
	"Verdana, sans-serif",
	"Georgia, serif",
	"Comic Sans MS, cursive",
	"Courier New, monospace",
}

// Renderer renders the server-side pages. Every page is parsed together with
// the shared layout and executed through it.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses templates/layout.html and every templates/pages/*.html
// from fsys
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	sh := sprout.New()
	funcs := sh.Build()
	funcs["add"] = func(a, b int) int { return a + b }
	funcs["gameLabel"] = gameLabel
	funcs["score"] = func(scores entities.Scores, game string) int { return scores[game] }
	funcs["ratio"] = successRatio
	funcs["fonts"] = func() []string { return fontChoices }
	funcs["imageURL"] = imageURL

	files, err := fs.Glob(fsys, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no page templates found")
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		name := path.Base(file)
		tpl, err := template.New(name).Funcs(funcs).ParseFS(fsys, layoutTemplate, file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.pages[name] = tpl
	}
	return r, nil
}

// Render implements echo.Renderer
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	tpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return tpl.ExecuteTemplate(w, "layout", data)
}

func gameLabel(game string) string {
	switch entities.GameType(game) {
	case entities.GameTypeFillInBlank:
		return "Texte à trous"
	case entities.GameTypeImageMatching:
		return "Relier les images"
	default:
		return strings.ReplaceAll(game, "_", " ")
	}
}

// imageURL maps a stored image reference to something the browser can load.
// Inline data images pass through, file paths are served under /media relative
// to the images directory.
func imageURL(ref string) template.URL {
	switch {
	case strings.HasPrefix(ref, "data:image/"):
		return template.URL(ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"), strings.HasPrefix(ref, "/"):
		return template.URL(ref)
	}

	ref = path.Clean(strings.ReplaceAll(ref, "\\", "/"))
	if i := strings.Index(ref, "images/"); i >= 0 {
		ref = ref[i+len("images/"):]
	}
	return template.URL((&url.URL{Path: "/media/" + ref}).EscapedPath())
}

// successRatio returns the share of correct answers as a percentage, 0 when
// the question was never answered
func successRatio(stats *entities.QuestionStatistics) int {
	if stats == nil {
		return 0
	}
	total := stats.CorrectAnswers + stats.WrongAnswers
	if total == 0 {
		return 0
	}
	return stats.CorrectAnswers * 100 / total
}
