package entities

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Common errors
var (
	ErrQuestionNotFound     = errors.New("question not found")
	ErrFolderNotFound       = errors.New("folder not found")
	ErrFolderExists         = errors.New("folder already exists")
	ErrFileNotFound         = errors.New("file not found")
	ErrInvalidName          = errors.New("invalid folder name")
	ErrInvalidFileName      = errors.New("invalid file name")
	ErrInvalidPath          = errors.New("invalid path")
	ErrInvalidGameType      = errors.New("invalid game type")
	ErrInvalidAnswer        = errors.New("invalid answer")
	ErrInvalidQuestion      = errors.New("invalid question")
	ErrInvalidQuestionID    = errors.New("invalid question id")
	ErrInvalidScore         = errors.New("invalid score")
	ErrAnkiNotAuthenticated = errors.New("not authenticated with anki")
)

// GameType identifies one of the two mini-games.
type GameType string

const (
	GameTypeFillInBlank   GameType = "texte_a_trous"
	GameTypeImageMatching GameType = "relier_images"
)

// GameTypes lists the known game types in display order.
var GameTypes = []GameType{GameTypeFillInBlank, GameTypeImageMatching}

// IsValid reports whether g is a known game type.
func (g GameType) IsValid() bool {
	return g == GameTypeFillInBlank || g == GameTypeImageMatching
}

// ParseGameType returns the game type for s, falling back to texte_a_trous
// for empty or unknown values.
func ParseGameType(s string) GameType {
	g := GameType(s)
	if !g.IsValid() {
		return GameTypeFillInBlank
	}
	return g
}

// QuestionFilePattern matches question file names. The optional _N suffix is
// what the mover produces on a name collision.
var QuestionFilePattern = regexp.MustCompile(`^question(\d+)(?:_\d+)?\.json$`)

// ParseQuestionID extracts the numeric ID from a question file name such as
// "question007.json" or "question7.json".
func ParseQuestionID(name string) (int, bool) {
	m := QuestionFilePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return id, true
}

// QuestionFileName returns the canonical file name for a question ID.
func QuestionFileName(id int) string {
	return fmt.Sprintf("question%03d.json", id)
}

// QuestionStatistics holds per-question answer counters
type QuestionStatistics struct {
	CorrectAnswers int `json:"correct_answers"`
	WrongAnswers   int `json:"wrong_answers"`
}

// FillInBlankQuestion is a multiple-choice prompt with one correct option
type FillInBlankQuestion struct {
	ID            int                 `json:"id"`
	Text          string              `json:"text"`
	Options       []string            `json:"options"`
	CorrectAnswer string              `json:"correct_answer"`
	Completed     bool                `json:"completed"`
	Statistics    *QuestionStatistics `json:"statistics,omitempty"`
	Path          string              `json:"path"` // relative to the game root
}

// ImageMatchingQuestion pairs an image with one correct word and distractors
type ImageMatchingQuestion struct {
	ID             int      `json:"id"`
	Text           string   `json:"text,omitempty"`
	ImagePath      string   `json:"image_path"`
	CorrectWord    string   `json:"correct_word"`
	IncorrectWords []string `json:"incorrect_words"`
	Path           string   `json:"path"`
}

// Words returns the correct word followed by the distractors.
func (q *ImageMatchingQuestion) Words() []string {
	words := make([]string, 0, len(q.IncorrectWords)+1)
	words = append(words, q.CorrectWord)
	return append(words, q.IncorrectWords...)
}

// Tree node types
const (
	NodeTypeFolder   = "folder"
	NodeTypeQuestion = "question"
)

// TreeNode is one entry of the question browser
type TreeNode struct {
	Type       string              `json:"type"`
	Name       string              `json:"name"`
	Path       string              `json:"path"`
	Children   []*TreeNode         `json:"children,omitempty"`
	ID         string              `json:"id,omitempty"`
	Text       string              `json:"text,omitempty"`
	File       string              `json:"file,omitempty"`
	Completed  bool                `json:"completed"`
	Statistics *QuestionStatistics `json:"statistics,omitempty"`
}

// Scores maps a game type name to its counter
type Scores map[string]int

// NewScores returns zeroed counters for every known game.
func NewScores() Scores {
	s := make(Scores, len(GameTypes))
	for _, g := range GameTypes {
		s[string(g)] = 0
	}
	return s
}

// Clone returns a copy of s with every known key present.
func (s Scores) Clone() Scores {
	c := NewScores()
	for k, v := range s {
		c[k] = v
	}
	return c
}

// Session is the per-browser state kept between requests
type Session struct {
	Scores            Scores `json:"scores,omitempty"`
	AnkiAuthenticated bool   `json:"anki_authenticated"`
}
