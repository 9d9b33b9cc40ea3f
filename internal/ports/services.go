package ports

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/revijouer/core/internal/domain/entities"
)

// Tree editor types
type MoveItem struct {
	Path string `json:"path" validate:"required"`
	Type string `json:"type" validate:"omitempty,oneof=folder question"`
}

// UnmarshalJSON also accepts a bare path string, the shape older pages send
func (m *MoveItem) UnmarshalJSON(data []byte) error {
	var path string
	if err := json.Unmarshal(data, &path); err == nil {
		*m = MoveItem{Path: path}
		return nil
	}

	type plain MoveItem
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*m = MoveItem(p)
	return nil
}

type MovedItem struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type SkippedItem struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

type MoveResult struct {
	Moved   []MovedItem   `json:"moved_items"`
	Skipped []SkippedItem `json:"skipped_items"`
}

type CreateFolderRequest struct {
	GameType   string `json:"game_type"`
	Name       string `json:"name" validate:"required"`
	ParentPath string `json:"parent_path"`
}

type RenameFolderRequest struct {
	GameType string `json:"game_type"`
	OldPath  string `json:"old_path" validate:"required"`
	NewName  string `json:"new_name" validate:"required"`
}

type FolderPathRequest struct {
	GameType string `json:"game_type"`
	Path     string `json:"path"`
}

type QuestionFileRequest struct {
	GameType string `json:"game_type"`
	File     string `json:"file" validate:"required"`
}

type MoveItemsRequest struct {
	GameType     string     `json:"game_type"`
	Items        []MoveItem `json:"items" validate:"required,dive"`
	TargetFolder string     `json:"target_folder"`
}

// Authoring types
type SaveQuestionRequest struct {
	GameType       string   `json:"game_type" validate:"required,oneof=texte_a_trous relier_images"`
	Folder         string   `json:"folder"`
	Text           string   `json:"text"`
	Options        []string `json:"options"`
	CorrectAnswer  string   `json:"correct_answer"`
	ImagePath      string   `json:"image_path"`
	CorrectWord    string   `json:"correct_word"`
	IncorrectWords []string `json:"incorrect_words"`
}

type SavedQuestion struct {
	ID   int    `json:"id"`
	File string `json:"file"`
}

// Game types
type CheckAnswerRequest struct {
	GameType   string `json:"game_type" validate:"required"`
	QuestionID *int   `json:"question_id" validate:"required"`
	Answer     string `json:"answer" validate:"required"`
	Focus      string `json:"focus"`
}

// UnmarshalJSON accepts question_id as a number or a numeric string
func (r *CheckAnswerRequest) UnmarshalJSON(data []byte) error {
	type plain CheckAnswerRequest
	aux := struct {
		*plain
		QuestionID json.RawMessage `json:"question_id"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.QuestionID = nil
	raw := strings.TrimSpace(string(aux.QuestionID))
	if raw == "" || raw == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(aux.QuestionID, &s); err == nil {
		raw = strings.TrimSpace(s)
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%w: %s", entities.ErrInvalidQuestionID, aux.QuestionID)
	}
	r.QuestionID = &id
	return nil
}

type CheckAnswerResult struct {
	Success        bool   `json:"success"`
	Correct        bool   `json:"correct"`
	Score          int    `json:"score"`
	NextQuestionID *int   `json:"next_question_id"`
	Error          string `json:"error,omitempty"`
}

type FillInBlankGame struct {
	Question       *entities.FillInBlankQuestion
	QuestionID     int
	TotalQuestions int
	Scores         entities.Scores
	FocusedFolder  string
}

type ImageMatchingGame struct {
	Question       *entities.ImageMatchingQuestion
	Words          []string
	QuestionID     int
	TotalQuestions int
	Scores         entities.Scores
}

// Settings types
type UpdateSettingsRequest struct {
	AutoValidate *bool   `json:"auto_validate"`
	FontFamily   *string `json:"font_family" validate:"omitempty,max=100"`
	FontColor    *string `json:"font_color" validate:"omitempty,hexcolor"`
}

// Anki types
type AnswerCardRequest struct {
	CardID int64 `json:"cardId" validate:"required"`
	Ease   int   `json:"ease" validate:"required,min=1,max=4"`
}

// Response types
type ResultResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
