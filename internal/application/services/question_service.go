package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/revijouer/core/internal/domain/entities"
	"github.com/revijouer/core/internal/infrastructure/logger"
	"github.com/revijouer/core/internal/ports"
)

// QuestionService handles question authoring and listing
type QuestionService struct {
	questions ports.QuestionRepository
	files     ports.QuestionFiles
	logger    *logger.Logger
}

// NewQuestionService creates a new question service
func NewQuestionService(questions ports.QuestionRepository, files ports.QuestionFiles, logger *logger.Logger) *QuestionService {
	return &QuestionService{
		questions: questions,
		files:     files,
		logger:    logger,
	}
}

// SaveQuestion validates req and writes it as a new question file whose ID
// follows the highest one in the game's tree
func (s *QuestionService) SaveQuestion(ctx context.Context, req ports.SaveQuestionRequest) (*ports.SavedQuestion, error) {
	gameType := entities.GameType(req.GameType)
	if !gameType.IsValid() {
		return nil, fmt.Errorf("%w: %q", entities.ErrInvalidGameType, req.GameType)
	}

	var data map[string]any
	var err error
	switch gameType {
	case entities.GameTypeFillInBlank:
		data, err = fillInBlankData(req)
	case entities.GameTypeImageMatching:
		data, err = imageMatchingData(req)
	}
	if err != nil {
		return nil, err
	}

	if err := s.questions.LoadAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	id := s.questions.MaxID(gameType) + 1

	file, err := s.files.WriteQuestion(ctx, gameType, req.Folder, id, data)
	if err != nil {
		return nil, fmt.Errorf("failed to save question: %w", err)
	}

	s.logger.Infow("Question created", "game_type", gameType, "id", id, "file", file)
	return &ports.SavedQuestion{ID: id, File: file}, nil
}

func fillInBlankData(req ports.SaveQuestionRequest) (map[string]any, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", entities.ErrInvalidQuestion)
	}

	options := make([]string, 0, len(req.Options))
	for _, o := range req.Options {
		if o = strings.TrimSpace(o); o != "" {
			options = append(options, o)
		}
	}
	if len(options) < 2 {
		return nil, fmt.Errorf("%w: at least two options are required", entities.ErrInvalidQuestion)
	}

	found := false
	for _, o := range options {
		if o == req.CorrectAnswer {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: la réponse correcte doit correspondre exactement à l'une des options", entities.ErrInvalidQuestion)
	}

	return map[string]any{
		"text":           text,
		"options":        options,
		"correct_answer": req.CorrectAnswer,
	}, nil
}

func imageMatchingData(req ports.SaveQuestionRequest) (map[string]any, error) {
	if strings.TrimSpace(req.ImagePath) == "" {
		return nil, fmt.Errorf("%w: image_path is required", entities.ErrInvalidQuestion)
	}
	if strings.TrimSpace(req.CorrectWord) == "" {
		return nil, fmt.Errorf("%w: correct_word is required", entities.ErrInvalidQuestion)
	}

	incorrect := make([]string, 0, len(req.IncorrectWords))
	for _, w := range req.IncorrectWords {
		if w = strings.TrimSpace(w); w != "" {
			incorrect = append(incorrect, w)
		}
	}
	if len(incorrect) == 0 {
		return nil, fmt.Errorf("%w: les mots incorrects doivent être une liste non vide", entities.ErrInvalidQuestion)
	}

	data := map[string]any{
		"image": req.ImagePath,
		"words": map[string]any{
			"correct":   req.CorrectWord,
			"incorrect": incorrect,
		},
	}
	if text := strings.TrimSpace(req.Text); text != "" {
		data["text"] = text
	}
	return data, nil
}

// ListFillInBlank reloads the tree and returns every fill-in-the-blank question
func (s *QuestionService) ListFillInBlank(ctx context.Context) ([]*entities.FillInBlankQuestion, error) {
	if err := s.questions.LoadAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	return s.questions.ListFillInBlank(), nil
}

// ListImageMatching reloads the tree and returns every image-matching question
func (s *QuestionService) ListImageMatching(ctx context.Context) ([]*entities.ImageMatchingQuestion, error) {
	if err := s.questions.LoadAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	return s.questions.ListImageMatching(), nil
}
