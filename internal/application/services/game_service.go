package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/revijouer/core/internal/domain/entities"
	"github.com/revijouer/core/internal/infrastructure/logger"
	"github.com/revijouer/core/internal/infrastructure/metrics"
	"github.com/revijouer/core/internal/ports"
)

// GameService runs the two mini-games
type GameService struct {
	questions ports.QuestionRepository
	files     ports.QuestionFiles
	settings  *SettingsService
	scores    *ScoreService
	metrics   *metrics.Metrics
	logger    *logger.Logger

	shuffle func(words []string)
}

// NewGameService creates a new game service
func NewGameService(
	questions ports.QuestionRepository,
	files ports.QuestionFiles,
	settings *SettingsService,
	scores *ScoreService,
	m *metrics.Metrics,
	logger *logger.Logger,
) *GameService {
	return &GameService{
		questions: questions,
		files:     files,
		settings:  settings,
		scores:    scores,
		metrics:   m,
		logger:    logger,
		shuffle: func(words []string) {
			rand.Shuffle(len(words), func(i, j int) { words[i], words[j] = words[j], words[i] })
		},
	}
}

// ActiveQuestions reloads the repository and returns the fill-in-the-blank
// questions not yet completed, limited to the focused folder when there is
// one. The explicit focus wins over the stored one. It also returns the focus
// that was applied.
func (s *GameService) ActiveQuestions(ctx context.Context, focus string) ([]*entities.FillInBlankQuestion, string, error) {
	if err := s.questions.LoadAll(ctx); err != nil {
		return nil, "", fmt.Errorf("failed to load questions: %w", err)
	}

	focus = normalizeRel(focus)
	if focus == "" {
		focus = s.settings.Get(ctx).FocusedFolder()
	}
	if focus != "" && !s.files.FolderExists(entities.GameTypeFillInBlank, focus) {
		s.logger.Warnw("Focused folder does not exist, ignoring it", "path", focus)
		focus = ""
	}

	all := s.questions.ListFillInBlank()
	active := make([]*entities.FillInBlankQuestion, 0, len(all))
	for _, q := range all {
		if q.Completed {
			continue
		}
		if focus != "" && !strings.HasPrefix(q.Path, focus+"/") {
			continue
		}
		active = append(active, q)
	}
	return active, focus, nil
}

// TexteATrous selects the fill-in-the-blank question to show. The requested
// one is used when it is active, otherwise the first active one.
func (s *GameService) TexteATrous(ctx context.Context, sessionID string, requestedID *int, focus string) (*ports.FillInBlankGame, error) {
	active, focus, err := s.ActiveQuestions(ctx, focus)
	if err != nil {
		return nil, err
	}

	game := &ports.FillInBlankGame{
		TotalQuestions: len(active),
		Scores:         s.currentScores(ctx, sessionID),
		FocusedFolder:  focus,
	}
	if len(active) == 0 {
		return game, nil
	}

	game.Question = active[0]
	if requestedID != nil {
		for _, q := range active {
			if q.ID == *requestedID {
				game.Question = q
				break
			}
		}
	}
	game.QuestionID = game.Question.ID
	return game, nil
}

// RelierImages selects the image-matching question to show and shuffles its
// words.
func (s *GameService) RelierImages(ctx context.Context, sessionID string, requestedID *int) (*ports.ImageMatchingGame, error) {
	if err := s.questions.LoadAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}

	questions := s.questions.ListImageMatching()
	game := &ports.ImageMatchingGame{
		TotalQuestions: len(questions),
		Scores:         s.currentScores(ctx, sessionID),
	}
	if len(questions) == 0 {
		return game, nil
	}

	game.Question = questions[0]
	if requestedID != nil {
		if q, err := s.questions.GetImageMatchingByID(*requestedID); err == nil {
			game.Question = q
		}
	}
	game.QuestionID = game.Question.ID
	game.Words = game.Question.Words()
	s.shuffle(game.Words)
	return game, nil
}

// CheckAnswer grades an answer, updates scores and the question statistics,
// and picks the next question. Failures while persisting statistics are
// reported in the result rather than returned.
func (s *GameService) CheckAnswer(ctx context.Context, sessionID string, req ports.CheckAnswerRequest) (*ports.CheckAnswerResult, error) {
	if req.QuestionID == nil || req.Answer == "" {
		return nil, fmt.Errorf("%w: missing required fields", entities.ErrInvalidAnswer)
	}

	switch entities.GameType(req.GameType) {
	case entities.GameTypeFillInBlank:
		return s.checkFillInBlank(ctx, sessionID, *req.QuestionID, req.Answer, req.Focus)
	case entities.GameTypeImageMatching:
		return s.checkImageMatching(ctx, sessionID, *req.QuestionID, req.Answer)
	default:
		return nil, fmt.Errorf("%w: %q", entities.ErrInvalidGameType, req.GameType)
	}
}

func (s *GameService) checkFillInBlank(ctx context.Context, sessionID string, id int, answer, focus string) (*ports.CheckAnswerResult, error) {
	if err := s.questions.LoadAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	question, err := s.questions.GetFillInBlankByID(id)
	if err != nil {
		return nil, fmt.Errorf("question %d: %w", id, err)
	}

	correct := answer == question.CorrectAnswer
	s.metrics.ObserveAnswer(string(entities.GameTypeFillInBlank), correct)
	autoValidate := s.settings.Get(ctx).AutoValidate()

	result := &ports.CheckAnswerResult{Success: true, Correct: correct}

	statsErr := s.files.UpdateQuestion(ctx, entities.GameTypeFillInBlank, question.Path, func(data map[string]any) error {
		stats, _ := data["statistics"].(map[string]any)
		if stats == nil {
			stats = map[string]any{}
		}
		correctAnswers := toInt(stats["correct_answers"])
		wrongAnswers := toInt(stats["wrong_answers"])
		if correct {
			correctAnswers++
			if autoValidate {
				data["completed"] = true
			}
		} else {
			wrongAnswers++
		}
		stats["correct_answers"] = correctAnswers
		stats["wrong_answers"] = wrongAnswers
		data["statistics"] = stats
		return nil
	})

	if correct {
		if score, err := s.scores.Increment(ctx, sessionID, entities.GameTypeFillInBlank, 1); err != nil {
			s.logger.Errorw("Failed to increment score", "error", err)
			result.Score = s.scores.Get(ctx, sessionID, entities.GameTypeFillInBlank)
		} else {
			result.Score = score
		}
	} else {
		result.Score = s.scores.Get(ctx, sessionID, entities.GameTypeFillInBlank)
	}

	if statsErr != nil {
		s.logger.Errorw("Failed to update question statistics", "question_id", id, "error", statsErr)
		result.Error = statsErr.Error()
		return result, nil
	}

	active, _, err := s.ActiveQuestions(ctx, focus)
	if err != nil {
		s.logger.Errorw("Failed to compute next question", "error", err)
		result.Error = err.Error()
		return result, nil
	}
	result.NextQuestionID = nextQuestionID(active, id)

	s.logger.Debugw("Answer checked",
		"question_id", id,
		"correct", correct,
		"next_question_id", result.NextQuestionID,
	)
	return result, nil
}

func (s *GameService) checkImageMatching(ctx context.Context, sessionID string, id int, answer string) (*ports.CheckAnswerResult, error) {
	if err := s.questions.LoadAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}

	correct := false
	if question, err := s.questions.GetImageMatchingByID(id); err == nil {
		correct = answer == question.CorrectWord
	}
	s.metrics.ObserveAnswer(string(entities.GameTypeImageMatching), correct)

	result := &ports.CheckAnswerResult{Success: true, Correct: correct}
	if correct {
		score, err := s.scores.Increment(ctx, sessionID, entities.GameTypeImageMatching, 1)
		if err == nil {
			result.Score = score
			return result, nil
		}
		s.logger.Errorw("Failed to increment score", "error", err)
		result.Error = err.Error()
	}
	result.Score = s.scores.Get(ctx, sessionID, entities.GameTypeImageMatching)
	return result, nil
}

// ResetScores sets both game counters back to zero
func (s *GameService) ResetScores(ctx context.Context, sessionID string) error {
	return s.scores.ResetAll(ctx, sessionID)
}

func (s *GameService) currentScores(ctx context.Context, sessionID string) entities.Scores {
	scores, err := s.scores.GetAll(ctx, sessionID)
	if err != nil {
		s.logger.Warnw("Failed to load scores", "error", err)
	}
	if scores == nil {
		return entities.NewScores()
	}
	return scores
}

// nextQuestionID returns the smallest active ID above current, else the
// smallest active ID other than current, else nil. active is sorted by ID.
func nextQuestionID(active []*entities.FillInBlankQuestion, current int) *int {
	for _, q := range active {
		if q.ID > current {
			id := q.ID
			return &id
		}
	}
	for _, q := range active {
		if q.ID != current {
			id := q.ID
			return &id
		}
	}
	return nil
}

func toInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	default:
		return 0
	}
}
