package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/revijouer/core/internal/application/services"
	"github.com/revijouer/core/internal/domain/entities"
	"github.com/revijouer/core/internal/infrastructure/logger"
	"github.com/revijouer/core/internal/ports"
)

// GameHandler handles the two mini-games and question authoring
type GameHandler struct {
	gameService     *services.GameService
	questionService *services.QuestionService
	settingsService *services.SettingsService
	logger          *logger.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(
	gameService *services.GameService,
	questionService *services.QuestionService,
	settingsService *services.SettingsService,
	logger *logger.Logger,
) *GameHandler {
	return &GameHandler{
		gameService:     gameService,
		questionService: questionService,
		settingsService: settingsService,
		logger:          logger,
	}
}

// TexteATrous renders the fill-in-the-blank game
func (h *GameHandler) TexteATrous(c echo.Context) error {
	game, err := h.gameService.TexteATrous(c.Request().Context(), sessionID(c), queryInt(c, "question_id"), c.QueryParam("focus"))
	if err != nil {
		h.logger.Errorw("Load fill-in-the-blank game failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load questions")
	}

	return render(c, h.settingsService, "texte_a_trous.html", "Texte à trous", echo.Map{
		"Question":       game.Question,
		"QuestionID":     game.QuestionID,
		"TotalQuestions": game.TotalQuestions,
		"Scores":         game.Scores,
		"FocusedFolder":  game.FocusedFolder,
	})
}

// RelierImages renders the image-matching game
func (h *GameHandler) RelierImages(c echo.Context) error {
	game, err := h.gameService.RelierImages(c.Request().Context(), sessionID(c), queryInt(c, "question_id"))
	if err != nil {
		h.logger.Errorw("Load image-matching game failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load questions")
	}

	return render(c, h.settingsService, "relier_images.html", "Relier les images", echo.Map{
		"Question":       game.Question,
		"Words":          game.Words,
		"QuestionID":     game.QuestionID,
		"TotalQuestions": game.TotalQuestions,
		"Scores":         game.Scores,
	})
}

// CheckAnswer godoc
// @Summary Check an answer
// @Description Grade an answer, update the score and the question statistics
// @Tags game
// @Accept json
// @Produce json
// @Param request body ports.CheckAnswerRequest true "Answer"
// @Success 200 {object} ports.CheckAnswerResult
// @Router /game/check_answer [post]
func (h *GameHandler) CheckAnswer(c echo.Context) error {
	var req ports.CheckAnswerRequest
	if err := c.Bind(&req); err != nil {
		return malformed(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusOK, ports.ResultResponse{Success: false, Message: "Missing required fields"})
	}

	result, err := h.gameService.CheckAnswer(c.Request().Context(), sessionID(c), req)
	if err != nil {
		h.logger.Warnw("Check answer failed", "error", err, "game_type", req.GameType)
		return failure(c, err, "Une erreur est survenue lors de la validation")
	}

	return c.JSON(http.StatusOK, result)
}

// ResetScores godoc
// @Summary Reset scores
// @Tags game
// @Produce json
// @Success 200 {object} ports.ResultResponse
// @Router /game/reset_scores [post]
func (h *GameHandler) ResetScores(c echo.Context) error {
	if err := h.gameService.ResetScores(c.Request().Context(), sessionID(c)); err != nil {
		h.logger.Errorw("Reset scores failed", "error", err)
		return failure(c, err, "Une erreur est survenue lors de la réinitialisation des scores")
	}
	return c.JSON(http.StatusOK, ports.ResultResponse{Success: true})
}

// CreateQuestion renders the authoring form
func (h *GameHandler) CreateQuestion(c echo.Context) error {
	gameType := entities.ParseGameType(c.QueryParam("type"))
	return render(c, h.settingsService, "create_question.html", "Créer une question", echo.Map{
		"GameType": string(gameType),
	})
}

// SaveQuestion godoc
// @Summary Create a question
// @Description Write a new question file with the next free ID
// @Tags questions
// @Accept json
// @Produce json
// @Param request body ports.SaveQuestionRequest true "Question"
// @Success 200 {object} SaveQuestionResponse
// @Router /game/save_question [post]
func (h *GameHandler) SaveQuestion(c echo.Context) error {
	var req ports.SaveQuestionRequest
	if err := c.Bind(&req); err != nil {
		return malformed(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusOK, ports.ResultResponse{Success: false, Message: "No data or game type provided"})
	}

	saved, err := h.questionService.SaveQuestion(c.Request().Context(), req)
	if err != nil {
		h.logger.Warnw("Save question failed", "error", err, "game_type", req.GameType)
		return failure(c, err, "Une erreur est survenue lors de la sauvegarde de la question")
	}

	return c.JSON(http.StatusOK, SaveQuestionResponse{
		Success: true,
		Message: "Question créée avec succès",
		ID:      saved.ID,
		File:    saved.File,
	})
}
