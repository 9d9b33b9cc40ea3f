package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/revijouer/core/internal/application/services"
	"github.com/revijouer/core/internal/domain/entities"
	"github.com/revijouer/core/internal/infrastructure/logger"
	"github.com/revijouer/core/internal/ports"
)

// SessionKey is the echo context key holding the browser session ID
const SessionKey = "session_id"

// Page is the data every HTML template receives
type Page struct {
	Title    string
	Settings entities.Settings
	Data     echo.Map
}

// MenuHandler serves the main menu
type MenuHandler struct {
	scoreService    *services.ScoreService
	settingsService *services.SettingsService
	logger          *logger.Logger
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(scoreService *services.ScoreService, settingsService *services.SettingsService, logger *logger.Logger) *MenuHandler {
	return &MenuHandler{
		scoreService:    scoreService,
		settingsService: settingsService,
		logger:          logger,
	}
}

// Index renders the menu with the current scores
func (h *MenuHandler) Index(c echo.Context) error {
	scores, err := h.scoreService.GetAll(c.Request().Context(), sessionID(c))
	if err != nil {
		h.logger.Errorw("Failed to load scores", "error", err)
		scores = entities.NewScores()
	}

	return render(c, h.settingsService, "index.html", "Révijouer", echo.Map{
		"Scores": scores,
	})
}

// Quit sends the browser back to the menu
func (h *MenuHandler) Quit(c echo.Context) error {
	h.logger.Debugw("Quit requested")
	return c.Redirect(http.StatusFound, "/")
}

// SettingsHandler handles the settings page
type SettingsHandler struct {
	settingsService *services.SettingsService
	logger          *logger.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *services.SettingsService, logger *logger.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		logger:          logger,
	}
}

// Page renders the settings form
func (h *SettingsHandler) Page(c echo.Context) error {
	return render(c, h.settingsService, "settings.html", "Paramètres", nil)
}

// Save godoc
// @Summary Save settings
// @Description Merge the submitted values into the stored settings
// @Tags settings
// @Accept json
// @Produce json
// @Param request body ports.UpdateSettingsRequest true "Settings"
// @Success 200 {object} ports.ResultResponse
// @Router /settings/save [post]
func (h *SettingsHandler) Save(c echo.Context) error {
	var req ports.UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return malformed(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusOK, ports.ResultResponse{Success: false, Message: "Invalid settings: " + err.Error()})
	}

	if _, err := h.settingsService.Update(c.Request().Context(), req); err != nil {
		h.logger.Errorw("Save settings failed", "error", err)
		return failure(c, err, "Une erreur est survenue lors de l'enregistrement des paramètres")
	}

	return c.JSON(http.StatusOK, ports.ResultResponse{Success: true, Message: "Paramètres enregistrés avec succès"})
}

// Utility functions and helper types

func sessionID(c echo.Context) string {
	id, _ := c.Get(SessionKey).(string)
	return id
}

func render(c echo.Context, settings *services.SettingsService, name, title string, data echo.Map) error {
	if data == nil {
		data = echo.Map{}
	}
	return c.Render(http.StatusOK, name, Page{
		Title:    title,
		Settings: settings.Get(c.Request().Context()),
		Data:     data,
	})
}

// failure answers a mutating request with success false. Known domain errors
// get a readable message, anything else the fallback.
func failure(c echo.Context, err error, fallback string) error {
	return c.JSON(http.StatusOK, ports.ResultResponse{Success: false, Message: errorMessage(err, fallback)})
}

// malformed answers a body that could not be bound
func malformed(c echo.Context, err error) error {
	return c.JSON(http.StatusOK, ports.ResultResponse{Success: false, Message: errorMessage(err, "Missing required fields")})
}

func errorMessage(err error, fallback string) string {
	switch {
	case errors.Is(err, entities.ErrFolderExists):
		return "Un dossier avec ce nom existe déjà"
	case errors.Is(err, entities.ErrFolderNotFound):
		return "Folder not found"
	case errors.Is(err, entities.ErrFileNotFound):
		return "File not found"
	case errors.Is(err, entities.ErrQuestionNotFound):
		return "Question not found"
	case errors.Is(err, entities.ErrInvalidName):
		return "Invalid folder name"
	case errors.Is(err, entities.ErrInvalidFileName):
		return "Invalid file name"
	case errors.Is(err, entities.ErrInvalidPath):
		return "Invalid folder path"
	case errors.Is(err, entities.ErrInvalidGameType):
		return "Invalid game type"
	case errors.Is(err, entities.ErrInvalidAnswer):
		return "Missing required fields"
	case errors.Is(err, entities.ErrInvalidQuestionID):
		return "Invalid question ID"
	case errors.Is(err, entities.ErrInvalidScore):
		return "Invalid score"
	case errors.Is(err, entities.ErrAnkiNotAuthenticated):
		return "Not authenticated"
	case errors.Is(err, entities.ErrInvalidQuestion):
		msg := err.Error()
		if i := strings.Index(msg, entities.ErrInvalidQuestion.Error()+": "); i >= 0 {
			return msg[i+len(entities.ErrInvalidQuestion.Error())+2:]
		}
		return "Missing required fields"
	default:
		return fallback
	}
}

func queryInt(c echo.Context, name string) *int {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

// Request/Response types

type SaveQuestionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      int    `json:"id"`
	File    string `json:"file"`
}

type FolderInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type CreateFolderResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Folder  FolderInfo `json:"folder"`
}

type RenameFolderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	NewPath string `json:"new_path"`
}

type MoveItemsResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ports.MoveResult
}

type ToggleCompletionResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Completed bool   `json:"completed"`
}

type FocusResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	FocusedFolder string `json:"focused_folder"`
}
