package http

import (
	"fmt"
	"net/http"
	"path"

	"github.com/labstack/echo/v4"

	"github.com/revijouer/core/internal/application/services"
	"github.com/revijouer/core/internal/domain/entities"
	"github.com/revijouer/core/internal/infrastructure/logger"
	"github.com/revijouer/core/internal/ports"
)

// TreeHandler handles the question folder editor
type TreeHandler struct {
	treeService     *services.TreeService
	settingsService *services.SettingsService
	logger          *logger.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(treeService *services.TreeService, settingsService *services.SettingsService, logger *logger.Logger) *TreeHandler {
	return &TreeHandler{
		treeService:     treeService,
		settingsService: settingsService,
		logger:          logger,
	}
}

// QuestionsTree renders the folder editor
func (h *TreeHandler) QuestionsTree(c echo.Context) error {
	ctx := c.Request().Context()
	gameType := entities.ParseGameType(c.QueryParam("game_type"))

	tree, err := h.treeService.Tree(ctx, gameType)
	if err != nil {
		h.logger.Errorw("Load question tree failed", "error", err, "game_type", gameType)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load questions")
	}

	return render(c, h.settingsService, "questions_tree.html", "Questions", echo.Map{
		"Tree":          tree,
		"GameType":      string(gameType),
		"FocusedFolder": h.settingsService.Get(ctx).FocusedFolder(),
	})
}

// Tree godoc
// @Summary Question tree
// @Description Recursive listing of folders and question files
// @Tags questions
// @Produce json
// @Param game_type query string false "texte_a_trous or relier_images"
// @Success 200 {array} entities.TreeNode
// @Router /api/questions/tree [get]
func (h *TreeHandler) Tree(c echo.Context) error {
	gameType := entities.ParseGameType(c.QueryParam("game_type"))

	tree, err := h.treeService.Tree(c.Request().Context(), gameType)
	if err != nil {
		h.logger.Errorw("Load question tree failed", "error", err, "game_type", gameType)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load questions")
	}

	return c.JSON(http.StatusOK, tree)
}

// CreateFolder godoc
// @Summary Create a folder
// @Tags questions
// @Accept json
// @Produce json
// @Param request body ports.CreateFolderRequest true "Folder"
// @Success 200 {object} CreateFolderResponse
// @Router /game/create_folder [post]
func (h *TreeHandler) CreateFolder(c echo.Context) error {
	var req ports.CreateFolderRequest
	if err := c.Bind(&req); err != nil {
		return malformed(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusOK, ports.ResultResponse{Success: false, Message: "Missing folder name or parent path"})
	}

	folderPath, err := h.treeService.CreateFolder(c.Request().Context(), req)
	if err != nil {
		h.logger.Warnw("Create folder failed", "error", err, "name", req.Name)
		return failure(c, err, "Une erreur est survenue lors de la création du dossier")
	}

	return c.JSON(http.StatusOK, CreateFolderResponse{
		Success: true,
		Message: "Dossier créé avec succès",
		Folder:  FolderInfo{Name: path.Base(folderPath), Path: folderPath},
	})
}

// RenameFolder godoc
// @Summary Rename a folder
// @Tags questions
// @Accept json
// @Produce json
// @Param request body ports.RenameFolderRequest true "Folder"
// @Success 200 {object} RenameFolderResponse
// @Router /game/rename_folder [post]
func (h *TreeHandler) RenameFolder(c echo.Context) error {
	var req ports.RenameFolderRequest
	if err := c.Bind(&req); err != nil {
		return malformed(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusOK, ports.ResultResponse{Success: false, Message: "Missing required fields"})
	}

	newPath, err := h.treeService.RenameFolder(c.Request().Context(), req)
	if err != nil {
		h.logger.Warnw("Rename folder failed", "error", err, "path", req.OldPath)
		return failure(c, err, "Une erreur est survenue lors du renommage du dossier")
	}

	return c.JSON(http.StatusOK, RenameFolderResponse{
		Success: true,
		Message: "Dossier renommé avec succès",
		NewPath: newPath,
	})
}

// DeleteFolder godoc
// @Summary Delete a folder and everything below it
// @Tags questions
// @Accept json
// @Produce json
// @Param request body ports.FolderPathRequest true "Folder"
// @Success 200 {object} ports.ResultResponse
// @Router /game/delete_folder [post]
func (h *TreeHandler) DeleteFolder(c echo.Context) error {
	var req ports.FolderPathRequest
	if err := c.Bind(&req); err != nil {
		return malformed(c, err)
	}

	if err := h.treeService.DeleteFolder(c.Request().Context(), req); err != nil {
		h.logger.Warnw("Delete folder failed", "error", err, "path", req.Path)
		return failure(c, err, "Une erreur est survenue lors de la suppression du dossier")
	}

	return c.JSON(http.StatusOK, ports.ResultResponse{Success: true, Message: "Dossier supprimé avec succès"})
}

// MoveItems godoc
// @Summary Move questions and folders
// @Tags questions
// @Accept json
// @Produce json
// @Param request body ports.MoveItemsRequest true "Items"
// @Success 200 {object} MoveItemsResponse
// @Router /game/move_items [post]
func (h *TreeHandler) MoveItems(c echo.Context) error {
	var req ports.MoveItemsRequest
	if err := c.Bind(&req); err != nil {
		return malformed(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusOK, ports.ResultResponse{Success: false, Message: "Missing required fields"})
	}

	result, err := h.treeService.MoveItems(c.Request().Context(), req)
	if err != nil {
		h.logger.Warnw("Move items failed", "error", err, "target", req.TargetFolder)
		return failure(c, err, "Une erreur est survenue lors du déplacement des éléments")
	}

	return c.JSON(http.StatusOK, MoveItemsResponse{
		Success:    true,
		Message:    fmt.Sprintf("%d élément(s) déplacé(s) avec succès", len(result.Moved)),
		MoveResult: *result,
	})
}

// ToggleCompletion godoc
// @Summary Toggle the completed flag of a question
// @Tags questions
// @Accept json
// @Produce json
// @Param request body ports.QuestionFileRequest true "Question file"
// @Success 200 {object} ToggleCompletionResponse
// @Router /game/toggle_question_completion [post]
func (h *TreeHandler) ToggleCompletion(c echo.Context) error {
	var req ports.QuestionFileRequest
	if err := c.Bind(&req); err != nil {
		return malformed(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusOK, ports.ResultResponse{Success: false, Message: "No file specified"})
	}

	completed, err := h.treeService.ToggleCompletion(c.Request().Context(), req)
	if err != nil {
		h.logger.Warnw("Toggle completion failed", "error", err, "file", req.File)
		return failure(c, err, "Une erreur est survenue lors de la mise à jour de la question")
	}

	message := "Question marquée comme non terminée"
	if completed {
		message = "Question marquée comme terminée"
	}
	return c.JSON(http.StatusOK, ToggleCompletionResponse{Success: true, Message: message, Completed: completed})
}

// DeleteQuestion godoc
// @Summary Delete a question file
// @Tags questions
// @Accept json
// @Produce json
// @Param request body ports.QuestionFileRequest true "Question file"
// @Success 200 {object} ports.ResultResponse
// @Router /game/delete_question [post]
func (h *TreeHandler) DeleteQuestion(c echo.Context) error {
	var req ports.QuestionFileRequest
	if err := c.Bind(&req); err != nil {
		return malformed(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusOK, ports.ResultResponse{Success: false, Message: "No file specified"})
	}

	if err := h.treeService.DeleteQuestion(c.Request().Context(), req); err != nil {
		h.logger.Warnw("Delete question failed", "error", err, "file", req.File)
		return failure(c, err, "Une erreur est survenue lors de la suppression de la question")
	}

	return c.JSON(http.StatusOK, ports.ResultResponse{Success: true, Message: "Question supprimée avec succès"})
}

// FocusFolder godoc
// @Summary Focus the fill-in-the-blank game on a folder
// @Tags questions
// @Accept json
// @Produce json
// @Param request body ports.FolderPathRequest true "Folder"
// @Success 200 {object} FocusResponse
// @Router /game/focus_folder [post]
func (h *TreeHandler) FocusFolder(c echo.Context) error {
	var req ports.FolderPathRequest
	if err := c.Bind(&req); err != nil {
		return malformed(c, err)
	}

	ctx := c.Request().Context()
	if err := h.treeService.Focus(ctx, req.Path); err != nil {
		h.logger.Warnw("Focus folder failed", "error", err, "path", req.Path)
		return failure(c, err, "Une erreur est survenue lors de la sélection du dossier")
	}

	return c.JSON(http.StatusOK, FocusResponse{
		Success:       true,
		Message:       "Dossier sélectionné",
		FocusedFolder: h.settingsService.Get(ctx).FocusedFolder(),
	})
}

// ClearFocus godoc
// @Summary Play every folder again
// @Tags questions
// @Produce json
// @Success 200 {object} FocusResponse
// @Router /game/clear_focus [post]
func (h *TreeHandler) ClearFocus(c echo.Context) error {
	if err := h.treeService.ClearFocus(c.Request().Context()); err != nil {
		h.logger.Errorw("Clear focus failed", "error", err)
		return failure(c, err, "Une erreur est survenue lors de la désélection du dossier")
	}
	return c.JSON(http.StatusOK, FocusResponse{Success: true, Message: "Tous les dossiers sont actifs"})
}
