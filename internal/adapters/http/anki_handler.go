package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/revijouer/core/internal/adapters/anki"
	"github.com/revijouer/core/internal/application/services"
	"github.com/revijouer/core/internal/domain/entities"
	"github.com/revijouer/core/internal/infrastructure/logger"
	"github.com/revijouer/core/internal/ports"
)

// AnkiHandler handles the AnkiConnect bridge pages and endpoints
type AnkiHandler struct {
	ankiService     *services.AnkiService
	settingsService *services.SettingsService
	logger          *logger.Logger
}

// NewAnkiHandler creates a new Anki handler
func NewAnkiHandler(ankiService *services.AnkiService, settingsService *services.SettingsService, logger *logger.Logger) *AnkiHandler {
	return &AnkiHandler{
		ankiService:     ankiService,
		settingsService: settingsService,
		logger:          logger,
	}
}

// Page renders the deck picker
func (h *AnkiHandler) Page(c echo.Context) error {
	return render(c, h.settingsService, "anki.html", "Anki", echo.Map{
		"Authenticated": h.ankiService.IsAuthenticated(c.Request().Context(), sessionID(c)),
	})
}

// Train renders the review page of a deck
func (h *AnkiHandler) Train(c echo.Context) error {
	return render(c, h.settingsService, "anki_training.html", "Entraînement Anki", echo.Map{
		"DeckName": c.Param("deck"),
	})
}

// Authenticate godoc
// @Summary Authenticate with Anki
// @Description Check the configured credentials and the AnkiConnect connection
// @Tags anki
// @Produce json
// @Success 200 {object} AuthenticateResponse
// @Router /anki/authenticate [get]
func (h *AnkiHandler) Authenticate(c echo.Context) error {
	if diagnosis := h.ankiService.Authenticate(c.Request().Context(), sessionID(c)); diagnosis != nil {
		return c.JSON(http.StatusOK, AuthenticateResponse{
			Authenticated: false,
			Message:       "Failed to authenticate with Anki",
			Error:         diagnosis,
		})
	}

	return c.JSON(http.StatusOK, AuthenticateResponse{
		Authenticated: true,
		Message:       "Successfully authenticated with Anki",
	})
}

// TestConnection godoc
// @Summary Test the AnkiConnect connection
// @Tags anki
// @Produce json
// @Success 200 {object} ConnectionResponse
// @Router /anki/test-connection [get]
func (h *AnkiHandler) TestConnection(c echo.Context) error {
	if diagnosis := h.ankiService.TestConnection(c.Request().Context()); diagnosis != nil {
		return c.JSON(http.StatusOK, ConnectionResponse{
			Connected: false,
			Message:   "Failed to connect to Anki",
			Error:     diagnosis,
		})
	}

	return c.JSON(http.StatusOK, ConnectionResponse{
		Connected: true,
		Message:   "Successfully connected to Anki",
	})
}

// Decks godoc
// @Summary List Anki decks
// @Tags anki
// @Produce json
// @Success 200 {object} DecksResponse
// @Router /anki/decks [get]
func (h *AnkiHandler) Decks(c echo.Context) error {
	decks, err := h.ankiService.DeckNames(c.Request().Context(), sessionID(c))
	if err != nil {
		if errors.Is(err, entities.ErrAnkiNotAuthenticated) {
			return c.JSON(http.StatusOK, DecksResponse{
				Success: false,
				Error: &anki.Diagnosis{
					Kind:        anki.KindConfig,
					Message:     "Not authenticated",
					Suggestions: []string{"Please authenticate first"},
				},
			})
		}
		h.logger.Warnw("Fetch Anki decks failed", "error", err)
		return c.JSON(http.StatusOK, DecksResponse{Success: false, Error: anki.Diagnose(err)})
	}

	return c.JSON(http.StatusOK, DecksResponse{Success: true, Decks: decks})
}

// Cards godoc
// @Summary Cards to review in a deck
// @Description New, learning and due cards, formatted for display
// @Tags anki
// @Produce json
// @Param deck path string true "Deck name"
// @Success 200 {object} CardsResponse
// @Router /api/anki/cards/{deck} [get]
func (h *AnkiHandler) Cards(c echo.Context) error {
	cards, err := h.ankiService.CardsForReview(c.Request().Context(), sessionID(c), c.Param("deck"))
	if err != nil {
		if !errors.Is(err, entities.ErrAnkiNotAuthenticated) {
			h.logger.Warnw("Fetch Anki cards failed", "error", err, "deck", c.Param("deck"))
		}
		return c.JSON(http.StatusOK, CardsResponse{Success: false, Error: errorMessage(err, err.Error())})
	}

	return c.JSON(http.StatusOK, CardsResponse{Success: true, Cards: cards})
}

// Answer godoc
// @Summary Answer a card
// @Description Submit an ease rating (1 again, 2 hard, 3 good, 4 easy)
// @Tags anki
// @Accept json
// @Produce json
// @Param request body ports.AnswerCardRequest true "Answer"
// @Success 200 {object} ports.ResultResponse
// @Router /api/anki/answer [post]
func (h *AnkiHandler) Answer(c echo.Context) error {
	ctx := c.Request().Context()
	if !h.ankiService.IsAuthenticated(ctx, sessionID(c)) {
		return c.JSON(http.StatusOK, ports.ResultResponse{Success: false, Error: "Not authenticated"})
	}

	var req ports.AnswerCardRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, ports.ResultResponse{Success: false, Error: "Missing cardId or ease"})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusOK, ports.ResultResponse{Success: false, Error: "Missing cardId or ease"})
	}

	ok, err := h.ankiService.AnswerCard(ctx, sessionID(c), req)
	if err != nil {
		h.logger.Warnw("Answer Anki card failed", "error", err, "card_id", req.CardID)
		return c.JSON(http.StatusOK, ports.ResultResponse{Success: false, Error: err.Error()})
	}

	return c.JSON(http.StatusOK, ports.ResultResponse{Success: ok})
}

type AuthenticateResponse struct {
	Authenticated bool            `json:"authenticated"`
	Message       string          `json:"message"`
	Error         *anki.Diagnosis `json:"error,omitempty"`
}

type ConnectionResponse struct {
	Connected bool            `json:"connected"`
	Message   string          `json:"message"`
	Error     *anki.Diagnosis `json:"error,omitempty"`
}

type DecksResponse struct {
	Success bool            `json:"success"`
	Decks   []string        `json:"decks,omitempty"`
	Error   *anki.Diagnosis `json:"error,omitempty"`
}

type CardsResponse struct {
	Success bool        `json:"success"`
	Cards   []anki.Card `json:"cards"`
	Error   string      `json:"error,omitempty"`
}
