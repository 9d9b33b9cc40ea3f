package services

import (
	"context"
	"fmt"

	"github.com/revijouer/core/internal/adapters/anki"
	"github.com/revijouer/core/internal/domain/entities"
	"github.com/revijouer/core/internal/infrastructure/config"
	"github.com/revijouer/core/internal/infrastructure/logger"
	"github.com/revijouer/core/internal/ports"
)

// AnkiService handles the bridge to a local AnkiConnect instance
type AnkiService struct {
	client   *anki.Client
	cfg      config.AnkiConfig
	sessions ports.SessionStore
	logger   *logger.Logger
}

// NewAnkiService creates a new Anki service
func NewAnkiService(client *anki.Client, cfg config.AnkiConfig, sessions ports.SessionStore, logger *logger.Logger) *AnkiService {
	return &AnkiService{
		client:   client,
		cfg:      cfg,
		sessions: sessions,
		logger:   logger,
	}
}

// TestConnection checks that AnkiConnect answers the version action
func (s *AnkiService) TestConnection(ctx context.Context) *anki.Diagnosis {
	version, err := s.client.Version(ctx)
	if err != nil {
		d := anki.Diagnose(err)
		s.logger.Warnw("Anki connection test failed", "kind", d.Kind, "error", err)
		return d
	}
	s.logger.Infow("Anki connection test successful", "version", version)
	return nil
}

// Authenticate checks the configured credentials and the connection, and
// records the outcome in the session
func (s *AnkiService) Authenticate(ctx context.Context, sessionID string) *anki.Diagnosis {
	var diagnosis *anki.Diagnosis
	if s.cfg.Email == "" || s.cfg.Password == "" {
		s.logger.Warnw("Missing Anki credentials")
		diagnosis = anki.MissingCredentials()
	} else {
		diagnosis = s.TestConnection(ctx)
	}

	s.setAuthenticated(ctx, sessionID, diagnosis == nil)
	return diagnosis
}

// IsAuthenticated reports whether the session passed Authenticate
func (s *AnkiService) IsAuthenticated(ctx context.Context, sessionID string) bool {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		s.logger.Warnw("Failed to read session", "error", err)
		return false
	}
	return sess.AnkiAuthenticated
}

func (s *AnkiService) DeckNames(ctx context.Context, sessionID string) ([]string, error) {
	if !s.IsAuthenticated(ctx, sessionID) {
		return nil, entities.ErrAnkiNotAuthenticated
	}
	decks, err := s.client.DeckNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch decks: %w", err)
	}
	return decks, nil
}

// CardsForReview returns the new, learning and due cards of deck, formatted
// for display
func (s *AnkiService) CardsForReview(ctx context.Context, sessionID, deck string) ([]anki.Card, error) {
	if !s.IsAuthenticated(ctx, sessionID) {
		return nil, entities.ErrAnkiNotAuthenticated
	}

	ids, err := s.client.FindCards(ctx, anki.BuildDeckQuery(deck))
	if err != nil {
		return nil, fmt.Errorf("failed to find cards: %w", err)
	}
	if len(ids) == 0 {
		return []anki.Card{}, nil
	}

	infos, err := s.client.CardsInfo(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cards: %w", err)
	}

	cards := make([]anki.Card, 0, len(infos))
	for _, info := range infos {
		cards = append(cards, anki.FormatCard(info))
	}
	s.logger.Debugw("Cards fetched for review", "deck", deck, "count", len(cards))
	return cards, nil
}

// AnswerCard submits an ease rating (1 again, 2 hard, 3 good, 4 easy)
func (s *AnkiService) AnswerCard(ctx context.Context, sessionID string, req ports.AnswerCardRequest) (bool, error) {
	if !s.IsAuthenticated(ctx, sessionID) {
		return false, entities.ErrAnkiNotAuthenticated
	}
	if req.Ease < 1 || req.Ease > 4 {
		return false, fmt.Errorf("%w: ease must be between 1 and 4", entities.ErrInvalidAnswer)
	}

	ok, err := s.client.AnswerCard(ctx, req.CardID, req.Ease)
	if err != nil {
		return false, fmt.Errorf("failed to answer card: %w", err)
	}
	return ok, nil
}

func (s *AnkiService) setAuthenticated(ctx context.Context, sessionID string, ok bool) {
	if sessionID == "" {
		return
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		sess = &entities.Session{}
	}
	sess.AnkiAuthenticated = ok
	if err := s.sessions.Save(ctx, sessionID, sess); err != nil {
		s.logger.Warnw("Failed to store Anki authentication", "error", err)
	}
}
