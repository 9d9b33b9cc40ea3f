package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/revijouer/core/internal/domain/entities"
	"github.com/revijouer/core/internal/infrastructure/logger"
	"github.com/revijouer/core/internal/ports"
)

// ScoreService keeps the game counters. The shared file is the authority and
// the session holds a cached copy. An empty session ID skips the cache.
type ScoreService struct {
	repo     ports.ScoreRepository
	sessions ports.SessionStore
	logger   *logger.Logger

	// serialises read-modify-write within this process only
	mu sync.Mutex
}

// NewScoreService creates a new score service
func NewScoreService(repo ports.ScoreRepository, sessions ports.SessionStore, logger *logger.Logger) *ScoreService {
	return &ScoreService{
		repo:     repo,
		sessions: sessions,
		logger:   logger,
	}
}

// GetAll returns every counter, loading the file into the session on a miss
func (s *ScoreService) GetAll(ctx context.Context, sessionID string) (entities.Scores, error) {
	if sessionID != "" {
		sess, err := s.sessions.Get(ctx, sessionID)
		if err != nil {
			s.logger.Warnw("Failed to read session", "error", err)
		} else if sess.Scores != nil {
			return sess.Scores.Clone(), nil
		}
	}

	scores, err := s.repo.Load(ctx)
	if err != nil {
		return scores, fmt.Errorf("failed to load scores: %w", err)
	}

	s.cache(ctx, sessionID, scores)
	return scores.Clone(), nil
}

// Get returns one counter
func (s *ScoreService) Get(ctx context.Context, sessionID string, gameType entities.GameType) int {
	scores, err := s.GetAll(ctx, sessionID)
	if err != nil {
		s.logger.Warnw("Failed to read scores", "error", err)
	}
	return scores[string(gameType)]
}

// Increment adds by to a counter and returns the new value
func (s *ScoreService) Increment(ctx context.Context, sessionID string, gameType entities.GameType, by int) (int, error) {
	var value int
	err := s.update(ctx, sessionID, gameType, func(current int) int {
		value = current + by
		return value
	})
	return value, err
}

// Set overwrites a counter
func (s *ScoreService) Set(ctx context.Context, sessionID string, gameType entities.GameType, value int) error {
	return s.update(ctx, sessionID, gameType, func(int) int { return value })
}

// ResetAll sets every known counter back to zero
func (s *ScoreService) ResetAll(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	scores, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Warnw("Failed to load scores before reset", "error", err)
	}
	if scores == nil {
		scores = entities.NewScores()
	}
	for _, g := range entities.GameTypes {
		scores[string(g)] = 0
	}

	if err := s.repo.Save(ctx, scores); err != nil {
		return fmt.Errorf("failed to reset scores: %w", err)
	}
	s.cache(ctx, sessionID, scores)

	s.logger.Infow("Scores reset")
	return nil
}

func (s *ScoreService) update(ctx context.Context, sessionID string, gameType entities.GameType, fn func(current int) int) error {
	if !gameType.IsValid() {
		return fmt.Errorf("%w: %q", entities.ErrInvalidGameType, gameType)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	scores, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load scores: %w", err)
	}

	key := string(gameType)
	old := scores[key]
	next := fn(old)
	if next < 0 {
		return fmt.Errorf("%w: %s cannot be %d", entities.ErrInvalidScore, key, next)
	}
	scores[key] = next

	if err := s.repo.Save(ctx, scores); err != nil {
		return fmt.Errorf("failed to save scores: %w", err)
	}
	s.cache(ctx, sessionID, scores)

	s.logger.Debugw("Score updated", "game_type", key, "old", old, "new", next)
	return nil
}

func (s *ScoreService) cache(ctx context.Context, sessionID string, scores entities.Scores) {
	if sessionID == "" {
		return
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		sess = &entities.Session{}
	}
	sess.Scores = scores.Clone()
	if err := s.sessions.Save(ctx, sessionID, sess); err != nil {
		s.logger.Warnw("Failed to cache scores in session", "error", err)
	}
}
