package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/revijouer/core/internal/domain/entities"
	"github.com/revijouer/core/internal/infrastructure/logger"
	"github.com/revijouer/core/internal/ports"
)

// ScoreRepositoryImpl implements the ScoreRepository interface over the
// shared scores file
type ScoreRepositoryImpl struct {
	path   string
	logger *logger.Logger
	mu     sync.Mutex
}

// NewScoreRepository creates a new score repository
func NewScoreRepository(path string, logger *logger.Logger) ports.ScoreRepository {
	return &ScoreRepositoryImpl{
		path:   path,
		logger: logger.WithComponent("score_repository"),
	}
}

// Load returns the persisted counters. A missing file is created with zeros.
func (r *ScoreRepositoryImpl) Load(ctx context.Context) (entities.Scores, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !fileExists(r.path) {
		scores := entities.NewScores()
		if err := writeJSON(r.path, scores); err != nil {
			return scores, fmt.Errorf("create scores file: %w", err)
		}
		r.logger.Infow("Created scores file", "path", r.path)
		return scores, nil
	}

	var stored entities.Scores
	if err := readJSON(r.path, &stored); err != nil {
		return entities.NewScores(), fmt.Errorf("load scores: %w", err)
	}

	return stored.Clone(), nil
}

func (r *ScoreRepositoryImpl) Save(ctx context.Context, scores entities.Scores) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, value := range scores {
		if value < 0 {
			return fmt.Errorf("%w: %s=%d", entities.ErrInvalidScore, key, value)
		}
	}

	if err := writeJSON(r.path, scores); err != nil {
		return fmt.Errorf("save scores: %w", err)
	}
	return nil
}
