package ports

import (
	"context"

	"github.com/revijouer/core/internal/domain/entities"
)

// SettingsRepository defines the interface for the preferences file
type SettingsRepository interface {
	// Load returns the stored settings merged over the defaults. When the file
	// cannot be parsed the defaults are returned along with the error.
	Load(ctx context.Context) (entities.Settings, error)
	Save(ctx context.Context, settings entities.Settings) error
}

// ScoreRepository defines the interface for the shared scores file
type ScoreRepository interface {
	Load(ctx context.Context) (entities.Scores, error)
	Save(ctx context.Context, scores entities.Scores) error
}

// SessionStore keeps per-browser state keyed by session ID
type SessionStore interface {
	// Get returns the session for id, or an empty session when none exists.
	Get(ctx context.Context, id string) (*entities.Session, error)
	Save(ctx context.Context, id string, session *entities.Session) error
	Delete(ctx context.Context, id string) error
}

// QuestionRepository defines the interface for the in-memory question cache
type QuestionRepository interface {
	LoadAll(ctx context.Context) error
	ListFillInBlank() []*entities.FillInBlankQuestion
	ListImageMatching() []*entities.ImageMatchingQuestion
	GetFillInBlankByID(id int) (*entities.FillInBlankQuestion, error)
	GetImageMatchingByID(id int) (*entities.ImageMatchingQuestion, error)
	MaxID(gameType entities.GameType) int
}

// QuestionFiles defines the interface for direct operations on the question
// directory trees
type QuestionFiles interface {
	Root(gameType entities.GameType) string
	Tree(ctx context.Context, gameType entities.GameType) ([]*entities.TreeNode, error)
	FolderExists(gameType entities.GameType, path string) bool
	CreateFolder(ctx context.Context, gameType entities.GameType, parent, name string) (string, error)
	RenameFolder(ctx context.Context, gameType entities.GameType, oldPath, newName string) (string, error)
	DeleteFolder(ctx context.Context, gameType entities.GameType, path string) error
	DeleteQuestion(ctx context.Context, gameType entities.GameType, file string) error
	ToggleCompletion(ctx context.Context, gameType entities.GameType, file string) (bool, error)
	MoveItems(ctx context.Context, gameType entities.GameType, items []MoveItem, target string) (*MoveResult, error)
	UpdateQuestion(ctx context.Context, gameType entities.GameType, file string, mutate func(data map[string]any) error) error
	WriteQuestion(ctx context.Context, gameType entities.GameType, folder string, id int, data map[string]any) (string, error)
}
