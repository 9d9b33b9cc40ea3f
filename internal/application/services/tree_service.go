package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/revijouer/core/internal/domain/entities"
	"github.com/revijouer/core/internal/infrastructure/logger"
	"github.com/revijouer/core/internal/ports"
)

// TreeService handles the question folder editor and the focused folder
type TreeService struct {
	files    ports.QuestionFiles
	settings *SettingsService
	logger   *logger.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(files ports.QuestionFiles, settings *SettingsService, logger *logger.Logger) *TreeService {
	return &TreeService{
		files:    files,
		settings: settings,
		logger:   logger,
	}
}

func (s *TreeService) Tree(ctx context.Context, gameType entities.GameType) ([]*entities.TreeNode, error) {
	tree, err := s.files.Tree(ctx, gameType)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return tree, nil
}

func (s *TreeService) CreateFolder(ctx context.Context, req ports.CreateFolderRequest) (string, error) {
	path, err := s.files.CreateFolder(ctx, entities.ParseGameType(req.GameType), req.ParentPath, req.Name)
	if err != nil {
		return "", err
	}
	s.logger.Infow("Folder created", "game_type", req.GameType, "path", path)
	return path, nil
}

// RenameFolder renames a folder and keeps the focus on it if it was focused
func (s *TreeService) RenameFolder(ctx context.Context, req ports.RenameFolderRequest) (string, error) {
	gameType := entities.ParseGameType(req.GameType)
	oldPath := normalizeRel(req.OldPath)

	newPath, err := s.files.RenameFolder(ctx, gameType, oldPath, req.NewName)
	if err != nil {
		return "", err
	}

	s.followFocus(ctx, gameType, oldPath, newPath)
	s.logger.Infow("Folder renamed", "game_type", gameType, "from", oldPath, "to", newPath)
	return newPath, nil
}

// DeleteFolder removes a folder with everything below it. The focus is
// cleared when it pointed inside the folder.
func (s *TreeService) DeleteFolder(ctx context.Context, req ports.FolderPathRequest) error {
	gameType := entities.ParseGameType(req.GameType)
	path := normalizeRel(req.Path)

	if err := s.files.DeleteFolder(ctx, gameType, path); err != nil {
		return err
	}

	if gameType == entities.GameTypeFillInBlank {
		if _, inside := rebase(s.settings.Get(ctx).FocusedFolder(), path, ""); inside {
			if err := s.settings.SetFocusedFolder(ctx, ""); err != nil {
				s.logger.Warnw("Failed to clear focus of deleted folder", "error", err)
			}
		}
	}

	s.logger.Infow("Folder deleted", "game_type", gameType, "path", path)
	return nil
}

func (s *TreeService) DeleteQuestion(ctx context.Context, req ports.QuestionFileRequest) error {
	if err := s.files.DeleteQuestion(ctx, entities.ParseGameType(req.GameType), req.File); err != nil {
		return err
	}
	s.logger.Infow("Question deleted", "game_type", req.GameType, "file", req.File)
	return nil
}

func (s *TreeService) ToggleCompletion(ctx context.Context, req ports.QuestionFileRequest) (bool, error) {
	return s.files.ToggleCompletion(ctx, entities.ParseGameType(req.GameType), req.File)
}

// MoveItems moves files and folders into req.TargetFolder. A moved folder
// keeps the focus if it was focused.
func (s *TreeService) MoveItems(ctx context.Context, req ports.MoveItemsRequest) (*ports.MoveResult, error) {
	gameType := entities.ParseGameType(req.GameType)

	result, err := s.files.MoveItems(ctx, gameType, req.Items, normalizeRel(req.TargetFolder))
	if err != nil {
		return nil, err
	}

	for _, moved := range result.Moved {
		s.followFocus(ctx, gameType, moved.From, moved.To)
	}

	s.logger.Infow("Items moved", "game_type", gameType, "moved", len(result.Moved), "skipped", len(result.Skipped))
	return result, nil
}

// Focus narrows the fill-in-the-blank game to path and its subfolders
func (s *TreeService) Focus(ctx context.Context, path string) error {
	path = normalizeRel(path)
	if path == "" {
		return s.ClearFocus(ctx)
	}
	if !s.files.FolderExists(entities.GameTypeFillInBlank, path) {
		return fmt.Errorf("%w: %s", entities.ErrFolderNotFound, path)
	}
	if err := s.settings.SetFocusedFolder(ctx, path); err != nil {
		return err
	}
	s.logger.Infow("Folder focused", "path", path)
	return nil
}

func (s *TreeService) ClearFocus(ctx context.Context) error {
	if err := s.settings.SetFocusedFolder(ctx, ""); err != nil {
		return err
	}
	s.logger.Infow("Focus cleared")
	return nil
}

func (s *TreeService) followFocus(ctx context.Context, gameType entities.GameType, from, to string) {
	if gameType != entities.GameTypeFillInBlank {
		return
	}
	focus := s.settings.Get(ctx).FocusedFolder()
	if next, inside := rebase(focus, from, to); inside && next != focus {
		if err := s.settings.SetFocusedFolder(ctx, next); err != nil {
			s.logger.Warnw("Failed to update focused folder", "error", err)
		}
	}
}

// rebase reports whether path is from or lies below it, and returns path
// with the from prefix replaced by to.
func rebase(path, from, to string) (string, bool) {
	if path == "" || from == "" {
		return path, false
	}
	if path == from {
		return to, true
	}
	if strings.HasPrefix(path, from+"/") {
		return to + path[len(from):], true
	}
	return path, false
}

func normalizeRel(p string) string {
	p = strings.Trim(strings.TrimSpace(strings.ReplaceAll(p, "\\", "/")), "/")
	if p == "." {
		return ""
	}
	return p
}
