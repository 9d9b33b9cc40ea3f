package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/revijouer/core/internal/domain/entities"
	"github.com/revijouer/core/internal/infrastructure/logger"
	"github.com/revijouer/core/internal/ports"
)

// treeQuestionFile holds the fields the browser shows for either game
type treeQuestionFile struct {
	Text       string                       `json:"text"`
	Image      string                       `json:"image"`
	ImagePath  string                       `json:"image_path"`
	Completed  bool                         `json:"completed"`
	Statistics *entities.QuestionStatistics `json:"statistics"`
}

// TreeRepositoryImpl implements the QuestionFiles interface directly on the
// question directories. Every path it accepts is relative to a game root and
// is refused if it resolves outside of it.
type TreeRepositoryImpl struct {
	roots  map[entities.GameType]string
	logger *logger.Logger
	mu     sync.Mutex
}

// NewTreeRepository creates a new tree repository
func NewTreeRepository(fillInBlankRoot, imageMatchingRoot string, logger *logger.Logger) ports.QuestionFiles {
	return &TreeRepositoryImpl{
		roots: map[entities.GameType]string{
			entities.GameTypeFillInBlank:   filepath.Clean(fillInBlankRoot),
			entities.GameTypeImageMatching: filepath.Clean(imageMatchingRoot),
		},
		logger: logger.WithComponent("tree_repository"),
	}
}

func (r *TreeRepositoryImpl) Root(gameType entities.GameType) string {
	if root, ok := r.roots[gameType]; ok {
		return root
	}
	return r.roots[entities.GameTypeFillInBlank]
}

// resolve maps a root-relative path to a filesystem path inside the root.
func (r *TreeRepositoryImpl) resolve(gameType entities.GameType, rel string) (string, error) {
	root := r.Root(gameType)
	rel = strings.TrimSpace(strings.ReplaceAll(rel, "\\", "/"))
	full := filepath.Join(root, filepath.FromSlash(rel))

	back, err := filepath.Rel(root, full)
	if err != nil || back == ".." || strings.HasPrefix(back, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", entities.ErrInvalidPath, rel)
	}
	return full, nil
}

func (r *TreeRepositoryImpl) isRoot(gameType entities.GameType, full string) bool {
	return full == r.Root(gameType)
}

func validateFolderName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", entities.ErrInvalidName, name)
	}
	return name, nil
}

// questionPath validates file as a question file name and resolves it.
func (r *TreeRepositoryImpl) questionPath(gameType entities.GameType, file string) (string, error) {
	if !entities.QuestionFilePattern.MatchString(filepath.Base(filepath.FromSlash(file))) {
		return "", fmt.Errorf("%w: %q", entities.ErrInvalidFileName, file)
	}
	full, err := r.resolve(gameType, file)
	if err != nil {
		return "", err
	}
	if !fileExists(full) {
		return "", fmt.Errorf("%w: %s", entities.ErrFileNotFound, file)
	}
	return full, nil
}

func (r *TreeRepositoryImpl) Tree(ctx context.Context, gameType entities.GameType) ([]*entities.TreeNode, error) {
	root := r.Root(gameType)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create question root: %w", err)
	}
	return r.listDir(ctx, root, "")
}

func (r *TreeRepositoryImpl) listDir(ctx context.Context, dir, rel string) ([]*entities.TreeNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", rel, err)
	}

	items := make([]*entities.TreeNode, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		itemRel := joinRel(rel, name)

		if entry.IsDir() {
			children, err := r.listDir(ctx, filepath.Join(dir, name), itemRel)
			if err != nil {
				r.logger.Warnw("Cannot list folder", "path", itemRel, "error", err)
				children = []*entities.TreeNode{}
			}
			items = append(items, &entities.TreeNode{
				Type:     entities.NodeTypeFolder,
				Name:     name,
				Path:     itemRel,
				Children: children,
			})
			continue
		}

		m := entities.QuestionFilePattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}

		var raw treeQuestionFile
		if err := readJSON(filepath.Join(dir, name), &raw); err != nil {
			r.logger.Warnw("Cannot read question file", "path", itemRel, "error", err)
			continue
		}

		text := raw.Text
		if text == "" {
			text = raw.Image
		}
		if text == "" {
			text = raw.ImagePath
		}
		stats := raw.Statistics
		if stats == nil {
			stats = &entities.QuestionStatistics{}
		}

		items = append(items, &entities.TreeNode{
			Type:       entities.NodeTypeQuestion,
			Name:       name,
			Path:       itemRel,
			ID:         m[1],
			Text:       text,
			File:       itemRel,
			Completed:  raw.Completed,
			Statistics: stats,
		})
	}
	return items, nil
}

func (r *TreeRepositoryImpl) FolderExists(gameType entities.GameType, path string) bool {
	full, err := r.resolve(gameType, path)
	if err != nil {
		return false
	}
	return dirExists(full)
}

func (r *TreeRepositoryImpl) CreateFolder(ctx context.Context, gameType entities.GameType, parent, name string) (string, error) {
	name, err := validateFolderName(name)
	if err != nil {
		return "", err
	}
	rel := joinRel(cleanRel(parent), name)
	full, err := r.resolve(gameType, rel)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if fileExists(full) {
		return "", fmt.Errorf("%w: %s", entities.ErrFolderExists, rel)
	}
	if err := os.MkdirAll(full, 0o755); err != nil {
		r.logger.LogFileOperation("create_folder", rel, err)
		return "", fmt.Errorf("create folder: %w", err)
	}
	r.logger.LogFileOperation("create_folder", rel, nil)
	return rel, nil
}

func (r *TreeRepositoryImpl) RenameFolder(ctx context.Context, gameType entities.GameType, oldPath, newName string) (string, error) {
	newName, err := validateFolderName(newName)
	if err != nil {
		return "", err
	}
	src, err := r.resolve(gameType, oldPath)
	if err != nil {
		return "", err
	}
	if r.isRoot(gameType, src) {
		return "", fmt.Errorf("%w: cannot rename the root folder", entities.ErrInvalidPath)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !dirExists(src) {
		return "", fmt.Errorf("%w: %s", entities.ErrFolderNotFound, oldPath)
	}
	dst := filepath.Join(filepath.Dir(src), newName)
	if fileExists(dst) {
		return "", fmt.Errorf("%w: %s", entities.ErrFolderExists, newName)
	}
	if err := os.Rename(src, dst); err != nil {
		r.logger.LogFileOperation("rename_folder", oldPath, err)
		return "", fmt.Errorf("rename folder: %w", err)
	}

	newPath := relativePath(r.Root(gameType), dst)
	r.logger.LogFileOperation("rename_folder", newPath, nil)
	return newPath, nil
}

func (r *TreeRepositoryImpl) DeleteFolder(ctx context.Context, gameType entities.GameType, path string) error {
	full, err := r.resolve(gameType, path)
	if err != nil {
		return err
	}
	if r.isRoot(gameType, full) {
		return fmt.Errorf("%w: cannot delete the root folder", entities.ErrInvalidPath)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !dirExists(full) {
		return fmt.Errorf("%w: %s", entities.ErrFolderNotFound, path)
	}
	if err := os.RemoveAll(full); err != nil {
		r.logger.LogFileOperation("delete_folder", path, err)
		return fmt.Errorf("delete folder: %w", err)
	}
	r.logger.LogFileOperation("delete_folder", path, nil)
	return nil
}

func (r *TreeRepositoryImpl) DeleteQuestion(ctx context.Context, gameType entities.GameType, file string) error {
	full, err := r.questionPath(gameType, file)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(full); err != nil {
		if isNotExist(err) {
			return fmt.Errorf("%w: %s", entities.ErrFileNotFound, file)
		}
		return fmt.Errorf("delete question: %w", err)
	}
	r.logger.LogFileOperation("delete_question", file, nil)
	return nil
}

// ToggleCompletion flips the completed flag of a question file and returns
// the new value.
func (r *TreeRepositoryImpl) ToggleCompletion(ctx context.Context, gameType entities.GameType, file string) (bool, error) {
	var completed bool
	err := r.UpdateQuestion(ctx, gameType, file, func(data map[string]any) error {
		current, _ := data["completed"].(bool)
		completed = !current
		data["completed"] = completed
		return nil
	})
	return completed, err
}

// UpdateQuestion rewrites a question file through mutate. Keys mutate does
// not touch are written back unchanged.
func (r *TreeRepositoryImpl) UpdateQuestion(ctx context.Context, gameType entities.GameType, file string, mutate func(data map[string]any) error) error {
	full, err := r.questionPath(gameType, file)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data := map[string]any{}
	if err := readJSON(full, &data); err != nil {
		return fmt.Errorf("read question: %w", err)
	}
	if data == nil {
		data = map[string]any{}
	}
	if err := mutate(data); err != nil {
		return err
	}
	if err := writeJSON(full, data); err != nil {
		r.logger.LogFileOperation("update_question", file, err)
		return fmt.Errorf("write question: %w", err)
	}
	r.logger.LogFileOperation("update_question", file, nil)
	return nil
}

// WriteQuestion creates the file for question id inside folder and returns
// its root-relative path.
func (r *TreeRepositoryImpl) WriteQuestion(ctx context.Context, gameType entities.GameType, folder string, id int, data map[string]any) (string, error) {
	dir, err := r.resolve(gameType, folder)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isRoot(gameType, dir) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create question root: %w", err)
		}
	} else if !dirExists(dir) {
		return "", fmt.Errorf("%w: %s", entities.ErrFolderNotFound, folder)
	}

	full := filepath.Join(dir, entities.QuestionFileName(id))
	rel := relativePath(r.Root(gameType), full)
	if fileExists(full) {
		return "", fmt.Errorf("%w: %s already exists", entities.ErrInvalidQuestion, rel)
	}
	if err := writeJSON(full, data); err != nil {
		r.logger.LogFileOperation("write_question", rel, err)
		return "", fmt.Errorf("write question: %w", err)
	}
	r.logger.LogFileOperation("write_question", rel, nil)
	return rel, nil
}

// MoveItems moves each item into target. Items that cannot be moved are
// reported as skipped and never abort the batch. A name already taken in
// target gets a _N suffix before the extension.
func (r *TreeRepositoryImpl) MoveItems(ctx context.Context, gameType entities.GameType, items []ports.MoveItem, target string) (*ports.MoveResult, error) {
	root := r.Root(gameType)
	targetDir, err := r.resolve(gameType, target)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !dirExists(targetDir) {
		return nil, fmt.Errorf("%w: %s", entities.ErrFolderNotFound, target)
	}

	result := &ports.MoveResult{
		Moved:   []ports.MovedItem{},
		Skipped: []ports.SkippedItem{},
	}
	skip := func(path, reason string) {
		result.Skipped = append(result.Skipped, ports.SkippedItem{Path: path, Reason: reason})
		r.logger.Debugw("Move skipped", "path", path, "reason", reason)
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		src, err := r.resolve(gameType, item.Path)
		if err != nil {
			skip(item.Path, "invalid path")
			continue
		}
		if src == root {
			skip(item.Path, "cannot move the root folder")
			continue
		}

		info, err := os.Stat(src)
		if err != nil {
			skip(item.Path, "source not found")
			continue
		}
		if item.Type == entities.NodeTypeFolder && !info.IsDir() {
			skip(item.Path, "not a folder")
			continue
		}
		if item.Type == entities.NodeTypeQuestion && info.IsDir() {
			skip(item.Path, "not a question")
			continue
		}

		if filepath.Dir(src) == targetDir {
			skip(item.Path, "already in target folder")
			continue
		}
		if info.IsDir() && (targetDir == src || strings.HasPrefix(targetDir, src+string(filepath.Separator))) {
			skip(item.Path, "cannot move a folder into itself")
			continue
		}

		dst := uniqueDestination(targetDir, filepath.Base(src), info.IsDir())
		if err := os.Rename(src, dst); err != nil {
			r.logger.LogFileOperation("move_item", item.Path, err)
			skip(item.Path, err.Error())
			continue
		}

		moved := ports.MovedItem{From: relativePath(root, src), To: relativePath(root, dst)}
		result.Moved = append(result.Moved, moved)
		r.logger.Debugw("Item moved", "from", moved.From, "to", moved.To)
	}

	return result, nil
}

// uniqueDestination returns dir/name, or dir/<stem>_<n><ext> with the
// smallest n that is free.
func uniqueDestination(dir, name string, isDir bool) string {
	dst := filepath.Join(dir, name)
	if !fileExists(dst) {
		return dst
	}

	ext := ""
	if !isDir {
		ext = filepath.Ext(name)
	}
	stem := strings.TrimSuffix(name, ext)
	for n := 1; ; n++ {
		dst = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
		if !fileExists(dst) {
			return dst
		}
	}
}

func cleanRel(rel string) string {
	rel = strings.Trim(strings.TrimSpace(strings.ReplaceAll(rel, "\\", "/")), "/")
	if rel == "." {
		return ""
	}
	return rel
}

func joinRel(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}
