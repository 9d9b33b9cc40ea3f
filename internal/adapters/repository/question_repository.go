package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/revijouer/core/internal/domain/entities"
	"github.com/revijouer/core/internal/infrastructure/logger"
	"github.com/revijouer/core/internal/ports"
)

// fillInBlankFile is the on-disk shape of a fill-in-the-blank question
type fillInBlankFile struct {
	Text          string                       `json:"text"`
	Options       []string                     `json:"options"`
	CorrectAnswer string                       `json:"correct_answer"`
	Completed     bool                         `json:"completed"`
	Statistics    *entities.QuestionStatistics `json:"statistics"`
}

// imageMatchingFile accepts both image-matching layouts: the nested
// {image, words:{correct, incorrect}} one and the flat one written by older
// versions of the authoring form.
type imageMatchingFile struct {
	Text  string `json:"text"`
	Image string `json:"image"`
	Words *struct {
		Correct   string   `json:"correct"`
		Incorrect []string `json:"incorrect"`
	} `json:"words"`

	ImagePath      string   `json:"image_path"`
	CorrectWord    string   `json:"correct_word"`
	IncorrectWords []string `json:"incorrect_words"`
}

func (f *imageMatchingFile) toQuestion(id int, path string) (*entities.ImageMatchingQuestion, error) {
	q := &entities.ImageMatchingQuestion{ID: id, Text: f.Text, Path: path}

	if f.Words != nil {
		q.ImagePath = f.Image
		q.CorrectWord = f.Words.Correct
		q.IncorrectWords = f.Words.Incorrect
	} else {
		q.ImagePath = f.ImagePath
		if q.ImagePath == "" {
			q.ImagePath = f.Image
		}
		q.CorrectWord = f.CorrectWord
		q.IncorrectWords = f.IncorrectWords
	}

	if q.CorrectWord == "" || len(q.IncorrectWords) == 0 {
		return nil, fmt.Errorf("%w: missing correct or incorrect words", entities.ErrInvalidQuestion)
	}
	return q, nil
}

// QuestionRepositoryImpl implements the QuestionRepository interface. It is a
// cache of the question trees rebuilt by LoadAll.
type QuestionRepositoryImpl struct {
	fillInBlankRoot   string
	imageMatchingRoot string
	logger            *logger.Logger

	mu            sync.RWMutex
	fillInBlank   []*entities.FillInBlankQuestion
	imageMatching []*entities.ImageMatchingQuestion
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(fillInBlankRoot, imageMatchingRoot string, logger *logger.Logger) ports.QuestionRepository {
	return &QuestionRepositoryImpl{
		fillInBlankRoot:   fillInBlankRoot,
		imageMatchingRoot: imageMatchingRoot,
		logger:            logger.WithComponent("question_repository"),
	}
}

func (r *QuestionRepositoryImpl) LoadAll(ctx context.Context) error {
	var fillInBlank []*entities.FillInBlankQuestion
	err := r.walk(ctx, r.fillInBlankRoot, func(id int, rel, full string) error {
		var raw fillInBlankFile
		if err := readJSON(full, &raw); err != nil {
			return err
		}
		fillInBlank = append(fillInBlank, &entities.FillInBlankQuestion{
			ID:            id,
			Text:          raw.Text,
			Options:       raw.Options,
			CorrectAnswer: raw.CorrectAnswer,
			Completed:     raw.Completed,
			Statistics:    raw.Statistics,
			Path:          rel,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("load fill-in-blank questions: %w", err)
	}

	var imageMatching []*entities.ImageMatchingQuestion
	err = r.walk(ctx, r.imageMatchingRoot, func(id int, rel, full string) error {
		var raw imageMatchingFile
		if err := readJSON(full, &raw); err != nil {
			return err
		}
		q, err := raw.toQuestion(id, rel)
		if err != nil {
			return err
		}
		imageMatching = append(imageMatching, q)
		return nil
	})
	if err != nil {
		return fmt.Errorf("load image-matching questions: %w", err)
	}

	sort.SliceStable(fillInBlank, func(i, j int) bool { return fillInBlank[i].ID < fillInBlank[j].ID })
	sort.SliceStable(imageMatching, func(i, j int) bool { return imageMatching[i].ID < imageMatching[j].ID })

	r.mu.Lock()
	r.fillInBlank = fillInBlank
	r.imageMatching = imageMatching
	r.mu.Unlock()

	r.logger.Debugw("Questions loaded",
		"fill_in_blank", len(fillInBlank),
		"image_matching", len(imageMatching),
	)
	return nil
}

// walk visits every question file below root in lexical order. Files whose ID
// was already seen are dropped, so the first one encountered wins. Per-file
// failures are logged and skipped.
func (r *QuestionRepositoryImpl) walk(ctx context.Context, root string, visit func(id int, rel, full string) error) error {
	if !dirExists(root) {
		r.logger.Debugw("Question directory does not exist", "path", root)
		return nil
	}

	seen := make(map[int]string)
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			r.logger.Warnw("Cannot read question path", "path", path, "error", err)
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasPrefix(name, "question") || !strings.HasSuffix(name, ".json") {
			return nil
		}

		rel := relativePath(root, path)
		id, ok := entities.ParseQuestionID(name)
		if !ok {
			r.logger.Warnw("Skipping question file with unexpected name", "path", rel)
			return nil
		}
		if first, dup := seen[id]; dup {
			r.logger.Warnw("Duplicate question ID, skipping", "id", id, "path", rel, "kept", first)
			return nil
		}

		if err := visit(id, rel, path); err != nil {
			r.logger.Warnw("Skipping unreadable question file", "path", rel, "error", err)
			return nil
		}
		seen[id] = rel
		return nil
	})
}

func (r *QuestionRepositoryImpl) ListFillInBlank() []*entities.FillInBlankQuestion {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.FillInBlankQuestion, 0, len(r.fillInBlank))
	for _, q := range r.fillInBlank {
		c := *q
		out = append(out, &c)
	}
	return out
}

func (r *QuestionRepositoryImpl) ListImageMatching() []*entities.ImageMatchingQuestion {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.ImageMatchingQuestion, 0, len(r.imageMatching))
	for _, q := range r.imageMatching {
		c := *q
		out = append(out, &c)
	}
	return out
}

func (r *QuestionRepositoryImpl) GetFillInBlankByID(id int) (*entities.FillInBlankQuestion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, q := range r.fillInBlank {
		if q.ID == id {
			c := *q
			return &c, nil
		}
	}
	return nil, entities.ErrQuestionNotFound
}

func (r *QuestionRepositoryImpl) GetImageMatchingByID(id int) (*entities.ImageMatchingQuestion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, q := range r.imageMatching {
		if q.ID == id {
			c := *q
			return &c, nil
		}
	}
	return nil, entities.ErrQuestionNotFound
}

// MaxID returns the highest loaded ID for gameType, or 0 when there is none.
func (r *QuestionRepositoryImpl) MaxID(gameType entities.GameType) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	max := 0
	switch gameType {
	case entities.GameTypeImageMatching:
		for _, q := range r.imageMatching {
			if q.ID > max {
				max = q.ID
			}
		}
	default:
		for _, q := range r.fillInBlank {
			if q.ID > max {
				max = q.ID
			}
		}
	}
	return max
}

// relativePath returns path relative to root with forward slashes, or the
// cleaned path itself if it is not below root.
func relativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	if rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err)
}
