package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/recipelens/internal/detect"
	"github.com/vbonduro/recipelens/internal/domain"
	"github.com/vbonduro/recipelens/internal/imagestore"
	"github.com/vbonduro/recipelens/internal/llm"
	"github.com/vbonduro/recipelens/internal/session"
)

var (
	ErrMissingFilename = errors.New("missing filename")
	ErrNoIngredients   = errors.New("no ingredients provided")
	ErrBlankIngredient = errors.New("blank ingredient name")
	ErrEmptyQuery      = errors.New("query not provided")
)

// uploadRepository is the subset of store.UploadStore that KitchenService requires.
type uploadRepository interface {
	Create(ctx context.Context, u domain.Upload) error
	ListOlderThan(ctx context.Context, cutoff time.Time) ([]*domain.Upload, error)
	Delete(ctx context.Context, fileID string) error
}

// idleSessionPruner is implemented by session stores that need explicit
// expiry. Redis expires keys itself and the memory store lives with the process.
type idleSessionPruner interface {
	DeleteIdleSince(ctx context.Context, cutoff time.Time) (int64, error)
}

// Retention bounds how long uploads and idle sessions are kept. Zero keeps
// them forever.
type Retention struct {
	Uploads  time.Duration
	Sessions time.Duration
}

type KitchenService struct {
	images    imagestore.ImageStore
	uploads   uploadRepository
	detector  detect.Detector
	completer llm.Completer
	sessions  session.Store
	retention Retention
	logger    *slog.Logger
	now       func() time.Time
}

func NewKitchenService(
	images imagestore.ImageStore,
	uploads uploadRepository,
	detector detect.Detector,
	completer llm.Completer,
	sessions session.Store,
	retention Retention,
	logger *slog.Logger,
) *KitchenService {
	return &KitchenService{
		images:    images,
		uploads:   uploads,
		detector:  detector,
		completer: completer,
		sessions:  sessions,
		retention: retention,
		logger:    logger,
		now:       time.Now,
	}
}

// UploadImage stores the image, counts the objects the detector finds in it
// and makes the distinct names the session's ingredient list.
func (s *KitchenService) UploadImage(ctx context.Context, sessionID, filename string, r io.Reader) (*domain.UploadResult, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, ErrMissingFilename
	}

	fileID := uuid.NewString()
	s.logger.Info("upload started", "session_id", sessionID, "file_id", fileID, "filename", filename)

	storageKey, err := s.images.Save(ctx, fileID, filename, r)
	if err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}

	upload := domain.Upload{
		FileID:     fileID,
		SessionID:  sessionID,
		StorageKey: storageKey,
		Filename:   filename,
		UploadedAt: s.now(),
	}
	if err := s.uploads.Create(ctx, upload); err != nil {
		if derr := s.images.Delete(ctx, storageKey); derr != nil {
			s.logger.Error("failed to roll back image after record error", "storage_key", storageKey, "error", derr)
		}
		return nil, fmt.Errorf("failed to record upload: %w", err)
	}

	path, err := s.images.Path(storageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve image path: %w", err)
	}

	s.logger.Info("detection started", "file_id", fileID)
	result, err := s.detector.Detect(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to detect ingredients: %w", err)
	}

	counts := detect.Tally(result.Detections, result.Labels)
	s.logger.Info("detection complete", "file_id", fileID, "detections", len(result.Detections), "classes", len(counts.Names))

	if err := s.sessions.SetIngredients(ctx, sessionID, counts.Names); err != nil {
		return nil, fmt.Errorf("failed to update session ingredients: %w", err)
	}

	return &domain.UploadResult{FileID: fileID, Ingredients: counts.Counts}, nil
}

// GenerateRecipe asks the model for a recipe. The session's dish is only
// replaced once the model has answered.
func (s *KitchenService) GenerateRecipe(ctx context.Context, sessionID string, ingredients []string) (*domain.Recipe, error) {
	if len(ingredients) == 0 {
		return nil, ErrNoIngredients
	}
	for _, name := range ingredients {
		if strings.TrimSpace(name) == "" {
			return nil, ErrBlankIngredient
		}
	}

	s.logger.Info("recipe generation started", "session_id", sessionID, "ingredients", len(ingredients))
	text, err := s.completer.Complete(ctx, recipePrompt(ingredients))
	if err != nil {
		return nil, fmt.Errorf("failed to generate recipe: %w", err)
	}

	if err := s.sessions.SetDish(ctx, sessionID, dishDescription(ingredients)); err != nil {
		return nil, fmt.Errorf("failed to update session dish: %w", err)
	}

	steps := splitLines(text)
	s.logger.Info("recipe generation complete", "session_id", sessionID, "steps", len(steps))

	return &domain.Recipe{
		Title: recipeTitle(ingredients),
		Subsections: []domain.Subsection{
			{Heading: "Ingredients", Items: ingredients},
			{Heading: "Instructions", Steps: steps},
		},
	}, nil
}

// Chat answers a free-form question using the session's ingredients and dish
// as context.
func (s *KitchenService) Chat(ctx context.Context, sessionID, query string) (*domain.ChatReply, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}

	snap, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	s.logger.Info("chat started", "session_id", sessionID, "ingredients", len(snap.Ingredients), "has_dish", snap.Dish != "")
	text, err := s.completer.Complete(ctx, chatPrompt(snap, query))
	if err != nil {
		return nil, fmt.Errorf("failed to generate response: %w", err)
	}

	return &domain.ChatReply{
		Title:      "Chatbot Response",
		Suggestion: query,
		Details:    splitLines(text),
	}, nil
}

// PruneUploads deletes images and their records older than the upload
// retention and returns how many were removed. A file already gone from disk
// still has its record removed.
func (s *KitchenService) PruneUploads(ctx context.Context, now time.Time) (int, error) {
	if s.retention.Uploads <= 0 {
		return 0, nil
	}

	old, err := s.uploads.ListOlderThan(ctx, now.Add(-s.retention.Uploads))
	if err != nil {
		return 0, fmt.Errorf("failed to list expired uploads: %w", err)
	}

	removed := 0
	for _, u := range old {
		if err := s.images.Delete(ctx, u.StorageKey); err != nil && !errors.Is(err, imagestore.ErrNotFound) {
			s.logger.Error("failed to delete expired image", "file_id", u.FileID, "storage_key", u.StorageKey, "error", err)
			continue
		}
		if err := s.uploads.Delete(ctx, u.FileID); err != nil {
			return removed, fmt.Errorf("failed to delete upload record %s: %w", u.FileID, err)
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info("expired uploads pruned", "count", removed)
	}
	return removed, nil
}

// PruneSessions drops sessions idle for longer than the session retention
// when the store needs it.
func (s *KitchenService) PruneSessions(ctx context.Context, now time.Time) (int64, error) {
	pruner, ok := s.sessions.(idleSessionPruner)
	if !ok || s.retention.Sessions <= 0 {
		return 0, nil
	}

	n, err := pruner.DeleteIdleSince(ctx, now.Add(-s.retention.Sessions))
	if err != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}
	if n > 0 {
		s.logger.Info("idle sessions pruned", "count", n)
	}
	return n, nil
}

// IsClientError reports whether err came from bad request input rather than a
// failing dependency.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissingFilename) ||
		errors.Is(err, ErrNoIngredients) ||
		errors.Is(err, ErrBlankIngredient) ||
		errors.Is(err, ErrEmptyQuery) ||
		errors.Is(err, detect.ErrImageNotFound)
}

// CompletionError extracts the typed completion failure from err, if any.
func CompletionError(err error) (*llm.Error, bool) {
	var lerr *llm.Error
	if errors.As(err, &lerr) {
		return lerr, true
	}
	return nil, false
}
