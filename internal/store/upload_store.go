package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vbonduro/recipelens/internal/domain"
)

// UploadStore records every stored image so old files can be pruned.
type UploadStore struct {
	db *sql.DB
}

func NewUploadStore(db *sql.DB) *UploadStore {
	return &UploadStore{db: db}
}

func (s *UploadStore) Create(ctx context.Context, u domain.Upload) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO uploads (file_id, session_id, storage_key, filename, uploaded_at)
		VALUES (?, ?, ?, ?, ?)
	`, u.FileID, u.SessionID, u.StorageKey, u.Filename, u.UploadedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to create upload: %w", err)
	}
	return nil
}

// GetByID returns nil, nil when no upload has that id.
func (s *UploadStore) GetByID(ctx context.Context, fileID string) (*domain.Upload, error) {
	u := &domain.Upload{}
	var uploadedAt int64
	err := s.db.QueryRowContext(ctx, `
		SELECT file_id, session_id, storage_key, filename, uploaded_at
		FROM uploads WHERE file_id = ?
	`, fileID).Scan(&u.FileID, &u.SessionID, &u.StorageKey, &u.Filename, &uploadedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get upload: %w", err)
	}

	u.UploadedAt = time.UnixMilli(uploadedAt)
	return u, nil
}

// ListOlderThan returns uploads made strictly before cutoff, oldest first.
func (s *UploadStore) ListOlderThan(ctx context.Context, cutoff time.Time) ([]*domain.Upload, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT file_id, session_id, storage_key, filename, uploaded_at
		FROM uploads WHERE uploaded_at < ? ORDER BY uploaded_at ASC
	`, cutoff.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	defer rows.Close()

	var uploads []*domain.Upload
	for rows.Next() {
		u := &domain.Upload{}
		var uploadedAt int64
		if err := rows.Scan(&u.FileID, &u.SessionID, &u.StorageKey, &u.Filename, &uploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan upload: %w", err)
		}
		u.UploadedAt = time.UnixMilli(uploadedAt)
		uploads = append(uploads, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating uploads: %w", err)
	}

	return uploads, nil
}

// Delete is a no-op for an unknown id; the janitor may race a manual cleanup.
func (s *UploadStore) Delete(ctx context.Context, fileID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM uploads WHERE file_id = ?
	`, fileID)
	if err != nil {
		return fmt.Errorf("failed to delete upload: %w", err)
	}
	return nil
}
