package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ImageRec is an image row. Binary bytes live in the blob store under
// StorageKey; the API layer inlines them when rendering responses.
type ImageRec struct {
	ID         string
	AlbumID    string
	StorageKey string
	MimeType   string
	Title      string
	Caption    string
	Position   int
	CreatedAt  time.Time
}

type ImageStore struct {
	db *sql.DB
}

func NewImageStore(db *sql.DB) *ImageStore {
	return &ImageStore{db: db}
}

// Create appends the image at the end of the album's sequence.
func (s *ImageStore) Create(ctx context.Context, albumID, storageKey, mimeType, title, caption string) (*ImageRec, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO images (id, album_id, storage_key, mime_type, title, caption, position)
		VALUES (?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(position), -1) + 1 FROM images WHERE album_id = ?))
	`, id, albumID, storageKey, mimeType, title, caption, albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to create image: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *ImageStore) GetByID(ctx context.Context, id string) (*ImageRec, error) {
	img := &ImageRec{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, album_id, storage_key, mime_type, title, caption, position, created_at
		FROM images WHERE id = ?
	`, id).Scan(&img.ID, &img.AlbumID, &img.StorageKey, &img.MimeType, &img.Title, &img.Caption, &img.Position, &img.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get image: %w", err)
	}

	return img, nil
}

func (s *ImageStore) ListByAlbumID(ctx context.Context, albumID string) ([]*ImageRec, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, album_id, storage_key, mime_type, title, caption, position, created_at
		FROM images WHERE album_id = ? ORDER BY position ASC, rowid ASC
	`, albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	var images []*ImageRec
	for rows.Next() {
		img := &ImageRec{}
		if err := rows.Scan(&img.ID, &img.AlbumID, &img.StorageKey, &img.MimeType, &img.Title, &img.Caption, &img.Position, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, img)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating images: %w", err)
	}

	return images, nil
}

func (s *ImageStore) UpdateCaption(ctx context.Context, id, caption string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE images SET caption = ? WHERE id = ?
	`, caption, id)
	if err != nil {
		return fmt.Errorf("failed to update image: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (s *ImageStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM images WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// DeleteByAlbumID removes all of an album's images and returns their storage
// keys so the caller can clean up the blob store.
func (s *ImageStore) DeleteByAlbumID(ctx context.Context, albumID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT storage_key FROM images WHERE album_id = ?
	`, albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to list storage keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan storage key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating storage keys: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM images WHERE album_id = ?`, albumID); err != nil {
		return nil, fmt.Errorf("failed to delete images: %w", err)
	}

	return keys, nil
}
