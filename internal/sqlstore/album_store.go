// Package sqlstore implements the server-side persistence for the reference
// API: albums, their images, and the flat content resources. Ids are opaque
// uuids assigned on insert.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/parishweb/parishadmin/internal/domain"
)

type AlbumStore struct {
	db *sql.DB
}

func NewAlbumStore(db *sql.DB) *AlbumStore {
	return &AlbumStore{db: db}
}

func (s *AlbumStore) Create(ctx context.Context, title, description string) (*domain.Album, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO albums (id, title, description) VALUES (?, ?, ?)
	`, id, title, description)
	if err != nil {
		return nil, fmt.Errorf("failed to create album: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *AlbumStore) GetByID(ctx context.Context, id string) (*domain.Album, error) {
	album := &domain.Album{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, created_at, updated_at FROM albums WHERE id = ?
	`, id).Scan(&album.ID, &album.Title, &album.Description, &album.CreatedAt, &album.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get album: %w", err)
	}

	return album, nil
}

// List returns albums newest-first, matching the console's display order.
func (s *AlbumStore) List(ctx context.Context) ([]*domain.Album, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, created_at, updated_at FROM albums ORDER BY rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	defer rows.Close()

	var albums []*domain.Album
	for rows.Next() {
		album := &domain.Album{}
		if err := rows.Scan(&album.ID, &album.Title, &album.Description, &album.CreatedAt, &album.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan album: %w", err)
		}
		albums = append(albums, album)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating albums: %w", err)
	}

	return albums, nil
}

func (s *AlbumStore) Update(ctx context.Context, id, title, description string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE albums SET title = ?, description = ?, updated_at = datetime('now') WHERE id = ?
	`, title, description, id)
	if err != nil {
		return fmt.Errorf("failed to update album: %w", err)
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

func (s *AlbumStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM albums WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete album: %w", err)
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
