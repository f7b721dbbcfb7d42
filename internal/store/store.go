// Package store holds the canonical in-memory representation of the gallery
// for one admin session: the album list, each album's owned images, and the
// active-album selection. It performs no I/O; the sync controller is the only
// writer.
package store

import (
	"errors"
	"fmt"

	"github.com/parishweb/parishadmin/internal/domain"
)

// ErrNotFound and ErrDuplicateID signal contract violations by the caller.
// They are internal faults, not user-facing errors: under correct use the
// sync controller never triggers them.
var (
	ErrNotFound    = errors.New("store: entity not found")
	ErrDuplicateID = errors.New("store: duplicate id")
)

// AlbumPatch carries the album fields to merge. Nil fields are left untouched.
type AlbumPatch struct {
	Title       *string
	Description *string
}

// ImagePatch carries the image fields to merge. Nil fields are left untouched.
type ImagePatch struct {
	Title   *string
	Caption *string
	Binary  *domain.BinaryRef
}

// Store keeps albums ordered most-recent-first. All accessors hand out deep
// copies, so callers can never alias or mutate the canonical state. The
// active-album selection lives here so that removing the active album and
// clearing the selection is a single transition.
type Store struct {
	albums   []domain.Album
	activeID string
}

func New() *Store {
	return &Store{}
}

// ReplaceAll performs a total replacement of the album list, used after a
// full refresh. The active selection is kept if its album survived the
// refresh and cleared otherwise.
func (s *Store) ReplaceAll(albums []domain.Album) {
	s.albums = copyAlbums(albums)
	if s.activeID != "" && s.indexOf(s.activeID) < 0 {
		s.activeID = ""
	}
}

// InsertAlbum inserts at the head of the list (most-recent-first display
// convention).
func (s *Store) InsertAlbum(album domain.Album) error {
	if s.indexOf(album.ID) >= 0 {
		return fmt.Errorf("insert album %q: %w", album.ID, ErrDuplicateID)
	}
	s.albums = append([]domain.Album{copyAlbum(album)}, s.albums...)
	return nil
}

// UpdateAlbum merges patch into the matching album.
func (s *Store) UpdateAlbum(id string, patch AlbumPatch) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("update album %q: %w", id, ErrNotFound)
	}
	if patch.Title != nil {
		s.albums[i].Title = *patch.Title
	}
	if patch.Description != nil {
		s.albums[i].Description = *patch.Description
	}
	return nil
}

// RemoveAlbum deletes the album and, with it, every image it owns. If the
// removed album was the active one the selection is cleared in the same
// transition. A second removal of the same id is a fault, not a no-op.
func (s *Store) RemoveAlbum(id string) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("remove album %q: %w", id, ErrNotFound)
	}
	s.albums = append(s.albums[:i], s.albums[i+1:]...)
	if s.activeID == id {
		s.activeID = ""
	}
	return nil
}

// SetAlbumImages replaces the full image sequence of one album with the
// authoritative set returned by the server.
func (s *Store) SetAlbumImages(albumID string, images []domain.Image) error {
	i := s.indexOf(albumID)
	if i < 0 {
		return fmt.Errorf("set images for album %q: %w", albumID, ErrNotFound)
	}
	if dup := firstDuplicate(images); dup != "" {
		return fmt.Errorf("set images for album %q: image %q: %w", albumID, dup, ErrDuplicateID)
	}
	s.albums[i].Images = copyImages(albumID, images)
	return nil
}

// AppendImages appends to the existing sequence, preserving order of arrival.
// Only usable when the caller already holds concrete server-assigned ids.
func (s *Store) AppendImages(albumID string, images []domain.Image) error {
	i := s.indexOf(albumID)
	if i < 0 {
		return fmt.Errorf("append images to album %q: %w", albumID, ErrNotFound)
	}
	seen := make(map[string]bool, len(s.albums[i].Images)+len(images))
	for _, img := range s.albums[i].Images {
		seen[img.ID] = true
	}
	for _, img := range images {
		if seen[img.ID] {
			return fmt.Errorf("append images to album %q: image %q: %w", albumID, img.ID, ErrDuplicateID)
		}
		seen[img.ID] = true
	}
	s.albums[i].Images = append(s.albums[i].Images, copyImages(albumID, images)...)
	return nil
}

// RemoveImage removes one image from its album.
func (s *Store) RemoveImage(albumID, imageID string) error {
	i := s.indexOf(albumID)
	if i < 0 {
		return fmt.Errorf("remove image from album %q: %w", albumID, ErrNotFound)
	}
	for j, img := range s.albums[i].Images {
		if img.ID == imageID {
			s.albums[i].Images = append(s.albums[i].Images[:j], s.albums[i].Images[j+1:]...)
			return nil
		}
	}
	return fmt.Errorf("remove image %q from album %q: %w", imageID, albumID, ErrNotFound)
}

// UpdateImage merges patch into one image.
func (s *Store) UpdateImage(albumID, imageID string, patch ImagePatch) error {
	i := s.indexOf(albumID)
	if i < 0 {
		return fmt.Errorf("update image in album %q: %w", albumID, ErrNotFound)
	}
	for j := range s.albums[i].Images {
		if s.albums[i].Images[j].ID != imageID {
			continue
		}
		img := &s.albums[i].Images[j]
		if patch.Title != nil {
			img.Title = *patch.Title
		}
		if patch.Caption != nil {
			img.Caption = *patch.Caption
		}
		if patch.Binary != nil {
			img.Binary = *patch.Binary
		}
		return nil
	}
	return fmt.Errorf("update image %q in album %q: %w", imageID, albumID, ErrNotFound)
}

// SetActive marks one album as the active detail selection.
func (s *Store) SetActive(id string) error {
	if s.indexOf(id) < 0 {
		return fmt.Errorf("set active album %q: %w", id, ErrNotFound)
	}
	s.activeID = id
	return nil
}

// ActiveID returns the active selection, or "" when none is set.
func (s *Store) ActiveID() string {
	return s.activeID
}

func (s *Store) ClearActive() {
	s.activeID = ""
}

// Albums returns a deep copy of the album list in display order.
func (s *Store) Albums() []domain.Album {
	return copyAlbums(s.albums)
}

// Album returns a deep copy of one album.
func (s *Store) Album(id string) (domain.Album, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return domain.Album{}, false
	}
	return copyAlbum(s.albums[i]), true
}

// FindImage looks an image up by id across all albums.
func (s *Store) FindImage(imageID string) (domain.Image, bool) {
	for i := range s.albums {
		for _, img := range s.albums[i].Images {
			if img.ID == imageID {
				return img, true
			}
		}
	}
	return domain.Image{}, false
}

// Len reports the number of albums.
func (s *Store) Len() int {
	return len(s.albums)
}

func (s *Store) indexOf(id string) int {
	for i := range s.albums {
		if s.albums[i].ID == id {
			return i
		}
	}
	return -1
}

func firstDuplicate(images []domain.Image) string {
	seen := make(map[string]bool, len(images))
	for _, img := range images {
		if seen[img.ID] {
			return img.ID
		}
		seen[img.ID] = true
	}
	return ""
}

func copyAlbums(albums []domain.Album) []domain.Album {
	out := make([]domain.Album, len(albums))
	for i, a := range albums {
		out[i] = copyAlbum(a)
	}
	return out
}

func copyAlbum(a domain.Album) domain.Album {
	a.Images = copyImages(a.ID, a.Images)
	return a
}

// copyImages copies the slice and pins each image's AlbumID to the owning
// album, so no image in the store can ever dangle.
func copyImages(albumID string, images []domain.Image) []domain.Image {
	out := make([]domain.Image, len(images))
	for i, img := range images {
		img.AlbumID = albumID
		out[i] = img
	}
	return out
}
