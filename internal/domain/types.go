package domain

import "time"

// Album is a named collection owning an ordered sequence of images. IDs are
// opaque strings assigned by the server; an image never appears in two albums
// and never outlives the album that owns it.
type Album struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Images      []Image   `json:"images"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Image is a single uploaded picture belonging to exactly one album. Title is
// set once at upload time; Caption is mutable independently of the binary
// content.
type Image struct {
	ID      string    `json:"id"`
	AlbumID string    `json:"albumId"`
	Binary  BinaryRef `json:"binary"`
	Title   string    `json:"title"`
	Caption string    `json:"caption"`
}

// BinaryRef describes stored image bytes: base64-encoded data as returned by
// the server, plus its content type.
type BinaryRef struct {
	Data     string `json:"data,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// Announcement, NewsPost and Event are the flat content resources managed by
// the peripheral admin pages. They share one CRUD shape and have no
// cross-entity consistency concerns.
type Announcement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type NewsPost struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Event struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Location  string    `json:"location"`
	StartsAt  time.Time `json:"startsAt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
