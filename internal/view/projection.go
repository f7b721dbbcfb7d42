// Package view derives the read-only shapes the admin UI renders from the
// entity store. It never mutates the store and holds no state of its own.
package view

import (
	"errors"

	"github.com/parishweb/parishadmin/internal/domain"
	"github.com/parishweb/parishadmin/internal/store"
)

// ErrGone is returned when the requested album no longer exists, e.g. because
// it was deleted while its detail view was open. Callers must treat it by
// clearing the active selection.
var ErrGone = errors.New("view: album no longer exists")

// Summary is one row of the album list view. ImageCount is always recomputed
// from the owned image sequence, never stored redundantly.
type Summary struct {
	ID          string
	Title       string
	Description string
	ImageCount  int
}

// AlbumSummaries projects the album list in display order.
func AlbumSummaries(st *store.Store) []Summary {
	albums := st.Albums()
	summaries := make([]Summary, len(albums))
	for i, a := range albums {
		summaries[i] = Summary{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			ImageCount:  len(a.Images),
		}
	}
	return summaries
}

// ActiveAlbumDetail projects the full album matching activeID, or ErrGone if
// it is no longer present.
func ActiveAlbumDetail(st *store.Store, activeID string) (domain.Album, error) {
	album, ok := st.Album(activeID)
	if !ok {
		return domain.Album{}, ErrGone
	}
	return album, nil
}
