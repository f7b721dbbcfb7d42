package store

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/parishweb/parishadmin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func album(id, title string, images ...domain.Image) domain.Album {
	return domain.Album{ID: id, Title: title, Images: images}
}

func image(albumID, id string) domain.Image {
	return domain.Image{ID: id, AlbumID: albumID, Title: "img " + id}
}

func TestInsertAlbumHeadOrder(t *testing.T) {
	s := New()

	require.NoError(t, s.InsertAlbum(album("a1", "First")))
	require.NoError(t, s.InsertAlbum(album("a2", "Second")))

	albums := s.Albums()
	require.Len(t, albums, 2)
	assert.Equal(t, "a2", albums[0].ID, "newest album should be first")
	assert.Equal(t, "a1", albums[1].ID)
}

func TestInsertAlbumDuplicateID(t *testing.T) {
	s := New()

	require.NoError(t, s.InsertAlbum(album("a1", "First")))
	err := s.InsertAlbum(album("a1", "Again"))
	require.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, 1, s.Len())
}

func TestUpdateAlbumMergesPatch(t *testing.T) {
	s := New()
	require.NoError(t, s.InsertAlbum(domain.Album{ID: "a1", Title: "Old", Description: "keep me"}))

	title := "New"
	require.NoError(t, s.UpdateAlbum("a1", AlbumPatch{Title: &title}))

	got, ok := s.Album("a1")
	require.True(t, ok)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, "keep me", got.Description, "nil patch fields must be untouched")
}

func TestUpdateAlbumNotFound(t *testing.T) {
	s := New()
	title := "x"
	require.ErrorIs(t, s.UpdateAlbum("missing", AlbumPatch{Title: &title}), ErrNotFound)
}

func TestRemoveAlbumCascadesImages(t *testing.T) {
	s := New()
	require.NoError(t, s.InsertAlbum(album("a1", "Lent", image("a1", "i1"), image("a1", "i2"))))

	require.NoError(t, s.RemoveAlbum("a1"))

	_, ok := s.FindImage("i1")
	assert.False(t, ok, "cascade must remove owned images")
	_, ok = s.FindImage("i2")
	assert.False(t, ok)
}

func TestRemoveAlbumSecondCallFails(t *testing.T) {
	s := New()
	require.NoError(t, s.InsertAlbum(album("a1", "Lent")))

	require.NoError(t, s.RemoveAlbum("a1"))
	require.ErrorIs(t, s.RemoveAlbum("a1"), ErrNotFound)
}

func TestRemoveAlbumClearsActiveSelection(t *testing.T) {
	s := New()
	require.NoError(t, s.InsertAlbum(album("a1", "Lent")))
	require.NoError(t, s.SetActive("a1"))

	require.NoError(t, s.RemoveAlbum("a1"))
	assert.Empty(t, s.ActiveID())
}

func TestRemoveAlbumKeepsUnrelatedActiveSelection(t *testing.T) {
	s := New()
	require.NoError(t, s.InsertAlbum(album("a1", "Lent")))
	require.NoError(t, s.InsertAlbum(album("a2", "Easter")))
	require.NoError(t, s.SetActive("a2"))

	require.NoError(t, s.RemoveAlbum("a1"))
	assert.Equal(t, "a2", s.ActiveID())
}

func TestReplaceAllDropsStaleActiveSelection(t *testing.T) {
	s := New()
	require.NoError(t, s.InsertAlbum(album("a1", "Lent")))
	require.NoError(t, s.SetActive("a1"))

	s.ReplaceAll([]domain.Album{album("b1", "Fresh")})
	assert.Empty(t, s.ActiveID())

	require.NoError(t, s.SetActive("b1"))
	s.ReplaceAll([]domain.Album{album("b1", "Fresh again")})
	assert.Equal(t, "b1", s.ActiveID(), "surviving selection must be kept")
}

func TestSetAlbumImagesTotalReplacement(t *testing.T) {
	s := New()
	require.NoError(t, s.InsertAlbum(album("a1", "Lent", image("a1", "old"))))

	require.NoError(t, s.SetAlbumImages("a1", []domain.Image{image("a1", "x1"), image("a1", "x2")}))

	got, _ := s.Album("a1")
	require.Len(t, got.Images, 2)
	assert.Equal(t, "x1", got.Images[0].ID)
	assert.Equal(t, "x2", got.Images[1].ID)
}

func TestSetAlbumImagesRejectsDuplicates(t *testing.T) {
	s := New()
	require.NoError(t, s.InsertAlbum(album("a1", "Lent")))

	err := s.SetAlbumImages("a1", []domain.Image{image("a1", "x1"), image("a1", "x1")})
	require.ErrorIs(t, err, ErrDuplicateID)
}

func TestAppendImagesPreservesOrderAndChecksDuplicates(t *testing.T) {
	s := New()
	require.NoError(t, s.InsertAlbum(album("a1", "Lent", image("a1", "i1"))))

	require.NoError(t, s.AppendImages("a1", []domain.Image{image("a1", "i2"), image("a1", "i3")}))

	got, _ := s.Album("a1")
	require.Len(t, got.Images, 3)
	assert.Equal(t, []string{"i1", "i2", "i3"}, []string{got.Images[0].ID, got.Images[1].ID, got.Images[2].ID})

	require.ErrorIs(t, s.AppendImages("a1", []domain.Image{image("a1", "i2")}), ErrDuplicateID)
}

func TestRemoveImage(t *testing.T) {
	s := New()
	require.NoError(t, s.InsertAlbum(album("a1", "Lent", image("a1", "i1"), image("a1", "i2"))))

	require.NoError(t, s.RemoveImage("a1", "i1"))

	got, _ := s.Album("a1")
	require.Len(t, got.Images, 1)
	assert.Equal(t, "i2", got.Images[0].ID)

	require.ErrorIs(t, s.RemoveImage("a1", "i1"), ErrNotFound)
	require.ErrorIs(t, s.RemoveImage("missing", "i2"), ErrNotFound)
}

func TestUpdateImageMergesPatch(t *testing.T) {
	s := New()
	img := image("a1", "i1")
	img.Caption = "before"
	require.NoError(t, s.InsertAlbum(album("a1", "Lent", img)))

	caption := "after"
	require.NoError(t, s.UpdateImage("a1", "i1", ImagePatch{Caption: &caption}))

	got, ok := s.FindImage("i1")
	require.True(t, ok)
	assert.Equal(t, "after", got.Caption)
	assert.Equal(t, "img i1", got.Title, "nil patch fields must be untouched")
}

func TestAccessorsReturnCopies(t *testing.T) {
	s := New()
	require.NoError(t, s.InsertAlbum(album("a1", "Lent", image("a1", "i1"))))

	albums := s.Albums()
	albums[0].Title = "mutated"
	albums[0].Images[0].Caption = "mutated"

	got, _ := s.Album("a1")
	assert.Equal(t, "Lent", got.Title)
	assert.Empty(t, got.Images[0].Caption)

	got.Images = nil
	again, _ := s.Album("a1")
	assert.Len(t, again.Images, 1)
}

func TestImagesNeverDangle(t *testing.T) {
	s := New()
	// AlbumID on incoming images is pinned to the owning album.
	stray := domain.Image{ID: "i1", AlbumID: "somewhere-else"}
	require.NoError(t, s.InsertAlbum(album("a1", "Lent", stray)))

	got, ok := s.FindImage("i1")
	require.True(t, ok)
	assert.Equal(t, "a1", got.AlbumID)
}

// TestRandomOperationSequences drives the store with random operation
// sequences and checks the structural invariants after every step: no
// dangling images, no duplicate image ids within an album, and an active
// selection that always refers to a present album.
func TestRandomOperationSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := New()
	nextAlbum, nextImage := 0, 0

	albumIDs := func() []string {
		var ids []string
		for _, a := range s.Albums() {
			ids = append(ids, a.ID)
		}
		return ids
	}
	randomAlbum := func() (string, bool) {
		ids := albumIDs()
		if len(ids) == 0 {
			return "", false
		}
		return ids[rng.Intn(len(ids))], true
	}

	for step := 0; step < 2000; step++ {
		switch op := rng.Intn(8); op {
		case 0:
			nextAlbum++
			require.NoError(t, s.InsertAlbum(album(fmt.Sprintf("a%d", nextAlbum), "album")))
		case 1:
			if id, ok := randomAlbum(); ok {
				require.NoError(t, s.RemoveAlbum(id))
			}
		case 2:
			if id, ok := randomAlbum(); ok {
				nextImage++
				require.NoError(t, s.AppendImages(id, []domain.Image{image(id, fmt.Sprintf("i%d", nextImage))}))
			}
		case 3:
			if id, ok := randomAlbum(); ok {
				a, _ := s.Album(id)
				if len(a.Images) > 0 {
					require.NoError(t, s.RemoveImage(id, a.Images[rng.Intn(len(a.Images))].ID))
				}
			}
		case 4:
			if id, ok := randomAlbum(); ok {
				nextImage++
				require.NoError(t, s.SetAlbumImages(id, []domain.Image{image(id, fmt.Sprintf("i%d", nextImage))}))
			}
		case 5:
			if id, ok := randomAlbum(); ok {
				require.NoError(t, s.SetActive(id))
			}
		case 6:
			if id, ok := randomAlbum(); ok {
				title := "renamed"
				require.NoError(t, s.UpdateAlbum(id, AlbumPatch{Title: &title}))
			}
		case 7:
			s.ClearActive()
		}

		for _, a := range s.Albums() {
			seen := map[string]bool{}
			for _, img := range a.Images {
				assert.Equal(t, a.ID, img.AlbumID, "dangling image after step %d", step)
				assert.False(t, seen[img.ID], "duplicate image id after step %d", step)
				seen[img.ID] = true
			}
		}
		if active := s.ActiveID(); active != "" {
			_, ok := s.Album(active)
			assert.True(t, ok, "active selection points at missing album after step %d", step)
		}
	}
}
