package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplaySourceInlinesData(t *testing.T) {
	ref := BinaryRef{Data: "aGVsbG8=", MimeType: "image/png"}
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", DisplaySource(ref))
}

func TestDisplaySourceFallsBackToPlaceholder(t *testing.T) {
	assert.Equal(t, PlaceholderSource, DisplaySource(BinaryRef{}))
	assert.Equal(t, PlaceholderSource, DisplaySource(BinaryRef{Data: "aGVsbG8="}))
	assert.Equal(t, PlaceholderSource, DisplaySource(BinaryRef{MimeType: "image/png"}))
}
