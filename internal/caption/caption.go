// Package caption suggests captions for uploaded images using a vision
// model. Suggestion is best-effort: the upload flow treats a failed or empty
// suggestion as "no caption", never as an error.
package caption

import "context"

// Prompt is the shared prompt used by all caption backends.
const Prompt = `Write one short caption for this photo, suitable for a parish
photo gallery. Plain text, one line, no quotes, at most twelve words.`

// Suggester produces a caption for one image.
type Suggester interface {
	Suggest(ctx context.Context, imageData []byte, mimeType string) (string, error)
}
