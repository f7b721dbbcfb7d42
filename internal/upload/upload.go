// Package upload converts locally-selected files into the multipart payload
// the gateway requires, and manages transient preview files shown while an
// upload is in flight.
package upload

import (
	"fmt"
	"net/http"

	"github.com/parishweb/parishadmin/internal/gateway"
)

// File is one locally-selected file plus its per-file metadata. Title and
// Caption may be empty; common metadata fills the gaps.
type File struct {
	Name    string
	Data    []byte
	Title   string
	Caption string
}

// Metadata applies to every file whose own field is empty.
type Metadata struct {
	Title   string
	Caption string
}

// allowedImageTypes is the set of MIME types accepted for uploads.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing. WebP is detected separately because the WHATWG sniff spec (and
// therefore the stdlib) does not include a WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// DetectMIME returns the detected MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func DetectMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

// BuildParts turns files into an ordered part sequence, index-aligned with
// the input. At least one file is required and every file must have a
// determinable image MIME type; both failures are local validation errors
// raised before any network traffic.
func BuildParts(files []File, meta Metadata) ([]gateway.ImagePart, error) {
	if len(files) == 0 {
		return nil, &gateway.ValidationError{Msg: "select at least one file to upload"}
	}

	parts := make([]gateway.ImagePart, len(files))
	for i, f := range files {
		mimeType, ok := DetectMIME(f.Data)
		if !ok {
			return nil, &gateway.ValidationError{Msg: fmt.Sprintf("%s is not a supported image format", f.Name)}
		}

		title, caption := f.Title, f.Caption
		if title == "" {
			title = meta.Title
		}
		if caption == "" {
			caption = meta.Caption
		}

		parts[i] = gateway.ImagePart{
			Data:     f.Data,
			MimeType: mimeType,
			Title:    title,
			Caption:  caption,
		}
	}
	return parts, nil
}
