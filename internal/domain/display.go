package domain

// PlaceholderSource is served when an image has no binary data attached yet.
const PlaceholderSource = "/static/img/placeholder.png"

// DisplaySource derives the displayable source for an image: an inline data
// URI when binary data is present, else the fixed placeholder.
func DisplaySource(ref BinaryRef) string {
	if ref.Data == "" || ref.MimeType == "" {
		return PlaceholderSource
	}
	return "data:" + ref.MimeType + ";base64," + ref.Data
}
