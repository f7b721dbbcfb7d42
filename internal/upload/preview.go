package upload

import (
	"fmt"
	"os"
	"sync"
)

// Preview is a transient local copy of a selected file, used to display the
// image before the server confirms the upload. Previews never enter the
// entity store and must be released once no longer displayed; Release is
// idempotent and Close makes the release defer-able.
type Preview struct {
	mu       sync.Mutex
	path     string
	released bool
}

// NewPreview writes data to a temporary file and returns a handle to it.
func NewPreview(data []byte, mimeType string) (*Preview, error) {
	f, err := os.CreateTemp("", "parishadmin-preview-*"+extFor(mimeType))
	if err != nil {
		return nil, fmt.Errorf("create preview: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("write preview: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("close preview: %w", err)
	}
	return &Preview{path: f.Name()}, nil
}

// Source returns the local path to display, or "" after release.
func (p *Preview) Source() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return ""
	}
	return p.path
}

// Release removes the backing file. Safe to call more than once.
func (p *Preview) Release() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return nil
	}
	p.released = true
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("release preview: %w", err)
	}
	return nil
}

// Close satisfies io.Closer.
func (p *Preview) Close() error {
	return p.Release()
}

// WithPreview runs fn with a preview source and guarantees the preview is
// released afterwards, whatever fn returns.
func WithPreview(data []byte, mimeType string, fn func(source string) error) error {
	p, err := NewPreview(data, mimeType)
	if err != nil {
		return err
	}
	defer func() {
		_ = p.Release()
	}()
	return fn(p.Source())
}

func extFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
