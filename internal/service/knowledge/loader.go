// Package knowledge loads the static document describing the site owner.
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrNotFound reports that the knowledge document does not exist.
var ErrNotFound = errors.New("knowledge base not found")

// Loader returns the full knowledge text.
type Loader interface {
	Load(ctx context.Context) (string, error)
}

// FileLoader reads Path from disk on every call. Edits to the file are
// picked up by the next request without a restart.
type FileLoader struct {
	Path string
}

// NewFileLoader returns a loader bound to path.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{Path: path}
}

// Load reads the whole document.
func (l *FileLoader) Load(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if l == nil || l.Path == "" {
		return "", ErrNotFound
	}

	data, err := os.ReadFile(l.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w at %s", ErrNotFound, l.Path)
		}
		return "", fmt.Errorf("failed to read knowledge base %s: %w", l.Path, err)
	}
	return string(data), nil
}

// Static serves a fixed in-memory document.
type Static string

// Load returns the document.
func (s Static) Load(context.Context) (string, error) {
	return string(s), nil
}
