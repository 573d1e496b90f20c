// ABOUTME: File-save collaborator for downloads
// ABOUTME: Writes files atomically into a directory
package session

import (
	"fmt"
	"os"
	"path/filepath"
)

// Saver persists a named blob and returns where it went
type Saver interface {
	Save(name, mimeType string, data []byte) (string, error)
}

// DirSaver writes into Dir, replacing any existing file of the same name
type DirSaver struct {
	Dir string
}

// Save writes data to a temp file in Dir and renames it into place
func (d DirSaver) Save(name, mimeType string, data []byte) (string, error) {
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", name, err)
	}

	path := filepath.Join(dir, name)
	if err := os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("failed to move %s into place: %w", name, err)
	}
	return path, nil
}
