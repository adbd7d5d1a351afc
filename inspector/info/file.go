package info

import (
	"path/filepath"
	"strings"
	"time"
)

// File represents a scanned file
type File struct {
	Root     string    // Scanned root directory
	Relative string    // Slash separated path relative to Root
	Path     string    // Local file path
	ModTime  time.Time // Last modification time
	Size     int64
}

// Stem returns the file name without its extension
func (f *File) Stem() string {
	return Stem(f.Path)
}

// Stem returns the base name of filePath without its extension
func Stem(filePath string) string {
	name := filepath.Base(filePath)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
