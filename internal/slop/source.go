package slop

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrOutsideBase is returned when a file does not live under the base directory.
var ErrOutsideBase = errors.New("path is outside the base directory")

// RelativePath returns path relative to base in slash form.
func RelativePath(base, path string) (string, error) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil {
		return "", ErrOutsideBase
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrOutsideBase
	}
	return filepath.ToSlash(rel), nil
}

// LoadSource reads path and names it relative to base. Content that is not
// valid UTF-8 becomes BinaryPlaceholder; read failures are returned.
func LoadSource(base, path string) (Source, error) {
	rel, err := RelativePath(base, path)
	if err != nil {
		return Source{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{Path: rel}, err
	}
	if !utf8.Valid(data) {
		return Source{Path: rel, Content: BinaryPlaceholder, Binary: true}, nil
	}
	return Source{Path: rel, Content: string(data)}, nil
}
