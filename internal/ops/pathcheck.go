package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/SlapDrone/slopify/internal/config"
	"github.com/SlapDrone/slopify/internal/errors"
)

// ValidateDestination checks a decoded record path before anything is written.
// It checks:
// 1. The path is non-empty
// 2. The path stays inside base (unless allow_unsafe_paths is set)
// 3. The nearest existing ancestor does not resolve outside base through a symlink
// 4. The destination itself is not a symlink or a directory
//
// Documents are hand-edited text, so a header like "# ../../.bashrc" must not be
// able to reach outside the tree it is applied to.
func ValidateDestination(base, path string, cfg *config.Config) error {
	if path == "" {
		return errors.NewInvalidRequest("path is required")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid path: %v", err))
	}

	unsafe := cfg != nil && cfg.AllowUnsafePaths
	if !unsafe {
		if !isWithin(base, absPath) {
			return errors.NewInvalidRequest(
				fmt.Sprintf("path escapes the base directory (set allow_unsafe_paths to permit): %s", path))
		}

		// A symlinked directory inside the tree could still point elsewhere.
		if realBase, err := filepath.EvalSymlinks(base); err == nil {
			if realParent, ok := resolveExistingAncestor(filepath.Dir(absPath)); ok && !isWithin(realBase, realParent) {
				return errors.NewInvalidRequest(
					fmt.Sprintf("path resolves outside the base directory through a symlink: %s", path))
			}
		}
	}

	// Reject symlink and directory destinations even in unsafe mode: the atomic
	// rename would replace the link rather than write through it.
	if info, err := os.Lstat(absPath); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			return errors.NewInvalidRequest("path must not be a symlink: " + path)
		}
		if info.IsDir() {
			return errors.NewInvalidRequest("path is a directory: " + path)
		}
	}

	return nil
}

// isWithin reports whether path is base itself or below it.
func isWithin(base, path string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	return !filepath.IsAbs(rel) && !containsTraversal(rel)
}

// resolveExistingAncestor walks up from dir to the first directory that exists and
// returns its symlink-free form.
func resolveExistingAncestor(dir string) (string, bool) {
	for {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			return resolved, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// containsTraversal checks if path contains ".." directory traversal.
func containsTraversal(path string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part == ".." {
			return true
		}
	}
	// Also check for forward slashes on all platforms (e.g., user input)
	if filepath.Separator != '/' {
		for _, part := range strings.Split(path, "/") {
			if part == ".." {
				return true
			}
		}
	}
	return false
}
