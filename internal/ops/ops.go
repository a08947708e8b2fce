// Package ops implements the slopify operations shared by the CLI and the MCP server.
//
// Each operation takes an XxxInput struct and returns an *XxxOutput or a
// *errors.SlopError. Operations never print; callers decide how to report.
package ops

import (
	"os"
	"path/filepath"

	"github.com/SlapDrone/slopify/internal/config"
	"github.com/SlapDrone/slopify/internal/errors"
	"github.com/SlapDrone/slopify/internal/slop"
)

// languagesFor builds the language resolver described by cfg.
func languagesFor(cfg *config.Config) *slop.Languages {
	return slop.NewLanguages(cfg.Languages, cfg.MarkupExtensions, cfg.DetectLanguages)
}

// orDefault returns cfg, or the default config when cfg is nil.
func orDefault(cfg *config.Config) *config.Config {
	if cfg == nil {
		return config.DefaultConfig()
	}
	return cfg
}

// resolveBase returns base as an absolute directory, defaulting to the working directory.
func resolveBase(base string) (string, error) {
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.NewInternal(err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return "", errors.NewInvalidRequest("invalid base directory: " + err.Error())
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewFileNotFound(base)
		}
		return "", errors.NewReadFailed(base, err)
	}
	if !info.IsDir() {
		return "", errors.NewInvalidRequest("base must be a directory: " + base)
	}
	return abs, nil
}

// samePath reports whether a and b name the same file, following symlinks when both exist.
func samePath(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	ra, errA := filepath.EvalSymlinks(a)
	rb, errB := filepath.EvalSymlinks(b)
	if errA != nil || errB != nil {
		return false
	}
	return ra == rb
}
