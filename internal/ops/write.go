package ops

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"

	"github.com/SlapDrone/slopify/internal/errors"
	"github.com/SlapDrone/slopify/internal/logging"
	"github.com/SlapDrone/slopify/internal/slop"
)

const (
	defaultFilePerm = 0644
	defaultDirPerm  = 0755
)

// WriteRecords writes each record in order, creating parent directories as needed.
// Each file is replaced atomically, but there is no atomicity across records: the
// first failure stops the loop and earlier writes stay on disk.
// Returns the paths written before any failure.
func WriteRecords(ctx context.Context, records []slop.FileRecord, logger *slog.Logger) ([]string, error) {
	logger = logging.OrDiscard(logger)

	written := make([]string, 0, len(records))
	for _, rec := range records {
		select {
		case <-ctx.Done():
			return written, errors.NewCancelled("import")
		default:
		}

		if err := writeFileAtomic(rec.Path, []byte(rec.Content)); err != nil {
			return written, err
		}
		logger.Debug("wrote file", "path", rec.Path, "bytes", len(rec.Content))
		written = append(written, rec.Path)
	}
	return written, nil
}

// writeFileAtomic replaces path with data via a temp file in the same directory.
// An existing file keeps its permission bits.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
		return errors.NewWriteFailed(path, err)
	}

	perm := os.FileMode(defaultFilePerm)
	if info, err := os.Lstat(path); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			return errors.NewInvalidRequest("path must not be a symlink: " + path)
		}
		perm = info.Mode().Perm()
	}

	tempPath := filepath.Join(dir, "."+filepath.Base(path)+"."+ulid.Make().String()+".tmp")
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm)
	if err != nil {
		if errors.Is(err, errors.ErrInvalidRequest) {
			return err
		}
		return errors.NewWriteFailed(path, err)
	}

	// Clean up temp file on failure (original file is preserved)
	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if _, err := file.Write(data); err != nil {
		return errors.NewWriteFailed(path, err)
	}
	if err := file.Sync(); err != nil {
		return errors.NewWriteFailed(path, err)
	}

	// Close before rename (required on Windows; fine elsewhere).
	if err := file.Close(); err != nil {
		return errors.NewWriteFailed(path, fmt.Errorf("close: %w", err))
	}
	file = nil

	// umask may have narrowed the mode at creation.
	if err := os.Chmod(tempPath, perm); err != nil {
		return errors.NewWriteFailed(path, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return errors.NewWriteFailed(path, err)
	}

	success = true
	return nil
}
