//go:build !windows

package ops

import (
	stderrors "errors"
	"os"
	"syscall"

	"github.com/SlapDrone/slopify/internal/errors"
)

// openFileNoFollow opens a file for writing with O_NOFOLLOW so a symlink planted at
// the temp path is never written through. O_CLOEXEC prevents FD leaks across exec.
//
// O_NOFOLLOW only protects the final component; parent directories are checked by
// ValidateDestination.
func openFileNoFollow(path string, flag int, perm os.FileMode) (*os.File, error) {
	fd, err := syscall.Open(path, flag|syscall.O_NOFOLLOW|syscall.O_CLOEXEC, uint32(perm))
	if err != nil {
		if stderrors.Is(err, syscall.ELOOP) {
			return nil, errors.NewInvalidRequest("cannot write to symlink: " + path)
		}
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}
	return os.NewFile(uintptr(fd), path), nil
}
