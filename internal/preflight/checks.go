package preflight

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Access is the permission set a directory check requires.
type Access uint32

const (
	Read      Access = unix.R_OK | unix.X_OK
	ReadWrite Access = unix.R_OK | unix.W_OK | unix.X_OK
)

// ErrNotDirectory is reported when the checked path exists but is a file.
var ErrNotDirectory = errors.New("is not a directory")

// DirectoryAccess verifies that path is a directory with the requested access.
// The returned error wraps the underlying OS error.
func DirectoryAccess(path string, access Access) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return ErrNotDirectory
	}
	if err := unix.Access(path, uint32(access)); err != nil {
		return fmt.Errorf("insufficient permissions: %w", err)
	}
	return nil
}

// CheckDirectoryAccess wraps DirectoryAccess into a displayable Result.
func CheckDirectoryAccess(name, path string, access Access) Result {
	if err := DirectoryAccess(path, access); err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	label := "read ok"
	if access == ReadWrite {
		label = "read/write ok"
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, label)}
}
