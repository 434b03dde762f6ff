package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DirectoryAccessError reports an input or output directory that is missing,
// not a directory, or unreadable.
type DirectoryAccessError struct {
	Dir string
	Err error
}

func (e *DirectoryAccessError) Error() string {
	return fmt.Sprintf("directory %s is not accessible: %v", e.Dir, e.Err)
}

func (e *DirectoryAccessError) Unwrap() error { return e.Err }

// ErrorKind classifies the failure for run history.
func (e *DirectoryAccessError) ErrorKind() string { return "not_found" }

// ListFiles returns the names of regular files directly inside dir, in the
// order the filesystem enumerates them. Symlinks count when their target is a
// regular file. Subdirectories and special files are skipped and nothing is
// recursed into.
func ListFiles(dir string) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, &DirectoryAccessError{Dir: dir, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &DirectoryAccessError{Dir: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &DirectoryAccessError{Dir: dir, Err: errors.New("not a directory")}
	}

	// (*os.File).ReadDir keeps enumeration order; os.ReadDir would sort.
	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, &DirectoryAccessError{Dir: dir, Err: err}
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if isRegular(dir, entry) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// isRegular reports whether entry is a file or a link to one. A link whose
// target cannot be stat'd is not a file.
func isRegular(dir string, entry fs.DirEntry) bool {
	mode := entry.Type()
	switch {
	case mode.IsRegular():
		return true
	case mode&fs.ModeSymlink != 0:
		target, err := os.Stat(filepath.Join(dir, entry.Name()))
		if err != nil {
			return false
		}
		return target.Mode().IsRegular()
	default:
		return false
	}
}
