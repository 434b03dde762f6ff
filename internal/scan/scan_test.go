package scan

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestListFilesExcludesSubdirectories(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.mp4"))
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	touch(t, filepath.Join(dir, "nested", "deep.mp4"))

	got, err := ListFiles(dir)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(got) != 1 || got[0] != "a.mp4" {
		t.Fatalf("expected only a.mp4, got %v", got)
	}
}

func TestListFilesReturnsEveryRegularFile(t *testing.T) {
	dir := t.TempDir()
	want := []string{".hidden", "b.wav", "a.wav", "c.flac"}
	for _, name := range want {
		touch(t, filepath.Join(dir, name))
	}

	got, err := ListFiles(dir)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	slices.Sort(got)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Fatalf("ListFiles = %v, want %v", got, want)
	}
}

func TestListFilesFollowsSymlinksToFiles(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()
	touch(t, filepath.Join(outside, "real.wav"))
	if err := os.Mkdir(filepath.Join(outside, "folder"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	links := map[string]string{
		"file-link.wav": filepath.Join(outside, "real.wav"),
		"dir-link":      filepath.Join(outside, "folder"),
		"dangling.wav":  filepath.Join(outside, "missing.wav"),
	}
	for name, target := range links {
		if err := os.Symlink(target, filepath.Join(dir, name)); err != nil {
			t.Skipf("symlinks unsupported: %v", err)
		}
	}

	got, err := ListFiles(dir)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(got) != 1 || got[0] != "file-link.wav" {
		t.Fatalf("expected only the file symlink, got %v", got)
	}
}

func TestListFilesSkipsLoopingSymlink(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.mp4"))
	if err := os.Symlink("loop", filepath.Join(dir, "loop")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	got, err := ListFiles(dir)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if !slices.Equal(got, []string{"a.mp4"}) {
		t.Fatalf("expected only a.mp4, got %v", got)
	}
}

func TestListFilesEmptyDirectory(t *testing.T) {
	got, err := ListFiles(t.TempDir())
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty listing, got %v", got)
	}
}

func TestListFilesMissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "movie")
	_, err := ListFiles(missing)

	var accessErr *DirectoryAccessError
	if !errors.As(err, &accessErr) {
		t.Fatalf("expected DirectoryAccessError, got %v", err)
	}
	if accessErr.Dir != missing {
		t.Fatalf("unexpected dir %q", accessErr.Dir)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected error to unwrap to fs.ErrNotExist, got %v", err)
	}
	if accessErr.ErrorKind() != "not_found" {
		t.Fatalf("unexpected kind %q", accessErr.ErrorKind())
	}
}

func TestListFilesRejectsRegularFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movie")
	touch(t, path)

	_, err := ListFiles(path)
	var accessErr *DirectoryAccessError
	if !errors.As(err, &accessErr) {
		t.Fatalf("expected DirectoryAccessError, got %v", err)
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
