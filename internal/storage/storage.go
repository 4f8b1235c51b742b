package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// Permission constants for entries created by the storage layer.
const (
	DirPerm  os.FileMode = 0755
	FilePerm os.FileMode = 0644
)

// Info describes a storage entry. A missing entry has Exists == false and
// zero values everywhere else.
type Info struct {
	Exists      bool
	IsDirectory bool
	Size        int64
	ModTime     time.Time
}

// Storage implements the host file operations on top of an afero.Fs.
type Storage struct {
	fs afero.Fs
}

// New creates a Storage backed by fsys.
func New(fsys afero.Fs) *Storage {
	return &Storage{fs: fsys}
}

// NewOS creates a Storage backed by the real file system.
func NewOS() *Storage {
	return New(afero.NewOsFs())
}

// Fs returns the backing file system.
func (s *Storage) Fs() afero.Fs {
	return s.fs
}

// Escape turns a raw file-system path into a storage path that decodes back
// to exactly p.
func Escape(p string) string {
	return strings.ReplaceAll(p, "%", "%25")
}

// Decode applies the single decoding pass every storage operation performs.
func Decode(p string) (string, error) {
	raw, err := url.PathUnescape(p)
	if err != nil {
		return "", fmt.Errorf("decoding storage path %q: %w", p, err)
	}
	return raw, nil
}

// GetInfo reports whether p exists and whether it is a directory.
// A missing path is not an error.
func (s *Storage) GetInfo(p string) (Info, error) {
	raw, err := Decode(p)
	if err != nil {
		return Info{}, err
	}
	fi, err := s.fs.Stat(raw)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Info{}, nil
		}
		return Info{}, fmt.Errorf("stat %s: %w", raw, err)
	}
	return Info{
		Exists:      true,
		IsDirectory: fi.IsDir(),
		Size:        fi.Size(),
		ModTime:     fi.ModTime(),
	}, nil
}

// ReadDirectory returns the names of the immediate children of p, sorted.
func (s *Storage) ReadDirectory(p string) ([]string, error) {
	raw, err := Decode(p)
	if err != nil {
		return nil, err
	}
	entries, err := afero.ReadDir(s.fs, raw)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", raw, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// Copy copies a file or a directory tree from one storage path to another.
// Directories are merged into an existing destination and files at the
// destination are overwritten. Missing parent directories are created.
func (s *Storage) Copy(from, to string) error {
	src, err := Decode(from)
	if err != nil {
		return err
	}
	dst, err := Decode(to)
	if err != nil {
		return err
	}

	srcInfo, err := s.lstat(src)
	if err != nil {
		return fmt.Errorf("copying %s: %w", src, err)
	}
	if srcInfo.Mode()&os.ModeSymlink != 0 {
		return s.copySymlink(src, dst, true)
	}
	if !srcInfo.IsDir() {
		return s.copyFile(src, dst, srcInfo, os.O_TRUNC)
	}

	if isWithin(dst, src) {
		return fmt.Errorf("copying %s into its own subdirectory %s", src, dst)
	}
	return s.copyDir(src, dst, srcInfo)
}

// CopyExclusive copies a single file to a path that must not exist yet. The
// destination is created with O_EXCL, so when two writers race for the same
// name exactly one wins and the other gets an error wrapping fs.ErrExist.
// Missing parent directories are created.
func (s *Storage) CopyExclusive(from, to string) error {
	src, err := Decode(from)
	if err != nil {
		return err
	}
	dst, err := Decode(to)
	if err != nil {
		return err
	}

	srcInfo, err := s.lstat(src)
	if err != nil {
		return fmt.Errorf("copying %s: %w", src, err)
	}
	if srcInfo.Mode()&os.ModeSymlink != 0 {
		return s.copySymlink(src, dst, false)
	}
	if !srcInfo.Mode().IsRegular() {
		return fmt.Errorf("copying %s: not a regular file", src)
	}
	return s.copyFile(src, dst, srcInfo, os.O_EXCL)
}

// Delete removes a file or a directory tree. Deleting a missing path fails
// with an error wrapping fs.ErrNotExist.
func (s *Storage) Delete(p string) error {
	raw, err := Decode(p)
	if err != nil {
		return err
	}
	if _, err := s.lstat(raw); err != nil {
		return fmt.Errorf("deleting %s: %w", raw, err)
	}
	if err := s.fs.RemoveAll(raw); err != nil {
		return fmt.Errorf("deleting %s: %w", raw, err)
	}
	return nil
}

// WriteString writes content to the file at p, replacing it if present.
// The parent directory must already exist.
func (s *Storage) WriteString(p, content string) error {
	raw, err := Decode(p)
	if err != nil {
		return err
	}
	parent := filepath.Dir(raw)
	fi, err := s.fs.Stat(parent)
	if err != nil {
		return fmt.Errorf("writing %s: %w", raw, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("writing %s: parent %s is not a directory", raw, parent)
	}
	if err := afero.WriteFile(s.fs, raw, []byte(content), FilePerm); err != nil {
		return fmt.Errorf("writing %s: %w", raw, err)
	}
	return nil
}

// copyDir recursively copies src into dst. Symlinks are recreated, not
// followed. Any other special file (socket, device, pipe) fails the copy so
// that callers never delete a source that was only partly copied.
func (s *Storage) copyDir(src, dst string, srcInfo os.FileInfo) error {
	if err := s.fs.MkdirAll(dst, srcInfo.Mode().Perm()); err != nil {
		return fmt.Errorf("creating directory %s: %w", dst, err)
	}

	entries, err := afero.ReadDir(s.fs, src)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", src, err)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		switch {
		case entry.Mode()&os.ModeSymlink != 0:
			if err := s.copySymlink(srcPath, dstPath, true); err != nil {
				return err
			}
		case entry.IsDir():
			if err := s.copyDir(srcPath, dstPath, entry); err != nil {
				return err
			}
		case entry.Mode().IsRegular():
			if err := s.copyFile(srcPath, dstPath, entry, os.O_TRUNC); err != nil {
				return err
			}
		default:
			return fmt.Errorf("copying %s: unsupported file type %s", srcPath, entry.Mode().Type())
		}
	}
	return nil
}

// copyFile copies a single file and carries over its mode and mtime.
// mode is os.O_TRUNC to overwrite dst or os.O_EXCL to require it be new.
func (s *Storage) copyFile(src, dst string, srcInfo os.FileInfo, mode int) error {
	if err := s.fs.MkdirAll(filepath.Dir(dst), DirPerm); err != nil {
		return fmt.Errorf("creating parent directory of %s: %w", dst, err)
	}

	in, err := s.fs.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := s.fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|mode, srcInfo.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", dst, err)
	}

	if err := s.fs.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
		return fmt.Errorf("setting times on %s: %w", dst, err)
	}
	return nil
}

// copySymlink recreates the link at src as dst with the same target. With
// replace an existing non-directory dst is removed first; without it an
// existing dst fails with an error wrapping fs.ErrExist.
func (s *Storage) copySymlink(src, dst string, replace bool) error {
	reader, ok := s.fs.(afero.LinkReader)
	linker, ok2 := s.fs.(afero.Linker)
	if !ok || !ok2 {
		return fmt.Errorf("copying symlink %s: file system does not support symlinks", src)
	}
	target, err := reader.ReadlinkIfPossible(src)
	if err != nil {
		return fmt.Errorf("reading symlink %s: %w", src, err)
	}
	if err := s.fs.MkdirAll(filepath.Dir(dst), DirPerm); err != nil {
		return fmt.Errorf("creating parent directory of %s: %w", dst, err)
	}
	if fi, err := s.lstat(dst); err == nil && replace {
		if fi.IsDir() {
			return fmt.Errorf("copying symlink %s: %s is a directory", src, dst)
		}
		if err := s.fs.Remove(dst); err != nil {
			return fmt.Errorf("replacing %s: %w", dst, err)
		}
	}
	if err := linker.SymlinkIfPossible(target, dst); err != nil {
		return fmt.Errorf("creating symlink %s: %w", dst, err)
	}
	return nil
}

// lstat stats p without following a final symlink when the backing file
// system can tell the difference.
func (s *Storage) lstat(p string) (os.FileInfo, error) {
	if l, ok := s.fs.(afero.Lstater); ok {
		fi, _, err := l.LstatIfPossible(p)
		return fi, err
	}
	return s.fs.Stat(p)
}

// isWithin reports whether p lies strictly below dir.
func isWithin(p, dir string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(p))
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
