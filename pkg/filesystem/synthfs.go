package filesystem

import (
	"io/fs"
	"os"

	"github.com/arthur-debert/rodeo/pkg/types"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	sfs "github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
)

type lstater interface {
	Lstat(name string) (fs.FileInfo, error)
}

type renamer interface {
	Rename(oldpath, newpath string) error
}

// synthFS implements types.FS on top of a synthfs filesystem rooted at "/"
// and addressed with absolute paths.
//
// Lstat and Rename go through synthfs when the backend provides them and
// fall back to the os package otherwise, which is equivalent for a root
// of "/".
type synthFS struct {
	fs sfs.FullFileSystem
}

// NewSynthfs creates the OS-backed synthfs filesystem used by core.Run
func NewSynthfs() types.FS {
	osfs := sfs.NewOSFileSystem("/")
	return &synthFS{fs: synthfs.NewPathAwareFileSystem(osfs, "/").WithAbsolutePaths()}
}

func (s *synthFS) Stat(name string) (fs.FileInfo, error) {
	return s.fs.Stat(name)
}

func (s *synthFS) Lstat(name string) (fs.FileInfo, error) {
	if l, ok := s.fs.(lstater); ok {
		return l.Lstat(name)
	}
	return os.Lstat(name)
}

func (s *synthFS) Readlink(name string) (string, error) {
	return s.fs.Readlink(name)
}

func (s *synthFS) MkdirAll(path string, perm fs.FileMode) error {
	return s.fs.MkdirAll(path, perm)
}

func (s *synthFS) Symlink(oldname, newname string) error {
	return s.fs.Symlink(oldname, newname)
}

func (s *synthFS) Rename(oldpath, newpath string) error {
	if r, ok := s.fs.(renamer); ok {
		return r.Rename(oldpath, newpath)
	}
	return os.Rename(oldpath, newpath)
}

func (s *synthFS) Remove(name string) error {
	return s.fs.Remove(name)
}
