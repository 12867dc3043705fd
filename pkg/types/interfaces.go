package types

import (
	"io/fs"
)

// FS defines the filesystem operations the planner and executor need.
// Nothing in rodeo reads or writes file contents; it only inspects and
// creates directory entries.
type FS interface {
	// Inspection
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	Readlink(name string) (string, error)

	// Mutation
	MkdirAll(path string, perm fs.FileMode) error
	Symlink(oldname, newname string) error
	Rename(oldpath, newpath string) error
	Remove(name string) error
}
