package filesystem

import (
	"io/fs"
	"sync/atomic"

	"github.com/arthur-debert/rodeo/pkg/types"
)

// CountingFS wraps another FS and counts mutating calls
type CountingFS struct {
	types.FS
	writes atomic.Int64
}

// NewCounting wraps fs so that every mutating call is counted
func NewCounting(inner types.FS) *CountingFS {
	return &CountingFS{FS: inner}
}

// Writes returns the number of mutating calls made so far
func (c *CountingFS) Writes() int {
	return int(c.writes.Load())
}

func (c *CountingFS) MkdirAll(path string, perm fs.FileMode) error {
	c.writes.Add(1)
	return c.FS.MkdirAll(path, perm)
}

func (c *CountingFS) Symlink(oldname, newname string) error {
	c.writes.Add(1)
	return c.FS.Symlink(oldname, newname)
}

func (c *CountingFS) Rename(oldpath, newpath string) error {
	c.writes.Add(1)
	return c.FS.Rename(oldpath, newpath)
}

func (c *CountingFS) Remove(name string) error {
	c.writes.Add(1)
	return c.FS.Remove(name)
}
