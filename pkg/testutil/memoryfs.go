package testutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/arthur-debert/rodeo/pkg/types"
)

// Op names used for error injection
const (
	OpStat     = "stat"
	OpLstat    = "lstat"
	OpReadlink = "readlink"
	OpMkdir    = "mkdir"
	OpSymlink  = "symlink"
	OpRename   = "rename"
	OpRemove   = "remove"
)

// maxLinkHops bounds symlink resolution in Stat
const maxLinkHops = 40

// MemoryFS implements types.FS with in-memory storage.
// Only the final path component is resolved through symlinks; intermediate
// components must be real directories.
type MemoryFS struct {
	mu    sync.RWMutex
	files map[string]*fileNode

	// Error injection, keyed by op then path
	errorPaths map[string]map[string]error

	writeCount int
}

var _ types.FS = (*MemoryFS)(nil)

// fileNode represents a file, directory or symlink in memory
type fileNode struct {
	name     string
	mode     os.FileMode
	modTime  time.Time
	content  []byte
	isDir    bool
	isLink   bool
	linkDest string
}

// NewMemoryFS creates a new in-memory filesystem containing only "/"
func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		files: map[string]*fileNode{
			"/": {name: "/", mode: 0755 | os.ModeDir, modTime: time.Now(), isDir: true},
		},
		errorPaths: make(map[string]map[string]error),
	}
}

func normalizePath(path string) string {
	if !filepath.IsAbs(path) {
		path = "/" + path
	}
	return filepath.Clean(path)
}

func (m *MemoryFS) injected(op, path string) error {
	if byPath, ok := m.errorPaths[op]; ok {
		if err, ok := byPath[path]; ok {
			return err
		}
	}
	return nil
}

// lookup returns the node at path, walking parents so that a regular file
// in the middle of the path yields ENOTDIR like the OS does
func (m *MemoryFS) lookup(op, path string) (*fileNode, error) {
	if node, ok := m.files[path]; ok {
		return node, nil
	}
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		if node, ok := m.files[dir]; ok {
			if !node.isDir {
				return nil, &fs.PathError{Op: op, Path: path, Err: errNotDir}
			}
			break
		}
		if dir == "/" {
			break
		}
	}
	return nil, &fs.PathError{Op: op, Path: path, Err: fs.ErrNotExist}
}

var (
	errNotDir   = errors.New("not a directory")
	errNotEmpty = errors.New("directory not empty")
)

// parentDir returns the parent node of path, requiring it to be a directory
func (m *MemoryFS) parentDir(op, path string) error {
	parent, err := m.lookup(op, filepath.Dir(path))
	if err != nil {
		return &fs.PathError{Op: op, Path: path, Err: fs.ErrNotExist}
	}
	if !parent.isDir {
		return &fs.PathError{Op: op, Path: path, Err: errNotDir}
	}
	return nil
}

// WriteFile creates a regular file, creating parents as needed.
// It seeds test fixtures and is not counted as a write.
func (m *MemoryFS) WriteFile(name string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := normalizePath(name)
	before := m.writeCount
	defer func() { m.writeCount = before }()
	if err := m.mkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	content := make([]byte, len(data))
	copy(content, data)
	m.files[path] = &fileNode{name: filepath.Base(path), mode: perm, modTime: time.Now(), content: content}
	return nil
}

// Stat returns file info, following a final symlink
func (m *MemoryFS) Stat(name string) (os.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	path := normalizePath(name)
	if err := m.injected(OpStat, path); err != nil {
		return nil, err
	}

	for hops := 0; hops < maxLinkHops; hops++ {
		node, err := m.lookup("stat", path)
		if err != nil {
			return nil, err
		}
		if !node.isLink {
			return &fileInfo{node: node, name: filepath.Base(name)}, nil
		}
		dest := node.linkDest
		if !filepath.IsAbs(dest) {
			dest = filepath.Join(filepath.Dir(path), dest)
		}
		path = filepath.Clean(dest)
	}
	return nil, &fs.PathError{Op: "stat", Path: name, Err: errors.New("too many levels of symbolic links")}
}

// Lstat returns file info without following symlinks
func (m *MemoryFS) Lstat(name string) (os.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	path := normalizePath(name)
	if err := m.injected(OpLstat, path); err != nil {
		return nil, err
	}
	node, err := m.lookup("lstat", path)
	if err != nil {
		return nil, err
	}
	return &fileInfo{node: node, name: filepath.Base(name)}, nil
}

// Readlink returns the destination of a symbolic link
func (m *MemoryFS) Readlink(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	path := normalizePath(name)
	if err := m.injected(OpReadlink, path); err != nil {
		return "", err
	}
	node, err := m.lookup("readlink", path)
	if err != nil {
		return "", err
	}
	if !node.isLink {
		return "", &fs.PathError{Op: "readlink", Path: name, Err: fs.ErrInvalid}
	}
	return node.linkDest, nil
}

// MkdirAll creates a directory and all necessary parents
func (m *MemoryFS) MkdirAll(path string, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mkdirAll(normalizePath(path), perm)
}

func (m *MemoryFS) mkdirAll(path string, perm os.FileMode) error {
	// Collect missing components from the top down
	var missing []string
	for dir := path; ; dir = filepath.Dir(dir) {
		if node, ok := m.files[dir]; ok {
			if !node.isDir {
				return &fs.PathError{Op: "mkdir", Path: dir, Err: errNotDir}
			}
			break
		}
		missing = append(missing, dir)
		if dir == "/" {
			break
		}
	}

	for i := len(missing) - 1; i >= 0; i-- {
		dir := missing[i]
		if err := m.injected(OpMkdir, dir); err != nil {
			return err
		}
		m.files[dir] = &fileNode{name: filepath.Base(dir), mode: perm | os.ModeDir, modTime: time.Now(), isDir: true}
		m.writeCount++
	}
	return nil
}

// Symlink creates newname pointing at oldname
func (m *MemoryFS) Symlink(oldname, newname string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := normalizePath(newname)
	if err := m.injected(OpSymlink, path); err != nil {
		return err
	}
	if _, exists := m.files[path]; exists {
		return &os.LinkError{Op: "symlink", Old: oldname, New: newname, Err: fs.ErrExist}
	}
	if err := m.parentDir("symlink", path); err != nil {
		return err
	}

	m.files[path] = &fileNode{
		name:     filepath.Base(path),
		mode:     0777 | os.ModeSymlink,
		modTime:  time.Now(),
		isLink:   true,
		linkDest: oldname,
	}
	m.writeCount++
	return nil
}

// Rename moves oldpath to newpath, replacing newpath unless it is a
// non-empty directory
func (m *MemoryFS) Rename(oldpath, newpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	from := normalizePath(oldpath)
	to := normalizePath(newpath)
	if err := m.injected(OpRename, to); err != nil {
		return err
	}

	node, ok := m.files[from]
	if !ok {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: fs.ErrNotExist}
	}
	if err := m.parentDir("rename", to); err != nil {
		return err
	}
	if existing, ok := m.files[to]; ok && existing.isDir {
		if !node.isDir {
			return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: errors.New("is a directory")}
		}
		if len(m.children(to)) > 0 {
			return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: errNotEmpty}
		}
	}

	// Move descendants of a directory along with it
	for _, child := range m.children(from) {
		m.files[to+strings.TrimPrefix(child, from)] = m.files[child]
		delete(m.files, child)
	}
	delete(m.files, from)
	node.name = filepath.Base(to)
	m.files[to] = node
	m.writeCount++
	return nil
}

// Remove removes a file, symlink or empty directory
func (m *MemoryFS) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := normalizePath(name)
	if err := m.injected(OpRemove, path); err != nil {
		return err
	}
	node, err := m.lookup("remove", path)
	if err != nil {
		return err
	}
	if node.isDir && len(m.children(path)) > 0 {
		return &fs.PathError{Op: "remove", Path: name, Err: errNotEmpty}
	}
	delete(m.files, path)
	m.writeCount++
	return nil
}

// children returns every descendant path of dir, sorted
func (m *MemoryFS) children(dir string) []string {
	prefix := dir + "/"
	if dir == "/" {
		prefix = "/"
	}
	var out []string
	for p := range m.files {
		if p != dir && strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// Entries lists every path in the filesystem except "/", sorted
func (m *MemoryFS) Entries() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.children("/")
}

// WithError configures the filesystem to return err for op on path
func (m *MemoryFS) WithError(op, path string, err error) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()

	byPath, ok := m.errorPaths[op]
	if !ok {
		byPath = make(map[string]error)
		m.errorPaths[op] = byPath
	}
	byPath[normalizePath(path)] = err
	return m
}

// Writes returns the number of mutations performed since creation,
// excluding fixture seeding through WriteFile
func (m *MemoryFS) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writeCount
}

// ResetWrites zeroes the write counter
func (m *MemoryFS) ResetWrites() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeCount = 0
}

// fileInfo implements os.FileInfo
type fileInfo struct {
	node *fileNode
	name string
}

func (fi *fileInfo) Name() string       { return fi.name }
func (fi *fileInfo) Size() int64        { return int64(len(fi.node.content)) }
func (fi *fileInfo) Mode() os.FileMode  { return fi.node.mode }
func (fi *fileInfo) ModTime() time.Time { return fi.node.modTime }
func (fi *fileInfo) IsDir() bool        { return fi.node.isDir }
func (fi *fileInfo) Sys() interface{}   { return nil }
