package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// CreateFile creates a file with the given content in the specified directory.
// Parent directories are created as needed.
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755), "create parents of %s", path)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "create file %s", path)
	return path
}

// CreateDir creates a directory in the specified parent directory.
func CreateDir(t *testing.T, parent, name string) string {
	t.Helper()

	path := filepath.Join(parent, name)
	require.NoError(t, os.MkdirAll(path, 0755), "create directory %s", path)
	return path
}

// CreateSymlink creates link pointing at dest, creating link's parents
func CreateSymlink(t *testing.T, dest, link string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(link), 0755), "create parents of %s", link)
	require.NoError(t, os.Symlink(dest, link), "create symlink %s", link)
}

// AssertSymlinkTo checks that link is a symlink whose destination is dest
func AssertSymlinkTo(t *testing.T, link, dest string) {
	t.Helper()

	info, err := os.Lstat(link)
	if !assert.NoError(t, err, "lstat %s", link) {
		return
	}
	if !assert.NotZero(t, info.Mode()&os.ModeSymlink, "%s should be a symlink", link) {
		return
	}
	got, err := os.Readlink(link)
	assert.NoError(t, err)
	assert.Equal(t, dest, got, "destination of %s", link)
}

// AssertRegularFile checks that path is a regular file with the given content
func AssertRegularFile(t *testing.T, path, content string) {
	t.Helper()

	info, err := os.Lstat(path)
	if !assert.NoError(t, err, "lstat %s", path) {
		return
	}
	assert.True(t, info.Mode().IsRegular(), "%s should be a regular file", path)
	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, content, string(data))
}

// AssertNotExist checks that nothing exists at path
func AssertNotExist(t *testing.T, path string) {
	t.Helper()

	_, err := os.Lstat(path)
	assert.True(t, os.IsNotExist(err), "%s should not exist (err=%v)", path, err)
}
