package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAferoOsFs(t *testing.T) {
	fsys := NewAfero(afero.NewOsFs())

	tmpDir := t.TempDir()
	source := filepath.Join(tmpDir, "source.txt")
	require.NoError(t, os.WriteFile(source, []byte("hello"), 0644))

	dir := filepath.Join(tmpDir, "a", "b")
	require.NoError(t, fsys.MkdirAll(dir, 0755))

	link := filepath.Join(dir, "link")
	require.NoError(t, fsys.Symlink(source, link))

	info, err := fsys.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)

	info, err = fsys.Stat(link)
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())

	dest, err := fsys.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, source, dest)

	renamed := filepath.Join(dir, "renamed")
	require.NoError(t, fsys.Rename(link, renamed))
	require.NoError(t, fsys.Remove(renamed))
	_, err = fsys.Lstat(renamed)
	assert.True(t, os.IsNotExist(err))
}

func TestAferoMemMapFsHasNoLinks(t *testing.T) {
	fsys := NewAfero(afero.NewMemMapFs())

	require.NoError(t, fsys.MkdirAll("/home/u", 0755))
	info, err := fsys.Lstat("/home/u")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	err = fsys.Symlink("/repo/x", "/home/u/x")
	assert.ErrorIs(t, err, afero.ErrNoSymlink)

	_, err = fsys.Readlink("/home/u/x")
	assert.ErrorIs(t, err, afero.ErrNoReadlink)
}
