package gallery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryLister(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "photos", "engagement")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	for _, name := range []string{"b.JPG", "a.png", "readme.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	l := DirectoryLister{Root: root}
	got, err := l.List("photos/engagement")
	require.NoError(t, err)
	assert.Equal(t, []string{"/photos/engagement/a.png", "/photos/engagement/b.JPG"}, got)

	got, err = l.List("/photos/engagement/")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestDirectoryLister_Rejects(t *testing.T) {
	l := DirectoryLister{Root: t.TempDir()}

	for _, dir := range []string{"", "/", "../etc", "photos/../../etc"} {
		_, err := l.List(dir)
		assert.ErrorIs(t, err, ErrInvalidDirectory, dir)
	}
	_, err := l.List("missing")
	assert.ErrorIs(t, err, ErrDirectoryNotFound)
}
