package cachedir

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHome points os.UserCacheDir at a temp tree and returns BuiltinDir.
func fakeHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("LocalAppData", home)
	t.Setenv(EnvDir, "")
	dir, err := BuiltinDir()
	require.NoError(t, err)
	return dir
}

func setupDefault(t *testing.T) string {
	t.Helper()
	dir := fakeHome(t)
	require.NoError(t, Ensure(dir))
	return dir
}

func write(t *testing.T, dir, name string, size int) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), make([]byte, size), 0o600))
}

func TestDefaultDir(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		t.Setenv(EnvDir, "/tmp/somewhere")
		d, err := DefaultDir()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/somewhere", d)
	})
	t.Run("user cache dir", func(t *testing.T) {
		t.Setenv(EnvDir, "")
		base, err := os.UserCacheDir()
		if err != nil {
			t.Skipf("no user cache dir: %v", err)
		}
		d, err := DefaultDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "callcache"), d)
	})
}

func TestFile(t *testing.T) {
	assert.Equal(t, filepath.Join("cache", "kegg.sqlite3"), File("cache", "kegg"))
}

func TestClearRemovesKnownKinds(t *testing.T) {
	dir := setupDefault(t)
	write(t, dir, "genes.sqlite3", 100)
	write(t, dir, "ko00001.keg", 10)
	write(t, dir, "hsa00010.xml", 5)
	write(t, dir, "map.png", 1)
	write(t, dir, "notes.txt", 7)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.xml"), 0o755))

	rep, err := Clear(dir)
	require.NoError(t, err)
	assert.Equal(t, 4, rep.Files)
	assert.Equal(t, int64(116), rep.Bytes)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var left []string
	for _, e := range entries {
		left = append(left, e.Name())
	}
	sort.Strings(left)
	assert.Equal(t, []string{"notes.txt", "sub.xml"}, left)
}

func TestClearRefusesOtherPath(t *testing.T) {
	setupDefault(t)
	other := t.TempDir()
	write(t, other, "keep.sqlite3", 3)

	_, err := Clear(other)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsafePath)

	var upe *UnsafePathError
	require.ErrorAs(t, err, &upe)
	assert.Equal(t, other, upe.Path)
	assert.FileExists(t, filepath.Join(other, "keep.sqlite3"))
}

func TestClearFollowsSymlinks(t *testing.T) {
	dir := setupDefault(t)
	write(t, dir, "a.sqlite3", 2)

	link := filepath.Join(t.TempDir(), "link")
	if err := os.Symlink(dir, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	rep, err := Clear(link)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Files)
}

func TestClearIgnoresDirOverride(t *testing.T) {
	setupDefault(t)
	other := t.TempDir()
	write(t, other, "figure.png", 3)
	write(t, other, "report.xml", 3)
	t.Setenv(EnvDir, other)

	d, err := DefaultDir()
	require.NoError(t, err)
	require.Equal(t, other, d)

	_, err = Clear(other)
	assert.ErrorIs(t, err, ErrUnsafePath)
	assert.FileExists(t, filepath.Join(other, "figure.png"))
	assert.FileExists(t, filepath.Join(other, "report.xml"))
}

func TestClearMissingDefaultDir(t *testing.T) {
	dir := fakeHome(t)
	rep, err := Clear(dir)
	require.NoError(t, err)
	assert.Zero(t, rep.Files)
}
