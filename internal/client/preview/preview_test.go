package preview

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestAcquire_CreatesLiveCopy(t *testing.T) {
	src := writeFile(t, t.TempDir(), "a.jpg", "jpegdata")
	m, err := NewManager(filepath.Join(t.TempDir(), "previews"))
	require.NoError(t, err)

	h, err := m.Acquire(src)
	require.NoError(t, err)
	require.True(t, h.Live())
	require.Equal(t, ".jpg", filepath.Ext(h.Path()))

	data, err := os.ReadFile(h.Path())
	require.NoError(t, err)
	require.Equal(t, "jpegdata", string(data))
}

func TestRevoke_RemovesCopy_AndIsIdempotent(t *testing.T) {
	src := writeFile(t, t.TempDir(), "a.png", "pngdata")
	m, err := NewManager(filepath.Join(t.TempDir(), "previews"))
	require.NoError(t, err)

	h, err := m.Acquire(src)
	require.NoError(t, err)
	path := h.Path()

	require.NoError(t, h.Revoke())
	require.False(t, h.Live())
	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))

	require.NoError(t, h.Revoke())
}

func TestAcquire_MissingSource(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "previews"))
	require.NoError(t, err)

	_, err = m.Acquire(filepath.Join(t.TempDir(), "nope.jpg"))
	require.Error(t, err)
}

func TestHandles_AreIndependent(t *testing.T) {
	dir := t.TempDir()
	src1 := writeFile(t, dir, "a.jpg", "one")
	src2 := writeFile(t, dir, "b.jpg", "two")
	m, err := NewManager(filepath.Join(t.TempDir(), "previews"))
	require.NoError(t, err)

	h1, err := m.Acquire(src1)
	require.NoError(t, err)
	h2, err := m.Acquire(src2)
	require.NoError(t, err)
	require.NotEqual(t, h1.ID(), h2.ID())

	require.NoError(t, h1.Revoke())
	require.True(t, h2.Live())
	_, statErr := os.Stat(h2.Path())
	require.NoError(t, statErr)
}
