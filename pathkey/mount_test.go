package pathkey

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMount_LongestPrefixWins(t *testing.T) {
	m := NewMount("/mnt", "/mnt/fast")

	key, err := m.ResolveKey("/mnt/fast/videos/a.mkv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean("/mnt/fast"), key)

	key, err = m.ResolveKey("/mnt/slow/b.mkv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean("/mnt"), key)
}

func TestMount_ExactMountPath(t *testing.T) {
	m := NewMount("/mnt/media")

	key, err := m.ResolveKey("/mnt/media")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean("/mnt/media"), key)
}

func TestMount_NoFalseBoundaryMatch(t *testing.T) {
	m := NewMount("/mnt/fast")

	// /mnt/fastdata is a sibling directory, not inside /mnt/fast.
	key, err := m.ResolveKey("/mnt/fastdata/c.bin")
	require.NoError(t, err)
	assert.NotEqual(t, filepath.Clean("/mnt/fast"), key)
}

func TestMount_OutsideAllMountsFallsBackToRoot(t *testing.T) {
	m := NewMount("/mnt/media")

	key, err := m.ResolveKey("/var/tmp/x")
	require.NoError(t, err)
	assert.Equal(t, string(filepath.Separator), key)
}

func TestMount_CleansInputs(t *testing.T) {
	m := NewMount("/mnt/media/")

	key, err := m.ResolveKey("/mnt/media/../media/show/./ep1.mkv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean("/mnt/media"), key)
}
