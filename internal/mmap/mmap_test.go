package mmap

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snap.bin")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestOpenRead(t *testing.T) {
	content := []byte("RSNP-header-and-payload")
	m, err := Open(writeTemp(t, content))
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, len(content), m.Size())
	assert.Equal(t, content, m.Bytes())

	buf := make([]byte, 4)
	n, err := m.ReadAt(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "RSNP", string(buf))

	n, err = m.ReadAt(make([]byte, 10), 100)
	assert.Zero(t, n)
	assert.Equal(t, io.EOF, err)

	tail := make([]byte, 10)
	n, err = m.ReadAt(tail, int64(len(content)-7))
	assert.Equal(t, 7, n)
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, "payload", string(tail[:n]))

	_, err = m.ReadAt(buf, -1)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestCopy(t *testing.T) {
	m, err := Open(writeTemp(t, []byte("0123456789")))
	require.NoError(t, err)

	got, err := m.Copy(2, 5)
	require.NoError(t, err)
	assert.Equal(t, "23456", string(got))

	for _, r := range [][2]int{{-1, 1}, {8, 3}, {0, -1}, {11, 0}} {
		_, err = m.Copy(r[0], r[1])
		assert.ErrorIs(t, err, ErrOutOfBounds, "off %d n %d", r[0], r[1])
	}

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	// The copy outlives the mapping.
	assert.Equal(t, "23456", string(got))
	assert.Nil(t, m.Bytes())
	assert.Zero(t, m.Size())
	_, err = m.Copy(0, 1)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = m.ReadAt(make([]byte, 1), 0)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestEmptyFile(t *testing.T) {
	m, err := Open(writeTemp(t, nil))
	require.NoError(t, err)
	defer m.Close()

	assert.Zero(t, m.Size())
	got, err := m.Copy(0, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
