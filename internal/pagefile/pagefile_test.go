package pagefile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOpenCloseDelete(t *testing.T) {
	name := filepath.Join(t.TempDir(), "t.dat")

	require.NoError(t, Create(name))

	n, err := NumPages(name)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	h, err := Open(name)
	require.NoError(t, err)
	require.NoError(t, h.Close())

	require.NoError(t, Delete(name))

	_, err = Open(name)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenMissingFails(t *testing.T) {
	name := filepath.Join(t.TempDir(), "missing.dat")
	_, err := Open(name)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWriteReadPageRoundTrip(t *testing.T) {
	name := filepath.Join(t.TempDir(), "t.dat")
	require.NoError(t, Create(name))

	h, err := Open(name)
	require.NoError(t, err)
	defer h.Close()

	page := make([]byte, PageSize)
	for i := range page {
		page[i] = byte(i % 256)
	}
	require.NoError(t, h.WritePage(0, page))

	out := make([]byte, PageSize)
	require.NoError(t, h.ReadPage(0, out))
	assert.Equal(t, page, out)
}

func TestWritePastEOFExtendsFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "t.dat")
	require.NoError(t, Create(name))

	h, err := Open(name)
	require.NoError(t, err)
	defer h.Close()

	page := make([]byte, PageSize)
	page[0] = 7
	require.NoError(t, h.WritePage(3, page))

	n, err := NumPages(name)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestNumPagesMissingFile(t *testing.T) {
	_, err := NumPages(filepath.Join(t.TempDir(), "nope.dat"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWritePageWrongSize(t *testing.T) {
	name := filepath.Join(t.TempDir(), "t.dat")
	require.NoError(t, Create(name))
	h, err := Open(name)
	require.NoError(t, err)
	defer h.Close()

	err = h.WritePage(0, make([]byte, 10))
	assert.Error(t, err)
}
