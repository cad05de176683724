package bufferpool

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nmduc/minirel/internal/pagefile"
)

func openTestFile(t *testing.T) *pagefile.File {
	t.Helper()
	name := filepath.Join(t.TempDir(), "t.dat")
	require.NoError(t, pagefile.Create(name))
	h, err := pagefile.Open(name)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func pageOf(b byte) []byte {
	buf := make([]byte, pagefile.PageSize)
	buf[0] = b
	return buf
}

func TestReadWriteCoherence(t *testing.T) {
	h := openTestFile(t)
	p := New(4)

	require.NoError(t, p.Write(h, 0, pageOf(42)))

	out := make([]byte, pagefile.PageSize)
	require.NoError(t, p.Read(h, 0, out))
	require.Equal(t, byte(42), out[0])
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	h := openTestFile(t)
	p := New(4)

	for i := range 4 {
		require.NoError(t, p.Write(h, i, pageOf(byte(i))))
	}
	// touch pages 1..3 so page 0 becomes the LRU entry
	for i := 1; i < 4; i++ {
		out := make([]byte, pagefile.PageSize)
		require.NoError(t, p.Read(h, i, out))
	}

	// one more distinct page forces eviction of page 0
	require.NoError(t, p.Write(h, 4, pageOf(9)))

	require.Equal(t, -1, p.find(h, 0))
	require.NotEqual(t, -1, p.find(h, 4))

	// page 0's write-back must have landed on disk
	out := make([]byte, pagefile.PageSize)
	require.NoError(t, h.ReadPage(0, out))
	require.Equal(t, byte(0), out[0])
}

func TestFlushHandleWritesBackDirtyEntries(t *testing.T) {
	h := openTestFile(t)
	p := New(4)

	require.NoError(t, p.Write(h, 2, pageOf(77)))
	require.NoError(t, p.FlushHandle(h))

	out := make([]byte, pagefile.PageSize)
	require.NoError(t, h.ReadPage(2, out))
	require.Equal(t, byte(77), out[0])

	// after flush the entry is unbound
	require.Equal(t, -1, p.find(h, 2))
}

func TestCloseThenReopenSeesFlushedData(t *testing.T) {
	name := filepath.Join(t.TempDir(), "t2.dat")
	require.NoError(t, pagefile.Create(name))

	h, err := pagefile.Open(name)
	require.NoError(t, err)

	p := New(4)
	require.NoError(t, p.Write(h, 0, pageOf(5)))
	require.NoError(t, p.FlushHandle(h))
	require.NoError(t, h.Close())

	h2, err := pagefile.Open(name)
	require.NoError(t, err)
	defer h2.Close()

	out := make([]byte, pagefile.PageSize)
	require.NoError(t, h2.ReadPage(0, out))
	require.Equal(t, byte(5), out[0])
}

func TestPoolSizeIsFixed(t *testing.T) {
	p := New(4)
	require.Equal(t, 4, p.Size())

	h := openTestFile(t)
	for i := range 10 {
		require.NoError(t, p.Write(h, i, pageOf(byte(i))))
		require.Equal(t, 4, p.Size())
	}
}
