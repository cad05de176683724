package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmduc/minirel/internal/pagefile"
)

func TestInitializePageSingleFreeSlot(t *testing.T) {
	buf := make([]byte, pagefile.PageSize)
	p := InitializePage(buf)

	require.Equal(t, 1, p.Count())
	s := p.GetSlot(0)
	assert.Equal(t, SlotFree, s.Flag)
	assert.Equal(t, uint32(dirStart+slotEntrySize), s.Offset)
	assert.Equal(t, uint32(usablePageSize), s.Size)
}

func TestPutGetSlotRoundTrip(t *testing.T) {
	buf := make([]byte, pagefile.PageSize)
	p := InitializePage(buf)

	p.PutSlot(0, Slot{Flag: SlotLive, Offset: 4000, Size: 50})
	got := p.GetSlot(0)
	assert.Equal(t, Slot{Flag: SlotLive, Offset: 4000, Size: 50}, got)
}

func TestAppendSlotIncrementsCount(t *testing.T) {
	buf := make([]byte, pagefile.PageSize)
	p := InitializePage(buf)

	idx := p.AppendSlot(Slot{Flag: SlotFree, Offset: 100, Size: 10})
	assert.Equal(t, 1, idx)
	assert.Equal(t, 2, p.Count())
	assert.Equal(t, Slot{Flag: SlotFree, Offset: 100, Size: 10}, p.GetSlot(1))
}

func TestRegionReturnsExactByteRange(t *testing.T) {
	buf := make([]byte, pagefile.PageSize)
	p := NewPage(buf)
	copy(buf[100:105], []byte("hello"))

	region := p.Region(Slot{Offset: 100, Size: 5})
	assert.Equal(t, "hello", string(region))
}
