// Package heap implements slotted data pages and the table-level
// insert/select/delete operations built on top of the buffer pool.
package heap

import (
	"encoding/binary"
	"errors"

	"github.com/nmduc/minirel/internal/pagefile"
)

var byteOrder = binary.LittleEndian

const (
	// dirStart is the byte offset where the slot directory begins, right
	// after the 4-byte slot count header.
	dirStart = 4
	// slotEntrySize is 1 flag byte + 4-byte offset + 4-byte size.
	slotEntrySize = 9
	// usablePageSize is the largest a record may be and still fit an
	// otherwise-empty page (PageSize minus the header and the one
	// initial slot entry).
	usablePageSize = pagefile.PageSize - dirStart - slotEntrySize
)

// SlotFlag marks whether a directory entry describes a live or free region.
type SlotFlag byte

const (
	SlotFree SlotFlag = 0
	SlotLive SlotFlag = 1
)

// Slot is one slot-directory entry: its liveness, byte offset, and size.
type Slot struct {
	Flag   SlotFlag
	Offset uint32
	Size   uint32
}

// ErrOutOfSpace is returned when a record is too large to fit in an
// otherwise-empty page.
var ErrOutOfSpace = errors.New("heap: record too large for an empty page")

// Page is a slotted page: a 4-byte slot count, then that many 9-byte slot
// entries growing from the low end, with record bytes packed from the
// high end of the page toward the slot directory.
type Page struct {
	buf []byte
}

// NewPage wraps an existing PageSize-byte buffer without modifying it.
func NewPage(buf []byte) *Page { return &Page{buf: buf} }

// InitializePage zeroes buf and lays out a fresh page: slot count 1, slot 0
// a single free entry spanning the whole usable region.
func InitializePage(buf []byte) *Page {
	for i := range buf {
		buf[i] = 0
	}
	p := &Page{buf: buf}
	p.setCount(1)
	p.PutSlot(0, Slot{Flag: SlotFree, Offset: dirStart + slotEntrySize, Size: uint32(usablePageSize)})
	return p
}

// Count returns K, the number of directory entries (live + free).
func (p *Page) Count() int {
	return int(int32(byteOrder.Uint32(p.buf[0:4])))
}

func (p *Page) setCount(k int) {
	byteOrder.PutUint32(p.buf[0:4], uint32(int32(k)))
}

func (p *Page) slotOffset(i int) int { return dirStart + i*slotEntrySize }

// GetSlot decodes the i'th directory entry.
func (p *Page) GetSlot(i int) Slot {
	o := p.slotOffset(i)
	return Slot{
		Flag:   SlotFlag(p.buf[o]),
		Offset: byteOrder.Uint32(p.buf[o+1 : o+5]),
		Size:   byteOrder.Uint32(p.buf[o+5 : o+9]),
	}
}

// PutSlot overwrites the i'th directory entry. i must be < Count(); use
// AppendSlot to add a new entry.
func (p *Page) PutSlot(i int, s Slot) {
	o := p.slotOffset(i)
	p.buf[o] = byte(s.Flag)
	byteOrder.PutUint32(p.buf[o+1:o+5], s.Offset)
	byteOrder.PutUint32(p.buf[o+5:o+9], s.Size)
}

// AppendSlot adds a new directory entry at index Count(), increments the
// slot count, and returns the new entry's index.
func (p *Page) AppendSlot(s Slot) int {
	i := p.Count()
	p.setCount(i + 1)
	p.PutSlot(i, s)
	return i
}

// Region returns the byte range described by s.
func (p *Page) Region(s Slot) []byte {
	return p.buf[s.Offset : s.Offset+s.Size]
}

// Bytes returns the underlying page buffer.
func (p *Page) Bytes() []byte { return p.buf }
