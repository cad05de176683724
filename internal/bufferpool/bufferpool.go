// Package bufferpool caches recently touched pages in a fixed number of
// frames with LRU replacement and write-back of dirty victims. It sits
// between the page file (C1) and the record manager (C3).
package bufferpool

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/nmduc/minirel/internal/pagefile"
)

// ErrExhausted is returned when no victim frame could be evicted, i.e.
// every entry is bound and the write-back of the dirty LRU tail failed.
var ErrExhausted = errors.New("bufferpool: exhausted, no victim could be evicted")

const sentinel = -1

// entry is one frame of the buffer pool: a bound (handle, page number) pair,
// its cached payload, a dirty flag, and the LRU list linkage.
type entry struct {
	bound   bool
	handle  *pagefile.File
	pageNum int
	payload [pagefile.PageSize]byte
	dirty   bool
	prev    int
	next    int
}

// Pool is a fixed-size cache of pages, shared by every file handle passed
// to it. Exactly Size() entries
// exist for the lifetime of the Pool (invariant I8); head is the
// most-recently-used entry, tail is the least-recently-used entry.
type Pool struct {
	entries []entry
	head    int
	tail    int
}

// New constructs a buffer pool with numBuffer frames, all initially empty
// and linked into a single list (head == 0, tail == numBuffer-1 initially).
func New(numBuffer int) *Pool {
	if numBuffer <= 0 {
		numBuffer = 4
	}
	p := &Pool{entries: make([]entry, numBuffer)}
	for i := range p.entries {
		p.entries[i].prev = i - 1
		p.entries[i].next = i + 1
	}
	p.entries[numBuffer-1].next = sentinel
	p.head = 0
	p.tail = numBuffer - 1
	return p
}

// Size reports the fixed number of frames (NumBuffer).
func (p *Pool) Size() int { return len(p.entries) }

func (p *Pool) unlink(idx int) {
	e := &p.entries[idx]
	if e.prev != sentinel {
		p.entries[e.prev].next = e.next
	} else {
		p.head = e.next
	}
	if e.next != sentinel {
		p.entries[e.next].prev = e.prev
	} else {
		p.tail = e.prev
	}
}

func (p *Pool) pushFront(idx int) {
	e := &p.entries[idx]
	e.prev = sentinel
	e.next = p.head
	if p.head != sentinel {
		p.entries[p.head].prev = idx
	}
	p.head = idx
	if p.tail == sentinel {
		p.tail = idx
	}
}

func (p *Pool) moveToHead(idx int) {
	if p.head == idx {
		return
	}
	p.unlink(idx)
	p.pushFront(idx)
}

func (p *Pool) find(h *pagefile.File, n int) int {
	for i := range p.entries {
		e := &p.entries[i]
		if e.bound && e.handle == h && e.pageNum == n {
			return i
		}
	}
	return -1
}

// victim finds a free entry first (scanning head to tail), or falls back to
// the tail (true LRU victim). If the chosen entry is dirty its payload is
// written back to disk before it is reused.
func (p *Pool) victim() (int, error) {
	idx := p.head
	for idx != sentinel {
		if !p.entries[idx].bound {
			return idx, nil
		}
		idx = p.entries[idx].next
	}

	idx = p.tail
	e := &p.entries[idx]
	if e.dirty {
		if err := e.handle.WritePage(e.pageNum, e.payload[:]); err != nil {
			slog.Warn("bufferpool: victim write-back failed", "page", e.pageNum, "err", err)
			return -1, fmt.Errorf("bufferpool: %w: %v", ErrExhausted, err)
		}
		slog.Debug("bufferpool: evicting dirty victim", "page", e.pageNum)
	} else {
		slog.Debug("bufferpool: evicting clean victim", "page", e.pageNum)
	}
	e.bound = false
	e.dirty = false
	e.handle = nil
	return idx, nil
}

// Read returns the current contents of page n of h, populating out.
func (p *Pool) Read(h *pagefile.File, n int, out []byte) error {
	if len(out) != pagefile.PageSize {
		return fmt.Errorf("bufferpool: read: out must be %d bytes", pagefile.PageSize)
	}

	if idx := p.find(h, n); idx != -1 {
		copy(out, p.entries[idx].payload[:])
		p.moveToHead(idx)
		return nil
	}

	idx, err := p.victim()
	if err != nil {
		return err
	}

	e := &p.entries[idx]
	if err := h.ReadPage(n, e.payload[:]); err != nil {
		e.bound = false
		return fmt.Errorf("bufferpool: read page %d: %w", n, err)
	}
	e.bound = true
	e.handle = h
	e.pageNum = n
	e.dirty = false
	p.moveToHead(idx)
	copy(out, e.payload[:])
	return nil
}

// Write overwrites page n of h with in. The write is a full-page overwrite;
// on a miss the prior on-disk contents are never read.
func (p *Pool) Write(h *pagefile.File, n int, in []byte) error {
	if len(in) != pagefile.PageSize {
		return fmt.Errorf("bufferpool: write: in must be %d bytes", pagefile.PageSize)
	}

	if idx := p.find(h, n); idx != -1 {
		e := &p.entries[idx]
		copy(e.payload[:], in)
		e.dirty = true
		p.moveToHead(idx)
		return nil
	}

	idx, err := p.victim()
	if err != nil {
		return err
	}

	e := &p.entries[idx]
	copy(e.payload[:], in)
	e.bound = true
	e.handle = h
	e.pageNum = n
	e.dirty = true
	p.moveToHead(idx)
	return nil
}

// FlushHandle writes back every dirty entry bound to h, then unbinds every
// entry bound to h. Called by Close on the owning page file.
func (p *Pool) FlushHandle(h *pagefile.File) error {
	for i := range p.entries {
		e := &p.entries[i]
		if !e.bound || e.handle != h {
			continue
		}
		if e.dirty {
			if err := h.WritePage(e.pageNum, e.payload[:]); err != nil {
				return fmt.Errorf("bufferpool: flush page %d: %w", e.pageNum, err)
			}
		}
		e.bound = false
		e.dirty = false
		e.handle = nil
	}
	return nil
}
