// Package pagefile implements the fixed-size paged file abstraction that
// everything else in minirel is built on: a byte file treated as a
// zero-indexed array of PageSize-byte pages.
package pagefile

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// PageSize is the fixed size of every page, in bytes.
const PageSize = 4096

// ErrNotFound is returned when an operation targets a file that does not exist.
var ErrNotFound = errors.New("pagefile: file not found")

// Create makes an empty file with user read/write permissions. It fails if
// the file exists and cannot be truncated.
func Create(name string) error {
	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("pagefile: create %s: %w", name, err)
	}
	return f.Close()
}

// Delete removes the named file.
func Delete(name string) error {
	if err := os.Remove(name); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("pagefile: delete %s: %w", name, ErrNotFound)
		}
		return fmt.Errorf("pagefile: delete %s: %w", name, err)
	}
	return nil
}

// File is an opaque handle to an open page file. Its identity (not its
// name) is what the buffer pool keys entries on: two independent Opens of
// the same path produce two distinct handles.
type File struct {
	f    *os.File
	name string
}

// Name reports the path the handle was opened with.
func (h *File) Name() string { return h.name }

// Open opens name for read/write. It fails with ErrNotFound when the file
// does not exist.
func Open(name string) (*File, error) {
	f, err := os.OpenFile(name, os.O_RDWR, 0o644)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("pagefile: open %s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("pagefile: open %s: %w", name, err)
	}
	return &File{f: f, name: name}, nil
}

// Close releases the underlying descriptor. Callers must ensure any buffer
// pool bound to this handle has already been flushed.
func (h *File) Close() error {
	if err := h.f.Close(); err != nil {
		return fmt.Errorf("pagefile: close %s: %w", h.name, err)
	}
	return nil
}

// ReadPage reads exactly PageSize bytes from page n into out. Short reads
// are reported as an error.
func (h *File) ReadPage(n int, out []byte) error {
	if len(out) != PageSize {
		return fmt.Errorf("pagefile: read %s: out buffer must be %d bytes, got %d", h.name, PageSize, len(out))
	}
	off := int64(n) * PageSize
	read, err := h.f.ReadAt(out, off)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("pagefile: read page %d of %s: %w", n, h.name, err)
	}
	if read != PageSize {
		return fmt.Errorf("pagefile: read page %d of %s: short read (%d of %d bytes)", n, h.name, read, PageSize)
	}
	return nil
}

// WritePage writes exactly PageSize bytes from buf to page n, extending the
// file if n is beyond the current end of file.
func (h *File) WritePage(n int, buf []byte) error {
	if len(buf) != PageSize {
		return fmt.Errorf("pagefile: write %s: buf must be %d bytes, got %d", h.name, PageSize, len(buf))
	}
	off := int64(n) * PageSize
	written, err := h.f.WriteAt(buf, off)
	if err != nil {
		return fmt.Errorf("pagefile: write page %d of %s: %w", n, h.name, err)
	}
	if written != PageSize {
		return fmt.Errorf("pagefile: write page %d of %s: short write (%d of %d bytes)", n, h.name, written, PageSize)
	}
	return nil
}

// NumPages returns the number of PageSize-byte pages in name, rounding a
// partially written trailing page up to a full page. It fails with
// ErrNotFound for a missing file.
func NumPages(name string) (int, error) {
	info, err := os.Stat(name)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("pagefile: num pages %s: %w", name, ErrNotFound)
		}
		return 0, fmt.Errorf("pagefile: num pages %s: %w", name, err)
	}
	size := info.Size()
	if size == 0 {
		return 0, nil
	}
	return int((size + PageSize - 1) / PageSize), nil
}
