package heap

import (
	"fmt"

	"github.com/nmduc/minirel/internal/bufferpool"
	"github.com/nmduc/minirel/internal/catalog"
	"github.com/nmduc/minirel/internal/condition"
	"github.com/nmduc/minirel/internal/pagefile"
	"github.com/nmduc/minirel/internal/record"
)

// Table is an open data file (<name>.dat) together with the schema needed
// to decode its records and the buffer pool it reads/writes through.
type Table struct {
	Name      string
	Schema    record.TableSchema
	bp        *bufferpool.Pool
	h         *pagefile.File
	pageCount int
}

// Open opens the data file for an existing table. schema must match the
// table's on-disk layout (normally obtained via catalog.GetTableInfo).
func Open(bp *bufferpool.Pool, dir, name string, schema record.TableSchema) (*Table, error) {
	path := catalog.DataPath(dir, name)
	h, err := pagefile.Open(path)
	if err != nil {
		return nil, fmt.Errorf("heap: open table %s: %w", name, err)
	}
	n, err := pagefile.NumPages(path)
	if err != nil {
		_ = h.Close()
		return nil, fmt.Errorf("heap: open table %s: %w", name, err)
	}
	return &Table{Name: name, Schema: schema, bp: bp, h: h, pageCount: n}, nil
}

// Close flushes any dirty pages bound to this table's file handle and
// closes it. Data is durable once Close has returned successfully.
func (t *Table) Close() error {
	if err := t.bp.FlushHandle(t.h); err != nil {
		return fmt.Errorf("heap: close table %s: %w", t.Name, err)
	}
	if err := t.h.Close(); err != nil {
		return fmt.Errorf("heap: close table %s: %w", t.Name, err)
	}
	return nil
}

// Insert encodes rec against the table's schema and writes it into the
// first free slot with enough room, scanning pages low-to-high then slots
// low-to-high (first-fit), appending a new page only when no existing page
// has room.
func (t *Table) Insert(rec record.Record) error {
	recBuf, err := record.EncodeRecord(t.Schema, rec)
	if err != nil {
		return fmt.Errorf("heap: insert into %s: %w", t.Name, err)
	}
	size := len(recBuf)
	if size > usablePageSize {
		return fmt.Errorf("heap: insert into %s: %w", t.Name, ErrOutOfSpace)
	}

	buf := make([]byte, pagefile.PageSize)
	for p := 0; p < t.pageCount; p++ {
		if err := t.bp.Read(t.h, p, buf); err != nil {
			return fmt.Errorf("heap: insert into %s: %w", t.Name, err)
		}
		page := NewPage(buf)
		k := page.Count()
		// The record and every live record must stay above the slot
		// directory, which gains an entry whenever the split leaves space.
		lowest := uint32(pagefile.PageSize)
		for s := 0; s < k; s++ {
			if sl := page.GetSlot(s); sl.Flag == SlotLive && sl.Offset < lowest {
				lowest = sl.Offset
			}
		}
		for s := 0; s < k; s++ {
			slot := page.GetSlot(s)
			if slot.Flag != SlotFree || slot.Size < uint32(size) {
				continue
			}
			dirEnd := uint32(dirStart + (k+1)*slotEntrySize)
			if slot.Size == uint32(size) {
				dirEnd -= slotEntrySize
			}
			if dirEnd > slot.Offset+slot.Size-uint32(size) || dirEnd > lowest {
				continue
			}
			splitAndInsert(page, s, slot, recBuf)
			if err := t.bp.Write(t.h, p, buf); err != nil {
				return fmt.Errorf("heap: insert into %s: %w", t.Name, err)
			}
			return nil
		}
	}

	newBuf := make([]byte, pagefile.PageSize)
	page := InitializePage(newBuf)
	slot0 := page.GetSlot(0)
	splitAndInsert(page, 0, slot0, recBuf)
	if err := t.bp.Write(t.h, t.pageCount, newBuf); err != nil {
		return fmt.Errorf("heap: insert into %s: %w", t.Name, err)
	}
	t.pageCount++
	return nil
}

// splitAndInsert packs recBuf against the high end of slot's free region,
// turns slot into a live entry describing exactly the record, and appends
// a new free slot covering whatever remains (skipped when nothing remains).
func splitAndInsert(page *Page, slotIdx int, slot Slot, recBuf []byte) {
	size := uint32(len(recBuf))
	newOffset := slot.Offset + slot.Size - size
	copy(page.buf[newOffset:newOffset+size], recBuf)
	page.PutSlot(slotIdx, Slot{Flag: SlotLive, Offset: newOffset, Size: size})

	remain := slot.Size - size
	if remain > 0 {
		page.AppendSlot(Slot{Flag: SlotFree, Offset: slot.Offset, Size: remain})
	}
}

// Select performs a full scan, evaluating cond against every live record
// and, when it holds, appending the record (narrowed to projection, or all
// fields when projection is empty) to the result. With distinct set, a
// projected record already present (by element-wise field equality) is
// dropped instead of appended.
func (t *Table) Select(projection record.FieldList, cond condition.Condition, distinct bool) (record.ResultSet, error) {
	var rs record.ResultSet

	buf := make([]byte, pagefile.PageSize)
	for p := 0; p < t.pageCount; p++ {
		if err := t.bp.Read(t.h, p, buf); err != nil {
			return record.ResultSet{}, fmt.Errorf("heap: select from %s: %w", t.Name, err)
		}
		page := NewPage(buf)
		k := page.Count()
		for s := 0; s < k; s++ {
			slot := page.GetSlot(s)
			if slot.Flag == SlotFree {
				continue
			}
			rec, _, err := record.DecodeRecord(t.Schema, page.Region(slot))
			if err != nil {
				return record.ResultSet{}, fmt.Errorf("heap: select from %s: %w", t.Name, err)
			}
			ok, err := cond.Eval(rec)
			if err != nil {
				return record.ResultSet{}, fmt.Errorf("heap: select from %s: %w", t.Name, err)
			}
			if !ok {
				continue
			}
			projected := project(t.Schema, rec, projection)
			if distinct && rs.Contains(projected) {
				continue
			}
			rs.Records = append(rs.Records, projected)
		}
	}
	return rs, nil
}

// Delete zeroes and frees every live slot whose decoded record satisfies
// cond. A page already rewritten on disk when a later page fails decoding
// or predicate evaluation is not rolled back; the engine has no
// transactions.
func (t *Table) Delete(cond condition.Condition) error {
	buf := make([]byte, pagefile.PageSize)
	for p := 0; p < t.pageCount; p++ {
		if err := t.bp.Read(t.h, p, buf); err != nil {
			return fmt.Errorf("heap: delete from %s: %w", t.Name, err)
		}
		page := NewPage(buf)
		k := page.Count()
		changed := false
		for s := 0; s < k; s++ {
			slot := page.GetSlot(s)
			if slot.Flag == SlotFree {
				continue
			}
			rec, _, err := record.DecodeRecord(t.Schema, page.Region(slot))
			if err != nil {
				return fmt.Errorf("heap: delete from %s: %w", t.Name, err)
			}
			ok, err := cond.Eval(rec)
			if err != nil {
				return fmt.Errorf("heap: delete from %s: %w", t.Name, err)
			}
			if !ok {
				continue
			}
			region := page.Region(slot)
			for i := range region {
				region[i] = 0
			}
			page.PutSlot(s, Slot{Flag: SlotFree, Offset: slot.Offset, Size: slot.Size})
			changed = true
		}
		if changed {
			if err := t.bp.Write(t.h, p, buf); err != nil {
				return fmt.Errorf("heap: delete from %s: %w", t.Name, err)
			}
		}
	}
	return nil
}

func project(schema record.TableSchema, rec record.Record, fields record.FieldList) record.Record {
	if len(fields) == 0 {
		return rec
	}
	want := make(map[string]bool, len(fields))
	for _, f := range fields {
		want[f] = true
	}
	out := record.Record{}
	for _, spec := range schema.Fields {
		if !want[spec.Name] {
			continue
		}
		if fv, ok := rec.Get(spec.Name); ok {
			out.Fields = append(out.Fields, fv)
		}
	}
	return out
}
