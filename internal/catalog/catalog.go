// Package catalog persists table schemas to ".def" files: one 4096-byte
// page holding a field count followed by bounded name/type records.
package catalog

import (
	"encoding/binary"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/nmduc/minirel/internal/bufferpool"
	"github.com/nmduc/minirel/internal/pagefile"
	"github.com/nmduc/minirel/internal/record"
)

var byteOrder = binary.LittleEndian

// ErrNotFound is returned when a table's definition file does not exist.
var ErrNotFound = pagefile.ErrNotFound

// ErrDecode is returned when a definition file's bytes are inconsistent
// with the expected schema encoding.
var ErrDecode = errors.New("catalog: definition file is corrupt")

const (
	defSuffix = ".def"
	datSuffix = ".dat"
	// fieldRecordSize is MaxFieldName bytes of null-padded name followed
	// by a 4-byte type tag.
	fieldRecordSize = record.MaxFieldName + 4
)

func defPath(dir, table string) string { return filepath.Join(dir, table+defSuffix) }
func datPath(dir, table string) string { return filepath.Join(dir, table+datSuffix) }

// DataPath returns the path of a table's data file, for callers (the heap
// layer) that need to open it directly.
func DataPath(dir, table string) string { return datPath(dir, table) }

// CreateTable creates both <table>.def and <table>.dat, writing schema into
// page 0 of the definition file. If either file cannot be created, any file
// that was created is removed before the error is returned.
func CreateTable(bp *bufferpool.Pool, dir, table string, schema record.TableSchema) error {
	if n := schema.NumFields(); n < 1 || n > record.MaxFieldsPerTable {
		return fmt.Errorf("catalog: create table %s: schema has %d fields, want 1..%d", table, n, record.MaxFieldsPerTable)
	}
	for _, f := range schema.Fields {
		if len(f.Name)+1 > record.MaxFieldName {
			return fmt.Errorf("catalog: create table %s: field name %q exceeds MaxFieldName", table, f.Name)
		}
	}

	dp, ap := defPath(dir, table), datPath(dir, table)

	if err := pagefile.Create(dp); err != nil {
		return fmt.Errorf("catalog: create table %s: %w", table, err)
	}
	if err := pagefile.Create(ap); err != nil {
		_ = pagefile.Delete(dp)
		return fmt.Errorf("catalog: create table %s: %w", table, err)
	}

	if err := writeDef(bp, dp, schema); err != nil {
		_ = pagefile.Delete(dp)
		_ = pagefile.Delete(ap)
		return err
	}
	return nil
}

func writeDef(bp *bufferpool.Pool, defFile string, schema record.TableSchema) error {
	h, err := pagefile.Open(defFile)
	if err != nil {
		return fmt.Errorf("catalog: write def: %w", err)
	}
	defer h.Close()

	page := make([]byte, pagefile.PageSize)
	byteOrder.PutUint32(page[0:4], uint32(schema.NumFields()))
	off := 4
	for _, f := range schema.Fields {
		nameBuf := page[off : off+record.MaxFieldName]
		copy(nameBuf, f.Name)
		off += record.MaxFieldName
		byteOrder.PutUint32(page[off:off+4], uint32(f.Type))
		off += 4
	}

	if err := bp.Write(h, 0, page); err != nil {
		return fmt.Errorf("catalog: write def: %w", err)
	}
	if err := bp.FlushHandle(h); err != nil {
		return fmt.Errorf("catalog: write def: %w", err)
	}
	return nil
}

// DropTable deletes both the definition and data files for table.
func DropTable(dir, table string) error {
	dp, ap := defPath(dir, table), datPath(dir, table)
	errDef := pagefile.Delete(dp)
	errDat := pagefile.Delete(ap)
	if errDef != nil {
		return fmt.Errorf("catalog: drop table %s: %w", table, errDef)
	}
	if errDat != nil {
		return fmt.Errorf("catalog: drop table %s: %w", table, errDat)
	}
	return nil
}

// GetTableInfo opens <table>.def, reads page 0, and decodes the field
// count and field records into a fresh TableSchema.
func GetTableInfo(bp *bufferpool.Pool, dir, table string) (record.TableSchema, error) {
	dp := defPath(dir, table)
	h, err := pagefile.Open(dp)
	if err != nil {
		return record.TableSchema{}, fmt.Errorf("catalog: get table info %s: %w", table, err)
	}
	defer func() {
		_ = bp.FlushHandle(h)
		_ = h.Close()
	}()

	page := make([]byte, pagefile.PageSize)
	if err := bp.Read(h, 0, page); err != nil {
		return record.TableSchema{}, fmt.Errorf("catalog: get table info %s: %w", table, err)
	}

	numFields := int(int32(byteOrder.Uint32(page[0:4])))
	if numFields < 1 || numFields > record.MaxFieldsPerTable {
		return record.TableSchema{}, fmt.Errorf("catalog: get table info %s: field count %d: %w", table, numFields, ErrDecode)
	}

	schema := record.TableSchema{Fields: make([]record.FieldSpec, numFields)}
	off := 4
	for i := 0; i < numFields; i++ {
		if off+fieldRecordSize > pagefile.PageSize {
			return record.TableSchema{}, fmt.Errorf("catalog: get table info %s: %w", table, ErrDecode)
		}
		nameBuf := page[off : off+record.MaxFieldName]
		name := nulTerminatedString(nameBuf)
		off += record.MaxFieldName

		tag := byteOrder.Uint32(page[off : off+4])
		off += 4

		typ := record.DataType(tag)
		if typ != record.TypeInteger && typ != record.TypeString {
			return record.TableSchema{}, fmt.Errorf("catalog: get table info %s: field %d type tag %d: %w", table, i, tag, ErrDecode)
		}
		schema.Fields[i] = record.FieldSpec{Name: name, Type: typ}
	}
	return schema, nil
}

func nulTerminatedString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
