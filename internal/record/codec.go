package record

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// nativeEndian is the byte order used for on-disk integers. The original
// engine this was distilled from uses the producing host's native
// endianness and is not portable across architectures; this codec fixes
// that choice to little-endian so the format is at least self-consistent
// across runs on the same build (see DESIGN.md Open Question #2).
var nativeEndian = binary.LittleEndian

var (
	// ErrSchemaMismatch is returned when a Record's fields do not
	// correspond to a TableSchema's fields, position-for-position.
	ErrSchemaMismatch = errors.New("record: schema mismatch")
	// ErrUnknownType is returned when a field's DataType is not one of
	// the supported variants.
	ErrUnknownType = errors.New("record: unknown data type")
	// ErrBadBuffer is returned when decoding runs past the end of the
	// supplied bytes.
	ErrBadBuffer = errors.New("record: buffer too short")
	// ErrValueTooLong is returned when a string value exceeds MaxStringValue.
	ErrValueTooLong = errors.New("record: string value exceeds MaxStringValue")
)

// Size returns the number of bytes EncodeRecord would produce for rec
// against schema, without allocating the encoded form.
func Size(schema TableSchema, rec Record) (int, error) {
	if len(rec.Fields) != len(schema.Fields) {
		return 0, fmt.Errorf("record: size: %w", ErrSchemaMismatch)
	}
	total := 0
	for i, spec := range schema.Fields {
		fv := rec.Fields[i]
		if fv.Name != spec.Name || fv.Type != spec.Type {
			return 0, fmt.Errorf("record: size: field %d (%s): %w", i, spec.Name, ErrSchemaMismatch)
		}
		switch spec.Type {
		case TypeInteger:
			total += 4
		case TypeString:
			if len(fv.StringValue)+1 > MaxStringValue {
				return 0, fmt.Errorf("record: size: field %d (%s): %w", i, spec.Name, ErrValueTooLong)
			}
			total += 4 + len(fv.StringValue) + 1
		default:
			return 0, fmt.Errorf("record: size: field %d (%s): %w", i, spec.Name, ErrUnknownType)
		}
	}
	return total, nil
}

// EncodeRecord serializes rec in schema order. Integer fields are 4 bytes;
// String fields are a 4-byte length L (excluding the terminator) followed
// by L+1 bytes: the string's bytes, then a NUL. The length prefix is
// authoritative; the NUL is redundant padding a reader must not rely on.
func EncodeRecord(schema TableSchema, rec Record) ([]byte, error) {
	size, err := Size(schema, rec)
	if err != nil {
		return nil, err
	}
	out := make([]byte, size)
	off := 0
	for i, spec := range schema.Fields {
		fv := rec.Fields[i]
		switch spec.Type {
		case TypeInteger:
			nativeEndian.PutUint32(out[off:], uint32(fv.IntValue))
			off += 4
		case TypeString:
			l := len(fv.StringValue)
			nativeEndian.PutUint32(out[off:], uint32(l))
			off += 4
			copy(out[off:], fv.StringValue)
			off += l
			out[off] = 0
			off++
		}
	}
	return out, nil
}

// DecodeRecord parses a record previously produced by EncodeRecord, using
// schema to determine field boundaries. It returns the record and the
// number of bytes consumed from buf.
func DecodeRecord(schema TableSchema, buf []byte) (Record, int, error) {
	rec := Record{Fields: make([]FieldValue, len(schema.Fields))}
	off := 0
	for i, spec := range schema.Fields {
		switch spec.Type {
		case TypeInteger:
			if off+4 > len(buf) {
				return Record{}, 0, fmt.Errorf("record: decode field %d (%s): %w", i, spec.Name, ErrBadBuffer)
			}
			rec.Fields[i] = FieldValue{
				Name:     spec.Name,
				Type:     TypeInteger,
				IntValue: int32(nativeEndian.Uint32(buf[off:])),
			}
			off += 4
		case TypeString:
			if off+4 > len(buf) {
				return Record{}, 0, fmt.Errorf("record: decode field %d (%s): %w", i, spec.Name, ErrBadBuffer)
			}
			l := int(nativeEndian.Uint32(buf[off:]))
			off += 4
			// Trust the length prefix and advance L+1 bytes past it,
			// ignoring the redundant NUL terminator.
			if off+l+1 > len(buf) {
				return Record{}, 0, fmt.Errorf("record: decode field %d (%s): %w", i, spec.Name, ErrBadBuffer)
			}
			rec.Fields[i] = FieldValue{
				Name:        spec.Name,
				Type:        TypeString,
				StringValue: string(buf[off : off+l]),
			}
			off += l + 1
		default:
			return Record{}, 0, fmt.Errorf("record: decode field %d (%s): %w", i, spec.Name, ErrUnknownType)
		}
	}
	return rec, off, nil
}
