package record

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testSchema() TableSchema {
	return TableSchema{Fields: []FieldSpec{
		{Name: "id", Type: TypeInteger},
		{Name: "name", Type: TypeString},
	}}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	schema := testSchema()
	rec := Record{Fields: []FieldValue{
		{Name: "id", Type: TypeInteger, IntValue: 42},
		{Name: "name", Type: TypeString, StringValue: "alice"},
	}}

	buf, err := EncodeRecord(schema, rec)
	require.NoError(t, err)
	require.Len(t, buf, 4+4+5+1)

	got, n, err := DecodeRecord(schema, buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	require.Equal(t, int32(42), got.Fields[0].IntValue)
	require.Equal(t, "alice", got.Fields[1].StringValue)
}

func TestEncodeSchemaMismatch(t *testing.T) {
	schema := testSchema()
	rec := Record{Fields: []FieldValue{{Name: "id", Type: TypeInteger, IntValue: 1}}}

	_, err := EncodeRecord(schema, rec)
	require.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestEncodeValueTooLong(t *testing.T) {
	schema := TableSchema{Fields: []FieldSpec{{Name: "s", Type: TypeString}}}
	long := make([]byte, MaxStringValue)
	for i := range long {
		long[i] = 'x'
	}
	rec := Record{Fields: []FieldValue{{Name: "s", Type: TypeString, StringValue: string(long)}}}

	_, err := EncodeRecord(schema, rec)
	require.ErrorIs(t, err, ErrValueTooLong)
}

func TestDecodeBadBufferShort(t *testing.T) {
	schema := testSchema()
	_, _, err := DecodeRecord(schema, []byte{1, 2, 3})
	require.ErrorIs(t, err, ErrBadBuffer)
}

func TestDecodeTrustsLengthPrefixOverTrailingBytes(t *testing.T) {
	// Two records back to back: decode must stop exactly where the first
	// record's fields say it ends, ignoring bytes belonging to the next one.
	schema := TableSchema{Fields: []FieldSpec{{Name: "s", Type: TypeString}}}
	rec := Record{Fields: []FieldValue{{Name: "s", Type: TypeString, StringValue: "hi"}}}
	buf, err := EncodeRecord(schema, rec)
	require.NoError(t, err)

	trailing := append(append([]byte{}, buf...), []byte{0xFF, 0xFF, 0xFF}...)

	got, n, err := DecodeRecord(schema, trailing)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	require.Equal(t, "hi", got.Fields[0].StringValue)
}
