package condition

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nmduc/minirel/internal/record"
)

func rec(id int32, name string) record.Record {
	return record.Record{Fields: []record.FieldValue{
		{Name: "id", Type: record.TypeInteger, IntValue: id},
		{Name: "name", Type: record.TypeString, StringValue: name},
	}}
}

func TestMatchAllAlwaysTrue(t *testing.T) {
	ok, err := MatchAll().Eval(rec(1, "a"))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestIntegerOperators(t *testing.T) {
	cases := []struct {
		op   Op
		want bool
	}{
		{Eq, false}, {Ne, true}, {Gt, true}, {Ge, true}, {Lt, false}, {Le, false},
	}
	for _, tc := range cases {
		c := Compare("id", record.TypeInteger, tc.op, 2, "")
		ok, err := c.Eval(rec(3, "x"))
		require.NoError(t, err)
		require.Equal(t, tc.want, ok, "op=%v", tc.op)
	}
}

func TestStringLexicographicCompare(t *testing.T) {
	c := Compare("name", record.TypeString, Lt, 0, "b")
	ok, err := c.Eval(rec(1, "a"))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = c.Eval(rec(1, "c"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFieldAbsentIsFalse(t *testing.T) {
	c := Compare("missing", record.TypeInteger, Eq, 1, "")
	ok, err := c.Eval(rec(1, "a"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestUnknownTypeErrors(t *testing.T) {
	bad := record.Record{Fields: []record.FieldValue{{Name: "x", Type: record.DataType(99)}}}
	c := Compare("x", record.TypeInteger, Eq, 0, "")
	_, err := c.Eval(bad)
	require.ErrorIs(t, err, ErrUnknownType)
}
