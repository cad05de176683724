package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmduc/minirel/internal/condition"
	"github.com/nmduc/minirel/internal/record"
)

func testSchema() record.TableSchema {
	return record.TableSchema{Fields: []record.FieldSpec{
		{Name: "id", Type: record.TypeInteger},
		{Name: "name", Type: record.TypeString},
	}}
}

func rec(id int32, name string) record.Record {
	return record.Record{Fields: []record.FieldValue{
		{Name: "id", Type: record.TypeInteger, IntValue: id},
		{Name: "name", Type: record.TypeString, StringValue: name},
	}}
}

func TestCreateInsertSelect(t *testing.T) {
	db := Open(t.TempDir(), 4)
	defer db.Close()

	require.NoError(t, db.CreateTable("t", testSchema()))
	require.NoError(t, db.Insert("t", rec(1, "alice")))
	require.NoError(t, db.Insert("t", rec(2, "bob")))

	rs, err := db.Select("t", nil, condition.MatchAll(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, rs.Count())
}

func TestSelectEmptyTable(t *testing.T) {
	db := Open(t.TempDir(), 4)
	defer db.Close()

	require.NoError(t, db.CreateTable("t", testSchema()))
	rs, err := db.Select("t", nil, condition.MatchAll(), false)
	require.NoError(t, err)
	assert.Equal(t, 0, rs.Count())
}

func TestDropTableWhileOpenFails(t *testing.T) {
	db := Open(t.TempDir(), 4)
	defer db.Close()

	require.NoError(t, db.CreateTable("t", testSchema()))
	_, err := db.Select("t", nil, condition.MatchAll(), false) // opens the table
	require.NoError(t, err)

	err = db.DropTable("t")
	require.ErrorIs(t, err, ErrTableOpen)
}

func TestOperationsAfterCloseFail(t *testing.T) {
	db := Open(t.TempDir(), 4)
	require.NoError(t, db.CreateTable("t", testSchema()))
	require.NoError(t, db.Close())

	err := db.Insert("t", rec(1, "alice"))
	require.ErrorIs(t, err, ErrDatabaseClosed)
}

func TestDeleteThroughDatabase(t *testing.T) {
	db := Open(t.TempDir(), 4)
	defer db.Close()

	require.NoError(t, db.CreateTable("t", testSchema()))
	require.NoError(t, db.Insert("t", rec(1, "alice")))
	require.NoError(t, db.Insert("t", rec(2, "bob")))

	cond := condition.Compare("id", record.TypeInteger, condition.Eq, 1, "")
	require.NoError(t, db.Delete("t", cond))

	rs, err := db.Select("t", nil, condition.MatchAll(), false)
	require.NoError(t, err)
	require.Len(t, rs.Records, 1)
	assert.Equal(t, "bob", rs.Records[0].Fields[1].StringValue)
}

func TestTableInfoReturnsSchema(t *testing.T) {
	db := Open(t.TempDir(), 4)
	defer db.Close()

	require.NoError(t, db.CreateTable("t", testSchema()))
	got, err := db.TableInfo("t")
	require.NoError(t, err)
	assert.Equal(t, testSchema(), got)
}
