// Package minirel is the top-level facade for the storage engine: a thin
// re-export of internal/engine so callers outside this module depend on a
// single stable import path.
package minirel

import (
	"github.com/nmduc/minirel/internal/condition"
	"github.com/nmduc/minirel/internal/engine"
	"github.com/nmduc/minirel/internal/record"
	"github.com/nmduc/minirel/internal/sql"
)

type Database = engine.Database

var (
	ErrDatabaseClosed = engine.ErrDatabaseClosed
	ErrTableOpen      = engine.ErrTableOpen
)

// Open returns a Database rooted at dataDir, backed by a buffer pool of
// numBuffer frames.
func Open(dataDir string, numBuffer int) *Database {
	return engine.Open(dataDir, numBuffer)
}

// Exec parses and runs a single statement against db.
func Exec(db *Database, statement string) (record.ResultSet, error) {
	stmt, err := sql.Parse(statement)
	if err != nil {
		return record.ResultSet{}, err
	}
	return sql.Execute(db, stmt)
}

// MatchAll is re-exported for callers building a Condition without
// importing internal/condition directly.
func MatchAll() condition.Condition { return condition.MatchAll() }
