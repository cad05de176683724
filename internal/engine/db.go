// Package engine ties the catalog and heap layers together behind a single
// Database handle: one buffer pool shared by every open table, and the
// create/drop/insert/select/delete operations the SQL layer and CLI call.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nmduc/minirel/internal/bufferpool"
	"github.com/nmduc/minirel/internal/catalog"
	"github.com/nmduc/minirel/internal/condition"
	"github.com/nmduc/minirel/internal/heap"
	"github.com/nmduc/minirel/internal/record"
)

// ErrDatabaseClosed is returned by any operation attempted after Close.
var ErrDatabaseClosed = errors.New("engine: database is closed")

// ErrTableOpen is returned by DropTable when the named table is currently
// open.
var ErrTableOpen = errors.New("engine: table is open")

// Database is a single-user handle onto a directory of table files, backed
// by one shared buffer pool. It has no notion of transactions or
// concurrent writers beyond the mutex serializing its own operations.
type Database struct {
	mu      sync.Mutex
	dataDir string
	bp      *bufferpool.Pool
	open    map[string]*heap.Table
	closed  bool
}

// Open returns a Database rooted at dataDir, backed by a buffer pool of
// numBuffer frames. dataDir must already exist.
func Open(dataDir string, numBuffer int) *Database {
	return &Database{
		dataDir: dataDir,
		bp:      bufferpool.New(numBuffer),
		open:    make(map[string]*heap.Table),
	}
}

// Close flushes and closes every table this Database has open. Further
// operations on the Database return ErrDatabaseClosed.
func (db *Database) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return nil
	}
	var firstErr error
	for name, tbl := range db.open {
		if err := tbl.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(db.open, name)
	}
	db.closed = true
	return firstErr
}

// CreateTable creates a new table's definition and data files.
func (db *Database) CreateTable(name string, schema record.TableSchema) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return ErrDatabaseClosed
	}
	if err := catalog.CreateTable(db.bp, db.dataDir, name, schema); err != nil {
		return err
	}
	slog.Debug("engine: created table", "table", name, "fields", schema.NumFields())
	return nil
}

// DropTable removes a table's files. The table must not currently be open.
func (db *Database) DropTable(name string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return ErrDatabaseClosed
	}
	if _, ok := db.open[name]; ok {
		return fmt.Errorf("engine: drop table %s: %w", name, ErrTableOpen)
	}
	if err := catalog.DropTable(db.dataDir, name); err != nil {
		return err
	}
	slog.Debug("engine: dropped table", "table", name)
	return nil
}

// TableInfo returns a table's schema without opening its data file.
func (db *Database) TableInfo(name string) (record.TableSchema, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return record.TableSchema{}, ErrDatabaseClosed
	}
	return catalog.GetTableInfo(db.bp, db.dataDir, name)
}

// table returns the already-open handle for name, opening and caching it
// (via the catalog's persisted schema) on first use. Callers must hold
// db.mu.
func (db *Database) table(name string) (*heap.Table, error) {
	if tbl, ok := db.open[name]; ok {
		return tbl, nil
	}
	schema, err := catalog.GetTableInfo(db.bp, db.dataDir, name)
	if err != nil {
		return nil, err
	}
	tbl, err := heap.Open(db.bp, db.dataDir, name, schema)
	if err != nil {
		return nil, err
	}
	db.open[name] = tbl
	return tbl, nil
}

// Insert encodes and appends rec to the named table.
func (db *Database) Insert(table string, rec record.Record) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return ErrDatabaseClosed
	}
	tbl, err := db.table(table)
	if err != nil {
		return err
	}
	return tbl.Insert(rec)
}

// Select scans the named table, returning the rows matching cond narrowed
// to projection (empty projection means all fields).
func (db *Database) Select(table string, projection record.FieldList, cond condition.Condition, distinct bool) (record.ResultSet, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return record.ResultSet{}, ErrDatabaseClosed
	}
	tbl, err := db.table(table)
	if err != nil {
		return record.ResultSet{}, err
	}
	return tbl.Select(projection, cond, distinct)
}

// Delete removes every row of the named table matching cond.
func (db *Database) Delete(table string, cond condition.Condition) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return ErrDatabaseClosed
	}
	tbl, err := db.table(table)
	if err != nil {
		return err
	}
	return tbl.Delete(cond)
}
