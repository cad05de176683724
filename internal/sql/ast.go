// Package sql implements the line-oriented statement grammar the CLI
// accepts: create/drop table, insert, select, delete, each terminated by
// end of input (one statement per line, no ';').
package sql

import "github.com/nmduc/minirel/internal/record"

// Statement is the root type for every parsed statement.
type Statement interface {
	stmtNode()
}

// ColumnDef is one "name type" pair in a CREATE TABLE column list.
type ColumnDef struct {
	Name string
	Type record.DataType
}

// CreateTableStmt is "create table T ( f1 type1 , f2 type2 , ... )".
type CreateTableStmt struct {
	TableName string
	Columns   []ColumnDef
}

func (*CreateTableStmt) stmtNode() {}

// DropTableStmt is "drop table T".
type DropTableStmt struct {
	TableName string
}

func (*DropTableStmt) stmtNode() {}

// Literal is a parsed constant: either an Integer (IsInt true) or a String.
type Literal struct {
	IsInt    bool
	IntValue int32
	StrValue string
}

// InsertStmt is "insert into T ( v1 , v2 , ... )", values in schema order.
type InsertStmt struct {
	TableName string
	Values    []Literal
}

func (*InsertStmt) stmtNode() {}

// CompareOp names the six supported WHERE comparison operators.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNe
	OpGt
	OpGe
	OpLt
	OpLe
)

// WhereExpr is "field op literal".
type WhereExpr struct {
	Field   string
	Op      CompareOp
	Literal Literal
}

// SelectStmt is "select [distinct] { * | f1 , f2 , ... } from T [where expr]".
type SelectStmt struct {
	Distinct   bool
	Fields     record.FieldList // nil/empty means *
	TableName  string
	Where      *WhereExpr
}

func (*SelectStmt) stmtNode() {}

// DeleteStmt is "delete from T [where expr]".
type DeleteStmt struct {
	TableName string
	Where     *WhereExpr
}

func (*DeleteStmt) stmtNode() {}

// QuitStmt is the "quit" REPL command.
type QuitStmt struct{}

func (*QuitStmt) stmtNode() {}
