package sql

import (
	"fmt"

	"github.com/nmduc/minirel/internal/condition"
	"github.com/nmduc/minirel/internal/engine"
	"github.com/nmduc/minirel/internal/record"
)

// Execute runs a parsed Statement against db. The second return value is
// only meaningful for SelectStmt; other statements return a zero
// ResultSet. QuitStmt is accepted but is the caller's responsibility to
// act on (Execute is a no-op for it).
func Execute(db *engine.Database, stmt Statement) (record.ResultSet, error) {
	switch s := stmt.(type) {
	case *CreateTableStmt:
		return record.ResultSet{}, execCreateTable(db, s)
	case *DropTableStmt:
		return record.ResultSet{}, db.DropTable(s.TableName)
	case *InsertStmt:
		return record.ResultSet{}, execInsert(db, s)
	case *SelectStmt:
		return execSelect(db, s)
	case *DeleteStmt:
		return record.ResultSet{}, execDelete(db, s)
	case *QuitStmt:
		return record.ResultSet{}, nil
	default:
		return record.ResultSet{}, fmt.Errorf("sql: unsupported statement type %T", stmt)
	}
}

func execCreateTable(db *engine.Database, s *CreateTableStmt) error {
	fields := make([]record.FieldSpec, len(s.Columns))
	for i, c := range s.Columns {
		fields[i] = record.FieldSpec{Name: c.Name, Type: c.Type}
	}
	return db.CreateTable(s.TableName, record.TableSchema{Fields: fields})
}

func execInsert(db *engine.Database, s *InsertStmt) error {
	schema, err := db.TableInfo(s.TableName)
	if err != nil {
		return err
	}
	if len(s.Values) != schema.NumFields() {
		return fmt.Errorf("sql: insert into %s: got %d values, want %d", s.TableName, len(s.Values), schema.NumFields())
	}

	rec := record.Record{Fields: make([]record.FieldValue, len(s.Values))}
	for i, lit := range s.Values {
		spec := schema.Fields[i]
		fv := record.FieldValue{Name: spec.Name, Type: spec.Type}
		switch spec.Type {
		case record.TypeInteger:
			if !lit.IsInt {
				return fmt.Errorf("sql: insert into %s: field %s expects an int literal", s.TableName, spec.Name)
			}
			fv.IntValue = lit.IntValue
		case record.TypeString:
			if lit.IsInt {
				return fmt.Errorf("sql: insert into %s: field %s expects a string literal", s.TableName, spec.Name)
			}
			fv.StringValue = lit.StrValue
		}
		rec.Fields[i] = fv
	}
	return db.Insert(s.TableName, rec)
}

func execSelect(db *engine.Database, s *SelectStmt) (record.ResultSet, error) {
	cond, err := toCondition(s.Where)
	if err != nil {
		return record.ResultSet{}, err
	}
	return db.Select(s.TableName, s.Fields, cond, s.Distinct)
}

func execDelete(db *engine.Database, s *DeleteStmt) error {
	cond, err := toCondition(s.Where)
	if err != nil {
		return err
	}
	return db.Delete(s.TableName, cond)
}

func toCondition(w *WhereExpr) (condition.Condition, error) {
	if w == nil {
		return condition.MatchAll(), nil
	}
	op, err := toConditionOp(w.Op)
	if err != nil {
		return condition.Condition{}, err
	}
	typ := record.TypeString
	if w.Literal.IsInt {
		typ = record.TypeInteger
	}
	return condition.Compare(w.Field, typ, op, w.Literal.IntValue, w.Literal.StrValue), nil
}

func toConditionOp(op CompareOp) (condition.Op, error) {
	switch op {
	case OpEq:
		return condition.Eq, nil
	case OpNe:
		return condition.Ne, nil
	case OpGt:
		return condition.Gt, nil
	case OpGe:
		return condition.Ge, nil
	case OpLt:
		return condition.Lt, nil
	case OpLe:
		return condition.Le, nil
	default:
		return 0, fmt.Errorf("sql: unknown operator %v", op)
	}
}
