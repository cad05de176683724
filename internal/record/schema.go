// Package record defines the schema and record value types shared by the
// catalog and heap layers, plus the on-disk row codec.
package record

import "fmt"

// DataType is the tagged variant over the two field types this engine
// supports. A Double variant exists in one source lineage of the original
// system but is not implemented here; see DESIGN.md.
type DataType uint8

const (
	TypeInteger DataType = iota
	TypeString
)

func (t DataType) String() string {
	switch t {
	case TypeInteger:
		return "int"
	case TypeString:
		return "string"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// MaxFieldsPerTable bounds the number of fields a TableSchema may declare.
const MaxFieldsPerTable = 40

// MaxFieldName bounds a field name, including its NUL terminator, as stored
// on disk in a table definition file.
const MaxFieldName = 20

// MaxStringValue bounds a string field's value, including its NUL
// terminator, as stored on disk in a data file.
const MaxStringValue = 64

// FieldSpec names one column of a table and its type. Field order is
// significant: it fixes the on-disk record layout.
type FieldSpec struct {
	Name string
	Type DataType
}

// TableSchema is the ordered field list of a table.
type TableSchema struct {
	Fields []FieldSpec
}

// NumFields reports the number of fields in the schema.
func (s TableSchema) NumFields() int { return len(s.Fields) }

// IndexOf returns the position of name in the schema, or -1 if absent.
func (s TableSchema) IndexOf(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// FieldValue is one field of a Record: a name plus its typed value. Only
// the member matching Type is meaningful.
type FieldValue struct {
	Name        string
	Type        DataType
	IntValue    int32
	StringValue string
}

// Record is an ordered sequence of FieldValues whose names and types match
// a TableSchema position-for-position.
type Record struct {
	Fields []FieldValue
}

// Get returns the named field and whether it was present.
func (r Record) Get(name string) (FieldValue, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldValue{}, false
}

// FieldList is an ordered SELECT projection list. An empty list denotes
// SELECT * (all fields, in schema order).
type FieldList []string

// ResultSet is the materialized output of a SELECT: zero or more Records in
// scan order.
type ResultSet struct {
	Records []Record
}

// Count returns the number of records in the result set.
func (rs ResultSet) Count() int { return len(rs.Records) }

// Contains reports whether rec is already present, compared field-by-field
// (name, type, and value). Used to enforce DISTINCT.
func (rs ResultSet) Contains(rec Record) bool {
	for _, existing := range rs.Records {
		if recordsEqual(existing, rec) {
			return true
		}
	}
	return false
}

func recordsEqual(a, b Record) bool {
	if len(a.Fields) != len(b.Fields) {
		return false
	}
	for i := range a.Fields {
		if a.Fields[i] != b.Fields[i] {
			return false
		}
	}
	return true
}
