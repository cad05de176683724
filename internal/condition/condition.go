// Package condition implements the single-predicate WHERE filter shared by
// select and delete: a tagged Condition (match-all or a field comparison)
// and its evaluation against a decoded record.
package condition

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/nmduc/minirel/internal/record"
)

// Op is a comparison operator.
type Op int

const (
	Eq Op = iota
	Ne
	Gt
	Ge
	Lt
	Le
)

// ErrUnknownType is surfaced when a field's DataType is not one of the
// supported variants during predicate evaluation.
var ErrUnknownType = errors.New("condition: unknown data type")

// Condition is either MatchAll (matches every record) or a single
// field/operator/literal comparison. Represented as a struct with an
// explicit tag rather than a magic empty field name.
type Condition struct {
	matchAll bool

	Field string
	Type  record.DataType
	Op    Op

	IntValue    int32
	StringValue string
}

// MatchAll returns the sentinel condition that matches every record.
func MatchAll() Condition { return Condition{matchAll: true} }

// Compare returns a condition comparing Field (of Type) against a literal.
func Compare(field string, typ record.DataType, op Op, intValue int32, stringValue string) Condition {
	return Condition{Field: field, Type: typ, Op: op, IntValue: intValue, StringValue: stringValue}
}

// IsMatchAll reports whether c is the match-all sentinel.
func (c Condition) IsMatchAll() bool { return c.matchAll }

// Eval reports whether rec satisfies c. A non-match-all condition whose
// field is absent from rec evaluates to false. An unsupported DataType
// returns ErrUnknownType.
func (c Condition) Eval(rec record.Record) (bool, error) {
	if c.matchAll {
		return true, nil
	}

	fv, ok := rec.Get(c.Field)
	if !ok {
		return false, nil
	}

	switch fv.Type {
	case record.TypeInteger:
		d := int64(fv.IntValue) - int64(c.IntValue)
		return signTest(d, c.Op), nil
	case record.TypeString:
		d := bytes.Compare([]byte(fv.StringValue), []byte(c.StringValue))
		return signTest(int64(d), c.Op), nil
	default:
		return false, fmt.Errorf("condition: eval field %s: %w", c.Field, ErrUnknownType)
	}
}

func signTest(d int64, op Op) bool {
	switch op {
	case Eq:
		return d == 0
	case Ne:
		return d != 0
	case Gt:
		return d > 0
	case Ge:
		return d >= 0
	case Lt:
		return d < 0
	case Le:
		return d <= 0
	default:
		return false
	}
}
