package sql

import (
	"fmt"

	"github.com/nmduc/minirel/internal/record"
)

// parser walks a token stream produced by lex, one statement per Parse call.
type parser struct {
	toks []token
	pos  int
}

// Parse parses one line of input into a Statement.
func Parse(line string) (Statement, error) {
	toks, err := lex(line)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.parseStatement()
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expectWord(word string) error {
	t := p.advance()
	if t.kind != tokWord || t.text != word {
		return fmt.Errorf("sql: expected %q, got %q", word, t.text)
	}
	return nil
}

func (p *parser) expectIdent() (string, error) {
	t := p.advance()
	if t.kind != tokWord {
		return "", fmt.Errorf("sql: expected identifier, got %q", t.text)
	}
	return t.text, nil
}

func (p *parser) expectKind(k tokenKind, what string) error {
	t := p.advance()
	if t.kind != k {
		return fmt.Errorf("sql: expected %s", what)
	}
	return nil
}

func (p *parser) atWord(word string) bool {
	t := p.peek()
	return t.kind == tokWord && t.text == word
}

func (p *parser) parseStatement() (Statement, error) {
	t := p.peek()
	if t.kind != tokWord {
		return nil, fmt.Errorf("sql: expected a statement keyword")
	}
	switch t.text {
	case "create":
		return p.parseCreateTable()
	case "drop":
		return p.parseDropTable()
	case "insert":
		return p.parseInsert()
	case "select":
		return p.parseSelect()
	case "delete":
		return p.parseDelete()
	case "quit":
		p.advance()
		return &QuitStmt{}, nil
	default:
		return nil, fmt.Errorf("sql: unrecognized statement keyword %q", t.text)
	}
}

func (p *parser) parseCreateTable() (Statement, error) {
	p.advance() // create
	if err := p.expectWord("table"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectKind(tokLParen, "'('"); err != nil {
		return nil, err
	}

	var cols []ColumnDef
	for {
		colName, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		typeName, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		typ, err := parseTypeName(typeName)
		if err != nil {
			return nil, err
		}
		cols = append(cols, ColumnDef{Name: colName, Type: typ})

		t := p.advance()
		if t.kind == tokRParen {
			break
		}
		if t.kind != tokComma {
			return nil, fmt.Errorf("sql: expected ',' or ')' in column list")
		}
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("sql: create table requires at least one column")
	}
	return &CreateTableStmt{TableName: name, Columns: cols}, nil
}

func parseTypeName(s string) (record.DataType, error) {
	switch s {
	case "int":
		return record.TypeInteger, nil
	case "string":
		return record.TypeString, nil
	default:
		return 0, fmt.Errorf("sql: unknown type %q", s)
	}
}

func (p *parser) parseDropTable() (Statement, error) {
	p.advance() // drop
	if err := p.expectWord("table"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	return &DropTableStmt{TableName: name}, nil
}

func (p *parser) parseInsert() (Statement, error) {
	p.advance() // insert
	if err := p.expectWord("into"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectKind(tokLParen, "'('"); err != nil {
		return nil, err
	}

	var vals []Literal
	for {
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		vals = append(vals, lit)

		t := p.advance()
		if t.kind == tokRParen {
			break
		}
		if t.kind != tokComma {
			return nil, fmt.Errorf("sql: expected ',' or ')' in value list")
		}
	}
	return &InsertStmt{TableName: name, Values: vals}, nil
}

func (p *parser) parseLiteral() (Literal, error) {
	t := p.advance()
	switch t.kind {
	case tokInt:
		return Literal{IsInt: true, IntValue: t.ival}, nil
	case tokString:
		return Literal{StrValue: t.text}, nil
	default:
		return Literal{}, fmt.Errorf("sql: expected a literal value")
	}
}

func (p *parser) parseSelect() (Statement, error) {
	p.advance() // select
	stmt := &SelectStmt{}

	if p.atWord("distinct") {
		p.advance()
		stmt.Distinct = true
	}

	if p.peek().kind == tokStar {
		p.advance()
		stmt.Fields = nil
	} else {
		fields, err := p.parseSelectList()
		if err != nil {
			return nil, err
		}
		stmt.Fields = fields
	}

	if err := p.expectWord("from"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	stmt.TableName = name

	if p.atWord("where") {
		p.advance()
		where, err := p.parseWhereExpr()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}
	return stmt, nil
}

func (p *parser) parseSelectList() (record.FieldList, error) {
	var fields record.FieldList
	for {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		fields = append(fields, name)

		t := p.peek()
		if t.kind == tokComma {
			p.advance()
			continue
		}
		break
	}
	return fields, nil
}

func (p *parser) parseDelete() (Statement, error) {
	p.advance() // delete
	if err := p.expectWord("from"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	stmt := &DeleteStmt{TableName: name}

	if p.atWord("where") {
		p.advance()
		where, err := p.parseWhereExpr()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}
	return stmt, nil
}

func (p *parser) parseWhereExpr() (*WhereExpr, error) {
	field, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	op, err := p.parseOp()
	if err != nil {
		return nil, err
	}
	lit, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	return &WhereExpr{Field: field, Op: op, Literal: lit}, nil
}

func (p *parser) parseOp() (CompareOp, error) {
	t := p.advance()
	switch t.kind {
	case tokEq:
		return OpEq, nil
	case tokNe:
		return OpNe, nil
	case tokGt:
		return OpGt, nil
	case tokGe:
		return OpGe, nil
	case tokLt:
		return OpLt, nil
	case tokLe:
		return OpLe, nil
	default:
		return 0, fmt.Errorf("sql: expected a comparison operator")
	}
}
