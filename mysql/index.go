package mysql

import (
	"fmt"
	"strings"

	"github.com/wanghche/schemadef/schema"
)

type IndexKind string

const (
	IndexNormal   IndexKind = "NORMAL"
	IndexUnique   IndexKind = "UNIQUE"
	IndexFullText IndexKind = "FULLTEXT"
	IndexSpatial  IndexKind = "SPATIAL"
)

type IndexMethod string

const (
	IndexBtree IndexMethod = "BTREE"
	IndexHash  IndexMethod = "HASH"
)

type IndexOrder string

const (
	OrderAsc  IndexOrder = "ASC"
	OrderDesc IndexOrder = "DESC"
)

// IndexField is one indexed column, optionally with a prefix length and a
// sort order.
type IndexField struct {
	Name    string
	SubPart *int
	Order   IndexOrder
}

func (f IndexField) String() string {
	s := schema.QuoteMySQL(f.Name)
	if f.SubPart != nil {
		s += fmt.Sprintf("(%d)", *f.SubPart)
	}
	if f.Order != "" {
		s += " " + string(f.Order)
	}
	return s
}

type Index struct {
	ID      schema.ID
	Name    string
	Fields  []IndexField
	Kind    IndexKind
	Method  IndexMethod
	Comment string
}

func (i Index) EntityID() schema.ID { return i.ID }

func (i Index) Equal(o Index) bool {
	return i.Name == o.Name && i.sameDefinition(o)
}

func (i Index) sameDefinition(o Index) bool {
	if i.Kind != o.Kind || i.Method != o.Method || i.Comment != o.Comment ||
		len(i.Fields) != len(o.Fields) {
		return false
	}
	for n := range i.Fields {
		if i.Fields[n] != o.Fields[n] {
			return false
		}
	}
	return true
}

// CreateFragment renders the index definition used in CREATE TABLE bodies.
func (i Index) CreateFragment() string {
	var b strings.Builder
	switch i.Kind {
	case IndexUnique:
		b.WriteString("UNIQUE ")
	case IndexFullText:
		b.WriteString("FULLTEXT ")
	case IndexSpatial:
		b.WriteString("SPATIAL ")
	}
	fields := make([]string, len(i.Fields))
	for n, f := range i.Fields {
		fields[n] = f.String()
	}
	b.WriteString("INDEX " + schema.QuoteMySQL(i.Name) + "(" + strings.Join(fields, ",") + ")")
	if i.Method != "" {
		b.WriteString(" USING " + string(i.Method))
	}
	if i.Comment != "" {
		b.WriteString(" COMMENT " + schema.StringConstant(i.Comment))
	}
	return b.String()
}

func (i Index) AddClause() string {
	return "ADD " + i.CreateFragment()
}

func (i Index) DropClause() string {
	return "DROP INDEX " + schema.QuoteMySQL(i.Name)
}

// AlterClauses renders the clauses migrating the baseline index to this one.
// A pure rename uses RENAME INDEX; any definition change drops the old index
// and re-adds it under the current name.
func (i Index) AlterClauses(old Index) []string {
	if i.sameDefinition(old) {
		if old.Name == i.Name {
			return nil
		}
		return []string{"RENAME INDEX " + schema.QuoteMySQL(old.Name) + " TO " + schema.QuoteMySQL(i.Name)}
	}
	return []string{old.DropClause(), i.AddClause()}
}
