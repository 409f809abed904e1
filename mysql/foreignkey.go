package mysql

import (
	"strings"

	"github.com/wanghche/schemadef/schema"
	"github.com/wanghche/schemadef/util"
)

type ReferenceOption string

const (
	Restrict   ReferenceOption = "RESTRICT"
	Cascade    ReferenceOption = "CASCADE"
	SetNull    ReferenceOption = "SET NULL"
	NoAction   ReferenceOption = "NO ACTION"
	SetDefault ReferenceOption = "SET DEFAULT"
)

type ForeignKey struct {
	ID              schema.ID
	Name            string
	Fields          []string
	ReferenceDB     string
	ReferenceTable  string
	ReferenceFields []string
	OnDelete        ReferenceOption
	OnUpdate        ReferenceOption
}

func (k ForeignKey) EntityID() schema.ID { return k.ID }

func (k ForeignKey) Equal(o ForeignKey) bool {
	return k.Name == o.Name &&
		eqStrings(k.Fields, o.Fields) &&
		k.ReferenceDB == o.ReferenceDB &&
		k.ReferenceTable == o.ReferenceTable &&
		eqStrings(k.ReferenceFields, o.ReferenceFields) &&
		k.OnDelete == o.OnDelete &&
		k.OnUpdate == o.OnUpdate
}

// CreateFragment renders the constraint definition used in CREATE TABLE
// bodies and ADD clauses.
func (k ForeignKey) CreateFragment() string {
	var b strings.Builder
	b.WriteString("CONSTRAINT " + schema.QuoteMySQL(k.Name))
	b.WriteString(" FOREIGN KEY (" + joinQuotedMySQL(k.Fields) + ")")
	b.WriteString(" REFERENCES ")
	if k.ReferenceDB != "" {
		b.WriteString(schema.QuoteMySQL(k.ReferenceDB) + ".")
	}
	b.WriteString(schema.QuoteMySQL(k.ReferenceTable))
	b.WriteString(" (" + joinQuotedMySQL(k.ReferenceFields) + ")")
	if k.OnDelete != "" {
		b.WriteString(" ON DELETE " + string(k.OnDelete))
	}
	if k.OnUpdate != "" {
		b.WriteString(" ON UPDATE " + string(k.OnUpdate))
	}
	return b.String()
}

func (k ForeignKey) AddClause() string {
	return "ADD " + k.CreateFragment()
}

func (k ForeignKey) DropClause() string {
	return "DROP FOREIGN KEY " + schema.QuoteMySQL(k.Name)
}

// AlterClauses drops and re-adds the constraint on any change; MySQL has no
// in-place foreign key modification.
func (k ForeignKey) AlterClauses(old ForeignKey) []string {
	if k.Equal(old) {
		return nil
	}
	return []string{old.DropClause(), k.AddClause()}
}

func joinQuotedMySQL(names []string) string {
	return strings.Join(util.TransformSlice(names, schema.QuoteMySQL), ",")
}
