package pg

import (
	"strings"

	"github.com/wanghche/schemadef/schema"
)

type ReferenceAction string

const (
	NoAction   ReferenceAction = "NO ACTION"
	Restrict   ReferenceAction = "RESTRICT"
	Cascade    ReferenceAction = "CASCADE"
	SetNull    ReferenceAction = "SET NULL"
	SetDefault ReferenceAction = "SET DEFAULT"
)

func dropConstraintClause(name string) string {
	return "DROP CONSTRAINT " + schema.QuotePg(name)
}

func renameConstraintStatement(table, oldName, newName string) string {
	return "ALTER TABLE " + table + " RENAME CONSTRAINT " + schema.QuotePg(oldName) + " TO " + schema.QuotePg(newName)
}

func constraintCommentStatement(table, name, comment string) string {
	return "COMMENT ON CONSTRAINT " + schema.QuotePg(name) + " ON " + table + " IS " + commentLiteral(comment)
}

type ForeignKey struct {
	ID              schema.ID
	Name            string
	Fields          []string
	ReferenceSchema string
	ReferenceTable  string
	ReferenceFields []string
	OnDelete        ReferenceAction
	OnUpdate        ReferenceAction
	Comment         string
}

func (k ForeignKey) EntityID() schema.ID { return k.ID }

func (k ForeignKey) sameDefinition(o ForeignKey) bool {
	return eqStrings(k.Fields, o.Fields) &&
		k.ReferenceSchema == o.ReferenceSchema &&
		k.ReferenceTable == o.ReferenceTable &&
		eqStrings(k.ReferenceFields, o.ReferenceFields) &&
		k.OnDelete == o.OnDelete &&
		k.OnUpdate == o.OnUpdate
}

func (k ForeignKey) CreateFragment() string {
	var b strings.Builder
	b.WriteString("CONSTRAINT " + schema.QuotePg(k.Name))
	b.WriteString(" FOREIGN KEY (" + joinQuotedPg(k.Fields) + ") REFERENCES ")
	b.WriteString(qualify(k.ReferenceSchema, k.ReferenceTable))
	b.WriteString(" (" + joinQuotedPg(k.ReferenceFields) + ")")
	if k.OnDelete != "" {
		b.WriteString(" ON DELETE " + string(k.OnDelete))
	}
	if k.OnUpdate != "" {
		b.WriteString(" ON UPDATE " + string(k.OnUpdate))
	}
	return b.String()
}

type Unique struct {
	ID      schema.ID
	Name    string
	Fields  []string
	Comment string
}

func (u Unique) EntityID() schema.ID { return u.ID }

func (u Unique) sameDefinition(o Unique) bool {
	return eqStrings(u.Fields, o.Fields)
}

func (u Unique) CreateFragment() string {
	return "CONSTRAINT " + schema.QuotePg(u.Name) + " UNIQUE (" + joinQuotedPg(u.Fields) + ")"
}

type Check struct {
	ID         schema.ID
	Name       string
	Expression string
	NoInherit  bool
	Comment    string
}

func (c Check) EntityID() schema.ID { return c.ID }

func (c Check) sameDefinition(o Check) bool {
	return exprEquivalent(c.Expression, o.Expression) && c.NoInherit == o.NoInherit
}

func (c Check) CreateFragment() string {
	s := "CONSTRAINT " + schema.QuotePg(c.Name) + " CHECK (" + c.Expression + ")"
	if c.NoInherit {
		s += " NO INHERIT"
	}
	return s
}

// ExcludeElement is one element of an exclusion constraint; Operator is the
// conflict operator after WITH.
type ExcludeElement struct {
	Element        string
	OpClassSchema  string
	OpClass        string
	Order          string // ASC or DESC
	NullsOrder     string // FIRST or LAST
	OperatorSchema string
	Operator       string
}

func (e ExcludeElement) String() string {
	var b strings.Builder
	b.WriteString(schema.QuotePg(e.Element))
	if e.OpClass != "" {
		b.WriteString(" ")
		if e.OpClassSchema != "" {
			b.WriteString(schema.QuotePg(e.OpClassSchema) + ".")
		}
		b.WriteString(e.OpClass)
	}
	if e.Order != "" {
		b.WriteString(" " + e.Order)
	}
	if e.NullsOrder != "" {
		b.WriteString(" NULLS " + e.NullsOrder)
	}
	b.WriteString(" WITH ")
	if e.OperatorSchema != "" {
		b.WriteString("OPERATOR(" + schema.QuotePg(e.OperatorSchema) + "." + e.Operator + ")")
	} else {
		b.WriteString(e.Operator)
	}
	return b.String()
}

type Exclude struct {
	ID       schema.ID
	Name     string
	Method   IndexMethod
	Elements []ExcludeElement
	Comment  string
}

func (x Exclude) EntityID() schema.ID { return x.ID }

func (x Exclude) sameDefinition(o Exclude) bool {
	if x.Method != o.Method || len(x.Elements) != len(o.Elements) {
		return false
	}
	for i := range x.Elements {
		if x.Elements[i] != o.Elements[i] {
			return false
		}
	}
	return true
}

func (x Exclude) CreateFragment() string {
	var b strings.Builder
	b.WriteString("CONSTRAINT " + schema.QuotePg(x.Name) + " EXCLUDE")
	if x.Method != "" {
		b.WriteString(" USING " + string(x.Method))
	}
	elems := make([]string, len(x.Elements))
	for i, e := range x.Elements {
		elems[i] = e.String()
	}
	b.WriteString(" (" + strings.Join(elems, ", ") + ")")
	return b.String()
}
