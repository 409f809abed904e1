package pg

import (
	"strings"

	"github.com/wanghche/schemadef/schema"
)

type IndexMethod string

const (
	MethodBtree  IndexMethod = "btree"
	MethodHash   IndexMethod = "hash"
	MethodGist   IndexMethod = "gist"
	MethodGin    IndexMethod = "gin"
	MethodSpgist IndexMethod = "spgist"
	MethodBrin   IndexMethod = "brin"
)

// IndexField is one index element with its ordering and operator class.
type IndexField struct {
	Name            string
	CollationSchema string
	Collation       string
	OpClassSchema   string
	OpClass         string
	Order           string // ASC or DESC
	NullsOrder      string // FIRST or LAST
}

func (f IndexField) String() string {
	var b strings.Builder
	b.WriteString(schema.QuotePg(f.Name))
	if f.Collation != "" {
		b.WriteString(" COLLATE ")
		if f.CollationSchema != "" {
			b.WriteString(schema.QuotePg(f.CollationSchema) + ".")
		}
		b.WriteString(schema.QuotePg(f.Collation))
	}
	if f.OpClass != "" {
		b.WriteString(" ")
		if f.OpClassSchema != "" {
			b.WriteString(schema.QuotePg(f.OpClassSchema) + ".")
		}
		b.WriteString(f.OpClass)
	}
	if f.Order != "" {
		b.WriteString(" " + f.Order)
	}
	if f.NullsOrder != "" {
		b.WriteString(" NULLS " + f.NullsOrder)
	}
	return b.String()
}

// Index is always managed through standalone statements in PostgreSQL.
type Index struct {
	ID      schema.ID
	Name    string
	Unique  bool
	Method  IndexMethod
	Fields  []IndexField
	Comment string
}

func (i Index) EntityID() schema.ID { return i.ID }

func (i Index) sameDefinition(o Index) bool {
	if i.Unique != o.Unique || i.Method != o.Method || len(i.Fields) != len(o.Fields) {
		return false
	}
	for n := range i.Fields {
		if i.Fields[n] != o.Fields[n] {
			return false
		}
	}
	return true
}

func (i Index) qualifiedName(schemaName string) string {
	if schemaName == "" {
		return schema.QuotePg(i.Name)
	}
	return schema.QuotePg(schemaName) + "." + schema.QuotePg(i.Name)
}

func (i Index) CreateStatement(table string) string {
	var b strings.Builder
	b.WriteString("CREATE ")
	if i.Unique {
		b.WriteString("UNIQUE ")
	}
	b.WriteString("INDEX " + schema.QuotePg(i.Name) + " ON " + table)
	if i.Method != "" {
		b.WriteString(" USING " + string(i.Method))
	}
	elems := make([]string, len(i.Fields))
	for n, f := range i.Fields {
		elems[n] = f.String()
	}
	b.WriteString(" (" + strings.Join(elems, ", ") + ")")
	return b.String()
}

func (i Index) DropStatement(schemaName string) string {
	return "DROP INDEX " + i.qualifiedName(schemaName)
}

func (i Index) RenameStatement(oldName string) string {
	return "ALTER INDEX " + schema.QuotePg(oldName) + " RENAME TO " + schema.QuotePg(i.Name)
}

func (i Index) CommentStatement(schemaName string) string {
	return "COMMENT ON INDEX " + i.qualifiedName(schemaName) + " IS " + commentLiteral(i.Comment)
}
