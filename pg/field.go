package pg

import (
	"fmt"
	"strings"

	"github.com/wanghche/schemadef/schema"
	"github.com/wanghche/schemadef/util"
)

type FieldKind string

const (
	KindBigInt       FieldKind = "bigint"
	KindBigSerial    FieldKind = "bigserial"
	KindBit          FieldKind = "bit"
	KindVarbit       FieldKind = "bit varying"
	KindBoolean      FieldKind = "boolean"
	KindBox          FieldKind = "box"
	KindBytea        FieldKind = "bytea"
	KindChar         FieldKind = "character"
	KindVarchar      FieldKind = "character varying"
	KindCidr         FieldKind = "cidr"
	KindCircle       FieldKind = "circle"
	KindDate         FieldKind = "date"
	KindFloat8       FieldKind = "double precision"
	KindInet         FieldKind = "inet"
	KindInteger      FieldKind = "integer"
	KindInterval     FieldKind = "interval"
	KindJSON         FieldKind = "json"
	KindJSONB        FieldKind = "jsonb"
	KindLine         FieldKind = "line"
	KindLseg         FieldKind = "lseg"
	KindMacaddr      FieldKind = "macaddr"
	KindMacaddr8     FieldKind = "macaddr8"
	KindMoney        FieldKind = "money"
	KindNumeric      FieldKind = "numeric"
	KindPath         FieldKind = "path"
	KindPgLsn        FieldKind = "pg_lsn"
	KindPoint        FieldKind = "point"
	KindPolygon      FieldKind = "polygon"
	KindReal         FieldKind = "real"
	KindSerial       FieldKind = "serial"
	KindSmallInt     FieldKind = "smallint"
	KindSmallSerial  FieldKind = "smallserial"
	KindText         FieldKind = "text"
	KindTime         FieldKind = "time"
	KindTimeTz       FieldKind = "timetz"
	KindTimestamp    FieldKind = "timestamp"
	KindTimestampTz  FieldKind = "timestamptz"
	KindTsQuery      FieldKind = "tsquery"
	KindTsVector     FieldKind = "tsvector"
	KindTxidSnapshot FieldKind = "txid_snapshot"
	KindUUID         FieldKind = "uuid"
	KindXML          FieldKind = "xml"
)

func (k FieldKind) hasLength() bool {
	switch k {
	case KindBit, KindVarbit, KindChar, KindVarchar, KindInterval,
		KindTime, KindTimeTz, KindTimestamp, KindTimestampTz:
		return true
	}
	return false
}

func (k FieldKind) hasDecimals() bool {
	return k == KindNumeric
}

// Field is one PostgreSQL column. Defaults are carried verbatim; they are
// expressions in PostgreSQL, so the caller supplies any quoting.
type Field struct {
	ID       schema.ID
	Name     string
	Kind     FieldKind
	Length   *int
	Decimals *int
	NotNull  bool
	Key      bool // part of the primary key
	Default  *string
	Comment  string
}

func (f Field) EntityID() schema.ID { return f.ID }

func (f Field) Equal(o Field) bool {
	return f.Name == o.Name && f.Kind == o.Kind &&
		eqIntPtr(f.Length, o.Length) && eqIntPtr(f.Decimals, o.Decimals) &&
		f.NotNull == o.NotNull && eqStrPtr(f.Default, o.Default) &&
		f.Comment == o.Comment
}

func (f Field) typeSpec() string {
	spec := string(f.Kind)
	switch {
	case f.Kind.hasDecimals() && f.Length != nil && f.Decimals != nil:
		spec += fmt.Sprintf("(%d,%d)", *f.Length, *f.Decimals)
	case (f.Kind.hasLength() || f.Kind.hasDecimals()) && f.Length != nil:
		spec += fmt.Sprintf("(%d)", *f.Length)
	}
	return spec
}

// CreateFragment renders the column definition for CREATE TABLE bodies and
// ADD COLUMN clauses.
func (f Field) CreateFragment() string {
	var b strings.Builder
	b.WriteString(schema.QuotePg(f.Name) + " " + f.typeSpec())
	if f.NotNull {
		b.WriteString(" NOT NULL")
	}
	if f.Default != nil {
		b.WriteString(" DEFAULT " + *f.Default)
	}
	return b.String()
}

func (f Field) AddClause() string {
	return "ADD COLUMN " + f.CreateFragment()
}

func (f Field) DropClause() string {
	return "DROP COLUMN " + schema.QuotePg(f.Name)
}

// AlterClauses renders the ALTER COLUMN clauses migrating the baseline
// column to this one. Renames and comments are handled separately.
func (f Field) AlterClauses(old Field) []string {
	col := "ALTER COLUMN " + schema.QuotePg(f.Name)
	var clauses []string
	if f.Kind != old.Kind || !eqIntPtr(f.Length, old.Length) || !eqIntPtr(f.Decimals, old.Decimals) {
		clauses = append(clauses, col+" TYPE "+f.typeSpec())
	}
	if !eqStrPtr(f.Default, old.Default) {
		if f.Default != nil {
			clauses = append(clauses, col+" SET DEFAULT "+*f.Default)
		} else {
			clauses = append(clauses, col+" DROP DEFAULT")
		}
	}
	if f.NotNull != old.NotNull {
		if f.NotNull {
			clauses = append(clauses, col+" SET NOT NULL")
		} else {
			clauses = append(clauses, col+" DROP NOT NULL")
		}
	}
	return clauses
}

// RenameStatement renders the standalone column rename.
func (f Field) RenameStatement(table, oldName string) string {
	return "ALTER TABLE " + table + " RENAME COLUMN " + schema.QuotePg(oldName) + " TO " + schema.QuotePg(f.Name)
}

// CommentStatement renders COMMENT ON COLUMN; an empty comment clears it.
func (f Field) CommentStatement(table string) string {
	return "COMMENT ON COLUMN " + table + "." + schema.QuotePg(f.Name) + " IS " + commentLiteral(f.Comment)
}

func commentLiteral(comment string) string {
	if comment == "" {
		return "NULL"
	}
	return schema.StringConstant(comment)
}

func eqIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqStrPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func joinQuotedPg(names []string) string {
	return strings.Join(util.TransformSlice(names, schema.QuotePg), ",")
}
