package mysql

import (
	"fmt"
	"strings"

	"github.com/wanghche/schemadef/schema"
)

type FieldKind string

const (
	KindTinyInt            FieldKind = "tinyint"
	KindSmallInt           FieldKind = "smallint"
	KindMediumInt          FieldKind = "mediumint"
	KindInt                FieldKind = "int"
	KindInteger            FieldKind = "integer"
	KindBigInt             FieldKind = "bigint"
	KindDecimal            FieldKind = "decimal"
	KindNumeric            FieldKind = "numeric"
	KindFloat              FieldKind = "float"
	KindDouble             FieldKind = "double"
	KindReal               FieldKind = "real"
	KindBit                FieldKind = "bit"
	KindChar               FieldKind = "char"
	KindVarchar            FieldKind = "varchar"
	KindTinyText           FieldKind = "tinytext"
	KindText               FieldKind = "text"
	KindMediumText         FieldKind = "mediumtext"
	KindLongText           FieldKind = "longtext"
	KindBinary             FieldKind = "binary"
	KindVarbinary          FieldKind = "varbinary"
	KindTinyBlob           FieldKind = "tinyblob"
	KindBlob               FieldKind = "blob"
	KindMediumBlob         FieldKind = "mediumblob"
	KindLongBlob           FieldKind = "longblob"
	KindDate               FieldKind = "date"
	KindYear               FieldKind = "year"
	KindTime               FieldKind = "time"
	KindDateTime           FieldKind = "datetime"
	KindTimestamp          FieldKind = "timestamp"
	KindEnum               FieldKind = "enum"
	KindSet                FieldKind = "set"
	KindJSON               FieldKind = "json"
	KindGeometry           FieldKind = "geometry"
	KindPoint              FieldKind = "point"
	KindLineString         FieldKind = "linestring"
	KindPolygon            FieldKind = "polygon"
	KindMultiPoint         FieldKind = "multipoint"
	KindMultiLineString    FieldKind = "multilinestring"
	KindMultiPolygon       FieldKind = "multipolygon"
	KindGeometryCollection FieldKind = "geometrycollection"
)

func (k FieldKind) integer() bool {
	switch k {
	case KindTinyInt, KindSmallInt, KindMediumInt, KindInt, KindInteger, KindBigInt:
		return true
	}
	return false
}

func (k FieldKind) fixedOrFloat() bool {
	switch k {
	case KindDecimal, KindNumeric, KindFloat, KindDouble, KindReal:
		return true
	}
	return false
}

func (k FieldKind) stringly() bool {
	switch k {
	case KindChar, KindVarchar, KindTinyText, KindText, KindMediumText, KindLongText,
		KindEnum, KindSet, KindDate:
		return true
	}
	return false
}

func (k FieldKind) hasCharset() bool {
	switch k {
	case KindChar, KindVarchar, KindTinyText, KindText, KindMediumText, KindLongText,
		KindEnum, KindSet:
		return true
	}
	return false
}

func (k FieldKind) hasLength() bool {
	switch k {
	case KindBit, KindChar, KindVarchar, KindBinary, KindVarbinary,
		KindTime, KindDateTime, KindTimestamp:
		return true
	}
	return k.integer()
}

func (k FieldKind) temporal() bool {
	switch k {
	case KindTime, KindDateTime, KindTimestamp:
		return true
	}
	return false
}

func (k FieldKind) enumerated() bool {
	return k == KindEnum || k == KindSet
}

// Field is one MySQL column. Only the attributes meaningful for the kind's
// family are rendered; the rest are ignored.
type Field struct {
	ID            schema.ID
	Name          string
	Kind          FieldKind
	Length        *int
	Decimals      *int
	Values        []string // enum and set members
	Unsigned      bool
	Zerofill      bool
	NotNull       bool
	Key           bool // part of the primary key
	AutoIncrement bool
	Default       *string
	OnUpdate      *string
	Charset       string
	Collation     string
	Comment       string
}

func (f Field) EntityID() schema.ID { return f.ID }

func (f Field) Equal(o Field) bool {
	return f.Name == o.Name &&
		f.Kind == o.Kind &&
		eqIntPtr(f.Length, o.Length) &&
		eqIntPtr(f.Decimals, o.Decimals) &&
		eqStrings(f.Values, o.Values) &&
		f.Unsigned == o.Unsigned &&
		f.Zerofill == o.Zerofill &&
		f.NotNull == o.NotNull &&
		f.AutoIncrement == o.AutoIncrement &&
		eqStrPtr(f.Default, o.Default) &&
		eqStrPtr(f.OnUpdate, o.OnUpdate) &&
		f.Charset == o.Charset &&
		f.Collation == o.Collation &&
		f.Comment == o.Comment
}

func (f Field) typeSpec() string {
	spec := strings.ToUpper(string(f.Kind))
	switch {
	case f.Kind.enumerated():
		members := make([]string, len(f.Values))
		for i, v := range f.Values {
			members[i] = schema.StringConstant(v)
		}
		spec += "(" + strings.Join(members, ",") + ")"
	case f.Kind.fixedOrFloat() && f.Length != nil:
		if f.Decimals != nil {
			spec += fmt.Sprintf("(%d,%d)", *f.Length, *f.Decimals)
		} else {
			spec += fmt.Sprintf("(%d)", *f.Length)
		}
	case f.Kind.hasLength() && f.Length != nil:
		spec += fmt.Sprintf("(%d)", *f.Length)
	}
	return spec
}

func (f Field) defaultLiteral() string {
	if f.Kind.stringly() {
		return schema.StringConstant(*f.Default)
	}
	return *f.Default
}

// CreateFragment renders the column definition used in CREATE TABLE bodies
// and in ADD COLUMN / CHANGE COLUMN clauses.
func (f Field) CreateFragment() string {
	var b strings.Builder
	b.WriteString(schema.QuoteMySQL(f.Name))
	b.WriteString(" ")
	b.WriteString(f.typeSpec())
	if f.Unsigned && (f.Kind.integer() || f.Kind.fixedOrFloat()) {
		b.WriteString(" UNSIGNED")
	}
	if f.Zerofill && (f.Kind.integer() || f.Kind.fixedOrFloat()) {
		b.WriteString(" ZEROFILL")
	}
	if f.Charset != "" && f.Kind.hasCharset() {
		b.WriteString(" CHARACTER SET " + f.Charset)
	}
	if f.Collation != "" && f.Kind.hasCharset() {
		b.WriteString(" COLLATE " + f.Collation)
	}
	if f.NotNull {
		b.WriteString(" NOT NULL")
	}
	if f.Default != nil {
		b.WriteString(" DEFAULT " + f.defaultLiteral())
	}
	if f.AutoIncrement && f.Kind.integer() {
		b.WriteString(" AUTO_INCREMENT")
	}
	if f.OnUpdate != nil && f.Kind.temporal() {
		b.WriteString(" ON UPDATE " + *f.OnUpdate)
	}
	if f.Comment != "" {
		b.WriteString(" COMMENT " + schema.StringConstant(f.Comment))
	}
	return b.String()
}

// AddClause renders the ALTER TABLE clause adding this column.
func (f Field) AddClause() string {
	return "ADD COLUMN " + f.CreateFragment()
}

// DropClause renders the ALTER TABLE clause dropping this column.
func (f Field) DropClause() string {
	return "DROP COLUMN " + schema.QuoteMySQL(f.Name)
}

// ChangeClause renders the CHANGE COLUMN clause rewriting this column from
// its baseline version. A rename is folded into the same clause.
func (f Field) ChangeClause(old Field) string {
	return "CHANGE COLUMN " + schema.QuoteMySQL(old.Name) + " " + f.CreateFragment()
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
