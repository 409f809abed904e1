package mysql

import (
	"strings"

	"github.com/wanghche/schemadef/schema"
)

type ViewAlgorithm string

const (
	AlgorithmUndefined ViewAlgorithm = "UNDEFINED"
	AlgorithmMerge     ViewAlgorithm = "MERGE"
	AlgorithmTempTable ViewAlgorithm = "TEMPTABLE"
)

type SQLSecurity string

const (
	SecurityDefiner SQLSecurity = "DEFINER"
	SecurityInvoker SQLSecurity = "INVOKER"
)

type CheckOption string

const (
	CheckNone     CheckOption = ""
	CheckCascaded CheckOption = "CASCADED"
	CheckLocal    CheckOption = "LOCAL"
)

// ViewState is one snapshot of a view definition.
type ViewState struct {
	Name        string
	Algorithm   ViewAlgorithm
	Definer     string
	Security    SQLSecurity
	CheckOption CheckOption
	Definition  string
}

func (s ViewState) Equal(o ViewState) bool {
	return s == o
}

func (s ViewState) definitionClause(verb string) string {
	var b strings.Builder
	b.WriteString(verb)
	if s.Algorithm != "" {
		b.WriteString(" ALGORITHM = " + string(s.Algorithm))
	}
	if s.Definer != "" {
		b.WriteString(" DEFINER = " + s.Definer)
	}
	if s.Security != "" {
		b.WriteString(" SQL SECURITY " + string(s.Security))
	}
	b.WriteString(" VIEW " + schema.QuoteMySQL(s.Name) + " AS " + s.Definition)
	if s.CheckOption != CheckNone {
		b.WriteString(" WITH " + string(s.CheckOption) + " CHECK OPTION")
	}
	return b.String()
}

// View owns a baseline snapshot (nil until the view exists) and the current
// edited snapshot.
type View struct {
	Baseline *ViewState
	Current  ViewState
}

func (v *View) Statements() ([]string, error) {
	if v.Baseline == nil {
		return []string{v.Current.definitionClause("CREATE") + ";"}, nil
	}
	base := *v.Baseline
	var ddls []string
	if base.Name != v.Current.Name {
		// MySQL renames views through RENAME TABLE.
		ddls = append(ddls, "RENAME TABLE "+schema.QuoteMySQL(base.Name)+" TO "+schema.QuoteMySQL(v.Current.Name)+";")
		base.Name = v.Current.Name
	}
	if !v.Current.Equal(base) {
		ddls = append(ddls, v.Current.definitionClause("ALTER")+";")
	}
	return ddls, nil
}

func (v *View) Commit() {
	s := v.Current
	v.Baseline = &s
}
