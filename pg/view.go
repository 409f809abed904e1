package pg

import "github.com/wanghche/schemadef/schema"

// ViewState is one snapshot of a view.
type ViewState struct {
	Schema     string
	Name       string
	Definition string
	Rules      []Rule
	Comment    string
}

func (s ViewState) Clone() ViewState {
	c := s
	c.Rules = append([]Rule(nil), s.Rules...)
	return c
}

func (s ViewState) qualified() string {
	return qualify(s.Schema, s.Name)
}

// View owns a baseline snapshot (nil until the view exists) and the current
// edited snapshot.
type View struct {
	Baseline *ViewState
	Current  ViewState
}

func (v *View) Statements() ([]string, error) {
	if v.Baseline == nil {
		return v.createStatements(), nil
	}
	return v.alterStatements(*v.Baseline), nil
}

func (v *View) Commit() {
	s := v.Current.Clone()
	v.Baseline = &s
}

func (v *View) createStatements() []string {
	cur := v.Current
	ddls := []string{"CREATE VIEW " + cur.qualified() + " AS " + cur.Definition + ";"}
	for _, r := range cur.Rules {
		ddls = append(ddls, r.CreateStatement(cur.qualified())+";")
	}
	for _, r := range cur.Rules {
		if r.Comment != "" {
			ddls = append(ddls, r.CommentStatement(cur.qualified())+";")
		}
	}
	if cur.Comment != "" {
		ddls = append(ddls, "COMMENT ON VIEW "+cur.qualified()+" IS "+schema.StringConstant(cur.Comment)+";")
	}
	return ddls
}

func (v *View) alterStatements(base ViewState) []string {
	cur := v.Current
	var ddls []string

	if base.Name != cur.Name {
		ddls = append(ddls, "ALTER VIEW "+base.qualified()+" RENAME TO "+schema.QuotePg(cur.Name)+";")
	}
	if !queryEquivalent(cur.Definition, base.Definition) {
		ddls = append(ddls, "CREATE OR REPLACE VIEW "+cur.qualified()+" AS "+cur.Definition+";")
	}

	var cs schema.ChangeSet
	// Reuse the table rule diff against the view's relation name.
	t := &Table{Schema: cur.Schema, Name: cur.Name}
	t.Current.Rules = cur.Rules
	t.ruleChanges(&cs, TableState{Rules: base.Rules}, cur.qualified())
	ddls = append(ddls, cs.Build("")...)

	if cur.Comment != base.Comment {
		ddls = append(ddls, "COMMENT ON VIEW "+cur.qualified()+" IS "+commentLiteral(cur.Comment)+";")
	}
	return ddls
}
