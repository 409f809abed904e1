package pg

import (
	"fmt"
	"strings"

	"github.com/wanghche/schemadef/schema"
)

func qualify(schemaName, name string) string {
	if schemaName == "" {
		return schema.QuotePg(name)
	}
	return schema.QuotePg(schemaName) + "." + schema.QuotePg(name)
}

// TableState is one snapshot of a table's sub-entities.
type TableState struct {
	Fields []Field
	// KeyName is the primary key constraint name in the live database;
	// empty falls back to the <table>_pkey convention.
	KeyName     string
	Indexes     []Index
	ForeignKeys []ForeignKey
	Uniques     []Unique
	Checks      []Check
	Excludes    []Exclude
	Rules       []Rule
	Triggers    []Trigger
	Comment     string
}

func (s TableState) Clone() TableState {
	c := s
	c.Fields = append([]Field(nil), s.Fields...)
	for i := range c.Fields {
		if c.Fields[i].Length != nil {
			v := *c.Fields[i].Length
			c.Fields[i].Length = &v
		}
		if c.Fields[i].Decimals != nil {
			v := *c.Fields[i].Decimals
			c.Fields[i].Decimals = &v
		}
		if c.Fields[i].Default != nil {
			v := *c.Fields[i].Default
			c.Fields[i].Default = &v
		}
	}
	c.Indexes = append([]Index(nil), s.Indexes...)
	for i := range c.Indexes {
		c.Indexes[i].Fields = append([]IndexField(nil), c.Indexes[i].Fields...)
	}
	c.ForeignKeys = append([]ForeignKey(nil), s.ForeignKeys...)
	for i := range c.ForeignKeys {
		c.ForeignKeys[i].Fields = append([]string(nil), c.ForeignKeys[i].Fields...)
		c.ForeignKeys[i].ReferenceFields = append([]string(nil), c.ForeignKeys[i].ReferenceFields...)
	}
	c.Uniques = append([]Unique(nil), s.Uniques...)
	for i := range c.Uniques {
		c.Uniques[i].Fields = append([]string(nil), c.Uniques[i].Fields...)
	}
	c.Checks = append([]Check(nil), s.Checks...)
	c.Excludes = append([]Exclude(nil), s.Excludes...)
	for i := range c.Excludes {
		c.Excludes[i].Elements = append([]ExcludeElement(nil), c.Excludes[i].Elements...)
	}
	c.Rules = append([]Rule(nil), s.Rules...)
	c.Triggers = append([]Trigger(nil), s.Triggers...)
	for i := range c.Triggers {
		c.Triggers[i].UpdateColumns = append([]string(nil), c.Triggers[i].UpdateColumns...)
	}
	return c
}

func (s TableState) keyFields() []string {
	var names []string
	for _, f := range s.Fields {
		if f.Key {
			names = append(names, f.Name)
		}
	}
	return names
}

// Table owns a baseline snapshot (nil until the table exists) and the
// current edited snapshot.
type Table struct {
	Schema   string
	Name     string
	Baseline *TableState
	Current  TableState
}

func (t *Table) qualified() string {
	return qualify(t.Schema, t.Name)
}

func (t *Table) keyName(base TableState) string {
	if base.KeyName != "" {
		return base.KeyName
	}
	return t.Name + "_pkey"
}

// Statements plans the DDL migrating the baseline to the current snapshot.
// Without a baseline a full CREATE script is synthesized.
func (t *Table) Statements() ([]string, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	if t.Baseline == nil {
		return t.createStatements(), nil
	}
	return t.alterStatements(*t.Baseline), nil
}

// Commit advances the baseline to the current snapshot after a successful
// apply.
func (t *Table) Commit() {
	s := t.Current.Clone()
	t.Baseline = &s
}

func (t *Table) validate() error {
	fields := make(map[string]bool, len(t.Current.Fields))
	for _, f := range t.Current.Fields {
		fields[f.Name] = true
	}
	for _, idx := range t.Current.Indexes {
		for _, f := range idx.Fields {
			if !fields[f.Name] {
				return fmt.Errorf("table %s: index %s references unknown field %s", t.Name, idx.Name, f.Name)
			}
		}
	}
	for _, fk := range t.Current.ForeignKeys {
		for _, f := range fk.Fields {
			if !fields[f] {
				return fmt.Errorf("table %s: foreign key %s references unknown field %s", t.Name, fk.Name, f)
			}
		}
	}
	for _, u := range t.Current.Uniques {
		for _, f := range u.Fields {
			if !fields[f] {
				return fmt.Errorf("table %s: unique %s references unknown field %s", t.Name, u.Name, f)
			}
		}
	}
	for _, x := range t.Current.Excludes {
		for _, e := range x.Elements {
			if !fields[e.Element] {
				return fmt.Errorf("table %s: exclude %s references unknown field %s", t.Name, x.Name, e.Element)
			}
		}
	}
	return nil
}

// createStatements synthesizes the full CREATE script: one CREATE TABLE
// with inline constraints, then standalone indexes, rules and triggers,
// then every comment.
func (t *Table) createStatements() []string {
	table := t.qualified()

	var parts []string
	for _, f := range t.Current.Fields {
		parts = append(parts, f.CreateFragment())
	}
	if keys := t.Current.keyFields(); len(keys) > 0 {
		parts = append(parts, "PRIMARY KEY ("+joinQuotedPg(keys)+")")
	}
	for _, fk := range t.Current.ForeignKeys {
		parts = append(parts, fk.CreateFragment())
	}
	for _, u := range t.Current.Uniques {
		parts = append(parts, u.CreateFragment())
	}
	for _, ck := range t.Current.Checks {
		parts = append(parts, ck.CreateFragment())
	}
	for _, x := range t.Current.Excludes {
		parts = append(parts, x.CreateFragment())
	}

	ddls := []string{"CREATE TABLE " + table + " (" + strings.Join(parts, ", ") + ");"}
	for _, idx := range t.Current.Indexes {
		ddls = append(ddls, idx.CreateStatement(table)+";")
	}
	for _, r := range t.Current.Rules {
		ddls = append(ddls, r.CreateStatement(table)+";")
	}
	for _, tr := range t.Current.Triggers {
		ddls = append(ddls, tr.CreateStatement(table)+";")
	}

	for _, f := range t.Current.Fields {
		if f.Comment != "" {
			ddls = append(ddls, f.CommentStatement(table)+";")
		}
	}
	for _, idx := range t.Current.Indexes {
		if idx.Comment != "" {
			ddls = append(ddls, idx.CommentStatement(t.Schema)+";")
		}
	}
	for _, r := range t.Current.Rules {
		if r.Comment != "" {
			ddls = append(ddls, r.CommentStatement(table)+";")
		}
	}
	for _, tr := range t.Current.Triggers {
		if tr.Comment != "" {
			ddls = append(ddls, tr.CommentStatement(table)+";")
		}
	}
	if t.Current.Comment != "" {
		ddls = append(ddls, "COMMENT ON TABLE "+table+" IS "+schema.StringConstant(t.Current.Comment)+";")
	}
	return ddls
}

func (t *Table) alterStatements(base TableState) []string {
	var cs schema.ChangeSet
	table := t.qualified()

	t.fieldChanges(&cs, base, table)
	t.primaryKeyChanges(&cs, base)
	t.indexChanges(&cs, base, table)
	t.foreignKeyChanges(&cs, base, table)
	t.uniqueChanges(&cs, base, table)
	t.checkChanges(&cs, base, table)
	t.excludeChanges(&cs, base, table)
	t.ruleChanges(&cs, base, table)
	t.triggerChanges(&cs, base, table)

	if t.Current.Comment != base.Comment {
		cs.Comment("COMMENT ON TABLE " + table + " IS " + commentLiteral(t.Current.Comment))
	}

	return cs.Build("ALTER TABLE " + table)
}

func (t *Table) fieldChanges(cs *schema.ChangeSet, base TableState, table string) {
	delta := schema.DiffByID(base.Fields, t.Current.Fields)
	for _, p := range delta.Matched {
		if p.New.Name != p.Old.Name {
			cs.Rename(p.New.RenameStatement(table, p.Old.Name))
		}
		cs.Clauses(p.New.AlterClauses(p.Old))
		if p.New.Comment != p.Old.Comment {
			cs.Comment(p.New.CommentStatement(table))
		}
	}
	for _, f := range delta.Added {
		cs.Clause(f.AddClause())
		if f.Comment != "" {
			cs.Comment(f.CommentStatement(table))
		}
	}
	for _, f := range delta.Removed {
		cs.Clause(f.DropClause())
	}
}

func (t *Table) primaryKeyChanges(cs *schema.ChangeSet, base TableState) {
	oldKeys := keyFieldIDs(base.Fields)
	newKeys := keyFieldIDs(t.Current.Fields)
	if sameIDSet(oldKeys, newKeys) {
		return
	}
	if len(oldKeys) > 0 {
		cs.Clause(dropConstraintClause(t.keyName(base)))
	}
	if names := t.Current.keyFields(); len(names) > 0 {
		cs.Clause("ADD PRIMARY KEY (" + joinQuotedPg(names) + ")")
	}
}

func (t *Table) indexChanges(cs *schema.ChangeSet, base TableState, table string) {
	delta := schema.DiffByID(base.Indexes, t.Current.Indexes)
	for _, p := range delta.Matched {
		recreated := !p.New.sameDefinition(p.Old)
		if recreated {
			cs.Statement(p.Old.DropStatement(t.Schema))
			cs.Statement(p.New.CreateStatement(table))
		} else if p.New.Name != p.Old.Name {
			cs.Rename(p.New.RenameStatement(p.Old.Name))
		}
		if p.New.Comment != p.Old.Comment || (recreated && p.New.Comment != "") {
			cs.Comment(p.New.CommentStatement(t.Schema))
		}
	}
	for _, idx := range delta.Added {
		cs.Statement(idx.CreateStatement(table))
		if idx.Comment != "" {
			cs.Comment(idx.CommentStatement(t.Schema))
		}
	}
	for _, idx := range delta.Removed {
		cs.Statement(idx.DropStatement(t.Schema))
	}
}

func (t *Table) foreignKeyChanges(cs *schema.ChangeSet, base TableState, table string) {
	delta := schema.DiffByID(base.ForeignKeys, t.Current.ForeignKeys)
	for _, p := range delta.Matched {
		recreated := !p.New.sameDefinition(p.Old)
		if recreated {
			cs.Clause(dropConstraintClause(p.Old.Name))
			cs.Clause("ADD " + p.New.CreateFragment())
		} else if p.New.Name != p.Old.Name {
			cs.Rename(renameConstraintStatement(table, p.Old.Name, p.New.Name))
		}
		if p.New.Comment != p.Old.Comment || (recreated && p.New.Comment != "") {
			cs.Comment(constraintCommentStatement(table, p.New.Name, p.New.Comment))
		}
	}
	for _, fk := range delta.Added {
		cs.Clause("ADD " + fk.CreateFragment())
		if fk.Comment != "" {
			cs.Comment(constraintCommentStatement(table, fk.Name, fk.Comment))
		}
	}
	for _, fk := range delta.Removed {
		cs.Clause(dropConstraintClause(fk.Name))
	}
}

func (t *Table) uniqueChanges(cs *schema.ChangeSet, base TableState, table string) {
	delta := schema.DiffByID(base.Uniques, t.Current.Uniques)
	for _, p := range delta.Matched {
		recreated := !p.New.sameDefinition(p.Old)
		if recreated {
			cs.Clause(dropConstraintClause(p.Old.Name))
			cs.Clause("ADD " + p.New.CreateFragment())
		} else if p.New.Name != p.Old.Name {
			cs.Rename(renameConstraintStatement(table, p.Old.Name, p.New.Name))
		}
		if p.New.Comment != p.Old.Comment || (recreated && p.New.Comment != "") {
			cs.Comment(constraintCommentStatement(table, p.New.Name, p.New.Comment))
		}
	}
	for _, u := range delta.Added {
		cs.Clause("ADD " + u.CreateFragment())
		if u.Comment != "" {
			cs.Comment(constraintCommentStatement(table, u.Name, u.Comment))
		}
	}
	for _, u := range delta.Removed {
		cs.Clause(dropConstraintClause(u.Name))
	}
}

func (t *Table) checkChanges(cs *schema.ChangeSet, base TableState, table string) {
	delta := schema.DiffByID(base.Checks, t.Current.Checks)
	for _, p := range delta.Matched {
		recreated := !p.New.sameDefinition(p.Old)
		if recreated {
			cs.Clause(dropConstraintClause(p.Old.Name))
			cs.Clause("ADD " + p.New.CreateFragment())
		} else if p.New.Name != p.Old.Name {
			cs.Rename(renameConstraintStatement(table, p.Old.Name, p.New.Name))
		}
		if p.New.Comment != p.Old.Comment || (recreated && p.New.Comment != "") {
			cs.Comment(constraintCommentStatement(table, p.New.Name, p.New.Comment))
		}
	}
	for _, ck := range delta.Added {
		cs.Clause("ADD " + ck.CreateFragment())
		if ck.Comment != "" {
			cs.Comment(constraintCommentStatement(table, ck.Name, ck.Comment))
		}
	}
	for _, ck := range delta.Removed {
		cs.Clause(dropConstraintClause(ck.Name))
	}
}

func (t *Table) excludeChanges(cs *schema.ChangeSet, base TableState, table string) {
	delta := schema.DiffByID(base.Excludes, t.Current.Excludes)
	for _, p := range delta.Matched {
		recreated := !p.New.sameDefinition(p.Old)
		if recreated {
			cs.Clause(dropConstraintClause(p.Old.Name))
			cs.Clause("ADD " + p.New.CreateFragment())
		} else if p.New.Name != p.Old.Name {
			cs.Rename(renameConstraintStatement(table, p.Old.Name, p.New.Name))
		}
		if p.New.Comment != p.Old.Comment || (recreated && p.New.Comment != "") {
			cs.Comment(constraintCommentStatement(table, p.New.Name, p.New.Comment))
		}
	}
	for _, x := range delta.Added {
		cs.Clause("ADD " + x.CreateFragment())
		if x.Comment != "" {
			cs.Comment(constraintCommentStatement(table, x.Name, x.Comment))
		}
	}
	for _, x := range delta.Removed {
		cs.Clause(dropConstraintClause(x.Name))
	}
}

func (t *Table) ruleChanges(cs *schema.ChangeSet, base TableState, table string) {
	delta := schema.DiffByID(base.Rules, t.Current.Rules)
	for _, p := range delta.Matched {
		recreated := !p.New.sameDefinition(p.Old)
		if recreated {
			cs.Statement(p.Old.DropStatement(table))
			cs.Statement(p.New.CreateStatement(table))
		} else if p.New.Name != p.Old.Name {
			cs.Rename(p.New.RenameStatement(table, p.Old.Name))
		}
		if p.New.Comment != p.Old.Comment || (recreated && p.New.Comment != "") {
			cs.Comment(p.New.CommentStatement(table))
		}
	}
	for _, r := range delta.Added {
		cs.Statement(r.CreateStatement(table))
		if r.Comment != "" {
			cs.Comment(r.CommentStatement(table))
		}
	}
	for _, r := range delta.Removed {
		cs.Statement(r.DropStatement(table))
	}
}

func (t *Table) triggerChanges(cs *schema.ChangeSet, base TableState, table string) {
	delta := schema.DiffByID(base.Triggers, t.Current.Triggers)
	for _, p := range delta.Matched {
		recreated := !p.New.sameDefinition(p.Old)
		if recreated {
			cs.Statement(p.Old.DropStatement(table))
			cs.Statement(p.New.CreateStatement(table))
		} else if p.New.Name != p.Old.Name {
			cs.Rename(p.New.RenameStatement(table, p.Old.Name))
		}
		if p.New.Comment != p.Old.Comment || (recreated && p.New.Comment != "") {
			cs.Comment(p.New.CommentStatement(table))
		}
	}
	for _, tr := range delta.Added {
		cs.Statement(tr.CreateStatement(table))
		if tr.Comment != "" {
			cs.Comment(tr.CommentStatement(table))
		}
	}
	for _, tr := range delta.Removed {
		cs.Statement(tr.DropStatement(table))
	}
}

func keyFieldIDs(fields []Field) []schema.ID {
	var ids []schema.ID
	for _, f := range fields {
		if f.Key {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

func sameIDSet(a, b []schema.ID) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[schema.ID]bool, len(a))
	for _, id := range a {
		set[id] = true
	}
	for _, id := range b {
		if !set[id] {
			return false
		}
	}
	return true
}
