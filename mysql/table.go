package mysql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wanghche/schemadef/schema"
)

// TableOptions are the table-level storage options. On creation they render
// inline after the column list; on alteration each changed option becomes
// one ALTER TABLE clause.
type TableOptions struct {
	Engine       string
	Charset      string
	Collation    string
	AvgRowLength *int
	MinRows      *int
	MaxRows      *int
	KeyBlockSize *int
	Comment      string
}

func (o TableOptions) createSuffix() string {
	var b strings.Builder
	if o.Engine != "" {
		b.WriteString(" ENGINE = " + o.Engine)
	}
	if o.Charset != "" {
		b.WriteString(" DEFAULT CHARACTER SET = " + o.Charset)
	}
	if o.Collation != "" {
		b.WriteString(" DEFAULT COLLATE = " + o.Collation)
	}
	if o.AvgRowLength != nil {
		b.WriteString(" AVG_ROW_LENGTH = " + strconv.Itoa(*o.AvgRowLength))
	}
	if o.MinRows != nil {
		b.WriteString(" MIN_ROWS = " + strconv.Itoa(*o.MinRows))
	}
	if o.MaxRows != nil {
		b.WriteString(" MAX_ROWS = " + strconv.Itoa(*o.MaxRows))
	}
	if o.KeyBlockSize != nil {
		b.WriteString(" KEY_BLOCK_SIZE = " + strconv.Itoa(*o.KeyBlockSize))
	}
	if o.Comment != "" {
		b.WriteString(" COMMENT = " + schema.StringConstant(o.Comment))
	}
	return b.String()
}

// alterClauses renders one clause per changed option. An option cleared to
// empty has no MySQL syntax to unset it, so it emits nothing; the comment is
// the exception, cleared with COMMENT = ''.
func (o TableOptions) alterClauses(old TableOptions) []string {
	var clauses []string
	if o.Engine != old.Engine && o.Engine != "" {
		clauses = append(clauses, "ENGINE = "+o.Engine)
	}
	if o.Charset != old.Charset && o.Charset != "" {
		clauses = append(clauses, "DEFAULT CHARACTER SET = "+o.Charset)
	}
	if o.Collation != old.Collation && o.Collation != "" {
		clauses = append(clauses, "DEFAULT COLLATE = "+o.Collation)
	}
	if !eqIntPtr(o.AvgRowLength, old.AvgRowLength) && o.AvgRowLength != nil {
		clauses = append(clauses, "AVG_ROW_LENGTH = "+strconv.Itoa(*o.AvgRowLength))
	}
	if !eqIntPtr(o.MinRows, old.MinRows) && o.MinRows != nil {
		clauses = append(clauses, "MIN_ROWS = "+strconv.Itoa(*o.MinRows))
	}
	if !eqIntPtr(o.MaxRows, old.MaxRows) && o.MaxRows != nil {
		clauses = append(clauses, "MAX_ROWS = "+strconv.Itoa(*o.MaxRows))
	}
	if !eqIntPtr(o.KeyBlockSize, old.KeyBlockSize) && o.KeyBlockSize != nil {
		clauses = append(clauses, "KEY_BLOCK_SIZE = "+strconv.Itoa(*o.KeyBlockSize))
	}
	if o.Comment != old.Comment {
		clauses = append(clauses, "COMMENT = "+schema.StringConstant(o.Comment))
	}
	return clauses
}

// TableState is one snapshot of a table's sub-entities.
type TableState struct {
	Fields      []Field
	Indexes     []Index
	ForeignKeys []ForeignKey
	Checks      []Check
	Triggers    []Trigger
	Options     TableOptions
}

func (s TableState) Clone() TableState {
	c := TableState{
		Fields:      append([]Field(nil), s.Fields...),
		Indexes:     append([]Index(nil), s.Indexes...),
		ForeignKeys: append([]ForeignKey(nil), s.ForeignKeys...),
		Checks:      append([]Check(nil), s.Checks...),
		Triggers:    append([]Trigger(nil), s.Triggers...),
		Options:     s.Options,
	}
	for i := range c.Fields {
		c.Fields[i].Length = cloneIntPtr(c.Fields[i].Length)
		c.Fields[i].Decimals = cloneIntPtr(c.Fields[i].Decimals)
		c.Fields[i].Default = cloneStrPtr(c.Fields[i].Default)
		c.Fields[i].OnUpdate = cloneStrPtr(c.Fields[i].OnUpdate)
		c.Fields[i].Values = append([]string(nil), c.Fields[i].Values...)
	}
	for i := range c.Indexes {
		c.Indexes[i].Fields = append([]IndexField(nil), c.Indexes[i].Fields...)
	}
	for i := range c.ForeignKeys {
		c.ForeignKeys[i].Fields = append([]string(nil), c.ForeignKeys[i].Fields...)
		c.ForeignKeys[i].ReferenceFields = append([]string(nil), c.ForeignKeys[i].ReferenceFields...)
	}
	c.Options.AvgRowLength = cloneIntPtr(c.Options.AvgRowLength)
	c.Options.MinRows = cloneIntPtr(c.Options.MinRows)
	c.Options.MaxRows = cloneIntPtr(c.Options.MaxRows)
	c.Options.KeyBlockSize = cloneIntPtr(c.Options.KeyBlockSize)
	return c
}

// keyFields returns the primary key columns in declaration order.
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
	Name     string
	Baseline *TableState
	Current  TableState
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

// Commit advances the baseline to the current snapshot. Callers invoke it
// only after the planned DDL was applied successfully.
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
	return nil
}

func (t *Table) createStatements() []string {
	var parts []string
	for _, f := range t.Current.Fields {
		parts = append(parts, f.CreateFragment())
	}
	if keys := t.Current.keyFields(); len(keys) > 0 {
		parts = append(parts, "PRIMARY KEY ("+joinQuotedMySQL(keys)+")")
	}
	for _, idx := range t.Current.Indexes {
		parts = append(parts, idx.CreateFragment())
	}
	for _, fk := range t.Current.ForeignKeys {
		parts = append(parts, fk.CreateFragment())
	}
	for _, ck := range t.Current.Checks {
		parts = append(parts, ck.CreateFragment())
	}

	ddls := []string{
		"CREATE TABLE " + schema.QuoteMySQL(t.Name) + " (" + strings.Join(parts, ", ") + ")" +
			t.Current.Options.createSuffix() + ";",
	}
	for _, tr := range t.Current.Triggers {
		ddls = append(ddls, tr.CreateStatement(t.Name)+";")
	}
	return ddls
}

func (t *Table) alterStatements(base TableState) []string {
	var cs schema.ChangeSet

	t.fieldClauses(&cs, base)
	t.primaryKeyClauses(&cs, base)

	indexes := schema.DiffByID(base.Indexes, t.Current.Indexes)
	for _, p := range indexes.Matched {
		cs.Clauses(p.New.AlterClauses(p.Old))
	}
	for _, idx := range indexes.Added {
		cs.Clause(idx.AddClause())
	}
	for _, idx := range indexes.Removed {
		cs.Clause(idx.DropClause())
	}

	fks := schema.DiffByID(base.ForeignKeys, t.Current.ForeignKeys)
	for _, p := range fks.Matched {
		cs.Clauses(p.New.AlterClauses(p.Old))
	}
	for _, fk := range fks.Added {
		cs.Clause(fk.AddClause())
	}
	for _, fk := range fks.Removed {
		cs.Clause(fk.DropClause())
	}

	checks := schema.DiffByID(base.Checks, t.Current.Checks)
	for _, p := range checks.Matched {
		cs.Clauses(p.New.AlterClauses(p.Old))
	}
	for _, ck := range checks.Added {
		cs.Clause(ck.AddClause())
	}
	for _, ck := range checks.Removed {
		cs.Clause(ck.DropClause())
	}

	triggers := schema.DiffByID(base.Triggers, t.Current.Triggers)
	for _, p := range triggers.Matched {
		cs.Statements(p.New.AlterStatements(p.Old, t.Name))
	}
	for _, tr := range triggers.Added {
		cs.Statement(tr.CreateStatement(t.Name))
	}
	for _, tr := range triggers.Removed {
		cs.Statement(tr.DropStatement())
	}

	// The table comment is an inline option, so it lands in the batch too.
	cs.Clauses(t.Current.Options.alterClauses(base.Options))

	return cs.Build("ALTER TABLE " + schema.QuoteMySQL(t.Name))
}

// fieldClauses walks the current declaration order so CHANGE and ADD
// clauses come out in the order the columns appear, then drops removed
// columns in baseline order.
func (t *Table) fieldClauses(cs *schema.ChangeSet, base TableState) {
	delta := schema.DiffByID(base.Fields, t.Current.Fields)
	old := make(map[schema.ID]Field, len(delta.Matched))
	for _, p := range delta.Matched {
		old[p.New.ID] = p.Old
	}
	added := make(map[schema.ID]bool, len(delta.Added))
	for _, f := range delta.Added {
		added[f.ID] = true
	}

	for _, f := range t.Current.Fields {
		if added[f.ID] {
			cs.Clause(f.AddClause())
		} else if o := old[f.ID]; !f.Equal(o) {
			cs.Clause(f.ChangeClause(o))
		}
	}
	for _, f := range delta.Removed {
		cs.Clause(f.DropClause())
	}
}

// primaryKeyClauses compares key membership as a set of field identities;
// neither reordering key columns nor renaming a key field forces a drop and
// re-add cycle.
func (t *Table) primaryKeyClauses(cs *schema.ChangeSet, base TableState) {
	oldKeys := keyFieldIDs(base.Fields)
	newKeys := keyFieldIDs(t.Current.Fields)
	if sameIDSet(oldKeys, newKeys) {
		return
	}
	if len(oldKeys) > 0 {
		cs.Clause("DROP PRIMARY KEY")
	}
	if names := t.Current.keyFields(); len(names) > 0 {
		cs.Clause("ADD PRIMARY KEY (" + joinQuotedMySQL(names) + ")")
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

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneStrPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
