package schemadef

import (
	"fmt"

	"gopkg.in/yaml.v2"

	"github.com/wanghche/schemadef/mysql"
	"github.com/wanghche/schemadef/pg"
	"github.com/wanghche/schemadef/schema"
)

// Plan is a YAML description of one table edit session: the baseline
// snapshot as it exists in the database and the current edited snapshot.
// Sub-entities are matched across the two snapshots by their `key`; one
// identity is minted per key, so a renamed entry keeps its identity as long
// as it keeps its key. The key defaults to the entry name.
type Plan struct {
	Dialect string     `yaml:"dialect"`
	Table   *TablePlan `yaml:"table"`
}

type TablePlan struct {
	Schema   string     `yaml:"schema"`
	Name     string     `yaml:"name"`
	Baseline *StatePlan `yaml:"baseline"`
	Current  *StatePlan `yaml:"current"`
}

type StatePlan struct {
	Fields      []FieldPlan      `yaml:"fields"`
	Indexes     []IndexPlan      `yaml:"indexes"`
	ForeignKeys []ForeignKeyPlan `yaml:"foreign_keys"`
	Uniques     []UniquePlan     `yaml:"uniques"`
	Checks      []CheckPlan      `yaml:"checks"`
	Comment     string           `yaml:"comment"`
	Engine      string           `yaml:"engine"`
	Charset     string           `yaml:"charset"`
	Collation   string           `yaml:"collation"`
	KeyName     string           `yaml:"key_name"`
}

type FieldPlan struct {
	Key           string   `yaml:"key"`
	Name          string   `yaml:"name"`
	Kind          string   `yaml:"kind"`
	Length        *int     `yaml:"length"`
	Decimals      *int     `yaml:"decimals"`
	Values        []string `yaml:"values"`
	Unsigned      bool     `yaml:"unsigned"`
	Zerofill      bool     `yaml:"zerofill"`
	NotNull       bool     `yaml:"not_null"`
	Primary       bool     `yaml:"primary"`
	AutoIncrement bool     `yaml:"auto_increment"`
	Default       *string  `yaml:"default"`
	OnUpdate      *string  `yaml:"on_update"`
	Charset       string   `yaml:"charset"`
	Collation     string   `yaml:"collation"`
	Comment       string   `yaml:"comment"`
}

type IndexPlan struct {
	Key     string   `yaml:"key"`
	Name    string   `yaml:"name"`
	Fields  []string `yaml:"fields"`
	Kind    string   `yaml:"kind"`   // mysql: normal, unique, fulltext, spatial
	Unique  bool     `yaml:"unique"` // postgres
	Method  string   `yaml:"method"`
	Comment string   `yaml:"comment"`
}

type ForeignKeyPlan struct {
	Key             string   `yaml:"key"`
	Name            string   `yaml:"name"`
	Fields          []string `yaml:"fields"`
	ReferenceSchema string   `yaml:"reference_schema"`
	ReferenceTable  string   `yaml:"reference_table"`
	ReferenceFields []string `yaml:"reference_fields"`
	OnDelete        string   `yaml:"on_delete"`
	OnUpdate        string   `yaml:"on_update"`
	Comment         string   `yaml:"comment"`
}

type UniquePlan struct {
	Key     string   `yaml:"key"`
	Name    string   `yaml:"name"`
	Fields  []string `yaml:"fields"`
	Comment string   `yaml:"comment"`
}

type CheckPlan struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	Expression  string `yaml:"expression"`
	NotEnforced bool   `yaml:"not_enforced"` // mysql
	NoInherit   bool   `yaml:"no_inherit"`   // postgres
	Comment     string `yaml:"comment"`
}

// ParsePlan parses a plan file; unknown YAML keys are rejected.
func ParsePlan(content []byte) (*Plan, error) {
	var plan Plan
	if err := yaml.UnmarshalStrict(content, &plan); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	switch plan.Dialect {
	case "mysql", "postgres":
	default:
		return nil, fmt.Errorf("parse plan: unsupported dialect %q", plan.Dialect)
	}
	if plan.Table == nil {
		return nil, fmt.Errorf("parse plan: no table given")
	}
	if plan.Table.Current == nil {
		return nil, fmt.Errorf("parse plan: table %s has no current snapshot", plan.Table.Name)
	}
	return &plan, nil
}

// container is the planned object: it renders its DDL and advances its
// baseline once that DDL was applied.
type container interface {
	Statements() ([]string, error)
	Commit()
}

func (p *Plan) build() (container, error) {
	ids := identityCache{}
	switch p.Dialect {
	case "mysql":
		return p.buildMySQLTable(ids), nil
	case "postgres":
		return p.buildPgTable(ids), nil
	}
	return nil, fmt.Errorf("unsupported dialect %q", p.Dialect)
}

// Statements plans the DDL the plan file describes.
func (p *Plan) Statements() ([]string, error) {
	c, err := p.build()
	if err != nil {
		return nil, err
	}
	return c.Statements()
}

// identityCache mints one identity per plan key, so baseline and current
// entries sharing a key become the same entity.
type identityCache map[string]schema.ID

func (c identityCache) id(kind, key, name string) schema.ID {
	if key == "" {
		key = name
	}
	key = kind + ":" + key
	if id, ok := c[key]; ok {
		return id
	}
	id := schema.NewID()
	c[key] = id
	return id
}

func (p *Plan) buildMySQLTable(ids identityCache) *mysql.Table {
	table := &mysql.Table{Name: p.Table.Name}
	if p.Table.Baseline != nil {
		base := buildMySQLState(*p.Table.Baseline, ids)
		table.Baseline = &base
	}
	table.Current = buildMySQLState(*p.Table.Current, ids)
	return table
}

func buildMySQLState(s StatePlan, ids identityCache) mysql.TableState {
	state := mysql.TableState{
		Options: mysql.TableOptions{
			Engine:    s.Engine,
			Charset:   s.Charset,
			Collation: s.Collation,
			Comment:   s.Comment,
		},
	}
	for _, f := range s.Fields {
		state.Fields = append(state.Fields, mysql.Field{
			ID:            ids.id("field", f.Key, f.Name),
			Name:          f.Name,
			Kind:          mysql.FieldKind(f.Kind),
			Length:        f.Length,
			Decimals:      f.Decimals,
			Values:        f.Values,
			Unsigned:      f.Unsigned,
			Zerofill:      f.Zerofill,
			NotNull:       f.NotNull,
			Key:           f.Primary,
			AutoIncrement: f.AutoIncrement,
			Default:       f.Default,
			OnUpdate:      f.OnUpdate,
			Charset:       f.Charset,
			Collation:     f.Collation,
			Comment:       f.Comment,
		})
	}
	for _, i := range s.Indexes {
		kind := mysql.IndexNormal
		if i.Kind != "" {
			kind = mysql.IndexKind(i.Kind)
		} else if i.Unique {
			kind = mysql.IndexUnique
		}
		idx := mysql.Index{
			ID:      ids.id("index", i.Key, i.Name),
			Name:    i.Name,
			Kind:    kind,
			Method:  mysql.IndexMethod(i.Method),
			Comment: i.Comment,
		}
		for _, f := range i.Fields {
			idx.Fields = append(idx.Fields, mysql.IndexField{Name: f})
		}
		state.Indexes = append(state.Indexes, idx)
	}
	for _, k := range s.ForeignKeys {
		state.ForeignKeys = append(state.ForeignKeys, mysql.ForeignKey{
			ID:              ids.id("fk", k.Key, k.Name),
			Name:            k.Name,
			Fields:          k.Fields,
			ReferenceDB:     k.ReferenceSchema,
			ReferenceTable:  k.ReferenceTable,
			ReferenceFields: k.ReferenceFields,
			OnDelete:        mysql.ReferenceOption(k.OnDelete),
			OnUpdate:        mysql.ReferenceOption(k.OnUpdate),
		})
	}
	for _, c := range s.Checks {
		state.Checks = append(state.Checks, mysql.Check{
			ID:          ids.id("check", c.Key, c.Name),
			Name:        c.Name,
			Expression:  c.Expression,
			NotEnforced: c.NotEnforced,
		})
	}
	return state
}

func (p *Plan) buildPgTable(ids identityCache) *pg.Table {
	table := &pg.Table{Schema: p.Table.Schema, Name: p.Table.Name}
	if p.Table.Baseline != nil {
		base := buildPgState(*p.Table.Baseline, ids)
		table.Baseline = &base
	}
	table.Current = buildPgState(*p.Table.Current, ids)
	return table
}

func buildPgState(s StatePlan, ids identityCache) pg.TableState {
	state := pg.TableState{
		Comment: s.Comment,
		KeyName: s.KeyName,
	}
	for _, f := range s.Fields {
		state.Fields = append(state.Fields, pg.Field{
			ID:       ids.id("field", f.Key, f.Name),
			Name:     f.Name,
			Kind:     pg.FieldKind(f.Kind),
			Length:   f.Length,
			Decimals: f.Decimals,
			NotNull:  f.NotNull,
			Key:      f.Primary,
			Default:  f.Default,
			Comment:  f.Comment,
		})
	}
	for _, i := range s.Indexes {
		idx := pg.Index{
			ID:      ids.id("index", i.Key, i.Name),
			Name:    i.Name,
			Unique:  i.Unique || i.Kind == "unique",
			Method:  pg.IndexMethod(i.Method),
			Comment: i.Comment,
		}
		for _, f := range i.Fields {
			idx.Fields = append(idx.Fields, pg.IndexField{Name: f})
		}
		state.Indexes = append(state.Indexes, idx)
	}
	for _, k := range s.ForeignKeys {
		state.ForeignKeys = append(state.ForeignKeys, pg.ForeignKey{
			ID:              ids.id("fk", k.Key, k.Name),
			Name:            k.Name,
			Fields:          k.Fields,
			ReferenceSchema: k.ReferenceSchema,
			ReferenceTable:  k.ReferenceTable,
			ReferenceFields: k.ReferenceFields,
			OnDelete:        pg.ReferenceAction(k.OnDelete),
			OnUpdate:        pg.ReferenceAction(k.OnUpdate),
			Comment:         k.Comment,
		})
	}
	for _, u := range s.Uniques {
		state.Uniques = append(state.Uniques, pg.Unique{
			ID:      ids.id("unique", u.Key, u.Name),
			Name:    u.Name,
			Fields:  u.Fields,
			Comment: u.Comment,
		})
	}
	for _, c := range s.Checks {
		state.Checks = append(state.Checks, pg.Check{
			ID:         ids.id("check", c.Key, c.Name),
			Name:       c.Name,
			Expression: c.Expression,
			NoInherit:  c.NoInherit,
			Comment:    c.Comment,
		})
	}
	return state
}
