package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wanghche/schemadef/schema"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func varcharField(name string, length int) Field {
	return Field{ID: schema.NewID(), Name: name, Kind: KindVarchar, Length: intPtr(length)}
}

func TestAlterRenameAndAddColumn(t *testing.T) {
	name := varcharField("name", 10)
	renamed := name
	renamed.Name = "full_name"

	base := TableState{Fields: []Field{name}}
	table := &Table{
		Name:     "t",
		Baseline: &base,
		Current:  TableState{Fields: []Field{renamed, varcharField("email", 50)}},
	}

	ddls, err := table.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"ALTER TABLE `t` CHANGE COLUMN `name` `full_name` VARCHAR(10), ADD COLUMN `email` VARCHAR(50);",
	}, ddls)
}

func TestAlterNoChanges(t *testing.T) {
	id := varcharField("id", 20)
	base := TableState{Fields: []Field{id}}
	table := &Table{Name: "t", Baseline: &base, Current: base.Clone()}

	ddls, err := table.Statements()
	assert.NoError(t, err)
	assert.Empty(t, ddls)
}

func TestAlterDropColumn(t *testing.T) {
	a := varcharField("a", 10)
	b := varcharField("b", 10)
	base := TableState{Fields: []Field{a, b}}
	table := &Table{Name: "t", Baseline: &base, Current: TableState{Fields: []Field{a}}}

	ddls, err := table.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{"ALTER TABLE `t` DROP COLUMN `b`;"}, ddls)
}

func TestColumnAttributeChange(t *testing.T) {
	old := Field{ID: schema.NewID(), Name: "age", Kind: KindInt, NotNull: true}
	cur := old
	cur.Default = strPtr("0")
	cur.Unsigned = true

	base := TableState{Fields: []Field{old}}
	table := &Table{Name: "t", Baseline: &base, Current: TableState{Fields: []Field{cur}}}

	ddls, err := table.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"ALTER TABLE `t` CHANGE COLUMN `age` `age` INT UNSIGNED NOT NULL DEFAULT 0;",
	}, ddls)
}

func TestPrimaryKeyReorderIsNoop(t *testing.T) {
	a := varcharField("a", 10)
	a.Key = true
	b := varcharField("b", 10)
	b.Key = true

	base := TableState{Fields: []Field{a, b}}
	table := &Table{Name: "t", Baseline: &base, Current: TableState{Fields: []Field{b, a}}}

	ddls, err := table.Statements()
	assert.NoError(t, err)
	assert.Empty(t, ddls)
}

func TestPrimaryKeyChange(t *testing.T) {
	a := varcharField("a", 10)
	a.Key = true
	b := varcharField("b", 10)

	bKeyed := b
	bKeyed.Key = true

	base := TableState{Fields: []Field{a, b}}
	table := &Table{Name: "t", Baseline: &base, Current: TableState{Fields: []Field{a, bKeyed}}}

	ddls, err := table.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"ALTER TABLE `t` DROP PRIMARY KEY, ADD PRIMARY KEY (`a`,`b`);",
	}, ddls)
}

func TestIndexRename(t *testing.T) {
	f := varcharField("name", 20)
	idx := Index{ID: schema.NewID(), Name: "idx_name", Fields: []IndexField{{Name: "name"}}, Kind: IndexNormal}
	renamed := idx
	renamed.Name = "idx_full_name"

	base := TableState{Fields: []Field{f}, Indexes: []Index{idx}}
	table := &Table{Name: "t", Baseline: &base,
		Current: TableState{Fields: []Field{f}, Indexes: []Index{renamed}}}

	ddls, err := table.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"ALTER TABLE `t` RENAME INDEX `idx_name` TO `idx_full_name`;",
	}, ddls)
}

func TestIndexDefinitionChange(t *testing.T) {
	f := varcharField("name", 20)
	idx := Index{ID: schema.NewID(), Name: "idx_name", Fields: []IndexField{{Name: "name"}}, Kind: IndexNormal}
	unique := idx
	unique.Kind = IndexUnique

	base := TableState{Fields: []Field{f}, Indexes: []Index{idx}}
	table := &Table{Name: "t", Baseline: &base,
		Current: TableState{Fields: []Field{f}, Indexes: []Index{unique}}}

	ddls, err := table.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"ALTER TABLE `t` DROP INDEX `idx_name`, ADD UNIQUE INDEX `idx_name`(`name`);",
	}, ddls)
}

func TestForeignKeyChange(t *testing.T) {
	f := varcharField("owner_id", 20)
	fk := ForeignKey{
		ID: schema.NewID(), Name: "fk_owner", Fields: []string{"owner_id"},
		ReferenceTable: "owners", ReferenceFields: []string{"id"}, OnDelete: Cascade,
	}
	changed := fk
	changed.OnDelete = SetNull

	base := TableState{Fields: []Field{f}, ForeignKeys: []ForeignKey{fk}}
	table := &Table{Name: "t", Baseline: &base,
		Current: TableState{Fields: []Field{f}, ForeignKeys: []ForeignKey{changed}}}

	ddls, err := table.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"ALTER TABLE `t` DROP FOREIGN KEY `fk_owner`, ADD CONSTRAINT `fk_owner` FOREIGN KEY (`owner_id`) REFERENCES `owners` (`id`) ON DELETE SET NULL;",
	}, ddls)
}

func TestCheckEnforcementToggle(t *testing.T) {
	ck := Check{ID: schema.NewID(), Name: "ck_age", Expression: "age > 0"}
	toggled := ck
	toggled.NotEnforced = true

	base := TableState{Checks: []Check{ck}}
	table := &Table{Name: "t", Baseline: &base, Current: TableState{Checks: []Check{toggled}}}

	ddls, err := table.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{"ALTER TABLE `t` ALTER CHECK `ck_age` NOT ENFORCED;"}, ddls)
}

func TestTriggerChangeIsStandalone(t *testing.T) {
	tr := Trigger{ID: schema.NewID(), Name: "trg", Time: Before, Event: OnInsert, Body: "SET @x = 1"}
	changed := tr
	changed.Time = After

	base := TableState{Triggers: []Trigger{tr}}
	table := &Table{Name: "t", Baseline: &base, Current: TableState{Triggers: []Trigger{changed}}}

	ddls, err := table.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"DROP TRIGGER `trg`;",
		"CREATE TRIGGER `trg` AFTER INSERT ON `t` FOR EACH ROW SET @x = 1;",
	}, ddls)
}

func TestTableOptionsAlter(t *testing.T) {
	base := TableState{Options: TableOptions{Engine: "MyISAM"}}
	table := &Table{Name: "t", Baseline: &base,
		Current: TableState{Options: TableOptions{Engine: "InnoDB", Comment: "orders"}}}

	ddls, err := table.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{"ALTER TABLE `t` ENGINE = InnoDB, COMMENT = 'orders';"}, ddls)
}

func TestClearedTableOptionEmitsNoClause(t *testing.T) {
	base := TableState{Options: TableOptions{Engine: "InnoDB", Charset: "utf8mb4"}}
	table := &Table{Name: "t", Baseline: &base, Current: TableState{}}

	ddls, err := table.Statements()
	assert.NoError(t, err)
	assert.Empty(t, ddls)
}

func TestClearedTableCommentIsEmptied(t *testing.T) {
	base := TableState{Options: TableOptions{Comment: "orders"}}
	table := &Table{Name: "t", Baseline: &base, Current: TableState{}}

	ddls, err := table.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{"ALTER TABLE `t` COMMENT = '';"}, ddls)
}

func TestCreateTable(t *testing.T) {
	id := Field{ID: schema.NewID(), Name: "id", Kind: KindInt, NotNull: true, AutoIncrement: true, Key: true}
	name := varcharField("name", 50)
	idx := Index{ID: schema.NewID(), Name: "idx_name", Fields: []IndexField{{Name: "name"}}, Kind: IndexNormal, Method: IndexBtree}
	tr := Trigger{ID: schema.NewID(), Name: "trg", Time: Before, Event: OnInsert, Body: "SET @x = 1"}

	table := &Table{
		Name: "t",
		Current: TableState{
			Fields:   []Field{id, name},
			Indexes:  []Index{idx},
			Triggers: []Trigger{tr},
			Options:  TableOptions{Engine: "InnoDB", Charset: "utf8mb4"},
		},
	}

	ddls, err := table.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"CREATE TABLE `t` (`id` INT NOT NULL AUTO_INCREMENT, `name` VARCHAR(50), PRIMARY KEY (`id`), INDEX `idx_name`(`name`) USING BTREE) ENGINE = InnoDB DEFAULT CHARACTER SET = utf8mb4;",
		"CREATE TRIGGER `trg` BEFORE INSERT ON `t` FOR EACH ROW SET @x = 1;",
	}, ddls)
}

func TestDanglingIndexReference(t *testing.T) {
	idx := Index{ID: schema.NewID(), Name: "idx_ghost", Fields: []IndexField{{Name: "ghost"}}, Kind: IndexNormal}
	table := &Table{Name: "t", Current: TableState{Indexes: []Index{idx}}}

	_, err := table.Statements()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown field")
}

func TestCommitAdvancesBaseline(t *testing.T) {
	f := varcharField("a", 10)
	table := &Table{Name: "t", Current: TableState{Fields: []Field{f}}}

	ddls, err := table.Statements()
	assert.NoError(t, err)
	assert.Len(t, ddls, 1)

	table.Commit()
	ddls, err = table.Statements()
	assert.NoError(t, err)
	assert.Empty(t, ddls)
}

func TestEnumFieldFragment(t *testing.T) {
	f := Field{
		ID: schema.NewID(), Name: "status", Kind: KindEnum,
		Values: []string{"new", "done"}, NotNull: true, Default: strPtr("new"),
	}
	assert.Equal(t, "`status` ENUM('new','done') NOT NULL DEFAULT 'new'", f.CreateFragment())
}

func TestTimestampOnUpdate(t *testing.T) {
	f := Field{
		ID: schema.NewID(), Name: "updated_at", Kind: KindTimestamp,
		NotNull: true, Default: strPtr("CURRENT_TIMESTAMP"), OnUpdate: strPtr("CURRENT_TIMESTAMP"),
	}
	assert.Equal(t,
		"`updated_at` TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP",
		f.CreateFragment())
}

func TestDecimalFragment(t *testing.T) {
	f := Field{
		ID: schema.NewID(), Name: "price", Kind: KindDecimal,
		Length: intPtr(10), Decimals: intPtr(2), Unsigned: true,
	}
	assert.Equal(t, "`price` DECIMAL(10,2) UNSIGNED", f.CreateFragment())
}
