package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type thing struct {
	id   ID
	name string
}

func (t thing) EntityID() ID { return t.id }

func TestDiffByID(t *testing.T) {
	a := thing{id: NewID(), name: "a"}
	b := thing{id: NewID(), name: "b"}
	c := thing{id: NewID(), name: "c"}
	bRenamed := thing{id: b.id, name: "b2"}

	delta := DiffByID([]thing{a, b}, []thing{bRenamed, c})

	assert.Equal(t, []thing{c}, delta.Added)
	assert.Equal(t, []thing{a}, delta.Removed)
	if assert.Len(t, delta.Matched, 1) {
		assert.Equal(t, b, delta.Matched[0].Old)
		assert.Equal(t, bRenamed, delta.Matched[0].New)
	}
}

func TestDiffByIDIdentical(t *testing.T) {
	a := thing{id: NewID(), name: "a"}
	delta := DiffByID([]thing{a}, []thing{a})
	assert.Empty(t, delta.Added)
	assert.Empty(t, delta.Removed)
	assert.Len(t, delta.Matched, 1)
}

func TestDiffByIDOrdering(t *testing.T) {
	a := thing{id: NewID(), name: "a"}
	b := thing{id: NewID(), name: "b"}
	c := thing{id: NewID(), name: "c"}

	// Added entities keep current order, removed keep baseline order.
	delta := DiffByID([]thing{a, b}, []thing{c})
	assert.Equal(t, []thing{c}, delta.Added)
	assert.Equal(t, []thing{a, b}, delta.Removed)
}

func TestChangeSetBuild(t *testing.T) {
	var cs ChangeSet
	cs.Rename("ALTER INDEX `i` RENAME TO `j`")
	cs.Clause("ADD COLUMN `a` INT")
	cs.Clause("DROP COLUMN `b`")
	cs.Statement("CREATE TRIGGER `t1` BEFORE INSERT ON `t` FOR EACH ROW SET @x = 1")
	cs.Comment("COMMENT ON TABLE \"t\" IS 'x'")

	assert.Equal(t, []string{
		"ALTER INDEX `i` RENAME TO `j`;",
		"ALTER TABLE `t` ADD COLUMN `a` INT, DROP COLUMN `b`;",
		"CREATE TRIGGER `t1` BEFORE INSERT ON `t` FOR EACH ROW SET @x = 1;",
		"COMMENT ON TABLE \"t\" IS 'x';",
	}, cs.Build("ALTER TABLE `t`"))
}

func TestChangeSetNoClausesNoAlter(t *testing.T) {
	var cs ChangeSet
	cs.Rename(`ALTER INDEX "idx_name" RENAME TO "idx_full_name"`)

	assert.Equal(t, []string{
		`ALTER INDEX "idx_name" RENAME TO "idx_full_name";`,
	}, cs.Build(`ALTER TABLE "t"`))
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "`a`", QuoteMySQL("a"))
	assert.Equal(t, "`a``b`", QuoteMySQL("a`b"))
	assert.Equal(t, `"a"`, QuotePg("a"))
	assert.Equal(t, `"a""b"`, QuotePg(`a"b`))
}

func TestStringConstant(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{value: "abc", want: "'abc'"},
		{value: "it's", want: "'it''s'"},
		{value: "", want: "''"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, StringConstant(test.value))
	}
}
