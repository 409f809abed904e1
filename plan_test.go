package schemadef

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanMySQLRenameAndAdd(t *testing.T) {
	content := []byte(`
dialect: mysql
table:
  name: t
  baseline:
    fields:
      - key: f1
        name: name
        kind: varchar
        length: 10
  current:
    fields:
      - key: f1
        name: full_name
        kind: varchar
        length: 10
      - name: email
        kind: varchar
        length: 50
`)
	plan, err := ParsePlan(content)
	assert.NoError(t, err)

	ddls, err := plan.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"ALTER TABLE `t` CHANGE COLUMN `name` `full_name` VARCHAR(10), ADD COLUMN `email` VARCHAR(50);",
	}, ddls)
}

func TestPlanPostgresIndexRename(t *testing.T) {
	content := []byte(`
dialect: postgres
table:
  name: t
  baseline:
    fields:
      - name: name
        kind: character varying
        length: 20
    indexes:
      - key: i1
        name: idx_name
        fields: [name]
  current:
    fields:
      - name: name
        kind: character varying
        length: 20
    indexes:
      - key: i1
        name: idx_full_name
        fields: [name]
`)
	plan, err := ParsePlan(content)
	assert.NoError(t, err)

	ddls, err := plan.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{
		`ALTER INDEX "idx_name" RENAME TO "idx_full_name";`,
	}, ddls)
}

func TestPlanCreateTable(t *testing.T) {
	content := []byte(`
dialect: mysql
table:
  name: users
  current:
    engine: InnoDB
    fields:
      - name: id
        kind: int
        not_null: true
        primary: true
        auto_increment: true
      - name: name
        kind: varchar
        length: 50
`)
	plan, err := ParsePlan(content)
	assert.NoError(t, err)

	ddls, err := plan.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"CREATE TABLE `users` (`id` INT NOT NULL AUTO_INCREMENT, `name` VARCHAR(50), PRIMARY KEY (`id`)) ENGINE = InnoDB;",
	}, ddls)
}

func TestCommittedPlanIsUpToDate(t *testing.T) {
	content := []byte(`
dialect: mysql
table:
  name: t
  current:
    fields:
      - name: id
        kind: int
        not_null: true
`)
	plan, err := ParsePlan(content)
	assert.NoError(t, err)

	c, err := plan.build()
	assert.NoError(t, err)

	ddls, err := c.Statements()
	assert.NoError(t, err)
	assert.Len(t, ddls, 1)

	c.Commit()
	ddls, err = c.Statements()
	assert.NoError(t, err)
	assert.Empty(t, ddls)
}

func TestParsePlanErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unsupported dialect", content: "dialect: oracle\ntable:\n  name: t\n  current: {}\n"},
		{name: "no table", content: "dialect: mysql\n"},
		{name: "no current snapshot", content: "dialect: mysql\ntable:\n  name: t\n"},
		{name: "unknown key rejected", content: "dialect: mysql\nbogus: 1\ntable:\n  name: t\n  current: {}\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParsePlan([]byte(test.content))
			assert.Error(t, err)
		})
	}
}
