package mysql

import "github.com/wanghche/schemadef/schema"

type TriggerTime string

const (
	Before TriggerTime = "BEFORE"
	After  TriggerTime = "AFTER"
)

type TriggerEvent string

const (
	OnInsert TriggerEvent = "INSERT"
	OnUpdate TriggerEvent = "UPDATE"
	OnDelete TriggerEvent = "DELETE"
)

// Trigger statements are always standalone; they never join the batched
// ALTER TABLE statement.
type Trigger struct {
	ID    schema.ID
	Name  string
	Time  TriggerTime
	Event TriggerEvent
	Body  string
}

func (t Trigger) EntityID() schema.ID { return t.ID }

func (t Trigger) Equal(o Trigger) bool {
	return t.Name == o.Name && t.Time == o.Time && t.Event == o.Event && t.Body == o.Body
}

func (t Trigger) CreateStatement(table string) string {
	return "CREATE TRIGGER " + schema.QuoteMySQL(t.Name) + " " + string(t.Time) + " " +
		string(t.Event) + " ON " + schema.QuoteMySQL(table) + " FOR EACH ROW " + t.Body
}

func (t Trigger) DropStatement() string {
	return "DROP TRIGGER " + schema.QuoteMySQL(t.Name)
}

// AlterStatements drops and recreates the trigger on any change; MySQL has
// no trigger rename.
func (t Trigger) AlterStatements(old Trigger, table string) []string {
	if t.Equal(old) {
		return nil
	}
	return []string{old.DropStatement(), t.CreateStatement(table)}
}
