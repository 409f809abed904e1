package pg

import (
	"strings"

	"github.com/wanghche/schemadef/schema"
)

type TriggerTiming string

const (
	Before    TriggerTiming = "BEFORE"
	After     TriggerTiming = "AFTER"
	InsteadOf TriggerTiming = "INSTEAD OF"
)

// Trigger fires a function on the listed events; always managed through
// standalone statements.
type Trigger struct {
	ID            schema.ID
	Name          string
	Timing        TriggerTiming
	OnInsert      bool
	OnUpdate      bool
	UpdateColumns []string // optional UPDATE OF column list
	OnDelete      bool
	OnTruncate    bool
	ForEachRow    bool // statement-level when false
	Condition     string
	FnSchema      string
	FnName        string
	FnArgs        string
	Comment       string
}

func (t Trigger) EntityID() schema.ID { return t.ID }

func (t Trigger) sameDefinition(o Trigger) bool {
	return t.Timing == o.Timing &&
		t.OnInsert == o.OnInsert && t.OnUpdate == o.OnUpdate &&
		eqStrings(t.UpdateColumns, o.UpdateColumns) &&
		t.OnDelete == o.OnDelete && t.OnTruncate == o.OnTruncate &&
		t.ForEachRow == o.ForEachRow &&
		exprEquivalent(t.Condition, o.Condition) &&
		t.FnSchema == o.FnSchema && t.FnName == o.FnName && t.FnArgs == o.FnArgs
}

func (t Trigger) events() string {
	var evs []string
	if t.OnInsert {
		evs = append(evs, "INSERT")
	}
	if t.OnUpdate {
		ev := "UPDATE"
		if len(t.UpdateColumns) > 0 {
			ev += " OF " + joinQuotedPg(t.UpdateColumns)
		}
		evs = append(evs, ev)
	}
	if t.OnDelete {
		evs = append(evs, "DELETE")
	}
	if t.OnTruncate {
		evs = append(evs, "TRUNCATE")
	}
	return strings.Join(evs, " OR ")
}

func (t Trigger) CreateStatement(table string) string {
	var b strings.Builder
	b.WriteString("CREATE TRIGGER " + schema.QuotePg(t.Name) + " " + string(t.Timing) + " " + t.events())
	b.WriteString(" ON " + table)
	if t.ForEachRow {
		b.WriteString(" FOR EACH ROW")
	} else {
		b.WriteString(" FOR EACH STATEMENT")
	}
	if t.Condition != "" {
		b.WriteString(" WHEN (" + t.Condition + ")")
	}
	b.WriteString(" EXECUTE PROCEDURE " + qualify(t.FnSchema, t.FnName) + "(" + t.FnArgs + ")")
	return b.String()
}

func (t Trigger) DropStatement(table string) string {
	return "DROP TRIGGER " + schema.QuotePg(t.Name) + " ON " + table
}

func (t Trigger) RenameStatement(table, oldName string) string {
	return "ALTER TRIGGER " + schema.QuotePg(oldName) + " ON " + table + " RENAME TO " + schema.QuotePg(t.Name)
}

func (t Trigger) CommentStatement(table string) string {
	return "COMMENT ON TRIGGER " + schema.QuotePg(t.Name) + " ON " + table + " IS " + commentLiteral(t.Comment)
}
