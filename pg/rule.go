package pg

import (
	"strings"

	"github.com/wanghche/schemadef/schema"
)

type RuleEvent string

const (
	RuleSelect RuleEvent = "SELECT"
	RuleInsert RuleEvent = "INSERT"
	RuleUpdate RuleEvent = "UPDATE"
	RuleDelete RuleEvent = "DELETE"
)

// Rule is a rewrite rule; always managed through standalone statements.
type Rule struct {
	ID        schema.ID
	Name      string
	Event     RuleEvent
	Instead   bool   // DO INSTEAD rather than DO ALSO
	Condition string // optional WHERE condition
	// Definition is the action; empty means NOTHING.
	Definition string
	Comment    string
}

func (r Rule) EntityID() schema.ID { return r.ID }

func (r Rule) sameDefinition(o Rule) bool {
	return r.Event == o.Event && r.Instead == o.Instead &&
		exprEquivalent(r.Condition, o.Condition) &&
		queryEquivalent(r.definition(), o.definition())
}

func (r Rule) definition() string {
	if r.Definition == "" {
		return "NOTHING"
	}
	return r.Definition
}

func (r Rule) CreateStatement(table string) string {
	var b strings.Builder
	b.WriteString("CREATE RULE " + schema.QuotePg(r.Name) + " AS ON " + string(r.Event) + " TO " + table)
	if r.Condition != "" {
		b.WriteString(" WHERE " + r.Condition)
	}
	if r.Instead {
		b.WriteString(" DO INSTEAD ")
	} else {
		b.WriteString(" DO ALSO ")
	}
	b.WriteString(r.definition())
	return b.String()
}

func (r Rule) DropStatement(table string) string {
	return "DROP RULE " + schema.QuotePg(r.Name) + " ON " + table
}

func (r Rule) RenameStatement(table, oldName string) string {
	return "ALTER RULE " + schema.QuotePg(oldName) + " ON " + table + " RENAME TO " + schema.QuotePg(r.Name)
}

func (r Rule) CommentStatement(table string) string {
	return "COMMENT ON RULE " + schema.QuotePg(r.Name) + " ON " + table + " IS " + commentLiteral(r.Comment)
}
