package mysql

import "github.com/wanghche/schemadef/schema"

type Check struct {
	ID          schema.ID
	Name        string
	Expression  string
	NotEnforced bool
}

func (c Check) EntityID() schema.ID { return c.ID }

func (c Check) Equal(o Check) bool {
	return c.Name == o.Name && c.Expression == o.Expression && c.NotEnforced == o.NotEnforced
}

func (c Check) CreateFragment() string {
	s := "CONSTRAINT " + schema.QuoteMySQL(c.Name) + " CHECK (" + c.Expression + ")"
	if c.NotEnforced {
		s += " NOT ENFORCED"
	}
	return s
}

func (c Check) AddClause() string {
	return "ADD " + c.CreateFragment()
}

func (c Check) DropClause() string {
	return "DROP CHECK " + schema.QuoteMySQL(c.Name)
}

// AlterClauses toggles enforcement in place when that is the only change;
// name or expression changes drop and re-add the constraint.
func (c Check) AlterClauses(old Check) []string {
	if c.Equal(old) {
		return nil
	}
	if c.Name == old.Name && c.Expression == old.Expression {
		if c.NotEnforced {
			return []string{"ALTER CHECK " + schema.QuoteMySQL(c.Name) + " NOT ENFORCED"}
		}
		return []string{"ALTER CHECK " + schema.QuoteMySQL(c.Name) + " ENFORCED"}
	}
	return []string{old.DropClause(), c.AddClause()}
}
