package schema

import "strings"

// ChangeSet collects the fragments produced while walking a container's
// entity kinds and assembles them into executable statements in a fixed
// emission order: renames first, then a single batched ALTER statement,
// then standalone statements, then comment statements.
//
// Fragments are recorded without a trailing semicolon; Build appends it.
type ChangeSet struct {
	renames    []string
	clauses    []string
	statements []string
	comments   []string
}

// Rename records a standalone rename statement.
func (c *ChangeSet) Rename(stmt string) {
	c.renames = append(c.renames, stmt)
}

// Clause records one clause of the batched ALTER statement.
func (c *ChangeSet) Clause(clause string) {
	c.clauses = append(c.clauses, clause)
}

// Clauses records clauses in order.
func (c *ChangeSet) Clauses(clauses []string) {
	c.clauses = append(c.clauses, clauses...)
}

// Statement records a standalone statement.
func (c *ChangeSet) Statement(stmt string) {
	c.statements = append(c.statements, stmt)
}

// Statements records standalone statements in order.
func (c *ChangeSet) Statements(stmts []string) {
	c.statements = append(c.statements, stmts...)
}

// Comment records a comment statement; comments always come last.
func (c *ChangeSet) Comment(stmt string) {
	c.comments = append(c.comments, stmt)
}

// Empty reports whether no fragment was recorded.
func (c *ChangeSet) Empty() bool {
	return len(c.renames) == 0 && len(c.clauses) == 0 &&
		len(c.statements) == 0 && len(c.comments) == 0
}

// Build assembles the final statement list. alterTarget is the statement
// head the clauses are batched under, e.g. "ALTER TABLE `t`". When no
// clause was recorded, no ALTER statement is emitted.
func (c *ChangeSet) Build(alterTarget string) []string {
	var ddls []string
	for _, r := range c.renames {
		ddls = append(ddls, r+";")
	}
	if len(c.clauses) > 0 {
		ddls = append(ddls, alterTarget+" "+strings.Join(c.clauses, ", ")+";")
	}
	for _, s := range c.statements {
		ddls = append(ddls, s+";")
	}
	for _, s := range c.comments {
		ddls = append(ddls, s+";")
	}
	return ddls
}
