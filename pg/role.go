package pg

import (
	"strconv"
	"strings"

	"github.com/wanghche/schemadef/schema"
)

// Membership is one role edge: the account is a member of Role.
type Membership struct {
	ID    schema.ID
	Role  string
	Admin bool
}

func (m Membership) EntityID() schema.ID { return m.ID }

// RoleState is one snapshot of a role.
type RoleState struct {
	Name        string
	SuperUser   bool
	CreateDB    bool
	CreateRole  bool
	Inherit     bool
	Login       bool
	Replication bool
	BypassRLS   bool
	ConnLimit   *int
	Password    string
	ValidUntil  string // date or "infinity"
	Comment     string
	MemberOf    []Membership
	Privileges  []Privilege
}

func (s RoleState) Clone() RoleState {
	c := s
	if s.ConnLimit != nil {
		v := *s.ConnLimit
		c.ConnLimit = &v
	}
	c.MemberOf = append([]Membership(nil), s.MemberOf...)
	c.Privileges = append([]Privilege(nil), s.Privileges...)
	return c
}

type roleFlag struct {
	on   string
	off  string
	held bool
}

func (s RoleState) flags() []roleFlag {
	return []roleFlag{
		{"SUPERUSER", "NOSUPERUSER", s.SuperUser},
		{"CREATEDB", "NOCREATEDB", s.CreateDB},
		{"CREATEROLE", "NOCREATEROLE", s.CreateRole},
		{"INHERIT", "NOINHERIT", s.Inherit},
		{"LOGIN", "NOLOGIN", s.Login},
		{"REPLICATION", "NOREPLICATION", s.Replication},
		{"BYPASSRLS", "NOBYPASSRLS", s.BypassRLS},
	}
}

func (f roleFlag) word() string {
	if f.held {
		return f.on
	}
	return f.off
}

// Role owns a baseline snapshot (nil until the role exists) and the current
// edited snapshot.
type Role struct {
	Baseline *RoleState
	Current  RoleState
}

func (r *Role) Statements() ([]string, error) {
	if r.Baseline == nil {
		return r.createStatements(), nil
	}
	return r.alterStatements(*r.Baseline), nil
}

func (r *Role) Commit() {
	s := r.Current.Clone()
	r.Baseline = &s
}

func (r *Role) createStatements() []string {
	cur := r.Current
	name := schema.QuotePg(cur.Name)

	var opts []string
	for _, f := range cur.flags() {
		opts = append(opts, f.word())
	}
	if cur.Password != "" {
		opts = append(opts, "PASSWORD "+schema.StringConstant(cur.Password))
	}
	if cur.ValidUntil != "" {
		opts = append(opts, "VALID UNTIL "+schema.StringConstant(cur.ValidUntil))
	}
	if cur.ConnLimit != nil {
		opts = append(opts, "CONNECTION LIMIT "+strconv.Itoa(*cur.ConnLimit))
	}

	ddls := []string{"CREATE ROLE " + name + " WITH " + strings.Join(opts, " ") + ";"}
	for _, m := range cur.MemberOf {
		ddls = append(ddls, membershipGrant(m, name)+";")
	}
	for _, p := range cur.Privileges {
		if s := p.GrantStatement(name); s != "" {
			ddls = append(ddls, s+";")
		}
	}
	if cur.Comment != "" {
		ddls = append(ddls, "COMMENT ON ROLE "+name+" IS "+schema.StringConstant(cur.Comment)+";")
	}
	return ddls
}

// alterStatements emits the rename first, then changed role options as one
// ALTER ROLE, then every REVOKE before any GRANT, then the comment.
func (r *Role) alterStatements(base RoleState) []string {
	cur := r.Current
	name := schema.QuotePg(cur.Name)
	var ddls, revokes, grants []string

	if base.Name != cur.Name {
		ddls = append(ddls, "ALTER ROLE "+schema.QuotePg(base.Name)+" RENAME TO "+name+";")
	}

	var opts []string
	baseFlags := base.flags()
	for i, f := range cur.flags() {
		if f.held != baseFlags[i].held {
			opts = append(opts, f.word())
		}
	}
	if cur.Password != base.Password && cur.Password != "" {
		opts = append(opts, "PASSWORD "+schema.StringConstant(cur.Password))
	}
	if cur.ValidUntil != base.ValidUntil {
		until := cur.ValidUntil
		if until == "" {
			until = "infinity"
		}
		opts = append(opts, "VALID UNTIL "+schema.StringConstant(until))
	}
	if !eqIntPtr(cur.ConnLimit, base.ConnLimit) {
		limit := -1
		if cur.ConnLimit != nil {
			limit = *cur.ConnLimit
		}
		opts = append(opts, "CONNECTION LIMIT "+strconv.Itoa(limit))
	}
	if len(opts) > 0 {
		ddls = append(ddls, "ALTER ROLE "+name+" WITH "+strings.Join(opts, " ")+";")
	}

	edges := schema.DiffByID(base.MemberOf, cur.MemberOf)
	for _, m := range edges.Removed {
		revokes = append(revokes, "REVOKE "+schema.QuotePg(m.Role)+" FROM "+name)
	}
	for _, pair := range edges.Matched {
		if pair.New.Role != pair.Old.Role {
			revokes = append(revokes, "REVOKE "+schema.QuotePg(pair.Old.Role)+" FROM "+name)
			grants = append(grants, membershipGrant(pair.New, name))
		} else if pair.New.Admin != pair.Old.Admin {
			if pair.New.Admin {
				grants = append(grants, membershipGrant(pair.New, name))
			} else {
				revokes = append(revokes, "REVOKE ADMIN OPTION FOR "+schema.QuotePg(pair.New.Role)+" FROM "+name)
			}
		}
	}
	for _, m := range edges.Added {
		grants = append(grants, membershipGrant(m, name))
	}

	privs := schema.DiffByID(base.Privileges, cur.Privileges)
	for _, p := range privs.Removed {
		if s := p.RevokeStatement(name); s != "" {
			revokes = append(revokes, s)
		}
	}
	for _, pair := range privs.Matched {
		revoke, grant := pair.New.Delta(pair.Old, name)
		if revoke != "" {
			revokes = append(revokes, revoke)
		}
		if grant != "" {
			grants = append(grants, grant)
		}
	}
	for _, p := range privs.Added {
		if s := p.GrantStatement(name); s != "" {
			grants = append(grants, s)
		}
	}

	for _, s := range revokes {
		ddls = append(ddls, s+";")
	}
	for _, s := range grants {
		ddls = append(ddls, s+";")
	}

	if cur.Comment != base.Comment {
		ddls = append(ddls, "COMMENT ON ROLE "+name+" IS "+commentLiteral(cur.Comment)+";")
	}
	return ddls
}

func membershipGrant(m Membership, grantee string) string {
	s := "GRANT " + schema.QuotePg(m.Role) + " TO " + grantee
	if m.Admin {
		s += " WITH ADMIN OPTION"
	}
	return s
}
