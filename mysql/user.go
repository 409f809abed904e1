package mysql

import (
	"strconv"
	"strings"

	"github.com/wanghche/schemadef/schema"
)

// ServerPrivileges are the global (*.*) privilege flags of a user.
type ServerPrivileges struct {
	Alter             bool
	AlterRoutine      bool
	Create            bool
	CreateRole        bool
	CreateRoutine     bool
	CreateTablespace  bool
	CreateTemporary   bool
	CreateUser        bool
	CreateView        bool
	Delete            bool
	Drop              bool
	DropRole          bool
	Event             bool
	Execute           bool
	File              bool
	GrantOption       bool
	Index             bool
	Insert            bool
	LockTables        bool
	Process           bool
	References        bool
	Reload            bool
	ReplicationClient bool
	ReplicationSlave  bool
	Select            bool
	ShowDatabases     bool
	ShowView          bool
	Shutdown          bool
	Super             bool
	Trigger           bool
	Update            bool
}

func (s ServerPrivileges) capabilities() []capability {
	return []capability{
		{"ALTER", s.Alter},
		{"ALTER ROUTINE", s.AlterRoutine},
		{"CREATE", s.Create},
		{"CREATE ROLE", s.CreateRole},
		{"CREATE ROUTINE", s.CreateRoutine},
		{"CREATE TABLESPACE", s.CreateTablespace},
		{"CREATE TEMPORARY TABLES", s.CreateTemporary},
		{"CREATE USER", s.CreateUser},
		{"CREATE VIEW", s.CreateView},
		{"DELETE", s.Delete},
		{"DROP", s.Drop},
		{"DROP ROLE", s.DropRole},
		{"EVENT", s.Event},
		{"EXECUTE", s.Execute},
		{"FILE", s.File},
		{"GRANT OPTION", s.GrantOption},
		{"INDEX", s.Index},
		{"INSERT", s.Insert},
		{"LOCK TABLES", s.LockTables},
		{"PROCESS", s.Process},
		{"REFERENCES", s.References},
		{"RELOAD", s.Reload},
		{"REPLICATION CLIENT", s.ReplicationClient},
		{"REPLICATION SLAVE", s.ReplicationSlave},
		{"SELECT", s.Select},
		{"SHOW DATABASES", s.ShowDatabases},
		{"SHOW VIEW", s.ShowView},
		{"SHUTDOWN", s.Shutdown},
		{"SUPER", s.Super},
		{"TRIGGER", s.Trigger},
		{"UPDATE", s.Update},
	}
}

// RoleEdge is one role membership: the account is a member of Role@Host.
type RoleEdge struct {
	ID   schema.ID
	Role string
	Host string
}

func (e RoleEdge) EntityID() schema.ID { return e.ID }

func (e RoleEdge) accountName() string {
	host := e.Host
	if host == "" {
		host = "%"
	}
	return schema.QuoteMySQL(e.Role) + "@" + schema.QuoteMySQL(host)
}

// UserState is one snapshot of an account.
type UserState struct {
	Name               string
	Host               string
	Plugin             string
	Password           string
	MaxQueries         int
	MaxUpdates         int
	MaxConnections     int
	MaxUserConnections int
	Server             ServerPrivileges
	MemberOf           []RoleEdge
	Privileges         []Privilege
}

func (s UserState) accountName() string {
	host := s.Host
	if host == "" {
		host = "%"
	}
	return schema.QuoteMySQL(s.Name) + "@" + schema.QuoteMySQL(host)
}

func (s UserState) identifiedClause() string {
	var b strings.Builder
	if s.Plugin != "" {
		b.WriteString(" IDENTIFIED WITH " + schema.StringConstant(s.Plugin))
		if s.Password != "" {
			b.WriteString(" BY " + schema.StringConstant(s.Password))
		}
	} else if s.Password != "" {
		b.WriteString(" IDENTIFIED BY " + schema.StringConstant(s.Password))
	}
	return b.String()
}

func (s UserState) resourceClause() string {
	var opts []string
	if s.MaxQueries > 0 {
		opts = append(opts, "MAX_QUERIES_PER_HOUR "+strconv.Itoa(s.MaxQueries))
	}
	if s.MaxUpdates > 0 {
		opts = append(opts, "MAX_UPDATES_PER_HOUR "+strconv.Itoa(s.MaxUpdates))
	}
	if s.MaxConnections > 0 {
		opts = append(opts, "MAX_CONNECTIONS_PER_HOUR "+strconv.Itoa(s.MaxConnections))
	}
	if s.MaxUserConnections > 0 {
		opts = append(opts, "MAX_USER_CONNECTIONS "+strconv.Itoa(s.MaxUserConnections))
	}
	if len(opts) == 0 {
		return ""
	}
	return " WITH " + strings.Join(opts, " ")
}

func (s UserState) sameAuth(o UserState) bool {
	return s.Plugin == o.Plugin && s.Password == o.Password &&
		s.MaxQueries == o.MaxQueries && s.MaxUpdates == o.MaxUpdates &&
		s.MaxConnections == o.MaxConnections && s.MaxUserConnections == o.MaxUserConnections
}

func (s UserState) Clone() UserState {
	c := s
	c.MemberOf = append([]RoleEdge(nil), s.MemberOf...)
	c.Privileges = append([]Privilege(nil), s.Privileges...)
	return c
}

// User owns a baseline account snapshot (nil until the account exists) and
// the current edited snapshot.
type User struct {
	Baseline *UserState
	Current  UserState
}

func (u *User) Statements() ([]string, error) {
	if u.Baseline == nil {
		return u.createStatements(), nil
	}
	return u.alterStatements(*u.Baseline), nil
}

func (u *User) Commit() {
	s := u.Current.Clone()
	u.Baseline = &s
}

func (u *User) createStatements() []string {
	cur := u.Current
	ddls := []string{
		"CREATE USER " + cur.accountName() + cur.identifiedClause() + cur.resourceClause() + ";",
	}
	if s := grantStatement(heldNames(cur.Server.capabilities()), "*.*", cur.accountName()); s != "" {
		ddls = append(ddls, s+";")
	}
	for _, e := range cur.MemberOf {
		ddls = append(ddls, "GRANT "+e.accountName()+" TO "+cur.accountName()+";")
	}
	for _, p := range cur.Privileges {
		if s := p.GrantStatement(cur.accountName()); s != "" {
			ddls = append(ddls, s+";")
		}
	}
	return ddls
}

// alterStatements emits the rename and account alteration first, then every
// REVOKE, then every GRANT, so privileges never transiently widen.
func (u *User) alterStatements(base UserState) []string {
	cur := u.Current
	var ddls, revokes, grants []string

	if base.Name != cur.Name || base.Host != cur.Host {
		ddls = append(ddls, "RENAME USER "+base.accountName()+" TO "+cur.accountName()+";")
	}
	if !cur.sameAuth(base) {
		ddls = append(ddls, "ALTER USER "+cur.accountName()+cur.identifiedClause()+cur.resourceClause()+";")
	}

	revoked, granted := grantRevoke(base.Server.capabilities(), cur.Server.capabilities())
	if s := revokeStatement(revoked, "*.*", cur.accountName()); s != "" {
		revokes = append(revokes, s)
	}
	if s := grantStatement(granted, "*.*", cur.accountName()); s != "" {
		grants = append(grants, s)
	}

	edges := schema.DiffByID(base.MemberOf, cur.MemberOf)
	for _, e := range edges.Removed {
		revokes = append(revokes, "REVOKE "+e.accountName()+" FROM "+cur.accountName())
	}
	for _, e := range edges.Added {
		grants = append(grants, "GRANT "+e.accountName()+" TO "+cur.accountName())
	}

	privs := schema.DiffByID(base.Privileges, cur.Privileges)
	for _, p := range privs.Removed {
		if s := p.RevokeStatement(cur.accountName()); s != "" {
			revokes = append(revokes, s)
		}
	}
	for _, pair := range privs.Matched {
		revoke, grant := pair.New.Delta(pair.Old, cur.accountName())
		if revoke != "" {
			revokes = append(revokes, revoke)
		}
		if grant != "" {
			grants = append(grants, grant)
		}
	}
	for _, p := range privs.Added {
		if s := p.GrantStatement(cur.accountName()); s != "" {
			grants = append(grants, s)
		}
	}

	for _, s := range revokes {
		ddls = append(ddls, s+";")
	}
	for _, s := range grants {
		ddls = append(ddls, s+";")
	}
	return ddls
}
