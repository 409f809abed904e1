package mysql

import (
	"strings"

	"github.com/wanghche/schemadef/schema"
)

// capability is one named boolean privilege flag.
type capability struct {
	name string
	held bool
}

func heldNames(caps []capability) []string {
	var names []string
	for _, c := range caps {
		if c.held {
			names = append(names, c.name)
		}
	}
	return names
}

// grantRevoke splits a capability delta into the names to revoke (turned
// off) and the names to grant (turned on). Both lists are targeted; a full
// REVOKE ALL is never produced from them.
func grantRevoke(old, cur []capability) (revoke, grant []string) {
	for i := range cur {
		switch {
		case old[i].held && !cur[i].held:
			revoke = append(revoke, cur[i].name)
		case !old[i].held && cur[i].held:
			grant = append(grant, cur[i].name)
		}
	}
	return revoke, grant
}

// grantStatement renders a GRANT. GRANT OPTION cannot appear in a MySQL
// grant list; it is carried as a WITH GRANT OPTION suffix instead.
func grantStatement(names []string, scope, grantee string) string {
	withGrant := false
	list := make([]string, 0, len(names))
	for _, n := range names {
		if n == "GRANT OPTION" {
			withGrant = true
			continue
		}
		list = append(list, n)
	}
	if len(list) == 0 {
		if !withGrant {
			return ""
		}
		list = append(list, "USAGE")
	}
	s := "GRANT " + strings.Join(list, ", ") + " ON " + scope + " TO " + grantee
	if withGrant {
		s += " WITH GRANT OPTION"
	}
	return s
}

func revokeStatement(names []string, scope, grantee string) string {
	if len(names) == 0 {
		return ""
	}
	return "REVOKE " + strings.Join(names, ", ") + " ON " + scope + " FROM " + grantee
}

// Privilege is one table-scope grant row for a user or role.
type Privilege struct {
	ID          schema.ID
	DB          string
	Table       string
	Alter       bool
	Create      bool
	CreateView  bool
	Delete      bool
	Drop        bool
	GrantOption bool
	Index       bool
	Insert      bool
	References  bool
	Select      bool
	ShowView    bool
	Trigger     bool
	Update      bool
}

func (p Privilege) EntityID() schema.ID { return p.ID }

func (p Privilege) capabilities() []capability {
	return []capability{
		{"ALTER", p.Alter},
		{"CREATE", p.Create},
		{"CREATE VIEW", p.CreateView},
		{"DELETE", p.Delete},
		{"DROP", p.Drop},
		{"GRANT OPTION", p.GrantOption},
		{"INDEX", p.Index},
		{"INSERT", p.Insert},
		{"REFERENCES", p.References},
		{"SELECT", p.Select},
		{"SHOW VIEW", p.ShowView},
		{"TRIGGER", p.Trigger},
		{"UPDATE", p.Update},
	}
}

func (p Privilege) scope() string {
	return schema.QuoteMySQL(p.DB) + "." + schema.QuoteMySQL(p.Table)
}

// GrantStatement grants exactly the held capabilities.
func (p Privilege) GrantStatement(grantee string) string {
	return grantStatement(heldNames(p.capabilities()), p.scope(), grantee)
}

// RevokeStatement revokes exactly the held capabilities.
func (p Privilege) RevokeStatement(grantee string) string {
	return revokeStatement(heldNames(p.capabilities()), p.scope(), grantee)
}

// Delta returns the targeted revoke and grant statements migrating the
// baseline row to this one. Either may be empty.
func (p Privilege) Delta(old Privilege, grantee string) (revoke, grant string) {
	revoked, granted := grantRevoke(old.capabilities(), p.capabilities())
	if len(revoked) > 0 {
		revoke = revokeStatement(revoked, p.scope(), grantee)
	}
	if len(granted) > 0 {
		grant = grantStatement(granted, p.scope(), grantee)
	}
	return revoke, grant
}
