package pg

import (
	"strings"

	"github.com/wanghche/schemadef/schema"
)

// Privilege is one table-scope grant row for a role.
type Privilege struct {
	ID         schema.ID
	Schema     string
	Name       string // table name
	Select     bool
	Insert     bool
	Update     bool
	Delete     bool
	Truncate   bool
	References bool
	Trigger    bool
}

func (p Privilege) EntityID() schema.ID { return p.ID }

type capability struct {
	name string
	held bool
}

func (p Privilege) capabilities() []capability {
	return []capability{
		{"SELECT", p.Select},
		{"INSERT", p.Insert},
		{"UPDATE", p.Update},
		{"DELETE", p.Delete},
		{"TRUNCATE", p.Truncate},
		{"REFERENCES", p.References},
		{"TRIGGER", p.Trigger},
	}
}

func (p Privilege) scope() string {
	return qualify(p.Schema, p.Name)
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

func grantStatement(names []string, scope, grantee string) string {
	if len(names) == 0 {
		return ""
	}
	return "GRANT " + strings.Join(names, ", ") + " ON " + scope + " TO " + grantee
}

func revokeStatement(names []string, scope, grantee string) string {
	if len(names) == 0 {
		return ""
	}
	return "REVOKE " + strings.Join(names, ", ") + " ON " + scope + " FROM " + grantee
}

// GrantStatement grants exactly the held capabilities.
func (p Privilege) GrantStatement(grantee string) string {
	return grantStatement(heldNames(p.capabilities()), p.scope(), grantee)
}

// RevokeStatement revokes exactly the held capabilities; a blanket
// REVOKE ALL is never produced.
func (p Privilege) RevokeStatement(grantee string) string {
	return revokeStatement(heldNames(p.capabilities()), p.scope(), grantee)
}

// Delta returns the targeted revoke and grant statements migrating the
// baseline row to this one.
func (p Privilege) Delta(old Privilege, grantee string) (revoke, grant string) {
	oldCaps := old.capabilities()
	curCaps := p.capabilities()
	var revoked, granted []string
	for i := range curCaps {
		switch {
		case oldCaps[i].held && !curCaps[i].held:
			revoked = append(revoked, curCaps[i].name)
		case !oldCaps[i].held && curCaps[i].held:
			granted = append(granted, curCaps[i].name)
		}
	}
	return revokeStatement(revoked, p.scope(), grantee), grantStatement(granted, p.scope(), grantee)
}
