package pg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wanghche/schemadef/schema"
)

func TestCreateRole(t *testing.T) {
	role := &Role{Current: RoleState{
		Name:      "reporter",
		Inherit:   true,
		Login:     true,
		Password:  "secret",
		ConnLimit: intPtr(5),
		MemberOf:  []Membership{{ID: schema.NewID(), Role: "readers", Admin: true}},
		Privileges: []Privilege{{
			ID: schema.NewID(), Schema: "public", Name: "orders", Select: true,
		}},
		Comment: "reporting role",
	}}

	ddls, err := role.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{
		`CREATE ROLE "reporter" WITH NOSUPERUSER NOCREATEDB NOCREATEROLE INHERIT LOGIN NOREPLICATION NOBYPASSRLS PASSWORD 'secret' CONNECTION LIMIT 5;`,
		`GRANT "readers" TO "reporter" WITH ADMIN OPTION;`,
		`GRANT SELECT ON "public"."orders" TO "reporter";`,
		`COMMENT ON ROLE "reporter" IS 'reporting role';`,
	}, ddls)
}

func TestAlterRoleFlags(t *testing.T) {
	base := RoleState{Name: "reporter", Inherit: true}
	role := &Role{Baseline: &base,
		Current: RoleState{Name: "reporter", Inherit: true, Login: true, CreateDB: true}}

	ddls, err := role.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{
		`ALTER ROLE "reporter" WITH CREATEDB LOGIN;`,
	}, ddls)
}

func TestRenameRoleComesFirst(t *testing.T) {
	base := RoleState{Name: "reporter", Inherit: true}
	role := &Role{Baseline: &base,
		Current: RoleState{Name: "analyst", Inherit: true, Login: true}}

	ddls, err := role.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{
		`ALTER ROLE "reporter" RENAME TO "analyst";`,
		`ALTER ROLE "analyst" WITH LOGIN;`,
	}, ddls)
}

func TestValidUntilCleared(t *testing.T) {
	base := RoleState{Name: "r", ValidUntil: "2026-01-01"}
	role := &Role{Baseline: &base, Current: RoleState{Name: "r"}}

	ddls, err := role.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{`ALTER ROLE "r" WITH VALID UNTIL 'infinity';`}, ddls)
}

func TestRoleRevokesPrecedeGrants(t *testing.T) {
	priv := Privilege{ID: schema.NewID(), Schema: "public", Name: "orders", Select: true, Insert: true}
	modified := priv
	modified.Insert = false
	modified.Truncate = true

	gone := Membership{ID: schema.NewID(), Role: "writers"}
	added := Membership{ID: schema.NewID(), Role: "readers"}

	base := RoleState{Name: "r", MemberOf: []Membership{gone}, Privileges: []Privilege{priv}}
	role := &Role{Baseline: &base, Current: RoleState{
		Name: "r", MemberOf: []Membership{added}, Privileges: []Privilege{modified},
	}}

	ddls, err := role.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{
		`REVOKE "writers" FROM "r";`,
		`REVOKE INSERT ON "public"."orders" FROM "r";`,
		`GRANT "readers" TO "r";`,
		`GRANT TRUNCATE ON "public"."orders" TO "r";`,
	}, ddls)
}

// A removed privilege row revokes its held capabilities, never ALL.
func TestRemovedPrivilegeIsTargeted(t *testing.T) {
	priv := Privilege{ID: schema.NewID(), Schema: "public", Name: "orders", Select: true, Trigger: true}
	base := RoleState{Name: "r", Privileges: []Privilege{priv}}
	role := &Role{Baseline: &base, Current: RoleState{Name: "r"}}

	ddls, err := role.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{
		`REVOKE SELECT, TRIGGER ON "public"."orders" FROM "r";`,
	}, ddls)
}

func TestAdminOptionRevoked(t *testing.T) {
	m := Membership{ID: schema.NewID(), Role: "readers", Admin: true}
	demoted := m
	demoted.Admin = false

	base := RoleState{Name: "r", MemberOf: []Membership{m}}
	role := &Role{Baseline: &base, Current: RoleState{Name: "r", MemberOf: []Membership{demoted}}}

	ddls, err := role.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{
		`REVOKE ADMIN OPTION FOR "readers" FROM "r";`,
	}, ddls)
}

func TestRoleCommit(t *testing.T) {
	role := &Role{Current: RoleState{Name: "r", Login: true}}
	role.Commit()

	ddls, err := role.Statements()
	assert.NoError(t, err)
	assert.Empty(t, ddls)
}

func TestViewCreateWithRules(t *testing.T) {
	r := Rule{ID: schema.NewID(), Name: "noop_del", Event: RuleDelete, Instead: true}
	view := &View{Current: ViewState{
		Schema: "public", Name: "v", Definition: "SELECT id FROM t",
		Rules: []Rule{r}, Comment: "read model",
	}}

	ddls, err := view.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{
		`CREATE VIEW "public"."v" AS SELECT id FROM t;`,
		`CREATE RULE "noop_del" AS ON DELETE TO "public"."v" DO INSTEAD NOTHING;`,
		`COMMENT ON VIEW "public"."v" IS 'read model';`,
	}, ddls)
}

func TestViewDefinitionChange(t *testing.T) {
	base := ViewState{Name: "v", Definition: "SELECT id FROM t"}
	view := &View{Baseline: &base,
		Current: ViewState{Name: "v", Definition: "SELECT id, name FROM t"}}

	ddls, err := view.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{
		`CREATE OR REPLACE VIEW "v" AS SELECT id, name FROM t;`,
	}, ddls)
}

func TestViewRename(t *testing.T) {
	base := ViewState{Name: "v", Definition: "SELECT 1"}
	view := &View{Baseline: &base, Current: ViewState{Name: "v2", Definition: "SELECT 1"}}

	ddls, err := view.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{`ALTER VIEW "v" RENAME TO "v2";`}, ddls)
}
