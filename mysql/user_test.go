package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wanghche/schemadef/schema"
)

func TestCreateUser(t *testing.T) {
	user := &User{
		Current: UserState{
			Name:       "app",
			Host:       "localhost",
			Password:   "secret",
			MaxQueries: 100,
			Server:     ServerPrivileges{Select: true, Insert: true},
			MemberOf:   []RoleEdge{{ID: schema.NewID(), Role: "readers"}},
			Privileges: []Privilege{{
				ID: schema.NewID(), DB: "shop", Table: "orders",
				Select: true, Update: true,
			}},
		},
	}

	ddls, err := user.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"CREATE USER `app`@`localhost` IDENTIFIED BY 'secret' WITH MAX_QUERIES_PER_HOUR 100;",
		"GRANT SELECT, INSERT ON *.* TO `app`@`localhost`;",
		"GRANT `readers`@`%` TO `app`@`localhost`;",
		"GRANT SELECT, UPDATE ON `shop`.`orders` TO `app`@`localhost`;",
	}, ddls)
}

func TestRenameUser(t *testing.T) {
	base := UserState{Name: "app", Host: "%"}
	user := &User{Baseline: &base, Current: UserState{Name: "app2", Host: "%"}}

	ddls, err := user.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{"RENAME USER `app`@`%` TO `app2`@`%`;"}, ddls)
}

func TestServerPrivilegeDelta(t *testing.T) {
	base := UserState{Name: "app", Host: "%", Server: ServerPrivileges{Select: true, Insert: true}}
	user := &User{Baseline: &base,
		Current: UserState{Name: "app", Host: "%", Server: ServerPrivileges{Select: true, Update: true}}}

	ddls, err := user.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"REVOKE INSERT ON *.* FROM `app`@`%`;",
		"GRANT UPDATE ON *.* TO `app`@`%`;",
	}, ddls)
}

// Every REVOKE comes before any GRANT, across the whole privilege section.
func TestRevokesPrecedeGrants(t *testing.T) {
	priv := Privilege{ID: schema.NewID(), DB: "shop", Table: "orders", Select: true, Insert: true}
	modified := priv
	modified.Insert = false
	modified.Delete = true

	gone := RoleEdge{ID: schema.NewID(), Role: "writers"}
	added := RoleEdge{ID: schema.NewID(), Role: "readers"}

	base := UserState{Name: "app", Host: "%", MemberOf: []RoleEdge{gone}, Privileges: []Privilege{priv}}
	user := &User{Baseline: &base, Current: UserState{
		Name: "app", Host: "%", MemberOf: []RoleEdge{added}, Privileges: []Privilege{modified},
	}}

	ddls, err := user.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"REVOKE `writers`@`%` FROM `app`@`%`;",
		"REVOKE INSERT ON `shop`.`orders` FROM `app`@`%`;",
		"GRANT `readers`@`%` TO `app`@`%`;",
		"GRANT DELETE ON `shop`.`orders` TO `app`@`%`;",
	}, ddls)
}

// A removed privilege row revokes exactly what it held, never REVOKE ALL.
func TestRemovedPrivilegeIsTargeted(t *testing.T) {
	priv := Privilege{ID: schema.NewID(), DB: "shop", Table: "orders", Select: true, ShowView: true}
	base := UserState{Name: "app", Host: "%", Privileges: []Privilege{priv}}
	user := &User{Baseline: &base, Current: UserState{Name: "app", Host: "%"}}

	ddls, err := user.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"REVOKE SELECT, SHOW VIEW ON `shop`.`orders` FROM `app`@`%`;",
	}, ddls)
}

func TestGrantOptionHandling(t *testing.T) {
	priv := Privilege{ID: schema.NewID(), DB: "shop", Table: "orders", Select: true}
	withGrant := priv
	withGrant.GrantOption = true

	base := UserState{Name: "app", Host: "%", Privileges: []Privilege{priv}}
	user := &User{Baseline: &base,
		Current: UserState{Name: "app", Host: "%", Privileges: []Privilege{withGrant}}}

	ddls, err := user.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"GRANT USAGE ON `shop`.`orders` TO `app`@`%` WITH GRANT OPTION;",
	}, ddls)
}

func TestAlterUserAuthChange(t *testing.T) {
	base := UserState{Name: "app", Host: "%", Password: "old"}
	user := &User{Baseline: &base,
		Current: UserState{Name: "app", Host: "%", Plugin: "caching_sha2_password", Password: "new"}}

	ddls, err := user.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"ALTER USER `app`@`%` IDENTIFIED WITH 'caching_sha2_password' BY 'new';",
	}, ddls)
}

func TestUserCommit(t *testing.T) {
	user := &User{Current: UserState{Name: "app", Host: "%", Password: "x"}}
	user.Commit()

	ddls, err := user.Statements()
	assert.NoError(t, err)
	assert.Empty(t, ddls)
}

func TestViewRenameAndAlter(t *testing.T) {
	base := ViewState{Name: "v", Definition: "SELECT 1", Security: SecurityInvoker}
	view := &View{Baseline: &base,
		Current: ViewState{Name: "v2", Definition: "SELECT 2", Security: SecurityInvoker}}

	ddls, err := view.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"RENAME TABLE `v` TO `v2`;",
		"ALTER SQL SECURITY INVOKER VIEW `v2` AS SELECT 2;",
	}, ddls)
}

func TestViewCreate(t *testing.T) {
	view := &View{Current: ViewState{
		Name: "v", Algorithm: AlgorithmMerge, Definition: "SELECT id FROM t", CheckOption: CheckCascaded,
	}}

	ddls, err := view.Statements()
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"CREATE ALGORITHM = MERGE VIEW `v` AS SELECT id FROM t WITH CASCADED CHECK OPTION;",
	}, ddls)
}
