package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"zcrum/internal/auth"
	"zcrum/internal/models"
)

func actorWithRole(role string) auth.Actor {
	return auth.Actor{
		Identity: auth.Identity{UserID: "ext_1", OrgID: "org_1", OrgRole: role},
		User:     models.User{ID: "local_1", ExternalID: "ext_1"},
	}
}

func TestCanPerformProjectActions(t *testing.T) {
	admin := actorWithRole(auth.RoleAdmin)
	member := actorWithRole(auth.RoleMember)
	sameOrg := auth.Resource{OrganizationID: "org_1"}
	otherOrg := auth.Resource{OrganizationID: "org_2"}

	for _, action := range []auth.Action{auth.ActionCreateProject, auth.ActionUpdateProject, auth.ActionDeleteProject} {
		assert.True(t, auth.CanPerform(admin, action, sameOrg), "%s for admin", action)
		assert.False(t, auth.CanPerform(member, action, sameOrg), "%s for member", action)
		assert.False(t, auth.CanPerform(admin, action, otherOrg), "%s across orgs", action)
	}

	// Creation has no existing resource; only the role matters.
	assert.True(t, auth.CanPerform(admin, auth.ActionCreateProject, auth.Resource{}))
	assert.False(t, auth.CanPerform(member, auth.ActionCreateProject, auth.Resource{}))
}

func TestCanPerformSprintManagement(t *testing.T) {
	admin := actorWithRole(auth.RoleAdmin)
	member := actorWithRole(auth.RoleMember)

	assert.True(t, auth.CanPerform(member, auth.ActionManageSprint, auth.Resource{OrganizationID: "org_1"}))
	assert.False(t, auth.CanPerform(member, auth.ActionManageSprint, auth.Resource{OrganizationID: "org_2"}))
	assert.True(t, auth.CanPerform(admin, auth.ActionManageSprint, auth.Resource{OrganizationID: "org_2"}),
		"admins may force sprint transitions")
}

func TestCanPerformDeleteIssue(t *testing.T) {
	admin := actorWithRole(auth.RoleAdmin)
	member := actorWithRole(auth.RoleMember)

	ownIssue := auth.Resource{OrganizationID: "org_1", ReporterID: "local_1"}
	otherIssue := auth.Resource{OrganizationID: "org_1", ReporterID: "local_2"}

	assert.True(t, auth.CanPerform(member, auth.ActionDeleteIssue, ownIssue), "reporter may delete")
	assert.False(t, auth.CanPerform(member, auth.ActionDeleteIssue, otherIssue), "non-reporter member may not")
	assert.True(t, auth.CanPerform(admin, auth.ActionDeleteIssue, otherIssue), "admin may delete any issue")
	assert.False(t, auth.CanPerform(admin, auth.ActionDeleteIssue, auth.Resource{OrganizationID: "org_2"}),
		"never across organizations")
}

func TestCanPerformViewAndMove(t *testing.T) {
	member := actorWithRole(auth.RoleMember)

	assert.True(t, auth.CanPerform(member, auth.ActionViewResource, auth.Resource{OrganizationID: "org_1"}))
	assert.False(t, auth.CanPerform(member, auth.ActionViewResource, auth.Resource{OrganizationID: "org_2"}))
	assert.True(t, auth.CanPerform(member, auth.ActionMoveIssue, auth.Resource{OrganizationID: "org_1"}))
	assert.False(t, auth.CanPerform(member, auth.Action("unknown"), auth.Resource{OrganizationID: "org_1"}))
}
