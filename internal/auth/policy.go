package auth

// Action is one of the closed set of permission-checked operations.
type Action string

const (
	ActionViewResource  Action = "view_resource"
	ActionCreateProject Action = "create_project"
	ActionUpdateProject Action = "update_project"
	ActionDeleteProject Action = "delete_project"
	ActionManageSprint  Action = "manage_sprint"
	ActionMoveIssue     Action = "move_issue"
	ActionDeleteIssue   Action = "delete_issue"
)

// Resource carries the ownership facts a permission decision may need.
// OrganizationID is the owning organization of the resource (empty for
// creations, where the target organization is the caller's own);
// ReporterID is the local user id of the issue reporter where relevant.
type Resource struct {
	OrganizationID string
	ReporterID     string
}

// CanPerform is the single permission predicate for every mutating operation.
// Rules:
//   - project create/update/delete require the org admin role;
//   - sprint management is open to org admins and members of the owning org;
//   - issue deletion is open to the reporter and to org admins;
//   - everything else only requires membership of the owning organization.
func CanPerform(actor Actor, action Action, res Resource) bool {
	sameOrg := res.OrganizationID == "" || res.OrganizationID == actor.Identity.OrgID

	switch action {
	case ActionCreateProject, ActionUpdateProject, ActionDeleteProject:
		return actor.Identity.IsAdmin() && sameOrg
	case ActionManageSprint:
		return sameOrg || actor.Identity.IsAdmin()
	case ActionDeleteIssue:
		return sameOrg && (actor.Identity.IsAdmin() || res.ReporterID == actor.User.ID)
	case ActionViewResource, ActionMoveIssue:
		return sameOrg
	}
	return false
}
