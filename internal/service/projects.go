package service

import (
	"context"
	"regexp"
	"strings"

	"zcrum/internal/auth"
	"zcrum/internal/models"
)

// ProjectInput carries the user-editable project fields.
type ProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Key         string `json:"key"`
}

var projectKeyPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]*$`)

func validateProjectInput(in ProjectInput, withKey bool) error {
	if in.Name == "" || len(in.Name) > models.MaxNameLen {
		return validationErr("project name must be 1-%d characters", models.MaxNameLen)
	}
	if len(in.Description) > models.MaxDescriptionLen {
		return validationErr("description must be %d characters or less", models.MaxDescriptionLen)
	}
	if withKey {
		if len(in.Key) < models.MinKeyLen || len(in.Key) > models.MaxKeyLen {
			return validationErr("project key must be %d-%d characters", models.MinKeyLen, models.MaxKeyLen)
		}
		if !projectKeyPattern.MatchString(in.Key) {
			return validationErr("project key must be uppercase alphanumeric")
		}
	}
	return nil
}

// CreateProject creates a project in the caller's organization. Admin only.
func (s *Service) CreateProject(ctx context.Context, actor auth.Actor, in ProjectInput) (models.Project, error) {
	if !auth.CanPerform(actor, auth.ActionCreateProject, auth.Resource{}) {
		return models.Project{}, models.ErrForbidden
	}

	in.Key = strings.ToUpper(strings.TrimSpace(in.Key))
	if err := validateProjectInput(in, true); err != nil {
		return models.Project{}, err
	}

	project := models.Project{
		Name:           strings.TrimSpace(in.Name),
		Description:    in.Description,
		Key:            in.Key,
		OrganizationID: actor.Identity.OrgID,
	}
	if err := s.store.CreateProject(ctx, &project); err != nil {
		return models.Project{}, err
	}

	s.record(ctx, models.ActivityLog{
		Message:   `Created project "` + project.Name + `"`,
		Type:      models.ActivityCreated,
		UserID:    actor.User.ID,
		ProjectID: &project.ID,
	})
	return project, nil
}

// GetProject returns a project with its sprints when the caller belongs to
// the owning organization.
func (s *Service) GetProject(ctx context.Context, actor auth.Actor, projectID string) (models.Project, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return models.Project{}, err
	}
	if !auth.CanPerform(actor, auth.ActionViewResource, auth.Resource{OrganizationID: project.OrganizationID}) {
		return models.Project{}, models.ErrForbidden
	}
	return project, nil
}

// ListProjects returns the caller organization's projects.
func (s *Service) ListProjects(ctx context.Context, actor auth.Actor) ([]models.Project, error) {
	return s.store.ListProjects(ctx, actor.Identity.OrgID)
}

// UpdateProject edits a project's name and description. Admin only; the key
// is immutable once issues reference it through sprint names.
func (s *Service) UpdateProject(ctx context.Context, actor auth.Actor, projectID string, in ProjectInput) (models.Project, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return models.Project{}, err
	}
	if !auth.CanPerform(actor, auth.ActionUpdateProject, auth.Resource{OrganizationID: project.OrganizationID}) {
		return models.Project{}, models.ErrForbidden
	}
	if err := validateProjectInput(in, false); err != nil {
		return models.Project{}, err
	}

	project.Name = strings.TrimSpace(in.Name)
	project.Description = in.Description
	project.Sprints = nil
	if err := s.store.UpdateProject(ctx, &project); err != nil {
		return models.Project{}, err
	}

	s.record(ctx, models.ActivityLog{
		Message:   `Updated project "` + project.Name + `"`,
		Type:      models.ActivityUpdated,
		UserID:    actor.User.ID,
		ProjectID: &project.ID,
	})
	return project, nil
}

// DeleteProject removes a project with everything it owns. Admin only.
// Activity logs referencing the project remain as historical record.
func (s *Service) DeleteProject(ctx context.Context, actor auth.Actor, projectID string) error {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return err
	}
	if !auth.CanPerform(actor, auth.ActionDeleteProject, auth.Resource{OrganizationID: project.OrganizationID}) {
		return models.ErrForbidden
	}

	if err := s.store.DeleteProject(ctx, projectID); err != nil {
		return err
	}

	s.record(ctx, models.ActivityLog{
		Message:   `Deleted project "` + project.Name + `"`,
		Type:      models.ActivityDeleted,
		UserID:    actor.User.ID,
		ProjectID: &project.ID,
	})
	return nil
}
