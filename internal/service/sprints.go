package service

import (
	"context"
	"time"

	"zcrum/internal/auth"
	"zcrum/internal/board"
	"zcrum/internal/models"
)

// SprintInput carries the date window for a new sprint. The name is always
// generated, never user-supplied.
type SprintInput struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// CreateSprint creates a PLANNED sprint with the next generated name for the
// project. The number is re-derived from the surviving sibling names on every
// creation, so deleted numbers are never reused.
func (s *Service) CreateSprint(ctx context.Context, actor auth.Actor, projectID string, in SprintInput) (models.Sprint, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return models.Sprint{}, err
	}
	if !auth.CanPerform(actor, auth.ActionManageSprint, auth.Resource{OrganizationID: project.OrganizationID}) {
		return models.Sprint{}, models.ErrForbidden
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return models.Sprint{}, validationErr("start and end dates are required")
	}
	if in.EndDate.Before(in.StartDate) {
		return models.Sprint{}, validationErr("end date must not precede start date")
	}

	sprint := models.Sprint{
		Name:      board.NextSprintName(project.Key, project.Sprints),
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Status:    models.SprintPlanned,
		ProjectID: project.ID,
	}
	if err := s.store.CreateSprint(ctx, &sprint); err != nil {
		return models.Sprint{}, err
	}

	s.record(ctx, models.ActivityLog{
		Message:   `Created sprint "` + sprint.Name + `"`,
		Type:      models.ActivityCreated,
		UserID:    actor.User.ID,
		ProjectID: &project.ID,
		SprintID:  &sprint.ID,
	})
	return sprint, nil
}

// UpdateSprintStatus applies a lifecycle transition after validating it
// against the state machine and the sprint's date window.
func (s *Service) UpdateSprintStatus(ctx context.Context, actor auth.Actor, sprintID string, target models.SprintStatus) (models.Sprint, error) {
	sprint, err := s.store.GetSprint(ctx, sprintID)
	if err != nil {
		return models.Sprint{}, err
	}
	if !auth.CanPerform(actor, auth.ActionManageSprint, auth.Resource{OrganizationID: sprint.Project.OrganizationID}) {
		return models.Sprint{}, models.ErrForbidden
	}

	if err := board.ValidateTransition(sprint, target, s.now()); err != nil {
		return models.Sprint{}, err
	}
	if err := s.store.UpdateSprintStatus(ctx, sprintID, target); err != nil {
		return models.Sprint{}, err
	}
	sprint.Status = target

	message := `Started sprint "` + sprint.Name + `"`
	if target == models.SprintCompleted {
		message = `Completed sprint "` + sprint.Name + `"`
	}
	s.record(ctx, models.ActivityLog{
		Message:   message,
		Type:      models.ActivityStatusChanged,
		UserID:    actor.User.ID,
		ProjectID: &sprint.ProjectID,
		SprintID:  &sprint.ID,
	})
	return sprint, nil
}

// DeleteSprint removes a sprint; only PLANNED sprints may be deleted.
func (s *Service) DeleteSprint(ctx context.Context, actor auth.Actor, sprintID string) error {
	sprint, err := s.store.GetSprint(ctx, sprintID)
	if err != nil {
		return err
	}
	if !auth.CanPerform(actor, auth.ActionManageSprint, auth.Resource{OrganizationID: sprint.Project.OrganizationID}) {
		return models.ErrForbidden
	}
	if err := board.ValidateDeletion(sprint); err != nil {
		return err
	}

	if err := s.store.DeleteSprint(ctx, sprintID); err != nil {
		return err
	}

	s.record(ctx, models.ActivityLog{
		Message:   `Deleted sprint "` + sprint.Name + `"`,
		Type:      models.ActivityDeleted,
		UserID:    actor.User.ID,
		ProjectID: &sprint.ProjectID,
		SprintID:  &sprint.ID,
	})
	return nil
}
