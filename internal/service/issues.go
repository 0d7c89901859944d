package service

import (
	"context"
	"strings"

	"zcrum/internal/auth"
	"zcrum/internal/board"
	"zcrum/internal/models"
)

// IssueInput carries the fields for creating an issue.
type IssueInput struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Status      models.IssueStatus   `json:"status"`
	Priority    models.IssuePriority `json:"priority"`
	SprintID    string               `json:"sprint_id"`
	AssigneeID  string               `json:"assignee_id"`
}

// IssueUpdate carries the dialog-editable fields of an existing issue.
type IssueUpdate struct {
	Status   models.IssueStatus   `json:"status"`
	Priority models.IssuePriority `json:"priority"`
}

func validateIssueInput(in IssueInput) error {
	if in.Title == "" || len(in.Title) > models.MaxTitleLen {
		return validationErr("issue title must be 1-%d characters", models.MaxTitleLen)
	}
	if len(in.Description) > models.MaxDescriptionLen {
		return validationErr("description must be %d characters or less", models.MaxDescriptionLen)
	}
	if !in.Status.Valid() {
		return validationErr("unknown status %q", in.Status)
	}
	if !in.Priority.Valid() {
		return validationErr("unknown priority %q", in.Priority)
	}
	return nil
}

// CreateIssue appends a new issue to the tail of its (project, status)
// partition: order is one past the partition's current maximum, or zero when
// the column is empty.
func (s *Service) CreateIssue(ctx context.Context, actor auth.Actor, projectID string, in IssueInput) (models.Issue, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return models.Issue{}, err
	}
	if !auth.CanPerform(actor, auth.ActionViewResource, auth.Resource{OrganizationID: project.OrganizationID}) {
		return models.Issue{}, models.ErrForbidden
	}

	in.Title = strings.TrimSpace(in.Title)
	if err := validateIssueInput(in); err != nil {
		return models.Issue{}, err
	}
	if in.SprintID != "" {
		sprint, err := s.store.GetSprint(ctx, in.SprintID)
		if err != nil {
			return models.Issue{}, err
		}
		if sprint.ProjectID != project.ID {
			return models.Issue{}, validationErr("sprint does not belong to project")
		}
	}

	partition, err := s.store.ListPartitionIssues(ctx, projectID, in.Status)
	if err != nil {
		return models.Issue{}, err
	}

	issue := models.Issue{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		Order:       board.NextOrder(partition),
		ProjectID:   projectID,
		SprintID:    optional(in.SprintID),
		ReporterID:  actor.User.ID,
		AssigneeID:  optional(in.AssigneeID),
	}
	if err := s.store.CreateIssue(ctx, &issue); err != nil {
		return models.Issue{}, err
	}

	s.record(ctx, models.ActivityLog{
		Message:   `Created issue "` + issue.Title + `"`,
		Type:      models.ActivityCreated,
		UserID:    actor.User.ID,
		IssueID:   &issue.ID,
		ProjectID: &projectID,
		SprintID:  issue.SprintID,
	})
	return issue, nil
}

// SprintIssues returns a sprint's issues in board order.
func (s *Service) SprintIssues(ctx context.Context, actor auth.Actor, sprintID string) ([]models.Issue, error) {
	sprint, err := s.store.GetSprint(ctx, sprintID)
	if err != nil {
		return nil, err
	}
	if !auth.CanPerform(actor, auth.ActionViewResource, auth.Resource{OrganizationID: sprint.Project.OrganizationID}) {
		return nil, models.ErrForbidden
	}
	return s.store.ListSprintIssues(ctx, sprintID)
}

// UpdateIssue applies a dialog edit of status and priority. A status change
// moves the issue to the tail of its new partition via the order assignment
// rule; repositioning inside a column stays the board engine's job.
func (s *Service) UpdateIssue(ctx context.Context, actor auth.Actor, issueID string, in IssueUpdate) (models.Issue, error) {
	issue, err := s.store.GetIssue(ctx, issueID)
	if err != nil {
		return models.Issue{}, err
	}
	if !auth.CanPerform(actor, auth.ActionViewResource, auth.Resource{OrganizationID: issue.Project.OrganizationID}) {
		return models.Issue{}, models.ErrForbidden
	}
	if !in.Status.Valid() {
		return models.Issue{}, validationErr("unknown status %q", in.Status)
	}
	if !in.Priority.Valid() {
		return models.Issue{}, validationErr("unknown priority %q", in.Priority)
	}

	fields := map[string]any{
		"status":   in.Status,
		"priority": in.Priority,
	}
	if in.Status != issue.Status {
		partition, err := s.store.ListPartitionIssues(ctx, issue.ProjectID, in.Status)
		if err != nil {
			return models.Issue{}, err
		}
		fields["order"] = board.NextOrder(partition)
	}

	updated, err := s.store.UpdateIssueFields(ctx, issueID, fields)
	if err != nil {
		return models.Issue{}, err
	}

	s.record(ctx, models.ActivityLog{
		Message:   `Updated issue "` + updated.Title + `"`,
		Type:      models.ActivityUpdated,
		UserID:    actor.User.ID,
		IssueID:   &updated.ID,
		ProjectID: &updated.ProjectID,
		SprintID:  updated.SprintID,
	})
	return updated, nil
}

// DeleteIssue removes an issue; allowed for its reporter and for org admins.
func (s *Service) DeleteIssue(ctx context.Context, actor auth.Actor, issueID string) error {
	issue, err := s.store.GetIssue(ctx, issueID)
	if err != nil {
		return err
	}
	if !auth.CanPerform(actor, auth.ActionDeleteIssue, auth.Resource{
		OrganizationID: issue.Project.OrganizationID,
		ReporterID:     issue.ReporterID,
	}) {
		return models.ErrForbidden
	}

	if err := s.store.DeleteIssue(ctx, issueID); err != nil {
		return err
	}

	s.record(ctx, models.ActivityLog{
		Message:   `Deleted issue "` + issue.Title + `"`,
		Type:      models.ActivityDeleted,
		UserID:    actor.User.ID,
		IssueID:   &issue.ID,
		ProjectID: &issue.ProjectID,
		SprintID:  issue.SprintID,
	})
	return nil
}

// UserIssues returns the caller's reported and assigned issues inside the
// organization, most recently updated first.
func (s *Service) UserIssues(ctx context.Context, actor auth.Actor) ([]models.Issue, error) {
	return s.store.ListUserIssues(ctx, actor.Identity.OrgID, actor.User.ID)
}

// ActivityFeed returns the organization's audit trail, newest first.
func (s *Service) ActivityFeed(ctx context.Context, actor auth.Actor) ([]models.ActivityLog, error) {
	return s.store.ListActivityLogs(ctx, actor.Identity.OrgID)
}
