package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"zcrum/internal/auth"
	"zcrum/internal/board"
	"zcrum/internal/models"
)

// MoveIssue applies one drag-and-drop gesture to a sprint's board. Only an
// ACTIVE sprint accepts moves. The touched rows are persisted as a single
// atomic batch; on batch failure the authoritative list is re-fetched and
// returned alongside the error so the caller can discard optimistic state.
// MOVED activity entries are recorded after the batch commits, best-effort.
func (s *Service) MoveIssue(ctx context.Context, actor auth.Actor, sprintID string, mv board.Move) ([]models.Issue, error) {
	sprint, err := s.store.GetSprint(ctx, sprintID)
	if err != nil {
		return nil, err
	}
	if !auth.CanPerform(actor, auth.ActionMoveIssue, auth.Resource{OrganizationID: sprint.Project.OrganizationID}) {
		return nil, models.ErrForbidden
	}
	if err := board.ValidateBoardUpdate(sprint); err != nil {
		return nil, err
	}

	issues, err := s.store.ListSprintIssues(ctx, sprintID)
	if err != nil {
		return nil, err
	}

	result, err := board.ApplyMove(issues, mv)
	if err != nil {
		return nil, err
	}
	if !result.Applied {
		return result.Issues, nil
	}

	if err := s.store.SaveBoardPlacements(ctx, result.Touched); err != nil {
		s.logger.Error("board placement batch failed",
			slog.String("sprint_id", sprintID),
			slog.Int("touched", len(result.Touched)),
			slog.String("error", err.Error()))

		authoritative, fetchErr := s.store.ListSprintIssues(ctx, sprintID)
		if fetchErr != nil {
			return nil, errors.Join(models.ErrPersistence, err, fetchErr)
		}
		return authoritative, fmt.Errorf("%w: %v", models.ErrPersistence, err)
	}

	for _, issue := range result.Touched {
		s.record(ctx, models.ActivityLog{
			Message:   fmt.Sprintf("Moved issue %q to %s", issue.Title, issue.Status),
			Type:      models.ActivityMoved,
			UserID:    actor.User.ID,
			IssueID:   &issue.ID,
			ProjectID: &issue.ProjectID,
			SprintID:  issue.SprintID,
		})
	}

	return result.Issues, nil
}
