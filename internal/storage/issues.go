package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"zcrum/internal/models"
)

// CreateIssue persists a new issue.
func (s *Store) CreateIssue(ctx context.Context, issue *models.Issue) error {
	return s.db.WithContext(ctx).Create(issue).Error
}

// GetIssue fetches an issue with its owning project.
func (s *Store) GetIssue(ctx context.Context, id string) (models.Issue, error) {
	var issue models.Issue
	err := s.db.WithContext(ctx).
		Preload("Project").
		Preload("Reporter").
		Preload("Assignee").
		First(&issue, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Issue{}, models.ErrIssueNotFound
	}
	if err != nil {
		return models.Issue{}, err
	}
	return issue, nil
}

// ListSprintIssues returns a sprint's issues ordered by (status, order), the
// shape the board consumes.
func (s *Store) ListSprintIssues(ctx context.Context, sprintID string) ([]models.Issue, error) {
	var issues []models.Issue
	err := s.db.WithContext(ctx).
		Preload("Reporter").
		Preload("Assignee").
		Where("sprint_id = ?", sprintID).
		Order(`status ASC, "order" ASC`).
		Find(&issues).Error
	return issues, err
}

// ListPartitionIssues returns the issues sharing one (project, status)
// partition ordered by their board position.
func (s *Store) ListPartitionIssues(ctx context.Context, projectID string, status models.IssueStatus) ([]models.Issue, error) {
	var issues []models.Issue
	err := s.db.WithContext(ctx).
		Where("project_id = ? AND status = ?", projectID, status).
		Order(`"order" ASC`).
		Find(&issues).Error
	return issues, err
}

// ListUserIssues returns the issues the user reported or is assigned to inside
// the organization, most recently updated first.
func (s *Store) ListUserIssues(ctx context.Context, orgID, userID string) ([]models.Issue, error) {
	var issues []models.Issue
	err := s.db.WithContext(ctx).
		Preload("Project").
		Preload("Reporter").
		Preload("Assignee").
		Joins("JOIN projects ON projects.id = issues.project_id").
		Where("projects.organization_id = ?", orgID).
		Where("issues.reporter_id = ? OR issues.assignee_id = ?", userID, userID).
		Order("issues.updated_at DESC").
		Find(&issues).Error
	return issues, err
}

// UpdateIssueFields writes a dialog edit: status, priority and, when the
// status changed, the append position in the new partition.
func (s *Store) UpdateIssueFields(ctx context.Context, id string, fields map[string]any) (models.Issue, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Issue{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return models.Issue{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Issue{}, models.ErrIssueNotFound
	}
	return s.GetIssue(ctx, id)
}

// DeleteIssue removes an issue row.
func (s *Store) DeleteIssue(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Issue{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrIssueNotFound
	}
	return nil
}

// SaveBoardPlacements persists the touched set of a board move as one atomic
// batch: every issue row gets its new status and order, or none do. A missing
// row aborts and rolls back the whole batch; recovery is the caller's
// re-fetch, never per-row repair.
func (s *Store) SaveBoardPlacements(ctx context.Context, issues []models.Issue) error {
	if len(issues) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, issue := range issues {
			result := tx.Model(&models.Issue{}).
				Where("id = ?", issue.ID).
				Updates(map[string]any{
					"status": issue.Status,
					"order":  issue.Order,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return models.ErrIssueNotFound
			}
		}
		return nil
	})
}
