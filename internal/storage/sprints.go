package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"zcrum/internal/models"
)

// CreateSprint persists a new sprint. A concurrent creation that derived the
// same name trips the (project_id, name) unique index and surfaces as a
// retryable conflict.
func (s *Store) CreateSprint(ctx context.Context, sprint *models.Sprint) error {
	err := s.db.WithContext(ctx).Create(sprint).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrDuplicateSprintName
	}
	return err
}

// GetSprint fetches a sprint with its owning project.
func (s *Store) GetSprint(ctx context.Context, id string) (models.Sprint, error) {
	var sprint models.Sprint
	err := s.db.WithContext(ctx).Preload("Project").First(&sprint, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Sprint{}, models.ErrSprintNotFound
	}
	if err != nil {
		return models.Sprint{}, err
	}
	return sprint, nil
}

// ListSprints returns a project's sprints, newest first.
func (s *Store) ListSprints(ctx context.Context, projectID string) ([]models.Sprint, error) {
	var sprints []models.Sprint
	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&sprints).Error
	return sprints, err
}

// UpdateSprintStatus writes the new lifecycle state for a sprint.
func (s *Store) UpdateSprintStatus(ctx context.Context, id string, status models.SprintStatus) error {
	result := s.db.WithContext(ctx).
		Model(&models.Sprint{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrSprintNotFound
	}
	return nil
}

// DeleteSprint removes a sprint row.
func (s *Store) DeleteSprint(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Sprint{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrSprintNotFound
	}
	return nil
}
