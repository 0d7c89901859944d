package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"zcrum/internal/models"
)

// CreateProject persists a new project.
func (s *Store) CreateProject(ctx context.Context, project *models.Project) error {
	err := s.db.WithContext(ctx).Create(project).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Join(models.ErrValidation, errors.New("project key already in use"))
	}
	return err
}

// GetProject fetches a project with its sprints, newest sprint first.
func (s *Store) GetProject(ctx context.Context, id string) (models.Project, error) {
	var project models.Project
	err := s.db.WithContext(ctx).
		Preload("Sprints", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Project{}, models.ErrProjectNotFound
	}
	if err != nil {
		return models.Project{}, err
	}
	return project, nil
}

// ListProjects returns the organization's projects, newest first.
func (s *Store) ListProjects(ctx context.Context, orgID string) ([]models.Project, error) {
	var projects []models.Project
	err := s.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

// UpdateProject saves changed project fields.
func (s *Store) UpdateProject(ctx context.Context, project *models.Project) error {
	return s.db.WithContext(ctx).Save(project).Error
}

// DeleteProject removes a project; sprints and issues cascade through the
// schema, activity logs deliberately survive.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Project{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrProjectNotFound
	}
	return nil
}
