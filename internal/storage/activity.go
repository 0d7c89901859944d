package storage

import (
	"context"

	"zcrum/internal/models"
)

// CreateActivityLog appends one audit entry. Logs are append-only; no update
// or delete path exists.
func (s *Store) CreateActivityLog(ctx context.Context, entry *models.ActivityLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

// ListActivityLogs returns the organization's audit trail, newest first. Logs
// are matched through their project reference; entries keep pointing at
// deleted entities by id, which is fine for a historical record.
func (s *Store) ListActivityLogs(ctx context.Context, orgID string) ([]models.ActivityLog, error) {
	var logs []models.ActivityLog
	err := s.db.WithContext(ctx).
		Joins("JOIN projects ON projects.id = activity_logs.project_id").
		Where("projects.organization_id = ?", orgID).
		Order("activity_logs.created_at DESC").
		Find(&logs).Error
	return logs, err
}
