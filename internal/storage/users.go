package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"zcrum/internal/models"
)

// EnsureUser returns the local row mirroring the given identity-provider
// account, creating it on first sight. Profile fields are refreshed on every
// call so renames and avatar changes propagate.
func (s *Store) EnsureUser(ctx context.Context, user models.User) (models.User, error) {
	var existing models.User
	err := s.db.WithContext(ctx).Where("external_id = ?", user.ExternalID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			return models.User{}, err
		}
		return user, nil
	}
	if err != nil {
		return models.User{}, err
	}

	changed := existing.Email != user.Email || existing.Name != user.Name || existing.ImageURL != user.ImageURL
	if changed {
		existing.Email = user.Email
		existing.Name = user.Name
		existing.ImageURL = user.ImageURL
		if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return models.User{}, err
		}
	}
	return existing, nil
}

// GetUser fetches a local user row by id.
func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, models.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}
