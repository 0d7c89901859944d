// Package service implements the business logic: permission guards, the sprint
// state machine, board move orchestration and activity recording, on top of
// the storage repository.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"zcrum/internal/models"
	"zcrum/internal/storage"
)

// Service carries the dependencies shared by every operation. The clock is a
// field so lifecycle date-window checks are testable.
type Service struct {
	store  *storage.Store
	logger *slog.Logger
	now    func() time.Time
}

// New constructs the service on top of an opened store.
func New(store *storage.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// record appends an activity log entry after the primary mutation has
// committed. Recording is best-effort: failures are logged and swallowed,
// never surfaced to the caller.
func (s *Service) record(ctx context.Context, entry models.ActivityLog) {
	if err := s.store.CreateActivityLog(ctx, &entry); err != nil {
		s.logger.Warn("activity log not recorded",
			slog.String("type", string(entry.Type)),
			slog.String("message", entry.Message),
			slog.String("error", err.Error()))
	}
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", models.ErrValidation, fmt.Sprintf(format, args...))
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
