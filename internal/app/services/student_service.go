package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rescare/rescare/internal/app/models"
	"github.com/rescare/rescare/internal/pkg/apperrors"
)

// StudentService handles student account lifecycle beyond registration
type StudentService struct {
	students StudentStore
	logger   zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(students StudentStore, logger zerolog.Logger) *StudentService {
	return &StudentService{
		students: students,
		logger:   logger,
	}
}

// DeleteAccount deletes a student account while preserving its maintenance
// requests. A student may only delete their own account; an admin may delete
// any student.
func (s *StudentService) DeleteAccount(ctx context.Context, requester Identity, studentID int64) error {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return err
	}

	if requester.Role == models.RoleStudent && requester.AccountID != studentID {
		return apperrors.NewForbiddenError("You can only delete your own account.")
	}

	if err := s.students.DeleteWithSnapshot(ctx, studentID); err != nil {
		return err
	}

	s.logger.Info().Int64("studentID", studentID).
		Str("requesterRole", string(requester.Role)).
		Msg("Student account deleted")
	return nil
}
