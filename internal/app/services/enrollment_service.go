package services

import (
	"context"
	"fmt"

	"github.com/dmorales/aulago/internal/app/models"
	"github.com/dmorales/aulago/internal/pkg/apperrors"
	"github.com/dmorales/aulago/internal/pkg/logger"
)

// CourseGetter loads courses by numeric id
type CourseGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Course, error)
}

// EnrollmentStore is the slice of the enrollment repository the service needs
type EnrollmentStore interface {
	Enroll(ctx context.Context, userID, courseID int64) (bool, error)
	IsEnrolled(ctx context.Context, userID, courseID int64) (bool, error)
	Unenroll(ctx context.Context, userID, courseID int64) (bool, error)
}

// EnrollmentService defines the interface for enrollment operations
type EnrollmentService interface {
	Enroll(ctx context.Context, user *models.User, courseID int64) error
	Unenroll(ctx context.Context, user *models.User, courseID int64) error
}

type enrollmentServiceImpl struct {
	courseRepo     CourseGetter
	enrollmentRepo EnrollmentStore
}

// NewEnrollmentService creates a new enrollment service instance
func NewEnrollmentService(courseRepo CourseGetter, enrollmentRepo EnrollmentStore) EnrollmentService {
	return &enrollmentServiceImpl{
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

// Enroll enrolls the user into a course. Unlisted courses reject new
// enrollments, instructors cannot enroll in their own course, and enrolling
// twice is a harmless no-op.
func (s *enrollmentServiceImpl) Enroll(ctx context.Context, user *models.User, courseID int64) error {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return err
	}

	if course.InstructorID == user.ID {
		return apperrors.ErrInstructorEnroll
	}

	if !course.IsListed {
		return apperrors.ErrCourseUnlisted
	}

	created, err := s.enrollmentRepo.Enroll(ctx, user.ID, courseID)
	if err != nil {
		return fmt.Errorf("error enrolling user: %w", err)
	}

	if created {
		logger.Info().Int64("userID", user.ID).Int64("courseID", courseID).Msg("User enrolled")
	}
	return nil
}

// Unenroll removes the user's enrollment. Progress rows stay behind so a
// later re-enrollment resumes where they stopped.
func (s *enrollmentServiceImpl) Unenroll(ctx context.Context, user *models.User, courseID int64) error {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return err
	}

	removed, err := s.enrollmentRepo.Unenroll(ctx, user.ID, courseID)
	if err != nil {
		return fmt.Errorf("error unenrolling user: %w", err)
	}
	if !removed {
		return apperrors.ErrNotEnrolled
	}

	logger.Info().Int64("userID", user.ID).Int64("courseID", courseID).Msg("User unenrolled")
	return nil
}
