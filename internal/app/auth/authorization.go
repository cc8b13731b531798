package auth

import (
	"context"

	"github.com/dmorales/aulago/internal/app/models"
	"github.com/dmorales/aulago/internal/pkg/apperrors"
)

// EnrollmentChecker answers whether a user holds an enrollment in a course
type EnrollmentChecker interface {
	IsEnrolled(ctx context.Context, userID, courseID int64) (bool, error)
}

// AuthorizationService decides who may manage and view course content.
// Decisions are made against the course value the caller already loaded, so a
// policy check never re-reads the course and cannot disagree with the handler
// about which course it is judging.
type AuthorizationService struct {
	enrollments EnrollmentChecker
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(enrollments EnrollmentChecker) *AuthorizationService {
	return &AuthorizationService{enrollments: enrollments}
}

// CanManageCourse reports whether the user may edit the course and its
// lessons. Admins manage everything; otherwise only the owning instructor.
func (s *AuthorizationService) CanManageCourse(user *models.User, course *models.Course) bool {
	if user == nil || course == nil {
		return false
	}
	if user.IsAdmin() {
		return true
	}
	return course.InstructorID == user.ID
}

// ValidateManageCourse returns ErrPermissionDenied unless the user may manage
// the course
func (s *AuthorizationService) ValidateManageCourse(user *models.User, course *models.Course) error {
	if !s.CanManageCourse(user, course) {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// CanViewLessons reports whether the user may open the course's lesson
// content. Managers always can; everyone else needs an enrollment. A course
// being unlisted does not revoke access for anyone already enrolled.
func (s *AuthorizationService) CanViewLessons(ctx context.Context, user *models.User, course *models.Course) (bool, error) {
	if user == nil || course == nil {
		return false, nil
	}
	if s.CanManageCourse(user, course) {
		return true, nil
	}
	return s.enrollments.IsEnrolled(ctx, user.ID, course.ID)
}

// ValidateViewLessons returns ErrNotEnrolled unless the user may view the
// course's lessons
func (s *AuthorizationService) ValidateViewLessons(ctx context.Context, user *models.User, course *models.Course) error {
	ok, err := s.CanViewLessons(ctx, user, course)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrNotEnrolled
	}
	return nil
}
