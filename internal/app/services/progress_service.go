package services

import (
	"context"
	"strconv"

	"github.com/dmorales/aulago/internal/app/auth"
	"github.com/dmorales/aulago/internal/app/models"
	"github.com/dmorales/aulago/internal/app/models/dto"
	"github.com/dmorales/aulago/internal/pkg/apperrors"
	"github.com/dmorales/aulago/internal/pkg/logger"
)

// ProgressStore is the slice of the progress repository the service needs
type ProgressStore interface {
	GetOrCreate(ctx context.Context, userID, lessonID int64) (*models.LessonProgress, error)
	MarkCompleted(ctx context.Context, userID, lessonID int64) error
	Uncomplete(ctx context.Context, userID, lessonID int64) error
	UpdatePosition(ctx context.Context, userID, lessonID int64, seconds int) error
}

// LessonGetter loads lessons by id
type LessonGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Lesson, error)
}

// ProgressService defines the interface for progress tracking operations
type ProgressService interface {
	Update(ctx context.Context, user *models.User, lessonID int64, req *dto.ProgressUpdateRequest) (*models.LessonProgress, error)
}

type progressServiceImpl struct {
	progressRepo ProgressStore
	lessonRepo   LessonGetter
	courseRepo   CourseGetter
	authz        *auth.AuthorizationService
}

// NewProgressService creates a new progress service instance
func NewProgressService(progressRepo ProgressStore, lessonRepo LessonGetter, courseRepo CourseGetter, authz *auth.AuthorizationService) ProgressService {
	return &progressServiceImpl{
		progressRepo: progressRepo,
		lessonRepo:   lessonRepo,
		courseRepo:   courseRepo,
		authz:        authz,
	}
}

// Update applies one progress action for the calling user.
//
// Completing is idempotent: the first completion sets the timestamp and
// repeats keep it. Uncompleting clears flag and timestamp, so a later
// complete gets a fresh timestamp. Position updates with a non-numeric or
// negative value are ignored without error; a flaky video player should not
// surface as a failed request.
func (s *progressServiceImpl) Update(ctx context.Context, user *models.User, lessonID int64, req *dto.ProgressUpdateRequest) (*models.LessonProgress, error) {
	lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, lesson.CourseID)
	if err != nil {
		return nil, err
	}

	if err := s.authz.ValidateViewLessons(ctx, user, course); err != nil {
		return nil, err
	}

	progress, err := s.progressRepo.GetOrCreate(ctx, user.ID, lessonID)
	if err != nil {
		return nil, err
	}

	switch req.Action {
	case dto.ProgressActionComplete:
		if err := s.progressRepo.MarkCompleted(ctx, user.ID, lessonID); err != nil {
			return nil, err
		}

	case dto.ProgressActionUncomplete:
		if err := s.progressRepo.Uncomplete(ctx, user.ID, lessonID); err != nil {
			return nil, err
		}

	case dto.ProgressActionUpdatePosition:
		seconds, convErr := strconv.Atoi(req.Position)
		if convErr != nil || seconds < 0 {
			logger.Debug().Str("position", req.Position).Int64("lessonID", lessonID).Msg("Ignoring unusable playback position")
			return progress, nil
		}
		if err := s.progressRepo.UpdatePosition(ctx, user.ID, lessonID, seconds); err != nil {
			return nil, err
		}

	default:
		return nil, apperrors.NewBadRequestError("unknown progress action")
	}

	return s.progressRepo.GetOrCreate(ctx, user.ID, lessonID)
}
