package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/dmorales/aulago/internal/app/auth"
	"github.com/dmorales/aulago/internal/app/models"
	"github.com/dmorales/aulago/internal/app/models/dto"
	"github.com/dmorales/aulago/internal/app/repositories"
	"github.com/dmorales/aulago/internal/pkg/apperrors"
	"github.com/dmorales/aulago/internal/pkg/filestorage"
	"github.com/dmorales/aulago/internal/pkg/logger"
	"github.com/dmorales/aulago/internal/pkg/validation"
)

// LessonStore is the slice of the lesson repository the service needs
type LessonStore interface {
	Create(ctx context.Context, lesson *models.Lesson) error
	GetByID(ctx context.Context, id int64) (*models.Lesson, error)
	ListByCourse(ctx context.Context, courseID int64) ([]*models.Lesson, error)
	Update(ctx context.Context, lesson *models.Lesson) error
	Delete(ctx context.Context, id int64) error
	Reorder(ctx context.Context, courseID int64, placements []repositories.LessonPlacement) error
	GetAdjacent(ctx context.Context, courseID int64, position int) (prev, next *models.Lesson, err error)
}

// ProgressOpener creates the blank progress row when a learner first opens a
// lesson
type ProgressOpener interface {
	GetOrCreate(ctx context.Context, userID, lessonID int64) (*models.LessonProgress, error)
}

// BlobCleaner schedules best-effort blob deletions after record mutations
// have committed
type BlobCleaner interface {
	Schedule(path string)
}

// LessonInput carries the multipart fields of a lesson create or update
type LessonInput struct {
	Title       string
	ContentType models.ContentType
	TextContent string
	VideoURL    string
	Attachment  *multipart.FileHeader
}

// LessonService defines the interface for lesson operations
type LessonService interface {
	CreateLesson(ctx context.Context, user *models.User, courseID int64, input *LessonInput) (*models.Lesson, error)
	UpdateLesson(ctx context.Context, user *models.User, lessonID int64, input *LessonInput) (*models.Lesson, error)
	DeleteLesson(ctx context.Context, user *models.User, lessonID int64) error
	GetDetail(ctx context.Context, user *models.User, lessonID int64) (*dto.LessonDetailResponse, error)
	Reorder(ctx context.Context, user *models.User, courseID int64, req *dto.ReorderRequest) error
}

type lessonServiceImpl struct {
	lessonRepo   LessonStore
	courseRepo   CourseGetter
	progressRepo ProgressOpener
	storage      filestorage.FileStorage
	cleaner      BlobCleaner
	limits       validation.AttachmentLimits
	authz        *auth.AuthorizationService
}

// NewLessonService creates a new lesson service instance
func NewLessonService(
	lessonRepo LessonStore,
	courseRepo CourseGetter,
	progressRepo ProgressOpener,
	storage filestorage.FileStorage,
	cleaner BlobCleaner,
	limits validation.AttachmentLimits,
	authz *auth.AuthorizationService,
) LessonService {
	return &lessonServiceImpl{
		lessonRepo:   lessonRepo,
		courseRepo:   courseRepo,
		progressRepo: progressRepo,
		storage:      storage,
		cleaner:      cleaner,
		limits:       limits,
		authz:        authz,
	}
}

// validateLessonInput enforces the per-content-type field rules. hasStored
// tells whether the lesson already carries an attachment that satisfies a
// file requirement.
func (s *lessonServiceImpl) validateLessonInput(input *LessonInput, hasStored bool) error {
	vErr := &apperrors.ValidationError{}

	if msg := validation.ValidateTitle(input.Title); msg != "" {
		vErr.AddField("title", msg)
	}

	if !input.ContentType.IsValid() {
		vErr.AddField("content_type", "content type must be video, text, image or file")
		return vErr
	}

	hasUpload := input.Attachment != nil

	switch input.ContentType {
	case models.ContentTypeVideo:
		if strings.TrimSpace(input.VideoURL) == "" && !hasUpload && !hasStored {
			vErr.AddField("video_url", "provide a video URL or upload a video file")
		}
	case models.ContentTypeText:
		if strings.TrimSpace(input.TextContent) == "" {
			vErr.AddField("text_content", "text lessons need text content")
		}
	case models.ContentTypeImage:
		if !hasUpload && !hasStored {
			vErr.AddField("attachment", "image lessons need an image file")
		}
	case models.ContentTypeFile:
		if !hasUpload && !hasStored {
			vErr.AddField("attachment", "file lessons need an attachment")
		}
	}

	if hasUpload {
		if msg := validation.ValidateAttachment(input.Attachment.Filename, input.Attachment.Size, input.ContentType, s.limits); msg != "" {
			vErr.AddField("attachment", msg)
		}
	}

	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

// CreateLesson appends a lesson to the course
func (s *lessonServiceImpl) CreateLesson(ctx context.Context, user *models.User, courseID int64, input *LessonInput) (*models.Lesson, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if err := s.authz.ValidateManageCourse(user, course); err != nil {
		return nil, err
	}

	if err := s.validateLessonInput(input, false); err != nil {
		return nil, err
	}

	lesson := &models.Lesson{
		CourseID:    courseID,
		Title:       strings.TrimSpace(input.Title),
		ContentType: input.ContentType,
		TextContent: input.TextContent,
		VideoURL:    strings.TrimSpace(input.VideoURL),
	}

	if input.Attachment != nil {
		stored, err := s.storage.SaveFileWithPath(input.Attachment, "lessons")
		if err != nil {
			return nil, fmt.Errorf("error storing attachment: %w", err)
		}
		lesson.Attachment = stored
	}

	if err := s.lessonRepo.Create(ctx, lesson); err != nil {
		// The record never existed, so the blob is orphaned; remove it
		s.cleaner.Schedule(lesson.Attachment)
		return nil, err
	}

	logger.Info().Int64("lessonID", lesson.ID).Int64("courseID", courseID).Int("position", lesson.Position).Msg("Lesson created")
	return lesson, nil
}

// UpdateLesson edits a lesson's content. A newly uploaded file replaces the
// stored one and the old blob is scheduled for deletion only after the record
// update committed. Changing the content type alone never deletes the old
// blob, so switching back recovers it.
func (s *lessonServiceImpl) UpdateLesson(ctx context.Context, user *models.User, lessonID int64, input *LessonInput) (*models.Lesson, error) {
	lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, lesson.CourseID)
	if err != nil {
		return nil, err
	}

	if err := s.authz.ValidateManageCourse(user, course); err != nil {
		return nil, err
	}

	if err := s.validateLessonInput(input, lesson.Attachment != ""); err != nil {
		return nil, err
	}

	oldAttachment := lesson.Attachment

	lesson.Title = strings.TrimSpace(input.Title)
	lesson.ContentType = input.ContentType
	lesson.TextContent = input.TextContent
	lesson.VideoURL = strings.TrimSpace(input.VideoURL)

	var newAttachment string
	if input.Attachment != nil {
		newAttachment, err = s.storage.SaveFileWithPath(input.Attachment, "lessons")
		if err != nil {
			return nil, fmt.Errorf("error storing attachment: %w", err)
		}
		lesson.Attachment = newAttachment
	}

	if err := s.lessonRepo.Update(ctx, lesson); err != nil {
		s.cleaner.Schedule(newAttachment)
		return nil, err
	}

	if newAttachment != "" && oldAttachment != "" && oldAttachment != newAttachment {
		s.cleaner.Schedule(oldAttachment)
	}

	return lesson, nil
}

// DeleteLesson removes a lesson and schedules its attachment for cleanup.
// Remaining lessons keep their positions.
func (s *lessonServiceImpl) DeleteLesson(ctx context.Context, user *models.User, lessonID int64) error {
	lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		return err
	}

	course, err := s.courseRepo.GetByID(ctx, lesson.CourseID)
	if err != nil {
		return err
	}

	if err := s.authz.ValidateManageCourse(user, course); err != nil {
		return err
	}

	if err := s.lessonRepo.Delete(ctx, lessonID); err != nil {
		return err
	}

	s.cleaner.Schedule(lesson.Attachment)

	logger.Info().Int64("lessonID", lessonID).Int64("courseID", lesson.CourseID).Msg("Lesson deleted")
	return nil
}

// GetDetail returns a lesson with the viewer's progress and its neighbours in
// course order. Opening a lesson is what creates the progress row, and only
// for enrolled learners; instructors previewing their own content leave no
// trace.
func (s *lessonServiceImpl) GetDetail(ctx context.Context, user *models.User, lessonID int64) (*dto.LessonDetailResponse, error) {
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

	detail := &dto.LessonDetailResponse{
		Lesson: toLessonResponse(lesson),
	}

	if !s.authz.CanManageCourse(user, course) {
		progress, err := s.progressRepo.GetOrCreate(ctx, user.ID, lessonID)
		if err != nil {
			return nil, err
		}
		detail.Progress = progress
	}

	prev, next, err := s.lessonRepo.GetAdjacent(ctx, lesson.CourseID, lesson.Position)
	if err != nil {
		return nil, err
	}
	if prev != nil {
		resp := toLessonResponse(prev)
		detail.PreviousLesson = &resp
	}
	if next != nil {
		resp := toLessonResponse(next)
		detail.NextLesson = &resp
	}

	return detail, nil
}

// Reorder applies a bulk ordering change. The request fails as a whole when
// it references lessons outside the course or repeats a lesson or position;
// partial application would leave the course half-shuffled.
func (s *lessonServiceImpl) Reorder(ctx context.Context, user *models.User, courseID int64, req *dto.ReorderRequest) error {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return err
	}

	if err := s.authz.ValidateManageCourse(user, course); err != nil {
		return err
	}

	if len(req.LessonOrders) == 0 {
		return apperrors.NewBadRequestError("no lesson orders provided")
	}

	seenIDs := map[int64]bool{}
	seenPositions := map[int]bool{}
	placements := make([]repositories.LessonPlacement, 0, len(req.LessonOrders))
	for _, item := range req.LessonOrders {
		if seenIDs[item.ID] {
			return apperrors.NewBadRequestError("duplicate lesson in reorder request")
		}
		seenIDs[item.ID] = true

		if item.Order >= 1 {
			if seenPositions[item.Order] {
				return apperrors.NewBadRequestError("duplicate position in reorder request")
			}
			seenPositions[item.Order] = true
		}

		placements = append(placements, repositories.LessonPlacement{
			LessonID: item.ID,
			Position: item.Order,
		})
	}

	if err := s.lessonRepo.Reorder(ctx, courseID, placements); err != nil {
		return err
	}

	logger.Info().Int64("courseID", courseID).Int("lessons", len(placements)).Msg("Lessons reordered")
	return nil
}
