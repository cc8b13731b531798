package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmorales/aulago/internal/app/auth"
	"github.com/dmorales/aulago/internal/app/models"
	"github.com/dmorales/aulago/internal/app/models/dto"
	"github.com/dmorales/aulago/internal/app/repositories"
	"github.com/dmorales/aulago/internal/pkg/apperrors"
	"github.com/dmorales/aulago/internal/pkg/helpers"
	"github.com/dmorales/aulago/internal/pkg/logger"
	"github.com/dmorales/aulago/internal/pkg/validation"
)

// CourseStore is the slice of the course repository the service needs
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetByIdentifier(ctx context.Context, identifier uuid.UUID) (*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
	ListListed(ctx context.Context, search, instructor string, offset, limit int) ([]*repositories.CourseSummary, error)
	CountListed(ctx context.Context, search, instructor string) (int, error)
	GetSummary(ctx context.Context, id int64) (*repositories.CourseSummary, error)
	ListByInstructor(ctx context.Context, instructorID int64) ([]*repositories.CourseSummary, error)
	ListEnrolled(ctx context.Context, userID int64) ([]*repositories.CourseSummary, error)
}

// CourseLessonLister lists lessons for the detail read model
type CourseLessonLister interface {
	ListByCourse(ctx context.Context, courseID int64) ([]*models.Lesson, error)
}

// CourseProgressReader reads progress for the detail and dashboard read models
type CourseProgressReader interface {
	MapByCourse(ctx context.Context, userID, courseID int64) (map[int64]*models.LessonProgress, error)
	CompletedByCourse(ctx context.Context, userID int64) (map[int64]int, error)
}

// CourseCommentLister lists comments for the detail read model
type CourseCommentLister interface {
	ListByCourse(ctx context.Context, courseID int64) ([]*repositories.CommentWithAuthor, error)
}

// RatingStore is the slice of the rating repository the service needs
type RatingStore interface {
	Upsert(ctx context.Context, userID, courseID int64, rating int) error
	Get(ctx context.Context, userID, courseID int64) (*models.CourseRating, error)
}

// CourseService defines the interface for course operations
type CourseService interface {
	CreateCourse(ctx context.Context, user *models.User, req *dto.CreateCourseRequest) (*models.Course, error)
	UpdateCourse(ctx context.Context, user *models.User, courseID int64, req *dto.UpdateCourseRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, user *models.User, courseID int64) error
	ListCatalogue(ctx context.Context, filter *dto.CourseFilterRequest) ([]dto.CourseResponse, int, error)
	GetDetail(ctx context.Context, user *models.User, courseID int64) (*dto.CourseDetailResponse, error)
	ResolveIdentifier(ctx context.Context, identifier string) (*models.Course, error)
	GetDashboard(ctx context.Context, user *models.User) (*dto.DashboardResponse, error)
	RateCourse(ctx context.Context, user *models.User, courseID int64, rating int) error
}

type courseServiceImpl struct {
	courseRepo     CourseStore
	lessonRepo     CourseLessonLister
	progressRepo   CourseProgressReader
	commentRepo    CourseCommentLister
	ratingRepo     RatingStore
	enrollmentRepo EnrollmentStore
	authz          *auth.AuthorizationService
}

// NewCourseService creates a new course service instance
func NewCourseService(
	courseRepo CourseStore,
	lessonRepo CourseLessonLister,
	progressRepo CourseProgressReader,
	commentRepo CourseCommentLister,
	ratingRepo RatingStore,
	enrollmentRepo EnrollmentStore,
	authz *auth.AuthorizationService,
) CourseService {
	return &courseServiceImpl{
		courseRepo:     courseRepo,
		lessonRepo:     lessonRepo,
		progressRepo:   progressRepo,
		commentRepo:    commentRepo,
		ratingRepo:     ratingRepo,
		enrollmentRepo: enrollmentRepo,
		authz:          authz,
	}
}

func validateCourseFields(title, description string) error {
	vErr := &apperrors.ValidationError{}
	if msg := validation.ValidateTitle(title); msg != "" {
		vErr.AddField("title", msg)
	}
	if msg := validation.ValidateCourseDescription(description); msg != "" {
		vErr.AddField("description", msg)
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

// CreateCourse creates a course owned by the calling instructor
func (s *courseServiceImpl) CreateCourse(ctx context.Context, user *models.User, req *dto.CreateCourseRequest) (*models.Course, error) {
	if user.Role != models.RoleInstructor && !user.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only instructors can create courses")
	}

	if err := validateCourseFields(req.Title, req.Description); err != nil {
		return nil, err
	}

	isListed := true
	if req.IsListed != nil {
		isListed = *req.IsListed
	}

	course := &models.Course{
		InstructorID: user.ID,
		Title:        req.Title,
		Description:  req.Description,
		IsListed:     isListed,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("error creating course: %w", err)
	}

	logger.Info().Int64("courseID", course.ID).Int64("instructorID", user.ID).Msg("Course created")
	return course, nil
}

// UpdateCourse updates a course's title, description and listing flag.
// Unlisting never touches existing enrollments.
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, user *models.User, courseID int64, req *dto.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if err := s.authz.ValidateManageCourse(user, course); err != nil {
		return nil, err
	}

	if err := validateCourseFields(req.Title, req.Description); err != nil {
		return nil, err
	}

	course.Title = req.Title
	course.Description = req.Description
	if req.IsListed != nil {
		course.IsListed = *req.IsListed
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

// DeleteCourse removes a course and everything hanging off it
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, user *models.User, courseID int64) error {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return err
	}

	if err := s.authz.ValidateManageCourse(user, course); err != nil {
		return err
	}

	if err := s.courseRepo.Delete(ctx, courseID); err != nil {
		return err
	}

	logger.Info().Int64("courseID", courseID).Int64("userID", user.ID).Msg("Course deleted")
	return nil
}

// ListCatalogue returns listed courses matching the filter with the total count
func (s *courseServiceImpl) ListCatalogue(ctx context.Context, filter *dto.CourseFilterRequest) ([]dto.CourseResponse, int, error) {
	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)

	summaries, err := s.courseRepo.ListListed(ctx, filter.Search, filter.Instructor, int(offset), limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.courseRepo.CountListed(ctx, filter.Search, filter.Instructor)
	if err != nil {
		return nil, 0, err
	}

	courses := make([]dto.CourseResponse, 0, len(summaries))
	for _, summary := range summaries {
		courses = append(courses, toCourseResponse(summary))
	}

	return courses, total, nil
}

// ResolveIdentifier maps a course's URL identifier to the course itself
func (s *courseServiceImpl) ResolveIdentifier(ctx context.Context, identifier string) (*models.Course, error) {
	id, err := uuid.Parse(identifier)
	if err != nil {
		return nil, apperrors.ErrCourseNotFound
	}
	return s.courseRepo.GetByIdentifier(ctx, id)
}

// GetDetail builds the course detail read model. Course metadata and comments
// are visible to everyone; the lesson list with per-lesson progress is only
// filled in for viewers who may open the content.
func (s *courseServiceImpl) GetDetail(ctx context.Context, user *models.User, courseID int64) (*dto.CourseDetailResponse, error) {
	summary, err := s.courseRepo.GetSummary(ctx, courseID)
	if err != nil {
		return nil, err
	}
	course := &summary.Course

	canManage := s.authz.CanManageCourse(user, course)

	isEnrolled := false
	if user != nil && !canManage {
		isEnrolled, err = s.enrollmentRepo.IsEnrolled(ctx, user.ID, courseID)
		if err != nil {
			return nil, err
		}
	}

	detail := &dto.CourseDetailResponse{
		Course:       toCourseResponse(summary),
		Lessons:      []dto.LessonWithProgress{},
		Comments:     []dto.CommentResponse{},
		IsEnrolled:   isEnrolled,
		IsInstructor: user != nil && course.InstructorID == user.ID,
		CanManage:    canManage,
	}

	comments, err := s.commentRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	for _, comment := range comments {
		detail.Comments = append(detail.Comments, toCommentResponse(comment))
	}

	if !canManage && !isEnrolled {
		return detail, nil
	}

	lessons, err := s.lessonRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	var progressByLesson map[int64]*models.LessonProgress
	if user != nil {
		progressByLesson, err = s.progressRepo.MapByCourse(ctx, user.ID, courseID)
		if err != nil {
			return nil, err
		}
	}

	completed := 0
	for _, lesson := range lessons {
		entry := dto.LessonWithProgress{Lesson: toLessonResponse(lesson)}
		if progress, ok := progressByLesson[lesson.ID]; ok {
			entry.Progress = progress
			if progress.Completed {
				completed++
			}
		}
		detail.Lessons = append(detail.Lessons, entry)
	}

	if isEnrolled {
		detail.ProgressPercent = helpers.ProgressPercent(completed, len(lessons))
	}

	return detail, nil
}

// GetDashboard builds the user's dashboard: enrolled courses with completion
// numbers plus, for instructors, the courses they teach
func (s *courseServiceImpl) GetDashboard(ctx context.Context, user *models.User) (*dto.DashboardResponse, error) {
	enrolled, err := s.courseRepo.ListEnrolled(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	completedByCourse, err := s.progressRepo.CompletedByCourse(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	dashboard := &dto.DashboardResponse{
		EnrolledCourses: []dto.DashboardCourse{},
		TeachingCourses: []dto.CourseResponse{},
	}

	for _, summary := range enrolled {
		completed := completedByCourse[summary.Course.ID]
		dashboard.EnrolledCourses = append(dashboard.EnrolledCourses, dto.DashboardCourse{
			Course:           toCourseResponse(summary),
			CompletedLessons: completed,
			TotalLessons:     summary.LessonCount,
			ProgressPercent:  helpers.ProgressPercent(completed, summary.LessonCount),
		})
		dashboard.TotalCompletedLessons += completed
		dashboard.TotalLessonsAvailable += summary.LessonCount
	}

	if user.Role == models.RoleInstructor || user.IsAdmin() {
		teaching, err := s.courseRepo.ListByInstructor(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		for _, summary := range teaching {
			dashboard.TeachingCourses = append(dashboard.TeachingCourses, toCourseResponse(summary))
		}
	}

	return dashboard, nil
}

// RateCourse stores the user's star rating. Only enrolled users rate, and
// rating again replaces the earlier value.
func (s *courseServiceImpl) RateCourse(ctx context.Context, user *models.User, courseID int64, rating int) error {
	if rating < 1 || rating > 5 {
		return apperrors.NewValidationError(map[string]string{
			"rating": "rating must be between 1 and 5",
		})
	}

	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return err
	}

	enrolled, err := s.enrollmentRepo.IsEnrolled(ctx, user.ID, courseID)
	if err != nil {
		return err
	}
	if !enrolled {
		return apperrors.ErrNotEnrolled
	}

	if err := s.ratingRepo.Upsert(ctx, user.ID, courseID, rating); err != nil {
		return err
	}

	return nil
}
