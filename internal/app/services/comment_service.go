package services

import (
	"context"
	"strings"

	"github.com/dmorales/aulago/internal/app/auth"
	"github.com/dmorales/aulago/internal/app/models"
	"github.com/dmorales/aulago/internal/app/models/dto"
	"github.com/dmorales/aulago/internal/app/repositories"
	"github.com/dmorales/aulago/internal/pkg/apperrors"
	"github.com/dmorales/aulago/internal/pkg/validation"
)

// CommentStore is the slice of the comment repository the service needs
type CommentStore interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	ListByCourse(ctx context.Context, courseID int64) ([]*repositories.CommentWithAuthor, error)
	Delete(ctx context.Context, id int64) error
}

// CommentService defines the interface for comment operations
type CommentService interface {
	CreateComment(ctx context.Context, user *models.User, courseID int64, req *dto.CreateCommentRequest) (*models.Comment, error)
	ListComments(ctx context.Context, courseID int64) ([]dto.CommentResponse, error)
	DeleteComment(ctx context.Context, user *models.User, commentID int64) error
}

type commentServiceImpl struct {
	commentRepo CommentStore
	courseRepo  CourseGetter
	authz       *auth.AuthorizationService
}

// NewCommentService creates a new comment service instance
func NewCommentService(commentRepo CommentStore, courseRepo CourseGetter, authz *auth.AuthorizationService) CommentService {
	return &commentServiceImpl{
		commentRepo: commentRepo,
		courseRepo:  courseRepo,
		authz:       authz,
	}
}

// CreateComment posts a comment on a course. Only enrolled users and whoever
// manages the course may comment.
func (s *commentServiceImpl) CreateComment(ctx context.Context, user *models.User, courseID int64, req *dto.CreateCommentRequest) (*models.Comment, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if err := s.authz.ValidateViewLessons(ctx, user, course); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	if msg := validation.ValidateComment(content); msg != "" {
		return nil, apperrors.NewValidationError(map[string]string{"content": msg})
	}

	comment := &models.Comment{
		UserID:   user.ID,
		CourseID: courseID,
		Content:  content,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// ListComments returns a course's comments newest first
func (s *commentServiceImpl) ListComments(ctx context.Context, courseID int64) ([]dto.CommentResponse, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	withAuthors, err := s.commentRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	comments := make([]dto.CommentResponse, 0, len(withAuthors))
	for _, c := range withAuthors {
		comments = append(comments, toCommentResponse(c))
	}

	return comments, nil
}

// DeleteComment removes a comment. Allowed for the comment's author and for
// whoever manages the course it sits on.
func (s *commentServiceImpl) DeleteComment(ctx context.Context, user *models.User, commentID int64) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.UserID != user.ID {
		course, err := s.courseRepo.GetByID(ctx, comment.CourseID)
		if err != nil {
			return err
		}
		if err := s.authz.ValidateManageCourse(user, course); err != nil {
			return err
		}
	}

	return s.commentRepo.Delete(ctx, commentID)
}
