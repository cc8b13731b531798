package services

import (
	"github.com/dmorales/aulago/internal/app/models"
	"github.com/dmorales/aulago/internal/app/models/dto"
	"github.com/dmorales/aulago/internal/app/repositories"
)

func toCourseResponse(s *repositories.CourseSummary) dto.CourseResponse {
	return dto.CourseResponse{
		ID:              s.Course.ID,
		Identifier:      s.Course.Identifier.String(),
		Title:           s.Course.Title,
		Description:     s.Course.Description,
		IsListed:        s.Course.IsListed,
		InstructorID:    s.Course.InstructorID,
		InstructorName:  s.InstructorName,
		LessonCount:     s.LessonCount,
		EnrollmentCount: s.EnrollmentCount,
		AverageRating:   s.AverageRating,
		CreatedAt:       s.Course.CreatedAt,
	}
}

func toLessonResponse(l *models.Lesson) dto.LessonResponse {
	return dto.LessonResponse{
		ID:            l.ID,
		CourseID:      l.CourseID,
		Title:         l.Title,
		ContentType:   l.ContentType,
		TextContent:   l.TextContent,
		VideoURL:      l.VideoURL,
		VideoEmbedURL: l.VideoEmbedURL(),
		Attachment:    l.Attachment,
		Order:         l.Position,
		CreatedAt:     l.CreatedAt,
	}
}

func toCommentResponse(c *repositories.CommentWithAuthor) dto.CommentResponse {
	return dto.CommentResponse{
		ID:         c.Comment.ID,
		CourseID:   c.Comment.CourseID,
		UserID:     c.Comment.UserID,
		AuthorName: c.AuthorName,
		Content:    c.Comment.Content,
		CreatedAt:  c.Comment.CreatedAt,
	}
}
