package dto

import "time"

// CreateCommentRequest is the payload for posting a course comment
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CommentResponse is the public view of a comment
type CommentResponse struct {
	ID         int64     `json:"id"`
	CourseID   int64     `json:"courseId"`
	UserID     int64     `json:"userId"`
	AuthorName string    `json:"authorName,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}
