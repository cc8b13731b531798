package models

import "time"

// Comment is an append-only course comment, listed newest-first
type Comment struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"userId"`
	CourseID  int64     `db:"course_id" json:"courseId"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
