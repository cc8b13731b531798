package models

import "time"

// Enrollment is a durable access grant from a user to a course. It survives
// the course being unlisted.
type Enrollment struct {
	ID         int64     `db:"id" json:"id"`
	UserID     int64     `db:"user_id" json:"userId"`
	CourseID   int64     `db:"course_id" json:"courseId"`
	EnrolledAt time.Time `db:"enrolled_at" json:"enrolledAt"`
}
