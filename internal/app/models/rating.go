package models

import "time"

// CourseRating is a 1-5 star rating, one per (user, course)
type CourseRating struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"userId"`
	CourseID  int64     `db:"course_id" json:"courseId"`
	Rating    int       `db:"rating" json:"rating"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
