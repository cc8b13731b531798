package models

import "time"

// LessonProgress tracks one user's state on one lesson. Completion is
// monotonic: completing an already completed lesson keeps the original
// CompletedAt. Only an explicit uncomplete clears it.
// LastPositionSeconds is meaningful for video lessons only.
type LessonProgress struct {
	ID                  int64      `db:"id" json:"id"`
	UserID              int64      `db:"user_id" json:"userId"`
	LessonID            int64      `db:"lesson_id" json:"lessonId"`
	Completed           bool       `db:"completed" json:"completed"`
	CompletedAt         *time.Time `db:"completed_at" json:"completedAt,omitempty"`
	LastPositionSeconds int        `db:"last_position_seconds" json:"lastPositionSeconds"`
}
