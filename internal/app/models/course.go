package models

import (
	"time"

	"github.com/google/uuid"
)

// Course groups ordered lessons under an instructor. The identifier is a
// random token used in URLs instead of the numeric id. IsListed only controls
// whether new enrollments are accepted; existing enrollments stay valid.
type Course struct {
	ID           int64     `db:"id" json:"id"`
	Identifier   uuid.UUID `db:"identifier" json:"identifier"`
	InstructorID int64     `db:"instructor_id" json:"instructorId"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	IsListed     bool      `db:"is_listed" json:"isListed"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
