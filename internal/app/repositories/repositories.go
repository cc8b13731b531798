package repositories

import (
	"github.com/dmorales/aulago/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	CourseRepository     *CourseRepository
	LessonRepository     *LessonRepository
	EnrollmentRepository *EnrollmentRepository
	ProgressRepository   *ProgressRepository
	RatingRepository     *RatingRepository
	CommentRepository    *CommentRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(database.Pool),
		CourseRepository:     NewCourseRepository(database.Pool),
		LessonRepository:     NewLessonRepository(database),
		EnrollmentRepository: NewEnrollmentRepository(database.Pool),
		ProgressRepository:   NewProgressRepository(database.Pool),
		RatingRepository:     NewRatingRepository(database.Pool),
		CommentRepository:    NewCommentRepository(database.Pool),
	}
}
