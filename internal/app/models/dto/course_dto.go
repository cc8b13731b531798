package dto

import (
	"time"

	"github.com/dmorales/aulago/internal/app/models"
)

// CreateCourseRequest is the payload for course creation
type CreateCourseRequest struct {
	Title       string `json:"title" binding:"required" example:"Intro to Go"`
	Description string `json:"description" binding:"required"`
	IsListed    *bool  `json:"isListed,omitempty"`
}

// UpdateCourseRequest is the payload for course updates
type UpdateCourseRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	IsListed    *bool  `json:"isListed,omitempty"`
}

// CourseResponse is the public view of a course
type CourseResponse struct {
	ID              int64     `json:"id"`
	Identifier      string    `json:"identifier"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	IsListed        bool      `json:"isListed"`
	InstructorID    int64     `json:"instructorId"`
	InstructorName  string    `json:"instructorName,omitempty"`
	LessonCount     int       `json:"lessonCount"`
	EnrollmentCount int       `json:"enrollmentCount"`
	AverageRating   *float64  `json:"averageRating,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CourseFilterRequest holds catalogue filtering and pagination parameters
type CourseFilterRequest struct {
	Search     string
	Instructor string
	Page       int
	PageSize   int
}

// LessonWithProgress pairs a lesson with the caller's progress on it, which
// is nil when the lesson was never opened.
type LessonWithProgress struct {
	Lesson   LessonResponse         `json:"lesson"`
	Progress *models.LessonProgress `json:"progress,omitempty"`
}

// CourseDetailResponse is the course detail read model
type CourseDetailResponse struct {
	Course          CourseResponse       `json:"course"`
	Lessons         []LessonWithProgress `json:"lessons"`
	Comments        []CommentResponse    `json:"comments"`
	IsEnrolled      bool                 `json:"isEnrolled"`
	IsInstructor    bool                 `json:"isInstructor"`
	CanManage       bool                 `json:"canManage"`
	ProgressPercent float64              `json:"progressPercent"`
}

// DashboardCourse summarizes an enrolled course's progress
type DashboardCourse struct {
	Course           CourseResponse `json:"course"`
	CompletedLessons int            `json:"completedLessons"`
	TotalLessons     int            `json:"totalLessons"`
	ProgressPercent  float64        `json:"progressPercent"`
}

// DashboardResponse is the learner dashboard read model
type DashboardResponse struct {
	EnrolledCourses       []DashboardCourse `json:"enrolledCourses"`
	TeachingCourses       []CourseResponse  `json:"teachingCourses"`
	TotalCompletedLessons int               `json:"totalCompletedLessons"`
	TotalLessonsAvailable int               `json:"totalLessonsAvailable"`
}

// RateCourseRequest sets the caller's 1-5 star rating
type RateCourseRequest struct {
	Rating int `json:"rating" binding:"required,min=1,max=5"`
}
