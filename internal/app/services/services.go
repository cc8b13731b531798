// Package services holds the business logic between HTTP controllers and the
// repositories.
//
// Services defined in this package:
//   - AuthService: registration, login and profile management
//   - CourseService: course CRUD, catalogue, detail and dashboard read models
//   - LessonService: lesson CRUD, attachment handling and reordering
//   - ProgressService: per-lesson completion and playback position tracking
//   - EnrollmentService: enrolling into and leaving courses
//   - CommentService: course comments and ratings
package services
