package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/dmorales/aulago/internal/app/controllers"
	"github.com/dmorales/aulago/internal/app/models"
	"github.com/dmorales/aulago/internal/app/models/dto"
	"github.com/dmorales/aulago/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	courseController *controllers.CourseController,
	lessonController *controllers.LessonController,
	progressController *controllers.ProgressController,
	enrollmentController *controllers.EnrollmentController,
	commentController *controllers.CommentController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// --- Public catalogue routes ---
	// Course detail resolves the viewer when a token is present so enrolled
	// users get their lesson list and progress in the same response.
	courses := v1.Group("/courses")
	courses.Use(authMiddleware.OptionalJWTAuth())
	{
		courses.GET("", courseController.ListCourses)
		courses.GET("/:id", courseController.GetCourse)
		courses.GET("/by-identifier/:identifier", courseController.GetCourseByIdentifier)
		courses.GET("/:id/comments", commentController.ListComments)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", authController.GetProfile)
		authenticated.PUT("/auth/me", authController.UpdateProfile)

		authenticated.GET("/dashboard", courseController.GetDashboard)

		coursesProtected := authenticated.Group("/courses")
		{
			coursesProtected.POST("/:id/enroll", enrollmentController.Enroll)
			coursesProtected.DELETE("/:id/enroll", enrollmentController.Unenroll)
			coursesProtected.PUT("/:id/rating", courseController.RateCourse)
			coursesProtected.POST("/:id/comments", commentController.CreateComment)

			// Course and lesson management; ownership is checked per course
			// in the services, the role gate just keeps students out
			coursesInstructorProtected := coursesProtected.Group("")
			coursesInstructorProtected.Use(authMiddleware.RoleRequired(models.RoleInstructor, models.RoleAdmin))
			{
				coursesInstructorProtected.POST("", courseController.CreateCourse)
				coursesInstructorProtected.PUT("/:id", courseController.UpdateCourse)
				coursesInstructorProtected.DELETE("/:id", courseController.DeleteCourse)
				coursesInstructorProtected.POST("/:id/lessons", lessonController.CreateLesson)
				coursesInstructorProtected.POST("/:id/lessons/reorder", lessonController.ReorderLessons)
			}
		}

		lessons := authenticated.Group("/lessons")
		{
			lessons.GET("/:id", lessonController.GetLesson)
			lessons.POST("/:id/progress", progressController.UpdateProgress)

			lessonsInstructorProtected := lessons.Group("")
			lessonsInstructorProtected.Use(authMiddleware.RoleRequired(models.RoleInstructor, models.RoleAdmin))
			{
				lessonsInstructorProtected.PUT("/:id", lessonController.UpdateLesson)
				lessonsInstructorProtected.DELETE("/:id", lessonController.DeleteLesson)
			}
		}

		authenticated.DELETE("/comments/:id", commentController.DeleteComment)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.NewSuccessResponse(gin.H{"status": "ok"}))
	})
}
