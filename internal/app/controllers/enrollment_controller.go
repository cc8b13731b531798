package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmorales/aulago/internal/app/models/dto"
	"github.com/dmorales/aulago/internal/app/services"
	"github.com/dmorales/aulago/internal/middleware"
)

// EnrollmentController handles enroll/unenroll endpoints
type EnrollmentController struct {
	enrollmentService services.EnrollmentService
	authService       services.AuthService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService services.EnrollmentService, authService services.AuthService) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
		authService:       authService,
	}
}

// Enroll enrolls the caller into a course
// @Summary Enroll in a course
// @Description Enrolls the caller. Enrolling twice is a no-op; unlisted courses reject new enrollments.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse "Enrolled"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Course not accepting enrollments"
// @Router /courses/{id}/enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	user, err := currentUser(ctx, c.authService)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.enrollmentService.Enroll(ctx.Request.Context(), user, courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Enrolled"))
}

// Unenroll removes the caller's enrollment
// @Summary Leave a course
// @Description Removes the caller's enrollment. Progress is kept for a later re-enrollment.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse "Unenrolled"
// @Failure 403 {object} dto.ErrorResponse "Not enrolled"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/enroll [delete]
func (c *EnrollmentController) Unenroll(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	user, err := currentUser(ctx, c.authService)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.enrollmentService.Unenroll(ctx.Request.Context(), user, courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Unenrolled"))
}
