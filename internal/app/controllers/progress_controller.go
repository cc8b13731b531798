package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmorales/aulago/internal/app/models/dto"
	"github.com/dmorales/aulago/internal/app/services"
	"github.com/dmorales/aulago/internal/middleware"
)

// ProgressController handles lesson progress endpoints
type ProgressController struct {
	progressService services.ProgressService
	authService     services.AuthService
}

// NewProgressController creates a new ProgressController
func NewProgressController(progressService services.ProgressService, authService services.AuthService) *ProgressController {
	return &ProgressController{
		progressService: progressService,
		authService:     authService,
	}
}

// UpdateProgress applies a progress action to a lesson
// @Summary Update lesson progress
// @Description Applies one of the progress actions: complete, uncomplete or update_position. Completing twice keeps the original timestamp; unusable position values are ignored.
// @Tags progress
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Param action formData string true "Action" Enums(complete, uncomplete, update_position)
// @Param position formData string false "Playback position in seconds"
// @Success 200 {object} dto.APIResponse{data=models.LessonProgress} "Updated progress"
// @Failure 400 {object} dto.ErrorResponse "Unknown action"
// @Failure 403 {object} dto.ErrorResponse "Enrollment required"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Router /lessons/{id}/progress [post]
func (c *ProgressController) UpdateProgress(ctx *gin.Context) {
	lessonID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	user, err := currentUser(ctx, c.authService)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.ProgressUpdateRequest
	if err := ctx.ShouldBind(&req); err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid progress data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	progress, err := c.progressService.Update(ctx.Request.Context(), user, lessonID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(progress))
}
