package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmorales/aulago/internal/app/models"
	"github.com/dmorales/aulago/internal/app/models/dto"
	"github.com/dmorales/aulago/internal/app/services"
	"github.com/dmorales/aulago/internal/middleware"
)

// LessonController handles lesson CRUD and reordering endpoints
type LessonController struct {
	lessonService services.LessonService
	authService   services.AuthService
}

// NewLessonController creates a new LessonController
func NewLessonController(lessonService services.LessonService, authService services.AuthService) *LessonController {
	return &LessonController{
		lessonService: lessonService,
		authService:   authService,
	}
}

// bindLessonInput reads the multipart form fields of a lesson create/update.
// The attachment is optional; ctx.FormFile returns an error when the field is
// absent, which is fine.
func bindLessonInput(ctx *gin.Context) *services.LessonInput {
	input := &services.LessonInput{
		Title:       ctx.PostForm("title"),
		ContentType: models.ContentType(ctx.PostForm("content_type")),
		TextContent: ctx.PostForm("text_content"),
		VideoURL:    ctx.PostForm("video_url"),
	}

	if file, err := ctx.FormFile("attachment"); err == nil {
		input.Attachment = file
	}

	return input
}

// CreateLesson appends a lesson to a course
// @Summary Create a lesson
// @Description Appends a lesson to the end of the course. Accepts multipart form data with an optional attachment.
// @Tags lessons
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param title formData string true "Lesson title"
// @Param content_type formData string true "Content type" Enums(video, text, image, file)
// @Param text_content formData string false "Text content"
// @Param video_url formData string false "Video URL"
// @Param attachment formData file false "Attachment"
// @Success 201 {object} dto.APIResponse{data=dto.LessonResponse} "Lesson created"
// @Failure 400 {object} dto.ErrorResponse "Invalid lesson data"
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/lessons [post]
func (c *LessonController) CreateLesson(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	user, err := currentUser(ctx, c.authService)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	lesson, err := c.lessonService.CreateLesson(ctx.Request.Context(), user, courseID, bindLessonInput(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(lesson))
}

// GetLesson returns a lesson with progress and neighbours
// @Summary Get lesson details
// @Description Returns the lesson, the caller's progress on it and the previous/next lessons in course order
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} dto.APIResponse{data=dto.LessonDetailResponse} "Lesson details"
// @Failure 403 {object} dto.ErrorResponse "Enrollment required"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Router /lessons/{id} [get]
func (c *LessonController) GetLesson(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	user, err := currentUser(ctx, c.authService)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	detail, err := c.lessonService.GetDetail(ctx.Request.Context(), user, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(detail))
}

// UpdateLesson edits a lesson
// @Summary Update a lesson
// @Description Updates lesson content. A newly uploaded attachment replaces the stored one.
// @Tags lessons
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Param title formData string true "Lesson title"
// @Param content_type formData string true "Content type" Enums(video, text, image, file)
// @Param text_content formData string false "Text content"
// @Param video_url formData string false "Video URL"
// @Param attachment formData file false "Replacement attachment"
// @Success 200 {object} dto.APIResponse{data=dto.LessonResponse} "Lesson updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid lesson data"
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Router /lessons/{id} [put]
func (c *LessonController) UpdateLesson(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	user, err := currentUser(ctx, c.authService)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	lesson, err := c.lessonService.UpdateLesson(ctx.Request.Context(), user, id, bindLessonInput(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(lesson))
}

// DeleteLesson removes a lesson
// @Summary Delete a lesson
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} dto.APIResponse "Lesson deleted"
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Router /lessons/{id} [delete]
func (c *LessonController) DeleteLesson(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	user, err := currentUser(ctx, c.authService)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.lessonService.DeleteLesson(ctx.Request.Context(), user, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Lesson deleted"))
}

// ReorderLessons applies a bulk ordering change
// @Summary Reorder lessons
// @Description Applies new positions to the course's lessons in a single transaction; the request fails as a whole if any lesson is outside the course
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.ReorderRequest true "New lesson order"
// @Success 200 {object} dto.APIResponse "Lessons reordered"
// @Failure 400 {object} dto.ErrorResponse "Invalid reorder request"
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/lessons/reorder [post]
func (c *LessonController) ReorderLessons(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	user, err := currentUser(ctx, c.authService)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.ReorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid reorder data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	if err := c.lessonService.Reorder(ctx.Request.Context(), user, courseID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Lessons reordered"))
}
