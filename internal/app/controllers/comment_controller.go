package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmorales/aulago/internal/app/models/dto"
	"github.com/dmorales/aulago/internal/app/services"
	"github.com/dmorales/aulago/internal/middleware"
)

// CommentController handles course comment endpoints
type CommentController struct {
	commentService services.CommentService
	authService    services.AuthService
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService services.CommentService, authService services.AuthService) *CommentController {
	return &CommentController{
		commentService: commentService,
		authService:    authService,
	}
}

// ListComments returns a course's comments
// @Summary List course comments
// @Tags comments
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.CommentResponse} "Comments, newest first"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/comments [get]
func (c *CommentController) ListComments(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	comments, err := c.commentService.ListComments(ctx.Request.Context(), courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(comments))
}

// CreateComment posts a comment on a course
// @Summary Post a comment
// @Description Open to enrolled users and the course's managers
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.CreateCommentRequest true "Comment body"
// @Success 201 {object} dto.APIResponse{data=dto.CommentResponse} "Comment created"
// @Failure 400 {object} dto.ErrorResponse "Comment out of bounds"
// @Failure 403 {object} dto.ErrorResponse "Enrollment required"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/comments [post]
func (c *CommentController) CreateComment(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	user, err := currentUser(ctx, c.authService)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.CreateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid comment data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	comment, err := c.commentService.CreateComment(ctx.Request.Context(), user, courseID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(comment))
}

// DeleteComment removes a comment
// @Summary Delete a comment
// @Description Allowed for the comment's author and the course's manager
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} dto.APIResponse "Comment deleted"
// @Failure 403 {object} dto.ErrorResponse "Not allowed"
// @Failure 404 {object} dto.ErrorResponse "Comment not found"
// @Router /comments/{id} [delete]
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	commentID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	user, err := currentUser(ctx, c.authService)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.commentService.DeleteComment(ctx.Request.Context(), user, commentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Comment deleted"))
}
