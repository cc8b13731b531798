package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmorales/aulago/internal/app/models/dto"
	"github.com/dmorales/aulago/internal/app/services"
	"github.com/dmorales/aulago/internal/middleware"
	"github.com/dmorales/aulago/internal/pkg/helpers"
)

// CourseController handles course CRUD, catalogue and dashboard endpoints
type CourseController struct {
	courseService services.CourseService
	authService   services.AuthService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService, authService services.AuthService) *CourseController {
	return &CourseController{
		courseService: courseService,
		authService:   authService,
	}
}

// ListCourses returns the public catalogue
// @Summary List courses
// @Description Lists listed courses, optionally filtered by a search term matching title, description or instructor name
// @Tags courses
// @Produce json
// @Param search query string false "Search term"
// @Param instructor query string false "Instructor name filter"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Course list"
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	filter := &dto.CourseFilterRequest{
		Search:     ctx.Query("search"),
		Instructor: ctx.Query("instructor"),
		Page:       page,
		PageSize:   size,
	}

	courses, total, err := c.courseService.ListCatalogue(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PaginatedResponse{
		Items:      courses,
		Pagination: helpers.NewPaginationInfo(int64(total), page, size),
	}))
}

// CreateCourse creates a course
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course information"
// @Success 201 {object} dto.APIResponse{data=dto.CourseResponse} "Course created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Only instructors can create courses"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	user, err := currentUser(ctx, c.authService)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	course, err := c.courseService.CreateCourse(ctx.Request.Context(), user, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(course))
}

// GetCourse returns the course detail read model
// @Summary Get course details
// @Description Returns the course with its comments; lessons and progress are included for enrolled users and course managers
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.CourseDetailResponse} "Course details"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	user, err := optionalUser(ctx, c.authService)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	detail, err := c.courseService.GetDetail(ctx.Request.Context(), user, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(detail))
}

// GetCourseByIdentifier resolves a course's URL identifier
// @Summary Get course by identifier
// @Description Resolves the random URL identifier to the course detail
// @Tags courses
// @Produce json
// @Param identifier path string true "Course identifier"
// @Success 200 {object} dto.APIResponse{data=dto.CourseDetailResponse} "Course details"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/by-identifier/{identifier} [get]
func (c *CourseController) GetCourseByIdentifier(ctx *gin.Context) {
	course, err := c.courseService.ResolveIdentifier(ctx.Request.Context(), ctx.Param("identifier"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	user, err := optionalUser(ctx, c.authService)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	detail, err := c.courseService.GetDetail(ctx.Request.Context(), user, course.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(detail))
}

// UpdateCourse updates a course
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.UpdateCourseRequest true "Updated course information"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse} "Course updated"
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	user, err := currentUser(ctx, c.authService)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	course, err := c.courseService.UpdateCourse(ctx.Request.Context(), user, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course))
}

// DeleteCourse removes a course
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse "Course deleted"
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	user, err := currentUser(ctx, c.authService)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.courseService.DeleteCourse(ctx.Request.Context(), user, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Course deleted"))
}

// RateCourse stores the caller's rating
// @Summary Rate a course
// @Description Sets the caller's 1-5 star rating; rating again replaces the old value
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.RateCourseRequest true "Rating"
// @Success 200 {object} dto.APIResponse "Rating stored"
// @Failure 403 {object} dto.ErrorResponse "Enrollment required"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/rating [put]
func (c *CourseController) RateCourse(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	user, err := currentUser(ctx, c.authService)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.RateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid rating").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	if err := c.courseService.RateCourse(ctx.Request.Context(), user, id, req.Rating); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Rating stored"))
}

// GetDashboard returns the caller's dashboard
// @Summary Get dashboard
// @Description Returns enrolled courses with progress and, for instructors, the courses they teach
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardResponse} "Dashboard"
// @Router /dashboard [get]
func (c *CourseController) GetDashboard(ctx *gin.Context) {
	user, err := currentUser(ctx, c.authService)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	dashboard, err := c.courseService.GetDashboard(ctx.Request.Context(), user)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dashboard))
}
