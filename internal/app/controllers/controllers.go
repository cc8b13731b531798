package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dmorales/aulago/internal/app/models"
	"github.com/dmorales/aulago/internal/app/models/dto"
	"github.com/dmorales/aulago/internal/app/services"
	"github.com/dmorales/aulago/internal/middleware"
	"github.com/dmorales/aulago/internal/pkg/apperrors"
)

// currentUser loads the authenticated user's full account record. Returns
// ErrTokenInvalid when the request carries no resolved identity.
func currentUser(ctx *gin.Context, authService services.AuthService) (*models.User, error) {
	id, ok := middleware.GetUserID(ctx)
	if !ok {
		return nil, apperrors.ErrTokenInvalid
	}
	return authService.GetProfile(ctx.Request.Context(), id)
}

// optionalUser is like currentUser but anonymous viewers come back as nil
func optionalUser(ctx *gin.Context, authService services.AuthService) (*models.User, error) {
	id, ok := middleware.GetUserID(ctx)
	if !ok {
		return nil, nil
	}
	return authService.GetProfile(ctx.Request.Context(), id)
}

// pathID parses a numeric path parameter, writing a 400 itself on failure
func pathID(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name).
			WithDetails(name + " must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return 0, false
	}
	return id, true
}

func toUserResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      string(user.Role),
	}
}
