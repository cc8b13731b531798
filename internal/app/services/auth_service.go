package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmorales/aulago/internal/app/models"
	"github.com/dmorales/aulago/internal/app/models/dto"
	"github.com/dmorales/aulago/internal/pkg/apperrors"
	pkgauth "github.com/dmorales/aulago/internal/pkg/auth"
	"github.com/dmorales/aulago/internal/pkg/logger"
)

// UserStore is the slice of the user repository the auth service needs
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, userID int64, firstName, lastName, email string) error
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*models.User, *dto.TokenResponse, error)
	GetProfile(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*models.User, error)
}

type authServiceImpl struct {
	userRepo   UserStore
	jwtService *pkgauth.JWTService
}

// NewAuthService creates a new auth service instance
func NewAuthService(userRepo UserStore, jwtService *pkgauth.JWTService) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Register creates a new account. Self-registration only hands out the
// student and instructor roles; admins are seeded, never registered.
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	role := models.RoleStudent
	switch strings.ToUpper(req.Role) {
	case "", string(models.RoleStudent):
	case string(models.RoleInstructor):
		role = models.RoleInstructor
	default:
		return nil, apperrors.NewValidationError(map[string]string{
			"role": "role must be STUDENT or INSTRUCTOR",
		})
	}

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashed, err := pkgauth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:     email,
		Password:  hashed,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Role:      role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User registered")
	return user, nil
}

// Login verifies credentials and issues a token pair
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*models.User, *dto.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// Same error as a wrong password so the response does not leak
			// which emails are registered
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("error looking up user: %w", err)
	}

	if err := pkgauth.CheckPassword(user.Password, req.Password); err != nil {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	accessToken, refreshToken, expiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, nil, fmt.Errorf("error generating tokens: %w", err)
	}

	return user, &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

// GetProfile returns the user's account data
func (s *authServiceImpl) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile updates the user's own name and email
func (s *authServiceImpl) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	err := s.userRepo.UpdateProfile(ctx, userID, strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName), email)
	if err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(ctx, userID)
}
