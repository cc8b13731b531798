package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmorales/aulago/internal/app/models"
	"github.com/dmorales/aulago/internal/app/models/dto"
	"github.com/dmorales/aulago/internal/pkg/apperrors"
	pkgauth "github.com/dmorales/aulago/internal/pkg/auth"
)

func newAuthFixture(users ...*models.User) (AuthService, *fakeUserStore) {
	store := newFakeUserStore(users...)
	jwtService := pkgauth.NewJWTService(pkgauth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "test",
	})
	return NewAuthService(store, jwtService), store
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to student", func(t *testing.T) {
		service, _ := newAuthFixture()
		user, err := service.Register(ctx, &dto.RegisterRequest{
			Email: "Maria@Example.com", Password: "s3cretpass", FirstName: "Maria", LastName: "Lopez",
		})
		require.NoError(t, err)
		assert.Equal(t, models.RoleStudent, user.Role)
		assert.Equal(t, "maria@example.com", user.Email, "emails are stored lowercased")
		assert.NotEqual(t, "s3cretpass", user.Password, "passwords are stored hashed")
	})

	t.Run("instructor role accepted", func(t *testing.T) {
		service, _ := newAuthFixture()
		user, err := service.Register(ctx, &dto.RegisterRequest{
			Email: "t@example.com", Password: "s3cretpass", FirstName: "T", LastName: "L", Role: "instructor",
		})
		require.NoError(t, err)
		assert.Equal(t, models.RoleInstructor, user.Role)
	})

	t.Run("admin role rejected", func(t *testing.T) {
		service, _ := newAuthFixture()
		_, err := service.Register(ctx, &dto.RegisterRequest{
			Email: "evil@example.com", Password: "s3cretpass", FirstName: "E", LastName: "V", Role: "ADMIN",
		})
		var vErr *apperrors.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Fields, "role")
	})

	t.Run("duplicate email", func(t *testing.T) {
		service, _ := newAuthFixture(&models.User{ID: 1, Email: "taken@example.com"})
		_, err := service.Register(ctx, &dto.RegisterRequest{
			Email: "Taken@example.com", Password: "s3cretpass", FirstName: "A", LastName: "B",
		})
		assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	hashed, err := pkgauth.HashPassword("s3cretpass")
	require.NoError(t, err)

	existing := &models.User{ID: 1, Email: "maria@example.com", Password: hashed, Role: models.RoleStudent}

	t.Run("valid credentials", func(t *testing.T) {
		service, _ := newAuthFixture(existing)
		user, tokens, err := service.Login(ctx, &dto.LoginRequest{Email: "Maria@Example.com", Password: "s3cretpass"})
		require.NoError(t, err)
		assert.Equal(t, existing.ID, user.ID)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
		assert.Equal(t, 3600, tokens.ExpiresIn)
	})

	t.Run("wrong password", func(t *testing.T) {
		service, _ := newAuthFixture(existing)
		_, _, err := service.Login(ctx, &dto.LoginRequest{Email: "maria@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown email reports the same error", func(t *testing.T) {
		service, _ := newAuthFixture(existing)
		_, _, err := service.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "s3cretpass"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestUpdateProfile(t *testing.T) {
	existing := &models.User{ID: 1, Email: "maria@example.com", FirstName: "Maria", LastName: "Lopez"}
	service, store := newAuthFixture(existing)

	user, err := service.UpdateProfile(context.Background(), existing.ID, &dto.UpdateProfileRequest{
		FirstName: "Maria", LastName: "Gonzalez", Email: "Maria.G@Example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Gonzalez", user.LastName)
	assert.Equal(t, "maria.g@example.com", user.Email)

	stored, err := store.GetByID(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gonzalez", stored.LastName)
}
