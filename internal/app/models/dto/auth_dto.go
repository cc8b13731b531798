package dto

// RegisterRequest is the payload for account creation
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email" example:"maria@example.com"`
	Password  string `json:"password" binding:"required,min=8" example:"s3cretpass"`
	FirstName string `json:"firstName" binding:"required" example:"Maria"`
	LastName  string `json:"lastName" binding:"required" example:"Lopez"`
	Role      string `json:"role,omitempty" example:"STUDENT" enums:"STUDENT,INSTRUCTOR"`
}

// LoginRequest is the payload for authentication
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries the issued token pair
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn" example:"3600"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID        int64  `json:"id" example:"1"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role" enums:"STUDENT,INSTRUCTOR,ADMIN"`
}

// UpdateProfileRequest updates the caller's own profile
type UpdateProfileRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
}
