package dto

import (
	"reviewhub/internal/models"
)

type UserResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Bio      string `json:"bio"`
}

func FromModelToUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		Bio:      user.Bio,
	}
}

// UpdateMeRequest: self-service profile edit; role is not editable here
type UpdateMeRequest struct {
	Email *string `json:"email" binding:"omitempty,email"`
	Bio   *string `json:"bio"`
}

// AdminCreateUserRequest: admin-side user creation
type AdminCreateUserRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Role     string `json:"role"`
	Bio      string `json:"bio"`
}

// AdminUpdateUserRequest: admin-side partial edit, any field including role
type AdminUpdateUserRequest struct {
	Email *string `json:"email" binding:"omitempty,email"`
	Role  *string `json:"role"`
	Bio   *string `json:"bio"`
}

type PaginatedUserResponse struct {
	Count   int64          `json:"count"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
	Results []UserResponse `json:"results"`
}

func NewPaginatedUserResponse(results []UserResponse, count int64, limit, offset int) *PaginatedUserResponse {
	return &PaginatedUserResponse{Count: count, Limit: limit, Offset: offset, Results: results}
}
