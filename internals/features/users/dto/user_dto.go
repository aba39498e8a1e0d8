package dto

import (
	"time"

	"github.com/google/uuid"

	"eventku_backend/internals/features/users/model"
)

/* =========================================================
   Requests
========================================================= */

type RegisterRequest struct {
	UserName     string  `json:"user_name" validate:"required,min=3,max=100"`
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=8"`
	ProfileImage *string `json:"profile_image,omitempty" validate:"omitempty,url"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type UpdateUserRequest struct {
	UserName     *string `json:"user_name,omitempty" validate:"omitempty,min=3,max=100"`
	ProfileImage *string `json:"profile_image,omitempty" validate:"omitempty,url"`
	// Role & status hanya boleh dipatch oleh admin (dicek di controller).
	Role   *string `json:"role,omitempty" validate:"omitempty,oneof=USER ADMIN"`
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE BLOCKED"`
}

/* =========================================================
   Responses
========================================================= */

type UserResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	UserName     string    `json:"user_name"`
	Email        string    `json:"email"`
	ProfileImage *string   `json:"profile_image,omitempty"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

func ToUserResponse(m *model.UserModel) UserResponse {
	return UserResponse{
		UserID:       m.UserID,
		UserName:     m.UserName,
		Email:        m.UserEmail,
		ProfileImage: m.UserProfileImage,
		Role:         m.UserRole,
		Status:       m.UserStatus,
		CreatedAt:    m.UserCreatedAt,
	}
}

func ToUserResponseList(models []model.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(models))
	for i := range models {
		out = append(out, ToUserResponse(&models[i]))
	}
	return out
}
