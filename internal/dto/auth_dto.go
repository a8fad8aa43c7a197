package dto

import "github.com/google/uuid"

type RegisterRequest struct {
	Username string `json:"username" form:"username" validate:"required,min=3"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type RegisterResponse struct {
	Id       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// LoginResult carries everything either route family needs: the web
// controller opens a server-side session for User, the API controller
// hands AccessToken to the client.
type LoginResult struct {
	User        *UserDTO
	AccessToken string
}

type UserDTO struct {
	Id       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string
	NewPassword string `json:"password" form:"password" validate:"required"`
}
