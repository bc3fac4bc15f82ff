package dto

import "github.com/audioryx/backend/internal/models"

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type EmployeeLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register, login, and employee-login alike.
type AuthResponse struct {
	User  models.Identity `json:"user"`
	Token string          `json:"token"`
}
