package domain

import "github.com/google/uuid"

type UserRole string

const (
	UserRoleProvider UserRole = "PROVIDER"
	UserRolePatient  UserRole = "PATIENT"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ProviderLoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	TokenType   string    `json:"token_type"`
	Provider    *Provider `json:"provider"`
}

type PatientLoginResponse struct {
	AccessToken string   `json:"access_token"`
	ExpiresIn   int64    `json:"expires_in"`
	TokenType   string   `json:"token_type"`
	Patient     *Patient `json:"patient"`
}

type TokenClaims struct {
	UserID uuid.UUID
	Email  string
	Role   UserRole
}
