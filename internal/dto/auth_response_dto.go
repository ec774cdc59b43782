package dto

import "time"

// LoginRequest carries the credentials for a local login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterAdminRequest creates the very first administrator.
type RegisterAdminRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// SetupStatusResponse reports whether the first administrator still has to be registered.
type SetupStatusResponse struct {
	HasUsers bool `json:"hasUsers"`
}
