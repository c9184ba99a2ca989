package auth

import "github.com/Gkemhcs/socialbridge-backend/internal/auth/provider"

// EmailRequest is the body of the signup and signin endpoints.
type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// MessageResponse is returned by endpoints that only acknowledge.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse wraps the identity service's user.
type UserResponse struct {
	User *provider.User `json:"user"`
}
