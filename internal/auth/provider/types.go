package provider

import (
	"fmt"
	"time"
)

// User is the identity service's view of an account.
type User struct {
	ID           string                 `json:"id"`
	Aud          string                 `json:"aud,omitempty"`
	Role         string                 `json:"role,omitempty"`
	Email        string                 `json:"email"`
	Phone        string                 `json:"phone,omitempty"`
	ConfirmedAt  *time.Time             `json:"confirmed_at,omitempty"`
	LastSignInAt *time.Time             `json:"last_sign_in_at,omitempty"`
	AppMetadata  map[string]interface{} `json:"app_metadata,omitempty"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// Error is a non-2xx answer from the identity service.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("identity service returned %d: %s", e.StatusCode, e.Message)
}

// otpRequest is the body of POST /auth/v1/otp.
type otpRequest struct {
	Email      string `json:"email"`
	CreateUser bool   `json:"create_user"`
}

// errorBody covers the error shapes GoTrue has used across versions.
type errorBody struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (b errorBody) text() string {
	switch {
	case b.Msg != "":
		return b.Msg
	case b.Message != "":
		return b.Message
	case b.ErrorDescription != "":
		return b.ErrorDescription
	default:
		return b.Error
	}
}
