package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lib/pq"
)

// APIError represents a structured error for API responses.
// Includes a code, message, and HTTP status for consistent error handling.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError with the given code, message, and status.
func NewAPIError(code, message string, status int) *APIError {
	return &APIError{Code: code, Message: message, Status: status}
}

// Predefined API errors for common scenarios.
var (
	ErrInvalidBody            = NewAPIError("invalid_body_format", "unable to parse the request body", http.StatusUnprocessableEntity)
	ErrUnauthenticated        = NewAPIError("unauthenticated", "missing or invalid credential", http.StatusUnauthorized)
	ErrInvalidFlowState       = NewAPIError("invalid_flow_state", "invalid state", http.StatusBadRequest)
	ErrMissingParameters      = NewAPIError("missing_parameters", "missing required parameters", http.StatusBadRequest)
	ErrProviderExchangeFailed = NewAPIError("provider_exchange_failed", "token exchange with provider failed", http.StatusInternalServerError)
	ErrTokenNotFound          = NewAPIError("token_not_found", "no stored token for this provider", http.StatusNotFound)
	ErrRefreshFailed          = NewAPIError("refresh_failed", "refreshing the provider token failed", http.StatusBadGateway)
	ErrNoRefreshToken         = NewAPIError("no_refresh_token", "no refresh token stored for this provider", http.StatusConflict)
	ErrProviderCallFailed     = NewAPIError("provider_call_failed", "provider API call failed", http.StatusInternalServerError)
	ErrUnsupportedOperation   = NewAPIError("unsupported_operation", "operation not supported by this provider", http.StatusBadRequest)
	ErrUnknownProvider        = NewAPIError("unknown_provider", "provider is not configured", http.StatusNotFound)
	ErrIdentityServiceFailed  = NewAPIError("identity_service_failed", "identity service request failed", http.StatusInternalServerError)
	ErrIdentityTokenRequired  = NewAPIError("access_token_required", "Access token is required", http.StatusBadRequest)
	ErrIdentityUserNotFound   = NewAPIError("user_not_found", "User not found", http.StatusNotFound)
	ErrTokenEncryptionFailed  = NewAPIError("token_encryption_failed", "failed to seal provider token", http.StatusInternalServerError)
	ErrTokenStoreFailed       = NewAPIError("token_store_failed", "failed to persist provider token", http.StatusInternalServerError)
	ErrPendingStoreFailed     = NewAPIError("pending_store_failed", "failed to record pending authorization", http.StatusInternalServerError)
	ErrInternalServer         = NewAPIError("internal_server_error", "internal server error", http.StatusInternalServerError)
)

// ProviderError ties one of the sentinels above to the provider involved and a
// diagnostic detail taken from the provider's response. errors.Is matches the sentinel.
type ProviderError struct {
	Kind     *APIError
	Provider string
	Detail   string
	cause    error
}

// Error implements the error interface for ProviderError.
func (e *ProviderError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Message)
	if e.Provider != "" {
		b.WriteString(" (")
		b.WriteString(e.Provider)
		b.WriteString(")")
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

// Unwrap exposes the sentinel so errors.Is(err, ErrRefreshFailed) works.
func (e *ProviderError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.cause}
}

// NewProviderError wraps kind with provider context. cause may be nil.
func NewProviderError(kind *APIError, provider, detail string, cause error) *ProviderError {
	return &ProviderError{Kind: kind, Provider: provider, Detail: truncate(detail, 512), cause: cause}
}

// Wrapf is shorthand for a ProviderError with a formatted detail.
func Wrapf(kind *APIError, provider string, cause error, format string, args ...any) error {
	return NewProviderError(kind, provider, fmt.Sprintf(format, args...), cause)
}

// From maps any error onto the APIError that should be rendered for it.
// The returned value carries the diagnostic detail in its message when there is one.
func From(err error) *APIError {
	if err == nil {
		return nil
	}
	var perr *ProviderError
	if stderrors.As(err, &perr) {
		msg := perr.Kind.Message
		if perr.Detail != "" {
			msg += ": " + perr.Detail
		}
		return &APIError{Code: perr.Kind.Code, Message: msg, Status: perr.Kind.Status}
	}
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}
	return ErrInternalServer
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// IsUniqueViolation checks for unique constraint violation (Postgres).
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		return pqErr.Code == "23505" // unique_violation
	}

	return strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "unique constraint")
}
