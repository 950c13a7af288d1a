package woavsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is an error reply: a status code and a short message safe to show
// to clients.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("woav: %d %s", e.StatusCode, e.Message)
}

// Is matches on status and message so a decoded reply compares equal to the
// value the server wrote.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.StatusCode == e.StatusCode && t.Message == e.Message
}

// WriteError writes e as {"error": message}.
func (e *APIError) WriteError(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: e.Message})
}

// NewAPIError builds an APIError.
func NewAPIError(status int, msg string) *APIError {
	return &APIError{StatusCode: status, Message: msg}
}

var (
	// Session endpoints.
	ErrIDTokenRequired       = NewAPIError(http.StatusBadRequest, "ID token is required")
	ErrProviderNotConfigured = NewAPIError(http.StatusInternalServerError, "identity provider is not configured")
	ErrInvalidIDToken        = NewAPIError(http.StatusInternalServerError, "invalid ID token")
	ErrRecentSignInRequired  = NewAPIError(http.StatusInternalServerError, "recent sign-in required")
	ErrSessionCreation       = NewAPIError(http.StatusInternalServerError, "failed to create session")
	ErrLogoutFailed          = NewAPIError(http.StatusInternalServerError, "failed to log out")
	ErrRevokeFailed          = NewAPIError(http.StatusInternalServerError, "failed to revoke sessions")
	ErrNotAuthenticated      = NewAPIError(http.StatusUnauthorized, "not authenticated")

	// Account endpoints.
	ErrInvalidRequest     = NewAPIError(http.StatusBadRequest, "invalid request")
	ErrEmailExists        = NewAPIError(http.StatusConflict, "email already in use")
	ErrInvalidCredentials = NewAPIError(http.StatusBadRequest, "invalid email or password")
	ErrUserDisabled       = NewAPIError(http.StatusForbidden, "user account is disabled")
	ErrInternal           = NewAPIError(http.StatusInternalServerError, "internal error")
)

func parseError(status int, body []byte) error {
	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error != "" {
		return &APIError{StatusCode: status, Message: er.Error}
	}
	return &APIError{StatusCode: status, Message: http.StatusText(status)}
}
