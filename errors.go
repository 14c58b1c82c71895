package authclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// OAuth error codes as constants (RFC 6749 Section 5.2, RFC 7662, RFC 8693)
const (
	ErrorCodeInvalidRequest       = "invalid_request"
	ErrorCodeInvalidGrant         = "invalid_grant"
	ErrorCodeInvalidClient        = "invalid_client"
	ErrorCodeInvalidScope         = "invalid_scope"
	ErrorCodeInvalidTarget        = "invalid_target"
	ErrorCodeInvalidToken         = "invalid_token"
	ErrorCodeUnauthorizedClient   = "unauthorized_client"
	ErrorCodeUnsupportedGrantType = "unsupported_grant_type"
	ErrorCodeServerError          = "server_error"
	ErrorCodeAccessDenied         = "access_denied"
)

// ErrMissingResolver is returned by New when a required value resolver is not configured
var ErrMissingResolver = errors.New("missing value resolver")

// HTTPError is returned when the authorization server answers with a status outside 200-299.
// Response holds the decoded JSON body when the server declared application/json,
// otherwise the raw body text.
type HTTPError struct {
	Response any
	Status   int
}

// NewHTTPError creates an HTTPError from an already known response value and status
func NewHTTPError(response any, status int) *HTTPError {
	return &HTTPError{
		Response: response,
		Status:   status,
	}
}

// HTTPErrorFromResponse reads resp.Body and builds an HTTPError from it.
// The body is decoded as JSON when the content type contains application/json,
// and kept as text otherwise. The returned error is non-nil only if the body
// could not be read or decoded. The caller remains responsible for closing resp.Body.
func HTTPErrorFromResponse(resp *http.Response) (*HTTPError, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read error response (status %d): %w", resp.StatusCode, err)
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var body any
		if err := json.Unmarshal(data, &body); err != nil {
			return nil, fmt.Errorf("failed to decode error response (status %d): %w", resp.StatusCode, err)
		}
		return NewHTTPError(body, resp.StatusCode), nil
	}

	return NewHTTPError(string(data), resp.StatusCode), nil
}

// Error implements the error interface.
// A string response is used verbatim, anything else is rendered as JSON.
func (e *HTTPError) Error() string {
	if s, ok := e.Response.(string); ok {
		return s
	}
	data, err := json.Marshal(e.Response)
	if err != nil {
		return fmt.Sprint(e.Response)
	}
	return string(data)
}

// OAuthError extracts the RFC 6749 error and error_description members when the
// response is a JSON object carrying a string "error" member
func (e *HTTPError) OAuthError() (code, description string, ok bool) {
	obj, isObject := e.Response.(map[string]any)
	if !isObject {
		return "", "", false
	}
	code, ok = obj["error"].(string)
	if !ok {
		return "", "", false
	}
	description, _ = obj["error_description"].(string)
	return code, description, true
}

// IsClientError reports whether the status is in the 4xx range
func (e *HTTPError) IsClientError() bool {
	return e.Status >= 400 && e.Status < 500
}

// IsServerError reports whether the status is in the 5xx range
func (e *HTTPError) IsServerError() bool {
	return e.Status >= 500
}

// AsHTTPError returns the HTTPError in err's chain, if any
func AsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}
