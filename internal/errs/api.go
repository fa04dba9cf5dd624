package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the remote API.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string // server-provided detail, display only
	Body    []byte
}

// NewAPIError builds an APIError and extracts a human message from a JSON body when present.
func NewAPIError(method, path string, status int, body []byte) *APIError {
	return &APIError{
		Method:  method,
		Path:    path,
		Status:  status,
		Message: messageFromBody(body),
		Body:    body,
	}
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, msg)
}

// Is maps the HTTP status onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrConflict:
		return e.Status == http.StatusConflict
	case ErrBadRequest:
		return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
	}
	return false
}

// Status returns the HTTP status carried by err, or 0 if err is not an APIError.
func Status(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}

// Message returns the server message carried by err, if any.
func Message(err error) string {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return ""
}

// messageFromBody understands {"detail": ...}, {"error": ...}, {"non_field_errors": [...]}
// and {"field": ["msg"]} shapes. Anything else yields "".
func messageFromBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var m map[string]json.RawMessage
	if json.Unmarshal(body, &m) != nil {
		return ""
	}
	for _, key := range []string{"detail", "error", "message", "non_field_errors"} {
		if raw, ok := m[key]; ok {
			if s := rawString(raw); s != "" {
				return s
			}
		}
	}
	var parts []string
	for k, raw := range m {
		if s := rawString(raw); s != "" {
			parts = append(parts, k+": "+s)
		}
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return ""
}

func rawString(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		return strings.Join(list, " ")
	}
	return ""
}
