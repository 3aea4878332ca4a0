package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/afteryou/internal/client/models"
)

var (
	ErrUnavailable       = errors.New("server unavailable")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrSessionExpired    = errors.New("session expired")
	ErrMalformedResponse = errors.New("malformed response")
	ErrNotFound          = errors.New("not found")
)

// Error is a non-2xx response of the backend.
type Error struct {
	Status  int
	Message string
	fields  map[string]string
}

func (e *Error) Error() string { return e.Message }

// Is makes 401 and 404 responses match ErrUnauthorized and ErrNotFound.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// Field returns a top-level string field of the error body, such as
// "detail" or "error". Lists of strings are joined.
func (e *Error) Field(name string) string {
	return e.fields[name]
}

// NewError builds the error for a non-2xx response with the given body.
func NewError(status int, body []byte) *Error {
	e := &Error{Status: status, fields: map[string]string{}}

	var raw map[string]json.RawMessage
	if json.Unmarshal(body, &raw) == nil {
		for k, v := range raw {
			if s := flatten(v); s != "" {
				e.fields[k] = s
			}
		}
	}

	for _, k := range []string{"message", "error", "detail"} {
		if s := e.fields[k]; s != "" {
			e.Message = s
			break
		}
	}
	if e.Message == "" {
		e.Message = fmt.Sprintf("Error: %d", status)
	}
	return e
}

func flatten(v json.RawMessage) string {
	var s string
	if json.Unmarshal(v, &s) == nil {
		return s
	}
	var list []string
	if json.Unmarshal(v, &list) == nil {
		return strings.Join(list, " ")
	}
	return ""
}

// Alert texts shown for the error classes.
const (
	MsgNetwork        = "Network error. Please check your connection."
	MsgSessionExpired = "Your session has expired. Please log in again."
	MsgMalformed      = "Unexpected response from server."
)

// UserMessage maps err to the text of an inline alert.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *Error
	var ve *models.ValidationError
	switch {
	case errors.Is(err, ErrUnavailable):
		return MsgNetwork
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, ErrSessionExpired):
		return MsgSessionExpired
	case errors.Is(err, ErrMalformedResponse):
		return MsgMalformed
	case errors.As(err, &ve):
		return ve.Error()
	}
	return err.Error()
}

// FieldMessage returns the first non-empty named field of an *Error in err,
// or fallback.
func FieldMessage(err error, fallback string, fields ...string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		for _, f := range fields {
			if s := apiErr.Field(f); s != "" {
				return s
			}
		}
	}
	return fallback
}
