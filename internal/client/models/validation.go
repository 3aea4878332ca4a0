package models

import (
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`\S+@\S+\.\S+`)

// ValidEmail applies the loose shape check used by every form.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// FieldError is a single failed form field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists the failed fields of a form in form order.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// Field returns the message for field, or "" when it passed.
func (e *ValidationError) Field(name string) string {
	for _, fe := range e.Errors {
		if fe.Field == name {
			return fe.Message
		}
	}
	return ""
}

type validator struct {
	errs []FieldError
}

func (v *validator) add(field, msg string) {
	v.errs = append(v.errs, FieldError{Field: field, Message: msg})
}

func (v *validator) required(field, value, msg string) bool {
	if strings.TrimSpace(value) == "" {
		v.add(field, msg)
		return false
	}
	return true
}

func (v *validator) email(field, value, requiredMsg string) {
	if v.required(field, value, requiredMsg) && !ValidEmail(value) {
		v.add(field, "Please enter a valid email address")
	}
}

func (v *validator) err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: v.errs}
}
