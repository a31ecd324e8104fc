package domain

import (
	"errors"
	"strings"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrDishNotFound    = errors.New("dish not found")
	ErrUnknownCourse   = errors.New("unknown course")
)

// ValidationError reports which draft field was rejected.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Has reports whether a field was rejected.
func (v ValidationErrors) Has(field string) bool {
	for _, e := range v {
		if e.Field == field {
			return true
		}
	}
	return false
}
