package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation             = errors.New("validation failed")
	ErrItemNotFound           = errors.New("menu item not found")
	ErrRecommendationNotFound = errors.New("recommendation not found")
	ErrNotificationNotFound   = errors.New("notification not found")
	ErrParse                  = errors.New("no valid menu items found in data")
	ErrCollaborator           = errors.New("analysis service unavailable")
	ErrPersistence            = errors.New("persistence failure")
	ErrUploadTooLarge         = errors.New("upload exceeds size limit")
	ErrUnsupportedFormat      = errors.New("unsupported upload format")
	ErrSuperseded             = errors.New("superseded by a newer request")
)

// ValidationError lists field level problems. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
