// Package services defines the business logic for contact submissions.
// This file centralizes service-level error values so that they can be
// returned by service methods and checked by callers with errors.Is.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import (
	"errors"
	"strings"
)

// ErrMissingFields is returned when one or more required contact fields are
// empty after trimming. The concrete error is a *MissingFieldsError.
var ErrMissingFields = errors.New("all fields are required")

// MissingFieldsError names the fields that failed the required check.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return ErrMissingFields.Error() + ": missing " + strings.Join(e.Fields, ", ")
}

// Is makes errors.Is(err, ErrMissingFields) succeed.
func (e *MissingFieldsError) Is(target error) bool { return target == ErrMissingFields }
