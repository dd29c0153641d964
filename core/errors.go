package core

import (
	"errors"
	"regexp"
)

// ErrNotFound is a sentinel error for "not found" cases
var ErrNotFound = errors.New("not found")

// ErrPermissionDenied is returned when the caller lacks the privilege an operation needs
var ErrPermissionDenied = errors.New("permission denied")

// ErrCreateRoleFailure is returned when a guild role is still missing after creation
// and every bounded refetch attempt
var ErrCreateRoleFailure = errors.New("create role failure")

var notFoundPattern = regexp.MustCompile(`(?i)not found`)

// IsNotFoundError checks if an error is a "not found" error.
// Platform errors that only carry the text are matched as well.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return true
	}
	return notFoundPattern.MatchString(err.Error())
}
