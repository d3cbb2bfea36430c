package store

import (
	"errors"
	"fmt"
)

var (
	// ErrRecordNotFound wraps GORM's not found error for consistency
	ErrRecordNotFound = errors.New("record not found")

	// ErrValidation marks a HealthVault link that fails local validation.
	// Nothing is written when it is returned.
	ErrValidation = errors.New("validation failed")

	ErrMissingUserID    = fmt.Errorf("%w: user id is required", ErrValidation)
	ErrMissingRecordID  = fmt.Errorf("%w: record id is required", ErrValidation)
	ErrRecordIDTooLong  = fmt.Errorf("%w: record id exceeds 36 characters", ErrValidation)
	ErrRecordIDConflict = fmt.Errorf("%w: record id is linked to another user", ErrValidation)
	ErrEmptyAccessToken = fmt.Errorf("%w: access token is required", ErrValidation)

	// ErrUnsupportedDriver is returned for an unknown driver or a missing DSN.
	ErrUnsupportedDriver = errors.New("unsupported database driver")

	// ErrConcurrentSave means another request kept inserting the same link
	// while a HealthVault link was being saved. It is not a validation error.
	ErrConcurrentSave = errors.New("concurrent healthvault link save")

	// ErrUsernameConflict is returned when a username already exists
	ErrUsernameConflict = errors.New("username already exists")
)
