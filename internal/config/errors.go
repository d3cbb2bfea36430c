package config

import (
	"errors"
	"fmt"
)

// ErrConfiguration matches every ConfigurationError via errors.Is.
var ErrConfiguration = errors.New("improperly configured")

// ConfigurationError reports a required setting that is missing or malformed.
// It is an operator problem and is never retried or redirected.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s must be specified in your settings", e.Key)
	}
	return fmt.Sprintf("%s is improperly configured: %s", e.Key, e.Reason)
}

// Is lets errors.Is(err, ErrConfiguration) match any ConfigurationError.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// Missing returns a ConfigurationError for an unset key.
func Missing(key string) error {
	return &ConfigurationError{Key: key}
}

// Malformed returns a ConfigurationError for a key whose value cannot be used.
func Malformed(key, reason string) error {
	return &ConfigurationError{Key: key, Reason: reason}
}
