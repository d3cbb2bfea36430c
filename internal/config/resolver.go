package config

import (
	"os"
	"time"

	"github.com/spf13/cast"
)

// LookupFunc returns the application-level value for a setting.
type LookupFunc func(name string) (string, bool)

// Resolver looks settings up in the application environment first and in a
// table of built-in defaults second.
type Resolver struct {
	lookup   LookupFunc
	defaults map[string]string
}

// NewResolver creates a Resolver. A nil lookup reads the process environment.
func NewResolver(lookup LookupFunc, defaults map[string]string) *Resolver {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if defaults == nil {
		defaults = map[string]string{}
	}
	return &Resolver{lookup: lookup, defaults: defaults}
}

// Resolve returns the configured value of name, falling back to its default.
// A name known to neither source yields a ConfigurationError naming it.
func (r *Resolver) Resolve(name string) (string, error) {
	if value, ok := r.lookup(name); ok {
		return value, nil
	}
	if value, ok := r.defaults[name]; ok {
		return value, nil
	}
	return "", Missing(name)
}

// String resolves name, returning fallback when it cannot be resolved.
func (r *Resolver) String(name, fallback string) string {
	value, err := r.Resolve(name)
	if err != nil {
		return fallback
	}
	return value
}

// Bool resolves name as a boolean ("true", "1", "false", "0", ...).
func (r *Resolver) Bool(name string, fallback bool) bool {
	value, err := r.Resolve(name)
	if err != nil || value == "" {
		return fallback
	}
	b, err := cast.ToBoolE(value)
	if err != nil {
		return fallback
	}
	return b
}

// Int resolves name as an integer.
func (r *Resolver) Int(name string, fallback int) int {
	value, err := r.Resolve(name)
	if err != nil || value == "" {
		return fallback
	}
	i, err := cast.ToIntE(value)
	if err != nil {
		return fallback
	}
	return i
}

// Duration resolves name as a Go duration string ("15s", "5m").
func (r *Resolver) Duration(name string, fallback time.Duration) time.Duration {
	value, err := r.Resolve(name)
	if err != nil || value == "" {
		return fallback
	}
	d, err := cast.ToDurationE(value)
	if err != nil {
		return fallback
	}
	return d
}
