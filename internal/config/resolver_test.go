package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(values map[string]string) LookupFunc {
	return func(name string) (string, bool) {
		v, ok := values[name]
		return v, ok
	}
}

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(
		mapLookup(map[string]string{KeyAuthorizeRedirect: "/dashboard"}),
		map[string]string{KeyAuthorizeRedirect: "/", KeyDeniedRedirect: "/denied"},
	)

	t.Run("application value wins", func(t *testing.T) {
		v, err := r.Resolve(KeyAuthorizeRedirect)
		require.NoError(t, err)
		assert.Equal(t, "/dashboard", v)
	})

	t.Run("falls back to default", func(t *testing.T) {
		v, err := r.Resolve(KeyDeniedRedirect)
		require.NoError(t, err)
		assert.Equal(t, "/denied", v)
	})

	t.Run("unresolved key names itself", func(t *testing.T) {
		_, err := r.Resolve(KeyAppID)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConfiguration)

		var cfgErr *ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, KeyAppID, cfgErr.Key)
		assert.Contains(t, err.Error(), "HEALTHVAULT_APP_ID must be specified")
	})
}

func TestResolver_EmptyApplicationValueIsNotAFallback(t *testing.T) {
	r := NewResolver(
		mapLookup(map[string]string{KeyErrorTemplate: ""}),
		map[string]string{KeyErrorTemplate: "default.html"},
	)

	v, err := r.Resolve(KeyErrorTemplate)
	require.NoError(t, err)
	assert.Equal(t, "", v)
}

func TestResolver_TypedValues(t *testing.T) {
	r := NewResolver(mapLookup(map[string]string{
		"FLAG_TRUE":  "true",
		"FLAG_ONE":   "1",
		"FLAG_BAD":   "maybe",
		"COUNT":      "42",
		"COUNT_BAD":  "many",
		"TIMEOUT":    "15s",
		"TIMEOUT_BAD": "soon",
	}), nil)

	assert.True(t, r.Bool("FLAG_TRUE", false))
	assert.True(t, r.Bool("FLAG_ONE", false))
	assert.True(t, r.Bool("FLAG_BAD", true))
	assert.False(t, r.Bool("FLAG_MISSING", false))

	assert.Equal(t, 42, r.Int("COUNT", 0))
	assert.Equal(t, 7, r.Int("COUNT_BAD", 7))
	assert.Equal(t, 3, r.Int("COUNT_MISSING", 3))

	assert.Equal(t, 15*time.Second, r.Duration("TIMEOUT", time.Second))
	assert.Equal(t, time.Second, r.Duration("TIMEOUT_BAD", time.Second))
	assert.Equal(t, time.Minute, r.Duration("TIMEOUT_MISSING", time.Minute))

	assert.Equal(t, "fallback", r.String("NOPE", "fallback"))
}
