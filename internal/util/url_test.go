package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRedirectSafe(t *testing.T) {
	const base = "http://localhost:8080"

	tests := []struct {
		name     string
		redirect string
		want     bool
	}{
		{"empty", "", true},
		{"relative path", "/dash", true},
		{"relative path with query", "/dash?tab=records", true},
		{"relative without slash", "dash", true},
		{"same host absolute", "http://localhost:8080/dash", true},
		{"same host different case", "http://LOCALHOST:8080/dash", true},
		{"protocol relative", "//evil.com", false},
		{"backslash", "/\\evil.com", false},
		{"leading backslashes", "\\\\evil.com", false},
		{"leading space", " //evil.com", false},
		{"tab inside slashes", "/\t/evil.com", false},
		{"other host", "https://evil.com/dash", false},
		{"other scheme same host", "https://localhost:8080/dash", false},
		{"userinfo", "http://user@localhost:8080/dash", false},
		{"javascript scheme", "javascript:alert(1)", false},
		{"header injection", "/dash\r\nSet-Cookie: x=y", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRedirectSafe(tt.redirect, base))
		})
	}
}

func TestIsRedirectSafe_SchemeWithoutHost(t *testing.T) {
	const base = "https://hvgate.example.com"

	for _, next := range []string{
		"http:evil.com",
		"http:/evil.com",
		"https:evil.com",
		"https:/evil.com/dash",
		"http:",
	} {
		t.Run(next, func(t *testing.T) {
			assert.False(t, IsRedirectSafe(next, base))
		})
	}

	assert.True(t, IsRedirectSafe("https://hvgate.example.com/dash", base))
}
