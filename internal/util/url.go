package util

import (
	"net/url"
	"strings"
	"unicode"
)

// IsRedirectSafe reports whether next may be used as a post-handshake
// destination. Accepted values are an empty string, a path on this site,
// or an absolute URL with the same scheme and host as baseURL.
func IsRedirectSafe(next, baseURL string) bool {
	if next == "" {
		return true
	}

	// Browsers strip surrounding whitespace and treat "\" as "/", so
	// " //evil.com" and "/\evil.com" both leave the site.
	if strings.TrimSpace(next) != next ||
		strings.ContainsRune(next, '\\') ||
		strings.ContainsFunc(next, unicode.IsControl) {
		return false
	}
	if strings.HasPrefix(next, "//") {
		return false
	}

	target, err := url.Parse(next)
	if err != nil {
		return false
	}
	if target.Scheme == "" && target.Host == "" {
		return true
	}

	// "http:evil.com" has a scheme but no host and resolves off-site.
	base, err := url.Parse(baseURL)
	if err != nil {
		return false
	}
	return target.Host != "" &&
		target.User == nil &&
		target.Scheme == base.Scheme &&
		strings.EqualFold(target.Host, base.Host)
}
