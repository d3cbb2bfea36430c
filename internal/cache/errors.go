package cache

import "errors"

// Get on either cache reports one of these. GetWithFetch treats all of them
// as a miss and falls through to the store, so a redis outage degrades the
// integration check to a database read instead of failing it.
var (
	ErrCacheMiss        = errors.New("cache miss")
	ErrCacheUnavailable = errors.New("cache backend unavailable")
	ErrInvalidValue     = errors.New("cached value cannot be decoded")
)
