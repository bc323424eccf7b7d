package cache

import "errors"

// ErrNotConnected is returned when Redis is used before Connect or after Close.
var ErrNotConnected = errors.New("cache store is not connected")
