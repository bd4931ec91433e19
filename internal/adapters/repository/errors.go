package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrKeyNotFound = errors.New("key not found")
	ErrStoreClosed = errors.New("store closed")
)
