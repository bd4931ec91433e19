package ingest

import "errors"

// Sentinel kinds for dispatch errors.
var (
	ErrDispatch = errors.New("dispatch failed")
)
