package rendering

import "errors"

// Sentinel kinds for rendering binding errors.
var (
	ErrParse      = errors.New("fragment parse failed")
	ErrUnknownRef = errors.New("unknown element ref")
)
