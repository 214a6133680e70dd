package logo

import "errors"

var (
	ErrNilImage         = errors.New("nil image")
	ErrInvalidThreshold = errors.New("threshold must be within [0, 255]")
	ErrUnknownMode      = errors.New("unknown background removal mode")
	ErrNoForeground     = errors.New("no foreground pixels detected")
	ErrInvalidMaxSize   = errors.New("max size must not be negative")
)
