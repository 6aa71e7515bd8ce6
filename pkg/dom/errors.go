package dom

import "errors"

var (
	ErrEmptySelector  = errors.New("empty selector")
	ErrUnknownElement = errors.New("unknown element")
	ErrInvalidRatio   = errors.New("intersection threshold must be in (0, 1]")
)
