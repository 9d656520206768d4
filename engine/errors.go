package engine

import "errors"

var (
	ErrConfig    = errors.New("invalid environment config")
	ErrMatchOver = errors.New("match is over")
)
