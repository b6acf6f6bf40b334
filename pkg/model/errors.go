package model

import "errors"

// Store errors. Handlers translate them into the messages shown in the
// admin console, so callers should compare with errors.Is.
var (
	ErrRegionNotFound   = errors.New("region not found")
	ErrRegionCodeExists = errors.New("region code already exists")
	ErrRegionInUse      = errors.New("region has associated boxes")
	ErrRegionReference  = errors.New("referenced region does not exist")
	ErrBoxNotFound      = errors.New("box not found")
	ErrInvalidField     = errors.New("invalid field")
)
