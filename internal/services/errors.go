package services

import "errors"

// Errors shared by several services.
var (
	ErrValidation              = errors.New("validation error")
	ErrStatusRequired          = errors.New("status is required")
	ErrInvalidStatusTransition = errors.New("status transition not allowed")
)
