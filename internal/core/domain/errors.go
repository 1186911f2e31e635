package domain

import "errors"

var (
	ErrValidation   = errors.New("validation failed")
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
)
