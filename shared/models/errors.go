package models

import "errors"

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailExists     = errors.New("email already exists")
	ErrInvalidPassword = errors.New("password must not be empty")
)
