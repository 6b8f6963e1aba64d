package models

import "errors"

var (
	ErrNoRecord           = errors.New("models: no matching record found")
	ErrInvalidCredentials = errors.New("models: invalid credentials")
	ErrDuplicateEmail     = errors.New("models: duplicate email")
	ErrDuplicateReview    = errors.New("models: product already reviewed")
	ErrInsufficientStock  = errors.New("models: insufficient stock")
	ErrAdminDelete        = errors.New("models: admin accounts cannot be deleted")
	ErrAlreadyPaid        = errors.New("models: order already paid")
	ErrDegraded           = errors.New("models: store unavailable, running in degraded mode")
)
