package domain

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInvalidBloodType      = errors.New("invalid blood type")
	ErrDataSourceUnavailable = errors.New("data source unavailable")
)
