package domain

import "errors"

var (
	ErrNotFound          = errors.New("entity not found")
	ErrAccessDenied      = errors.New("access denied")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrDuplicateFavorite = errors.New("favorite already exists")
)
