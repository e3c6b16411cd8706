package catalog

import "errors"

var (
	// ErrNotFound is returned when a game or company id does not exist.
	ErrNotFound = errors.New("catalog: not found")

	// ErrAlreadyExists is returned when a title or name is already taken.
	ErrAlreadyExists = errors.New("catalog: already exists")

	// ErrInvalidArgument is returned for malformed query parameters.
	ErrInvalidArgument = errors.New("catalog: invalid argument")
)
