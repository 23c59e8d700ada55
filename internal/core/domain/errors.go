package domain

import "errors"

// Business-rule failures, kept distinct from persistence failures so
// handlers can map them to status codes with errors.Is. Anything a
// repository wraps around a driver error is treated as a 500-class failure.
var (
	ErrTodoNotFound        = errors.New("todo not found")
	ErrNotOwner            = errors.New("todo does not belong to caller")
	ErrMissingUpload       = errors.New("no files uploaded")
	ErrUnsupportedFileType = errors.New("invalid file type")
	ErrUserExists          = errors.New("user already exists")
	ErrInvalidCredentials  = errors.New("invalid username or password")
)
