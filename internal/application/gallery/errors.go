package gallery

import "errors"

var (
	ErrStorageNotConfigured = errors.New("Object storage not configured")
	ErrInvalidDirectory     = errors.New("Invalid directory path")
	ErrDirectoryNotFound    = errors.New("Directory not found")
	ErrUnexpectedResponse   = errors.New("unexpected gallery response")
)
