package apperr

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrTitleExists          = errors.New("title exists")
	ErrExists               = errors.New("already exists")
	ErrEmptyTitle           = errors.New("empty title")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrChecksumMismatch     = errors.New("checksum mismatch")
)
