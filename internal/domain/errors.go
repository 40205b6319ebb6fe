package domain

import "errors"

var (
	ErrNoFiles           = errors.New("no files were provided")
	ErrMissingCredential = errors.New("model credential is required")
	ErrEmptyResult       = errors.New("no extraction results to export")
	ErrEmptyContent      = errors.New("no extractable content")
	ErrUnsupportedMedia  = errors.New("unsupported media type")
	ErrInvalidRecord     = errors.New("extraction record must be a JSON object")
	ErrFileTooLarge      = errors.New("file exceeds maximum allowed size")
	ErrTooManyFiles      = errors.New("too many files in one batch")
)
