package entity

import "errors"

var (
	// Validation errors (user-correctable, handled inline)
	ErrNotAnImage      = errors.New("file is not an image")
	ErrFileTooLarge    = errors.New("file exceeds maximum upload size")
	ErrImageTooSmall   = errors.New("image dimensions are below the minimum")
	ErrUnreadableImage = errors.New("could not read image dimensions")
	ErrNoFileProvided  = errors.New("no file provided")

	// Pipeline errors
	ErrUploadInFlight  = errors.New("an upload is already in progress")
	ErrConfiguration   = errors.New("storage configuration is missing or invalid")
	ErrStorageFailure  = errors.New("object storage upload failed")
	ErrDatabaseFailure = errors.New("database registration failed")
	ErrNetworkFailure  = errors.New("network failure")
	ErrDecodeFailure   = errors.New("image could not be decoded")
	ErrRecordNotFound  = errors.New("record not found")
)

// ErrorKind buckets pipeline failures into the user-facing categories the
// transport layer reports.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindConfiguration ErrorKind = "configuration"
	KindStorage       ErrorKind = "storage"
	KindDatabase      ErrorKind = "database"
	KindNetwork       ErrorKind = "network"
	KindGeneric       ErrorKind = "generic"
)

// ClassifyError maps an error from the upload pipeline to its category.
func ClassifyError(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrNotAnImage),
		errors.Is(err, ErrFileTooLarge),
		errors.Is(err, ErrImageTooSmall),
		errors.Is(err, ErrUnreadableImage),
		errors.Is(err, ErrNoFileProvided):
		return KindValidation
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrStorageFailure):
		return KindStorage
	case errors.Is(err, ErrDatabaseFailure):
		return KindDatabase
	case errors.Is(err, ErrNetworkFailure):
		return KindNetwork
	default:
		return KindGeneric
	}
}
