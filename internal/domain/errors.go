package domain

import "errors"

var (
	ErrNotFound             = errors.New("resource not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserInactive         = errors.New("user is inactive")
	ErrDuplicateEmail       = errors.New("email already exists")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionNotEvaluated  = errors.New("session has not been evaluated yet")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrUnknownDocumentType  = errors.New("unknown document type")
	ErrExtractionFailed     = errors.New("document extraction unavailable")
	ErrNoDocuments          = errors.New("session has no documents to evaluate")
	ErrInvalidConfiguration = errors.New("invalid engine configuration")
)
