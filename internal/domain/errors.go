package domain

import "errors"

// Coarse error kinds surfaced by the service layer. Raw store and decode
// errors are logged at the boundary and wrapped into one of these, so
// callers only ever match with errors.Is.
var (
	ErrValidation    = errors.New("invalid input")
	ErrTransform     = errors.New("image transform failed")
	ErrStorageWrite  = errors.New("storage write failed")
	ErrStorageDelete = errors.New("storage delete failed")
	ErrStorageSign   = errors.New("storage sign failed")
	ErrIngestion     = errors.New("image ingestion failed")
	ErrNotFound      = errors.New("image not found")
)
