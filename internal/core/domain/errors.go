package domain

import "errors"

var (
	ErrInvalidCatalog       = errors.New("invalid catalog")
	ErrInvalidCart          = errors.New("invalid cart")
	ErrStorageRead          = errors.New("storage read failure")
	ErrUnknownProduct       = errors.New("unknown product reference")
	ErrRequiredFieldMissing = errors.New("required field missing")
	ErrInvalidEmailFormat   = errors.New("invalid email format")
)
