package leads

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrCodeRequired  = errors.New("access code required")
	ErrEmailMismatch = errors.New("email mismatch")
	ErrCodeMismatch  = errors.New("access code mismatch")
)
