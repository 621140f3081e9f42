package payments

import "errors"

var (
	// ErrNotConfigured indicates the Mercado Pago credentials are absent.
	ErrNotConfigured = errors.New("mercado pago not configured")
	// ErrNotFound indicates the lead or project for a checkout does not exist.
	ErrNotFound = errors.New("checkout target not found")
	// ErrInvalidInput indicates a malformed checkout request.
	ErrInvalidInput = errors.New("invalid checkout input")
	// ErrUnreachable indicates the Mercado Pago API could not be reached.
	ErrUnreachable = errors.New("mercado pago unreachable")
	// ErrPreferenceFailed indicates Mercado Pago rejected the preference.
	ErrPreferenceFailed = errors.New("mercado pago preference failed")
	// ErrInvalidPreference indicates a response without a preference id.
	ErrInvalidPreference = errors.New("mercado pago returned an invalid preference")
)
