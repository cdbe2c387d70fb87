package models

import "errors"

// Error taxonomy. Handlers at the HTTP boundary match these with errors.Is
// and turn them into redirects plus a user-facing notice; none of them
// escapes as an unhandled fault.
var (
	// ErrInvalidCredentials: the identity gateway rejected the email/password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMetadataMissing: credentials are valid but the user directory has no
	// usable entry (absent, or an unrecognized role). Requires admin action.
	ErrMetadataMissing = errors.New("user metadata missing")

	// ErrUnauthenticated: no valid session for this client.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden: the session's role is not allowed the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation: a required form field is missing or unusable.
	ErrValidation = errors.New("invalid input")
)
