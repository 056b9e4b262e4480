package standin

import "errors"

var (
	// ErrNoStub is returned when no registered stub matches a request.
	ErrNoStub = errors.New("no stub registered for request")

	// ErrInvalidMethod indicates an empty HTTP method in a registration.
	ErrInvalidMethod = errors.New("method is invalid")

	// ErrNilResolver is returned when a registration carries no resolver.
	ErrNilResolver = errors.New("resolver cannot be nil")

	// ErrStubFailed is the default failure for stubs configured to fail
	// without a custom error.
	ErrStubFailed = errors.New("stub failed")

	// ErrValidation wraps request validator failures.
	ErrValidation = errors.New("request validation failed")
)
