package taskwatch

import "errors"

// Gateway error taxonomy. Implementations wrap these sentinels so callers can
// branch with errors.Is regardless of transport.
var (
	// ErrTransport covers network failures and 5xx responses.
	ErrTransport = errors.New("transport failure")

	// ErrNotFound means the referenced task or user id is unknown to the server.
	ErrNotFound = errors.New("not found")

	// ErrMalformed means the response payload is missing required fields.
	ErrMalformed = errors.New("malformed response")

	// ErrNoSelection is returned by operations that require a selected task.
	ErrNoSelection = errors.New("no task selected")

	// ErrNoGateway is returned when a Monitor is built without a Gateway.
	ErrNoGateway = errors.New("gateway is required")
)
