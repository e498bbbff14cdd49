package fronius

import "errors"

// Sentinel errors for Solar API operations.
// Use errors.Is() to check for these in calling code.
var (
	// ErrUnexpectedStatus indicates the inverter answered with a non-2xx
	// HTTP status.
	ErrUnexpectedStatus = errors.New("fronius: unexpected HTTP status")

	// ErrDeviceStatus indicates the inverter answered 200 but reported a
	// non-zero Solar API status code in the response head.
	ErrDeviceStatus = errors.New("fronius: device reported error status")

	// ErrDecode indicates the response body was not valid JSON for the
	// expected document shape.
	ErrDecode = errors.New("fronius: malformed response body")
)
