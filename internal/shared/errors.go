// Package shared defines the sentinel errors used across the client and
// server layers of rosterkeeper. Callers match them with errors.Is.
package shared

import "errors"

var (

	// repository errors
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("email already exists")

	// integrity pipeline errors
	ErrorUninitializedKey = errors.New("keypair not initialized")
	ErrorInvalidInput     = errors.New("invalid input")

	// export boundary errors
	ErrorEncoding = errors.New("export encoding failed")
	ErrorDecoding = errors.New("export decoding failed")

	// generic flow control
	ErrorInternal = errors.New("internal error")
)
