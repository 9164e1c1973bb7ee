// Package client contains client-side building blocks for the roster
// verifier.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) to talk
//     to the roster backend: Ping, PublicKey, and FetchExport.
//  2. A concrete HTTP implementation (see HTTPClient) that performs
//     timeout-bounded GET requests and maps transport and status failures
//     to sentinel errors.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match
// with errors.Is: ErrUnavailable (the server cannot be reached or reports
// itself unhealthy) and ErrUnexpectedStatus (the server answered with a
// status other than 200 OK).
//
// Concurrency & Contexts
//
// Implementations should be safe for concurrent use unless stated otherwise.
// All operations accept context.Context and must honor cancellation/timeouts.
//
// See Also
//
//   - Interface: Client
//   - HTTP impl: HTTPClient
//   - Errors:    ErrUnavailable, ErrUnexpectedStatus
package client
