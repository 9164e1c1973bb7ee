// Package cli provides the interactive roster verifier command-line client.
//
// It wires configuration, the HTTP API client, and an interactive REPL that
// inspects the signed user roster. The public key is fetched once per session
// and every exported record is checked against it; records that fail the
// check are withheld from display rather than flagged.
//
// Key features:
//   - List verified records
//   - Print the server's public key
//   - Save the raw export snapshot to a local file
//   - Probe server health
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
