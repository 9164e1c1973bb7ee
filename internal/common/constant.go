// Package common contains shared constants used across rosterkeeper
// components.
package common

// ExportContentType is the media type of the binary roster snapshot served
// by the backend and consumed by verifier clients.
const ExportContentType = "application/octet-stream"

// PublicKeyContentType is the media type of the PEM public key endpoint.
const PublicKeyContentType = "text/plain; charset=utf-8"
