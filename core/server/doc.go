// Package server holds configuration for the optional HTTP API surface.
//
// The registry is primarily a CLI tool; the serve command exposes the same
// lookup and summary operations over HTTP for local integrations. The API key
// is optional and, when set, is enforced by the auth middleware.
package server
