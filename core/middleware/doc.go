// Package middleware groups the Fiber middleware used by the serve command.
//
// Subpackages:
//   - rayid: assigns a unique ray ID to each request for log correlation
//   - auth: optional API key enforcement
package middleware
