// Package loader provides a small feature registry for the HTTP server.
//
// Each feature implements the Feature interface and mounts its own routes;
// the serve command registers features with a Manager and calls LoadAll.
package loader
