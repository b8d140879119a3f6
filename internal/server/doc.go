// Package server implements the HTTP server for the fotos backend: image
// upload into the storage directory, image listing, a status payload, and a
// static file server rooted at the configured directory.
package server
