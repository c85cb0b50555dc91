// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key or Bearer header).
//   - rayid: a unique request id (ray id) stored in the request locals and
//     echoed in the X-Ray-ID response header for tracing.
//
// Register rayid first so every later log line carries the id.
package middleware
