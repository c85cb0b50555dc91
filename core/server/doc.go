// Package server holds the HTTP control surface configuration.
//
// The serve command builds the Fiber app itself; this package only defines the
// listen port, the API key protecting the routes and the shutdown bound.
package server
