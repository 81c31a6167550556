// Package middleware provides the HTTP middleware chain for the control
// plane server: request IDs, structured request logging, and panic recovery.
package middleware
