// Package health provides liveness and readiness checking for the control
// plane.
//
// The Checker runs registered component checks (policy store, signal store)
// and exposes HTTP handlers: liveness reports the process is alive, readiness
// reports whether every registered check passes.
package health
