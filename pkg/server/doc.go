// Package server provides the HTTP wrapper around the rule-evaluation core.
//
// Routes:
//
//	POST /signal                              ingest a signal, returns the effective config
//	GET  /config/{service}/{environment}      effective config lookup
//	GET  /policy                              active policy
//	POST /policy                              validated policy replacement
//	GET  /healthz                             liveness
//	GET  /readyz                              readiness
//	GET  /metrics                             prometheus exposition (when enabled)
//
// The server is a thin collaborator: request decoding, response encoding, and
// process bootstrap. All decision logic lives in the engine.
package server
