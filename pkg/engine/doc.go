// Package engine implements the rule-evaluation core of the control plane.
//
// The Engine consumes the signal store, the aggregator, and the policy store
// to compute an EffectiveConfig for a (service, environment) key:
//
//  1. Prune the key's buffer against the rolling window and compute aggregates.
//  2. Start from the EffectiveConfig defaults.
//  3. Walk the active policy's enabled rules in ascending priority order
//     (stable: ties keep declaration order), skipping rules whose scope does
//     not match the key.
//  4. A rule matches iff all its conditions evaluate true; an empty condition
//     list always matches.
//  5. Matching rules overlay their action onto the result field by field.
//     Matching is not short-circuited: later rules win per field.
//
// Evaluation never returns an error. Malformed rule bodies, unresolved
// condition kinds, and unsupported operators degrade to "condition not
// satisfied" with a warning log, keeping the hot ingest path available.
package engine
