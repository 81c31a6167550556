// Package policy defines the adaptive-configuration policy model and its store.
//
// A Policy is an ordered collection of Rules. Each Rule scopes itself to a
// service/environment (unset means any), carries a list of Conditions evaluated
// with AND semantics against rolling signal aggregates, and an Action describing
// the runtime configuration fields it wants to set.
//
// # Core Types
//
// Policy: Root document holding rules; exactly one policy is active per instance
//
// Rule: Scoped, prioritized condition/action pair (lower priority runs first)
//
// Condition: Single predicate over aggregates (kind + operator + threshold)
//
// Action: Partial runtime configuration overlay (unset fields never override)
//
// # Store
//
// Store holds the single active, validated policy. Replacement is atomic and
// copy-on-write: an evaluation already running keeps the snapshot it started
// with, and a rejected replacement leaves the previous policy untouched.
//
// # File Source
//
// FileSource loads a policy from a YAML file and can watch it for changes,
// swapping the store's active policy whenever the file is rewritten with a
// valid document. Invalid documents are logged and skipped.
package policy
