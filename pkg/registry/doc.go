// Package registry holds options contributed by declarative children rather
// than by the primary options source.
//
// Children register themselves when mounted and unregister when removed.
// The registry keeps entries in first-registration order; re-registering an
// existing id updates the entry in place so its position does not move.
//
// Data flow:
//
//	child.Register(entry) -> Registry -> Subscribe listeners -> host re-normalizes
//
// Group markers (RegisterGroup) make a group header appear even when the group
// has no registered members yet. Their ids are derived from the group name so
// two children declaring the same group share one marker.
package registry
