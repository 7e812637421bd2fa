// Package hub implements the authentication, authorization, and audit-trail
// core of the Progress Hub backend: credential verification, signed session
// tokens, role-based access control, an append-only activity log, and the
// per-day status-history compaction used by the feature-health tracker.
//
// Everything else in the service (tasks, roadmap phases, pipeline items) is
// data-entry plumbing that passes through this core on the way in and emits
// activity records on the way out.
package hub
