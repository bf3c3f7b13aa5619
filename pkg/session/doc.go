// Package session provides the in-memory conversation store for the
// code-assist service. Each session ties a generated identifier to one
// source file's text and the running history of user/assistant turns.
//
// Invariants:
// - Session IDs are unique and opaque.
// - History is append-only and ordered chronologically.
//
// Sessions live for the process lifetime unless the optional cleanup
// loop is started, which evicts idle sessions and prunes long histories.
package session
