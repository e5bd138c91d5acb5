// Package session houses concrete implementations of the core.SessionStore.
// The interface itself (and the Context struct) live in the core package to
// centralize domain contracts. Keeping only implementations here prevents
// higher level packages (assistant, façade) from depending on concrete
// storage.
//
// The in-memory store is the baseline: contexts live for the lifetime of the
// process and are evicted by TTL via Cleanup, typically driven by a Sweeper.
// Add durable backends (Redis, Postgres, ...) in sub-packages without
// changing any calling code — only the wiring layer needs to decide which
// implementation to instantiate.
package session
