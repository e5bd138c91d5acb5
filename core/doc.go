// Package core provides the foundational domain types and interfaces used by
// ShipMesh. It defines the core abstractions for:
//
//   - Sessions (a user's ongoing conversation, keyed by user + session id)
//   - Context (the mutable conversational state attached to a session)
//   - SessionStore (pluggable persistence for contexts with TTL eviction)
//   - Rate shopping (shipment descriptions, carrier quotes, filters, results)
//
// The package intentionally keeps implementation concerns (in-memory storage,
// HTTP provider clients, model adapters) out of scope, exposing small types
// and interfaces so higher level packages can be swapped or extended without
// touching the domain contracts.
package core
