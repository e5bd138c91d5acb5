// Package assistant wires the conversational pieces together: it loads the
// session context for an incoming chat turn, drives the model's tool-call
// loop against the registered shipping tools and persists the updated
// context back to the session store.
//
// The assistant is the reference orchestration layer. The session store and
// the rate-shop engine stay independently consumable; nothing in them knows
// the assistant exists.
package assistant
