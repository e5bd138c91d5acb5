// Package model defines the vendor-neutral chat completion interface the
// assistant drives, plus a deterministic mock for tests and examples.
// Concrete adapters for the official OpenAI and Anthropic SDKs live in the
// openai and anthropic sub-packages.
package model
