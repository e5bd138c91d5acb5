package core

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionKey identifies a single user's conversation. Both fields are opaque
// caller-supplied strings; only the pair needs to be unique. The struct is
// comparable and usable as a map key.
type SessionKey struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
}

// ToolCall describes a tool/function invocation requested by a model.
type ToolCall struct {
	ID        string `json:"id,omitempty"`        // Provider-assigned call id
	Name      string `json:"name"`                // Tool name
	Arguments string `json:"arguments,omitempty"` // Serialized JSON argument payload
}

// Message is a single conversational turn. Role follows the usual chat
// convention ("system", "user", "assistant", "tool"). Assistant messages may
// carry tool calls instead of (or in addition to) text; tool messages answer
// a specific call via ToolCallID.
type Message struct {
	ID         string     `json:"id"`
	Role       string     `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"toolCalls,omitempty"`
	ToolCallID string     `json:"toolCallId,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// NewUserMessage creates a user turn with a fresh id.
func NewUserMessage(text string) Message {
	return Message{ID: uuid.NewString(), Role: "user", Content: text, CreatedAt: time.Now()}
}

// NewAssistantMessage creates an assistant text turn.
func NewAssistantMessage(text string) Message {
	return Message{ID: uuid.NewString(), Role: "assistant", Content: text, CreatedAt: time.Now()}
}

// NewAssistantToolCallMessage creates an assistant turn requesting tool calls.
func NewAssistantToolCallMessage(calls []ToolCall) Message {
	return Message{ID: uuid.NewString(), Role: "assistant", ToolCalls: calls, CreatedAt: time.Now()}
}

// NewToolMessage creates a tool result turn answering the given call id.
func NewToolMessage(toolCallID, content string) Message {
	return Message{ID: uuid.NewString(), Role: "tool", Content: content, ToolCallID: toolCallID, CreatedAt: time.Now()}
}

// Context is the conversational state attached to a session: an ordered
// message history plus free-form key/value state. It is safe for concurrent
// access. The session store treats it as opaque — it only holds and returns
// the reference, never inspects the contents.
//
// Contract:
//   - Mutations update the Updated timestamp
//   - Messages returns a defensive copy to avoid external mutation
//   - Clone performs deep copies of maps/slices for safe divergence.
type Context struct {
	History []Message      `json:"history"`
	State   map[string]any `json:"state"`
	Created time.Time      `json:"created"`
	Updated time.Time      `json:"updated"`
	mu      sync.RWMutex
}

// NewContext creates an empty conversation context. It cannot fail, which is
// what lets SessionStore.Get create contexts lazily on first access.
func NewContext() *Context {
	now := time.Now()
	return &Context{History: []Message{}, State: map[string]any{}, Created: now, Updated: now}
}

// Append adds messages to the history updating the Updated timestamp.
func (c *Context) Append(msgs ...Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.History = append(c.History, msgs...)
	c.Updated = time.Now()
}

// Messages returns a copy of the full message history.
func (c *Context) Messages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	msgs := make([]Message, len(c.History))
	copy(msgs, c.History)
	return msgs
}

// Len returns the number of messages in the history.
func (c *Context) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.History)
}

// SetState sets a key/value pair in the context state.
func (c *Context) SetState(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.State[key] = value
	c.Updated = time.Now()
}

// GetState returns the value and existence flag for a state key.
func (c *Context) GetState(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.State[key]
	return v, ok
}

// Clone returns a deep copy of the context safe for independent mutation.
func (c *Context) Clone() *Context {
	c.mu.RLock()
	defer c.mu.RUnlock()
	clone := &Context{
		History: make([]Message, len(c.History)),
		State:   make(map[string]any, len(c.State)),
		Created: c.Created,
		Updated: c.Updated,
	}
	copy(clone.History, c.History)
	for k, v := range c.State {
		clone.State[k] = v
	}
	return clone
}

// SessionStore holds per-session conversation contexts. The in-memory
// implementation never fails; the error returns exist so durable backends
// (Redis, Postgres, ...) can slot in without changing calling code.
type SessionStore interface {
	// Get returns the context for key, creating an empty one if absent.
	// Every call refreshes the entry's last-access time.
	Get(key SessionKey) (*Context, error)

	// Update replaces the stored context for key, creating the entry if
	// absent, and refreshes the last-access time.
	Update(key SessionKey, ctx *Context) error

	// Delete removes the entry for key; a no-op if absent.
	Delete(key SessionKey) error

	// Cleanup removes every entry whose last access is older than ttl and
	// returns the number of entries removed.
	Cleanup(ttl time.Duration) (int, error)

	// Keys returns a snapshot of currently held keys, for diagnostics.
	Keys() ([]SessionKey, error)
}
