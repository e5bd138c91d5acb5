// Package shipmesh provides a high-level façade over the conversational
// shipping assistant core: session context storage, the rate-shop engine and
// the tool-calling assistant loop. Most applications interact with this
// package by:
//  1. Creating a rateshop.Engine from provider credentials
//  2. Loading an order.Store (the mock order database)
//  3. Creating a ShipMesh via New() with a chat model
//  4. Calling Chat per user turn and Start once for background session sweeps
//
// The façade delegates the actual work to the assistant, session and
// rateshop packages while keeping setup ergonomics concise. All defaults are
// safe for local development and testing; production deployments typically
// supply a structured logger and tuned TTLs.
package shipmesh

import (
	"context"
	"time"

	"github.com/hupe1980/shipmesh/assistant"
	"github.com/hupe1980/shipmesh/core"
	"github.com/hupe1980/shipmesh/logging"
	"github.com/hupe1980/shipmesh/model"
	"github.com/hupe1980/shipmesh/order"
	"github.com/hupe1980/shipmesh/rateshop"
	"github.com/hupe1980/shipmesh/session"
	"github.com/hupe1980/shipmesh/tool"
)

// Options configures the ShipMesh instance.
type Options struct {
	// Instructions overrides the assistant's system prompt.
	Instructions string

	// SessionStore holds conversation contexts. Defaults to an in-memory
	// store with TTL eviction via the background sweeper.
	SessionStore core.SessionStore

	// SessionTTL is how long idle sessions survive. Defaults to one hour.
	SessionTTL time.Duration

	// SweepInterval is how often the sweeper runs. Defaults to five minutes.
	SweepInterval time.Duration

	// ExtraTools are registered with the assistant in addition to the
	// built-in rate-shop tool.
	ExtraTools []tool.Tool

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// ShipMesh is the high-level façade aggregating the assistant, the session
// store and its sweeper.
type ShipMesh struct {
	assistant *assistant.Assistant
	store     core.SessionStore
	sweeper   *session.Sweeper
}

// New creates a new ShipMesh instance. Any unset service is initialized with
// an in-memory implementation.
func New(m model.Model, engine *rateshop.Engine, orders *order.Store, optFns ...func(o *Options)) *ShipMesh {
	opts := Options{
		SessionTTL:    session.DefaultTTL,
		SweepInterval: 5 * time.Minute,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.SessionStore == nil {
		opts.SessionStore = session.NewInMemoryStore()
	}

	tools := append([]tool.Tool{tool.NewRateShopTool(orders, engine)}, opts.ExtraTools...)

	a := assistant.New(m, tools, func(o *assistant.Options) {
		if opts.Instructions != "" {
			o.Instructions = opts.Instructions
		}
		o.Sessions = opts.SessionStore
		o.Logger = opts.Logger
	})

	sw := session.NewSweeper(opts.SessionStore, func(o *session.SweeperOptions) {
		o.TTL = opts.SessionTTL
		o.Interval = opts.SweepInterval
		o.Logger = opts.Logger
	})

	return &ShipMesh{assistant: a, store: opts.SessionStore, sweeper: sw}
}

// Chat processes one user prompt for the given user/session pair.
func (s *ShipMesh) Chat(ctx context.Context, userID, sessionID, prompt string) (string, error) {
	return s.assistant.Chat(ctx, userID, sessionID, prompt)
}

// Reset drops the conversation context for the given user/session pair.
func (s *ShipMesh) Reset(userID, sessionID string) error {
	return s.assistant.Reset(userID, sessionID)
}

// Start launches the background session sweeper. It returns immediately.
func (s *ShipMesh) Start(ctx context.Context) { s.sweeper.Start(ctx) }

// Stop terminates the background session sweeper.
func (s *ShipMesh) Stop() { s.sweeper.Stop() }

// SessionKeys returns a diagnostic snapshot of currently held session keys.
func (s *ShipMesh) SessionKeys() ([]core.SessionKey, error) { return s.store.Keys() }
