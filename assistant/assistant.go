package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hupe1980/shipmesh/core"
	"github.com/hupe1980/shipmesh/logging"
	"github.com/hupe1980/shipmesh/model"
	"github.com/hupe1980/shipmesh/session"
	"github.com/hupe1980/shipmesh/tool"
)

// DefaultInstructions is the baseline system prompt.
const DefaultInstructions = "You are responsible for shipping orders."

// DefaultMaxToolIterations bounds how many model/tool round trips one chat
// turn may take before giving up.
const DefaultMaxToolIterations = 5

// Options configure the assistant.
type Options struct {
	// Instructions is the system prompt. Defaults to DefaultInstructions.
	Instructions string
	// MaxToolIterations bounds the tool-call loop per chat turn.
	MaxToolIterations int
	// Sessions is the context store. Defaults to a fresh in-memory store.
	Sessions core.SessionStore
	// Logger receives turn and tool diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Assistant processes chat turns: one Chat call is one user prompt resolved
// to one assistant reply, with any number of tool calls in between.
type Assistant struct {
	model    model.Model
	tools    map[string]tool.Tool
	toolDefs []model.ToolDefinition
	sessions core.SessionStore
	opts     Options
}

// New creates an assistant over the given model and tools.
func New(m model.Model, tools []tool.Tool, optFns ...func(o *Options)) *Assistant {
	opts := Options{
		Instructions:      DefaultInstructions,
		MaxToolIterations: DefaultMaxToolIterations,
		Logger:            logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewInMemoryStore()
	}
	opts.Logger = logging.OrNoOp(opts.Logger)

	byName := make(map[string]tool.Tool, len(tools))
	defs := make([]model.ToolDefinition, 0, len(tools))
	for _, t := range tools {
		byName[t.Name()] = t
		defs = append(defs, model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}

	return &Assistant{model: m, tools: byName, toolDefs: defs, sessions: opts.Sessions, opts: opts}
}

// Sessions exposes the underlying session store, e.g. to attach a sweeper.
func (a *Assistant) Sessions() core.SessionStore { return a.sessions }

// Reset drops the conversation context for the given user/session pair.
func (a *Assistant) Reset(userID, sessionID string) error {
	return a.sessions.Delete(core.SessionKey{UserID: userID, SessionID: sessionID})
}

// Chat processes one user prompt and returns the assistant's reply. The
// conversation context is loaded from (and persisted back to) the session
// store, so consecutive calls with the same ids continue the conversation.
func (a *Assistant) Chat(ctx context.Context, userID, sessionID, prompt string) (string, error) {
	key := core.SessionKey{UserID: userID, SessionID: sessionID}

	convo, err := a.sessions.Get(key)
	if err != nil {
		return "", fmt.Errorf("load session context: %w", err)
	}
	convo.Append(core.NewUserMessage(prompt))

	a.opts.Logger.Debug("assistant.chat.start", "user_id", userID, "session_id", sessionID)

	reply, err := a.runToolLoop(ctx, convo)
	if err != nil {
		return "", err
	}

	if err := a.sessions.Update(key, convo); err != nil {
		return "", fmt.Errorf("persist session context: %w", err)
	}

	a.opts.Logger.Info("assistant.chat.complete", "user_id", userID, "session_id", sessionID, "history_len", convo.Len())
	return reply, nil
}

// runToolLoop alternates model completions and tool executions until the
// model answers without requesting tools, or the iteration bound is hit.
func (a *Assistant) runToolLoop(ctx context.Context, convo *core.Context) (string, error) {
	for i := 0; i < a.opts.MaxToolIterations; i++ {
		resp, err := a.model.Complete(ctx, model.Request{
			Instructions: a.opts.Instructions,
			Messages:     convo.Messages(),
			Tools:        a.toolDefs,
		})
		if err != nil {
			return "", fmt.Errorf("model completion: %w", err)
		}

		convo.Append(resp.Message)

		if len(resp.Message.ToolCalls) == 0 {
			return resp.Message.Content, nil
		}

		for _, call := range resp.Message.ToolCalls {
			convo.Append(core.NewToolMessage(call.ID, a.executeToolCall(ctx, call)))
		}
	}
	return "", fmt.Errorf("tool iteration limit (%d) reached without a final answer", a.opts.MaxToolIterations)
}

// executeToolCall runs a single requested tool and serializes the outcome
// for the model. Tool failures are reported back into the conversation
// rather than aborting the turn — the model decides how to relay them.
func (a *Assistant) executeToolCall(ctx context.Context, call core.ToolCall) string {
	start := time.Now()

	t, ok := a.tools[call.Name]
	if !ok {
		a.opts.Logger.Warn("tool.call.unknown", "tool", call.Name)
		return errorPayload(fmt.Sprintf("unknown tool %q", call.Name))
	}

	args := map[string]any{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			a.opts.Logger.Warn("tool.call.bad_arguments", "tool", call.Name, "error", err.Error())
			return errorPayload(fmt.Sprintf("invalid arguments: %v", err))
		}
	}

	result, err := t.Call(ctx, args)
	if err != nil {
		a.opts.Logger.Error("tool.call.error", "tool", call.Name, "error", err.Error())
		return errorPayload(err.Error())
	}

	a.opts.Logger.Info("tool.call.success", "tool", call.Name, "duration_ms", time.Since(start).Milliseconds())

	payload, err := json.Marshal(result)
	if err != nil {
		return errorPayload(fmt.Sprintf("unserializable tool result: %v", err))
	}
	return string(payload)
}

func errorPayload(msg string) string {
	payload, _ := json.Marshal(map[string]string{"error": msg})
	return string(payload)
}
