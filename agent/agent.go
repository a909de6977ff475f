// Package agent wraps a chat-completion client with per-session
// conversation history. An Agent is a single session's conversational
// context holder: when its client reports native tool support it sends
// the registered tool definitions with the conversation, otherwise it
// sends the conversation alone as an ordinary chat completion (no
// structured-output response format is requested), appends
// every turn to its own history in arrival order, and returns the raw
// reply without interpreting it — the router decides what to do with it.
package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/kadirpekel/llamarouter/llmclient"
	"github.com/kadirpekel/llamarouter/tool"
)

// Result is what Run returns: the model's reply text plus any native
// tool calls it requested, left uninterpreted for the caller to act on.
type Result struct {
	Text            string
	NativeToolCalls []llmclient.ToolCall
}

// Agent wraps a single chat-completion client and owns the conversation
// history for exactly one session. Two concurrent Run calls against the
// same Agent serialize through mu, matching spec.md §4.5's requirement
// that per-agent operations serialize with respect to that agent's own
// history while different sessions proceed in parallel.
type Agent struct {
	mu            sync.Mutex
	client        llmclient.Provider
	tools         *tool.Registry
	systemMessage llmclient.Message
	history       []llmclient.Message
}

// New builds an Agent around client. If systemPrompt is non-empty it is
// kept out of history and prepended to every Run call, matching the
// original agent's fixed-system-message behavior. tools may be nil for a
// client in json mode that never needs a native tool definitions list.
func New(client llmclient.Provider, tools *tool.Registry, systemPrompt string) *Agent {
	a := &Agent{client: client, tools: tools}
	if systemPrompt != "" {
		a.systemMessage = llmclient.Message{Role: "system", Content: systemPrompt}
	}
	return a
}

// Run submits message along with the session's accumulated history,
// appends both the user turn and the assistant's reply to that history
// in arrival order, and returns the raw result. It never interprets
// native tool calls itself.
func (a *Agent) Run(ctx context.Context, message string) (Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	userTurn := llmclient.Message{Role: "user", Content: message}
	conversation := a.conversationLocked(userTurn)

	var reply llmclient.Reply
	var err error
	if a.client.SupportsTools() && a.tools != nil {
		defs := a.tools.Definitions()
		toolDefs := make([]llmclient.ToolDefinition, 0, len(defs))
		for _, d := range defs {
			toolDefs = append(toolDefs, llmclient.ToolDefinition{
				Type:     "function",
				Function: llmclient.ToolDefinitionFunc{Name: d.Name, Description: d.Description, Parameters: d.Parameters},
			})
		}
		reply, err = a.client.Generate(ctx, conversation, toolDefs)
	} else {
		reply, err = a.client.Generate(ctx, conversation, nil)
	}
	if err != nil {
		return Result{}, fmt.Errorf("agent: generating reply: %w", err)
	}

	a.history = append(a.history, userTurn, llmclient.Message{Role: "assistant", Content: reply.Content})

	return Result{Text: reply.Content, NativeToolCalls: reply.ToolCalls}, nil
}

// conversationLocked builds the full message list sent to the model:
// the fixed system message (if any), the accumulated history, and the
// new user turn. Must be called with mu held.
func (a *Agent) conversationLocked(userTurn llmclient.Message) []llmclient.Message {
	conversation := make([]llmclient.Message, 0, len(a.history)+2)
	if a.systemMessage.Content != "" {
		conversation = append(conversation, a.systemMessage)
	}
	conversation = append(conversation, a.history...)
	conversation = append(conversation, userTurn)
	return conversation
}

// ResetHistory clears every accumulated turn but preserves identity: the
// same client and tool registry keep backing the Agent afterward.
func (a *Agent) ResetHistory() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.history = nil
}

// HistoryLen reports the number of turns currently held, for tests and
// diagnostics.
func (a *Agent) HistoryLen() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.history)
}

// NewTurnID mints an identifier for a single Run call's audit trail,
// matching the original's per-turn correlation ID.
func NewTurnID() string {
	return uuid.NewString()
}
