// Package router implements the Request Handler: the orchestrator that
// resolves a session, runs the Agent, asks the Response Validator
// whether the Agent's own reply actually did the work, falls back to
// manual tool execution when it didn't, and renders either a whole or a
// streamed chat-completion reply.
package router

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kadirpekel/llamarouter/agent"
	"github.com/kadirpekel/llamarouter/intent"
	"github.com/kadirpekel/llamarouter/session"
	"github.com/kadirpekel/llamarouter/toolexec"
	"github.com/kadirpekel/llamarouter/validator"
)

// Message is one turn in an inbound chat-completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the inbound request this router handles: an
// OpenAI-compatible chat-completion body plus the two structured
// overrides the Tool Executor consumes.
type ChatRequest struct {
	SessionID   string    `json:"session_id,omitempty"`
	Model       string    `json:"model,omitempty"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	TopP        *float64  `json:"top_p,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
	Stop        []string  `json:"stop,omitempty"`
	Stream      bool      `json:"stream,omitempty"`
	Namespace   string    `json:"namespace,omitempty"`
	ProjectID   string    `json:"project_id,omitempty"`
}

// ToolInfo is the audit record attached to any reply that touched a tool,
// natively or manually, ported from the original's create_tool_info.
type ToolInfo struct {
	ToolUsed        string `json:"tool_used"`
	IntegrationType string `json:"integration_type"`
	Action          string `json:"action,omitempty"`
	Namespace       string `json:"namespace,omitempty"`
	Message         string `json:"message,omitempty"`
}

// Choice is a single chat-completion choice.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// ChatResponse is the whole (non-streamed) chat-completion reply.
type ChatResponse struct {
	ID        string    `json:"id"`
	Object    string    `json:"object"`
	Created   int64     `json:"created"`
	Model     string    `json:"model"`
	SessionID string    `json:"session_id"`
	Choices   []Choice  `json:"choices"`
	ToolInfo  *ToolInfo `json:"tool_info,omitempty"`
}

// Handler wires the session store, validator, and tool executor into the
// end-to-end pipeline described in spec.md §4.6.
type Handler struct {
	sessions  *session.Service
	validator *validator.Validator
	executor  *toolexec.Executor
	toolName  string
	now       func() int64
	logger    *slog.Logger
}

// New builds a Handler. toolName is the single tool the executor may
// dispatch to (this router has exactly one reference tool, "projects").
// now supplies the response's "created" unix timestamp via an injected
// clock so the handler itself never calls time.Now() directly.
func New(sessions *session.Service, v *validator.Validator, executor *toolexec.Executor, toolName string, now func() int64, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{sessions: sessions, validator: v, executor: executor, toolName: toolName, now: now, logger: logger}
}

// Handle runs the full pipeline for one chat request and returns the
// whole (non-streamed) response. Callers that want a streamed reply
// should call Handle to get the final text, then pass
// Choices[0].Message.Content to StreamChunks.
func (h *Handler) Handle(ctx context.Context, req ChatRequest) ChatResponse {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = session.NewSessionID()
	}

	userMessage := lastUserMessage(req.Messages)
	a := h.sessions.GetOrCreate(sessionID)

	replyText, toolInfo := h.run(ctx, a, userMessage, req)

	return ChatResponse{
		ID:        "chatcmpl-" + uuid.NewString(),
		Object:    "chat.completion",
		Created:   h.now(),
		Model:     req.Model,
		SessionID: sessionID,
		Choices: []Choice{{
			Index:        0,
			Message:      Message{Role: "assistant", Content: replyText},
			FinishReason: "stop",
		}},
		ToolInfo: toolInfo,
	}
}

// run executes steps 3-6 of spec.md §4.6 and recovers from any
// unexpected panic into a graceful apology reply, per §7's "unexpected
// handler exception" error kind: the session is preserved either way
// since nothing here deletes it, win or lose.
func (h *Handler) run(ctx context.Context, a *agent.Agent, userMessage string, req ChatRequest) (replyText string, toolInfo *ToolInfo) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("unexpected panic handling chat request", "panic", r)
			replyText = "Sorry, something went wrong while handling your request."
			toolInfo = nil
		}
	}()

	result, err := a.Run(ctx, userMessage)
	if err != nil {
		h.logger.Error("agent run failed", "error", err)
		return "Sorry, I couldn't process that request right now.", nil
	}

	if !h.validator.NeedsManualExecution(result.Text, userMessage) {
		if h.validator.IsToolRelated(userMessage) {
			return result.Text, &ToolInfo{
				ToolUsed:        h.toolName,
				IntegrationType: string(toolexec.ModeNative),
			}
		}
		return result.Text, nil
	}

	h.logger.Info("response validator flagged manual execution", "session_tool", h.toolName)

	overrides := intent.Overrides{Namespace: req.Namespace, ProjectID: req.ProjectID}
	tr := h.executor.Execute(ctx, h.toolName, userMessage, overrides)

	info := &ToolInfo{
		ToolUsed:        h.toolName,
		IntegrationType: string(tr.IntegrationMode),
		Action:          tr.Action,
		Namespace:       tr.Namespace,
		Message:         tr.Message,
	}
	return tr.Message, info
}

func lastUserMessage(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content
		}
	}
	return ""
}
