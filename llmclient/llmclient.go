// Package llmclient talks to the OpenAI-compatible chat-completion
// endpoint that backs both structured intent extraction and
// conversational replies. Implementing that endpoint is out of spec
// scope — this package is purely the router's outbound client.
package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kadirpekel/llamarouter/config"
	"github.com/kadirpekel/llamarouter/httpclient"
)

// Message is one turn of conversation sent to or received from the LLM.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall is a native function-call request emitted by the model.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall is the name/arguments pair inside a ToolCall.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolDefinition describes a callable tool to the model in its native
// tool-calling request shape.
type ToolDefinition struct {
	Type     string             `json:"type"`
	Function ToolDefinitionFunc `json:"function"`
}

// ToolDefinitionFunc is the name/description/parameters triple nested
// inside a ToolDefinition.
type ToolDefinitionFunc struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// Reply is what Generate returns: the assistant's text plus any native
// tool calls it requested instead of (or alongside) that text.
type Reply struct {
	Content   string
	ToolCalls []ToolCall
}

// Provider is the interface the Agent and Intent Analyzer depend on.
// A single concrete implementation (Client, below) backs it; the
// interface exists so tests can substitute a stub.
type Provider interface {
	// Generate sends a conversation and optional native tool definitions
	// and returns the model's reply.
	Generate(ctx context.Context, messages []Message, tools []ToolDefinition) (Reply, error)

	// GenerateStructured asks the model to fill a JSON object matching
	// schema and decodes the result into a generic map. Used by the LLM
	// Intent Analyzer, which never needs native tool calling.
	GenerateStructured(ctx context.Context, messages []Message, schema map[string]any) (map[string]any, error)

	// SupportsTools reports whether the configured model is on the
	// tool-calling allowlist (mode "tools"). The Agent passes native tool
	// definitions to Generate only when it returns true.
	SupportsTools() bool
}

// Client is an OpenAI-compatible chat-completion client.
type Client struct {
	httpClient  *httpclient.Client
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	toolCapable bool
}

type chatRequest struct {
	Model          string           `json:"model"`
	Messages       []Message        `json:"messages"`
	Temperature    float64          `json:"temperature,omitempty"`
	MaxTokens      int              `json:"max_tokens,omitempty"`
	Tools          []ToolDefinition `json:"tools,omitempty"`
	ResponseFormat *responseFormat  `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type       string         `json:"type"`
	JSONSchema map[string]any `json:"json_schema,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// New builds a Client from LLMConfig. toolCapable should be
// DetectCapabilities(cfg.Model, cfg.ToolCallingModels).SupportsTools so
// mode selection stays consistent with the rest of the router.
func New(cfg config.LLMConfig, toolCapable bool) *Client {
	hc := httpclient.New(
		httpclient.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		httpclient.WithMaxRetries(3),
	)

	return &Client{
		httpClient:  hc,
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		toolCapable: toolCapable,
	}
}

func (c *Client) SupportsTools() bool { return c.toolCapable }

func (c *Client) Generate(ctx context.Context, messages []Message, tools []ToolDefinition) (Reply, error) {
	req := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Tools:       tools,
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		return Reply{}, err
	}
	if len(resp.Choices) == 0 {
		return Reply{}, fmt.Errorf("llmclient: empty choices in response")
	}

	msg := resp.Choices[0].Message
	return Reply{Content: msg.Content, ToolCalls: msg.ToolCalls}, nil
}

func (c *Client) GenerateStructured(ctx context.Context, messages []Message, schema map[string]any) (map[string]any, error) {
	req := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		ResponseFormat: &responseFormat{
			Type:       "json_schema",
			JSONSchema: schema,
		},
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("llmclient: empty choices in response")
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &out); err != nil {
		return nil, fmt.Errorf("llmclient: decoding structured reply: %w", err)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, body chatRequest) (*chatResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("llmclient: marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("llmclient: building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("llmclient: request failed: %w", err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("llmclient: reading response: %w", err)
	}

	var resp chatResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("llmclient: decoding response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("llmclient: API error: %s", resp.Error.Message)
	}
	if httpResp.StatusCode >= 400 {
		return nil, fmt.Errorf("llmclient: HTTP %d: %s", httpResp.StatusCode, string(data))
	}

	return &resp, nil
}

var _ Provider = (*Client)(nil)

// Ping is used for a lightweight readiness check (e.g. from a health
// endpoint) without spending a full completion call.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("llmclient: backend unhealthy, status %d", resp.StatusCode)
	}
	return nil
}
