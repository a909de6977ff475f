package router_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/llamarouter/agent"
	"github.com/kadirpekel/llamarouter/config"
	"github.com/kadirpekel/llamarouter/intent"
	"github.com/kadirpekel/llamarouter/llmclient"
	"github.com/kadirpekel/llamarouter/router"
	"github.com/kadirpekel/llamarouter/session"
	"github.com/kadirpekel/llamarouter/tool"
	"github.com/kadirpekel/llamarouter/tool/projectstool"
	"github.com/kadirpekel/llamarouter/toolexec"
	"github.com/kadirpekel/llamarouter/validator"
)

type scriptedProvider struct {
	replies []string
	i       int
}

func (s *scriptedProvider) Generate(ctx context.Context, messages []llmclient.Message, tools []llmclient.ToolDefinition) (llmclient.Reply, error) {
	reply := s.replies[s.i]
	if s.i < len(s.replies)-1 {
		s.i++
	}
	return llmclient.Reply{Content: reply}, nil
}

func (s *scriptedProvider) GenerateStructured(ctx context.Context, messages []llmclient.Message, schema map[string]any) (map[string]any, error) {
	return nil, nil
}

func (s *scriptedProvider) SupportsTools() bool { return false }

func newHandler(t *testing.T, agentReply string) *router.Handler {
	t.Helper()
	cfg := config.DefaultConfig()

	sessions := session.New(func() *agent.Agent {
		return agent.New(&scriptedProvider{replies: []string{agentReply}}, nil, "")
	})
	v := validator.New(cfg.Validation)

	reg := tool.NewRegistry()
	ruleAnalyzer := intent.NewRuleAnalyzer(cfg.Rules, cfg.Analysis)
	executor := toolexec.New(reg, ruleAnalyzer, func() error {
		return reg.Register(projectstool.NewTool(""))
	}, nil)

	return router.New(sessions, v, executor, "projects", func() int64 { return 1700000000 }, nil)
}

func TestHandle_TemplateReplyTriggersManualExecution(t *testing.T) {
	h := newHandler(t, "You have [number of projects] projects.")
	resp := h.Handle(context.Background(), router.ChatRequest{
		Messages: []router.Message{{Role: "user", Content: "list projects"}},
	})

	require.Len(t, resp.Choices, 1)
	assert.NotContains(t, resp.Choices[0].Message.Content, "[number of projects]")
	require.NotNil(t, resp.ToolInfo)
	assert.Equal(t, "manual", resp.ToolInfo.IntegrationType)
}

func TestHandle_GenuineReplyIsTrustedNatively(t *testing.T) {
	h := newHandler(t, strings.Repeat("a", 80)+" this is a perfectly ordinary sufficiently long reply about your projects.")
	resp := h.Handle(context.Background(), router.ChatRequest{
		Messages: []router.Message{{Role: "user", Content: "list my projects"}},
	})

	require.NotNil(t, resp.ToolInfo)
	assert.Equal(t, "native", resp.ToolInfo.IntegrationType)
}

func TestHandle_NonToolMessageGetsNoToolInfo(t *testing.T) {
	h := newHandler(t, "The weather today is sunny with a light breeze across the coast.")
	resp := h.Handle(context.Background(), router.ChatRequest{
		Messages: []router.Message{{Role: "user", Content: "what's the weather today"}},
	})

	assert.Nil(t, resp.ToolInfo)
}

func TestHandle_MissingProjectIDGetsGuidanceMessage(t *testing.T) {
	h := newHandler(t, "[project list]")
	resp := h.Handle(context.Background(), router.ChatRequest{
		Messages: []router.Message{{Role: "user", Content: "create a project"}},
	})

	assert.Contains(t, resp.Choices[0].Message.Content, "Please specify a project name")
}

func TestHandle_OverrideNamespaceWins(t *testing.T) {
	h := newHandler(t, "[project list]")
	resp := h.Handle(context.Background(), router.ChatRequest{
		Messages:  []router.Message{{Role: "user", Content: "list projects in dev"}},
		Namespace: "staging",
	})

	require.NotNil(t, resp.ToolInfo)
	assert.Equal(t, "staging", resp.ToolInfo.Namespace)
}

func TestHandle_SessionIsolation(t *testing.T) {
	h := newHandler(t, strings.Repeat("a", 80)+" a perfectly normal reply that needs no manual fallback at all today.")

	respA := h.Handle(context.Background(), router.ChatRequest{
		SessionID: "a",
		Messages:  []router.Message{{Role: "user", Content: "list my projects"}},
	})
	respB := h.Handle(context.Background(), router.ChatRequest{
		SessionID: "b",
		Messages:  []router.Message{{Role: "user", Content: "list my projects"}},
	})

	assert.Equal(t, "a", respA.SessionID)
	assert.Equal(t, "b", respB.SessionID)
}

func TestStreamChunks_ConcatenationEqualsFullReply(t *testing.T) {
	reply := "This is a fairly long reply that should wrap across more than one chunk when the configured width is eighty characters, including a veryveryveryveryveryveryveryveryveryveryveryveryveryveryverylongwordthatexceedsthewidthentirely token."

	chunks := router.StreamChunks(reply, "test-model", 1700000000)

	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Equal(t, "assistant", chunks[0].Choices[0].Delta.Role)

	var rebuilt strings.Builder
	for _, c := range chunks {
		rebuilt.WriteString(c.Choices[0].Delta.Content)
	}
	assert.Equal(t, reply, rebuilt.String())

	last := chunks[len(chunks)-1]
	require.NotNil(t, last.Choices[0].FinishReason)
	assert.Equal(t, "stop", *last.Choices[0].FinishReason)
}

func TestStreamChunks_NoPieceExceedsWidthExceptHardSplitWords(t *testing.T) {
	reply := strings.Repeat("word ", 40)
	chunks := router.StreamChunks(reply, "test-model", 1700000000)

	for _, c := range chunks[1 : len(chunks)-1] {
		assert.LessOrEqual(t, len([]rune(c.Choices[0].Delta.Content)), 80)
	}
}

func TestEncodeSSE_ProducesDataPrefixedEvent(t *testing.T) {
	chunks := router.StreamChunks("hi", "test-model", 1700000000)
	event, err := router.EncodeSSE(chunks[0])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(event, "data: "))
	assert.True(t, strings.HasSuffix(event, "\n\n"))
}
