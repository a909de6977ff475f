package session_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/llamarouter/agent"
	"github.com/kadirpekel/llamarouter/llmclient"
	"github.com/kadirpekel/llamarouter/session"
)

type stubProvider struct{}

func (s *stubProvider) Generate(ctx context.Context, messages []llmclient.Message, tools []llmclient.ToolDefinition) (llmclient.Reply, error) {
	return llmclient.Reply{Content: "ok"}, nil
}
func (s *stubProvider) GenerateStructured(ctx context.Context, messages []llmclient.Message, schema map[string]any) (map[string]any, error) {
	return nil, nil
}
func (s *stubProvider) SupportsTools() bool { return false }

func newTestService() *session.Service {
	return session.New(func() *agent.Agent {
		return agent.New(&stubProvider{}, nil, "")
	})
}

func TestGetOrCreate_ReturnsSameAgentForSameID(t *testing.T) {
	s := newTestService()
	a1 := s.GetOrCreate("session-1")
	a2 := s.GetOrCreate("session-1")
	assert.Same(t, a1, a2, "expected GetOrCreate to return the same Agent for the same id")
	assert.Equal(t, 1, s.Count())
}

func TestGetOrCreate_DistinctIDsGetDistinctAgents(t *testing.T) {
	s := newTestService()
	a1 := s.GetOrCreate("session-1")
	a2 := s.GetOrCreate("session-2")
	assert.NotSame(t, a1, a2)
	assert.Equal(t, 2, s.Count())
}

func TestDelete_RemovesSessionAndResetsHistory(t *testing.T) {
	s := newTestService()
	a := s.GetOrCreate("session-1")
	_, err := a.Run(context.Background(), "hello")
	require.NoError(t, err)
	require.NotZero(t, a.HistoryLen())

	require.True(t, s.Delete("session-1"))
	assert.Zero(t, a.HistoryLen(), "expected history to be reset on delete")
	assert.Zero(t, s.Count())
}

func TestDelete_UnknownIDReturnsFalse(t *testing.T) {
	s := newTestService()
	assert.False(t, s.Delete("nonexistent"))
}

func TestIDs_ListsLiveSessions(t *testing.T) {
	s := newTestService()
	s.GetOrCreate("a")
	s.GetOrCreate("b")
	assert.Len(t, s.IDs(), 2)
}

func TestGetOrCreate_ConcurrentSameIDOnlyCreatesOneAgent(t *testing.T) {
	s := newTestService()
	var wg sync.WaitGroup
	agents := make([]*agent.Agent, 20)
	for i := 0; i < 20; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			agents[i] = s.GetOrCreate("shared")
		}()
	}
	wg.Wait()

	first := agents[0]
	for _, a := range agents {
		assert.Same(t, first, a, "expected every concurrent GetOrCreate to return the same Agent")
	}
	assert.Equal(t, 1, s.Count())
}
