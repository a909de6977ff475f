// Package session owns the process-local map from session identifier to
// a persistent Agent instance. Sessions are not durably stored: the
// spec's non-goals exclude multi-tenant auth and durable session storage,
// so a process restart simply starts every session over.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kadirpekel/llamarouter/agent"
	"github.com/kadirpekel/llamarouter/llmclient"
	"github.com/kadirpekel/llamarouter/tool"
)

// Factory builds a fresh Agent for a newly created session. The router
// supplies one closure wiring together the configured LLM client mode
// (tools vs json) and the shared tool registry.
type Factory func() *agent.Agent

// entry pairs an Agent with bookkeeping timestamps used for diagnostics;
// spec.md leaves idle eviction optional and this router doesn't run one,
// but the timestamps are kept so an eviction policy could be added later
// without changing the Service's shape.
type entry struct {
	agent      *agent.Agent
	createdAt  time.Time
	lastUsedAt time.Time
}

// Service is the in-memory Session Manager: a map from id to Agent
// guarded by an RWMutex. GetOrCreate looks an id up under the shared
// lock, but it then takes the write lock briefly to update lastUsedAt on
// every hit, so concurrent GetOrCreate calls serialize on that update;
// create and delete also take the write lock.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	factory  Factory
}

// New builds a Service that mints Agents via factory.
func New(factory Factory) *Service {
	return &Service{sessions: make(map[string]*entry), factory: factory}
}

// NewSessionID mints a fresh session identifier for callers that didn't
// supply one on the request.
func NewSessionID() string {
	return uuid.NewString()
}

// GetOrCreate returns the Agent for id, creating it (and its backing
// fresh model client and fresh history, via factory) if id is unseen.
func (s *Service) GetOrCreate(id string) *agent.Agent {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		s.touch(id)
		return e.agent
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[id]; ok {
		e.lastUsedAt = time.Now()
		return e.agent
	}
	now := time.Now()
	e = &entry{agent: s.factory(), createdAt: now, lastUsedAt: now}
	s.sessions[id] = e
	return e.agent
}

func (s *Service) touch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[id]; ok {
		e.lastUsedAt = time.Now()
	}
}

// Delete removes id's session, returning false if it didn't exist. The
// Agent's history is reset before removal so no caller retains a
// reference to past conversation turns through a still-live Agent.
func (s *Service) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return false
	}
	e.agent.ResetHistory()
	delete(s.sessions, id)
	return true
}

// Count returns the number of live sessions.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// IDs returns every live session id, in no particular order.
func (s *Service) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}

// NewFactory builds a Factory closure that wires a fresh Agent around a
// new LLM client in the mode appropriate for its configured model
// (native tool calling vs structured JSON), sharing the same tool
// registry and system prompt across every session.
func NewFactory(newClient func() llmclient.Provider, tools *tool.Registry, systemPrompt string) Factory {
	return func() *agent.Agent {
		return agent.New(newClient(), tools, systemPrompt)
	}
}
