// Package llamarouter provides an inference router that fronts a
// chat-completion endpoint with tool execution.
//
// A free-form chat message flows through a request-scoped pipeline: the
// Session Manager resolves a persistent Agent for the caller's session,
// the Agent asks the configured language model for a reply, the Response
// Validator decides whether that reply actually performed the work it
// claims to, and — when it didn't — the Intent Analyzer extracts a
// structured action/namespace/project_id intent that the Tool Executor
// dispatches against a typed Tool Registry.
//
// # Packages
//
//   - config: declarative startup configuration (analysis rules,
//     validation thresholds, LLM/server settings)
//   - llmclient: OpenAI-compatible chat-completion client
//   - tool, tool/projectstool: the typed Tool Registry and its reference
//     "projects" tool
//   - intent: LLM-backed and rule-based intent extraction
//   - validator: the Response Validator's five-check pipeline
//   - toolexec: the Tool Executor
//   - agent, session: per-session conversational state
//   - router: the request handler orchestrator and streaming encoder
//
// # Running the server
//
//	go run ./cmd/llamarouter-server --config router.yaml
package llamarouter
