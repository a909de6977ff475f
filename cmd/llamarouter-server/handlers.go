package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kadirpekel/llamarouter/router"
)

// chatCompletionHandler adapts the OpenAI-compatible HTTP transport onto
// router.Handler.Handle, attaching the session id header and, for
// streaming requests, encoding the reply as the SSE event sequence
// spec.md §6 describes.
func chatCompletionHandler(h *router.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req router.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
			return
		}

		resp := h.Handle(r.Context(), req)
		w.Header().Set("X-Session-ID", resp.SessionID)

		if !req.Stream {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
			return
		}

		streamResponse(w, resp)
	}
}

func streamResponse(w http.ResponseWriter, resp router.ChatResponse) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, canFlush := w.(http.Flusher)

	var content string
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	for _, chunk := range router.StreamChunks(content, resp.Model, resp.Created) {
		event, err := router.EncodeSSE(chunk)
		if err != nil {
			return
		}
		if _, err := fmt.Fprint(w, event); err != nil {
			return
		}
		if canFlush {
			flusher.Flush()
		}
	}

	fmt.Fprint(w, router.DoneEvent)
	if canFlush {
		flusher.Flush()
	}
}
