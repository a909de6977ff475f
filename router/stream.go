package router

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const wrapWidth = 80

// Delta is the incremental content of one streamed chunk.
type Delta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// ChunkChoice is a single choice inside a streamed chunk.
type ChunkChoice struct {
	Index        int     `json:"index"`
	Delta        Delta   `json:"delta"`
	FinishReason *string `json:"finish_reason"`
}

// Chunk is one Server-Sent Event payload in a streamed chat-completion
// reply.
type Chunk struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"`
	Created int64         `json:"created"`
	Model   string        `json:"model"`
	Choices []ChunkChoice `json:"choices"`
}

// StreamChunks splits reply into the event sequence described in
// spec.md §6: a role-announcing preface chunk, zero or more
// whitespace-preserving word-wrapped content chunks, and a terminating
// chunk. Concatenating every returned chunk's Delta.Content reproduces
// reply exactly, satisfying §8's streaming invariant.
func StreamChunks(reply, model string, created int64) []Chunk {
	id := "chatcmpl-" + uuid.NewString()

	chunks := make([]Chunk, 0, 4)
	chunks = append(chunks, Chunk{
		ID: id, Object: "chat.completion.chunk", Created: created, Model: model,
		Choices: []ChunkChoice{{Index: 0, Delta: Delta{Role: "assistant"}, FinishReason: nil}},
	})

	for _, piece := range wrapPreservingWhitespace(reply, wrapWidth) {
		chunks = append(chunks, Chunk{
			ID: id, Object: "chat.completion.chunk", Created: created, Model: model,
			Choices: []ChunkChoice{{Index: 0, Delta: Delta{Content: piece}, FinishReason: nil}},
		})
	}

	finish := "stop"
	chunks = append(chunks, Chunk{
		ID: id, Object: "chat.completion.chunk", Created: created, Model: model,
		Choices: []ChunkChoice{{Index: 0, Delta: Delta{}, FinishReason: &finish}},
	})

	return chunks
}

// wrapPreservingWhitespace splits text into pieces of at most width
// characters, breaking at existing whitespace/word boundaries wherever
// possible so that concatenating every piece reproduces text exactly —
// unlike a strings.Fields-based wrapper, which collapses runs of
// whitespace and can never satisfy that invariant. Words longer than
// width are hard-split mid-word.
func wrapPreservingWhitespace(text string, width int) []string {
	if text == "" {
		return nil
	}

	var pieces []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			pieces = append(pieces, current.String())
			current.Reset()
		}
	}

	for _, token := range tokenize(text) {
		runes := []rune(token)

		if current.Len()+len(runes) <= width {
			current.WriteString(token)
			continue
		}

		flush()
		for len(runes) > width {
			pieces = append(pieces, string(runes[:width]))
			runes = runes[width:]
		}
		current.WriteString(string(runes))
	}
	flush()

	return pieces
}

// tokenize splits text into maximal runs of whitespace and maximal runs
// of non-whitespace, in order, so every character of the original text
// appears in exactly one token.
func tokenize(text string) []string {
	var tokens []string
	runes := []rune(text)
	start := 0
	inSpace := isSpace(runes[0])
	for i := 1; i < len(runes); i++ {
		if isSpace(runes[i]) != inSpace {
			tokens = append(tokens, string(runes[start:i]))
			start = i
			inSpace = isSpace(runes[i])
		}
	}
	tokens = append(tokens, string(runes[start:]))
	return tokens
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// EncodeSSE renders a single chunk as an SSE "data: <json>\n\n" event.
func EncodeSSE(c Chunk) (string, error) {
	body, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("router: encoding chunk: %w", err)
	}
	return fmt.Sprintf("data: %s\n\n", body), nil
}

// DoneEvent is the literal terminating SSE event emitted after the last
// chunk.
const DoneEvent = "data: [DONE]\n\n"
