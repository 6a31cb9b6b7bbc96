// Package llm is the generic fallback responder boundary: it is consulted
// only when no keyword rule produced a reply.
package llm

import "context"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of recent conversation history.
type Message struct {
	Role    string
	Content string
}

// Request frames one completion call.
type Request struct {
	System      string
	Messages    []Message
	MaxTokens   int32
	Temperature float32
}

// Client produces a free-text reply. Implementations must respect ctx
// deadlines; callers always impose a timeout.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}
