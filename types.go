package parley

import "context"

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one chat turn. Messages are caller-owned and immutable;
// the client only reads them for the duration of one call.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// StreamRequest describes one streaming completion call. The caller
// builds a fresh request per conversation turn.
type StreamRequest struct {
	// Provider names a registry entry, e.g. "openai" or "anthropic".
	Provider string

	// Model is the vendor-side model identifier.
	Model string

	// APIKey is the fully resolved credential. Secret management is
	// the caller's business; the key is only written into the request.
	APIKey string

	// BaseURL overrides the provider's default endpoint when non-empty.
	BaseURL string

	// Messages is the conversation so far, oldest first.
	Messages []Message
}

// TokenHandler receives each extracted text delta, in arrival order,
// on the same flow of control that is decoding the stream. Returning a
// non-nil error aborts the stream; that error is handed back to the
// caller unchanged. Caller state travels in the closure or via ctx.
type TokenHandler func(ctx context.Context, token string) error

// Event is one item on the channel returned by Client.Events.
type Event struct {
	Type  EventType
	Token string
	Err   error
}

// EventType tells Events consumers what an Event carries.
type EventType int

const (
	EventToken EventType = iota // incremental text delta
	EventDone                   // stream completed cleanly
	EventError                  // stream failed
)
