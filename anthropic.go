package parley

import (
	"encoding/json"
	"net/http"

	"github.com/tidwall/gjson"
)

const (
	anthropicVersion = "2023-06-01"

	// Anthropic requires max_tokens on every call; streams are capped
	// at a fixed value.
	anthropicMaxTokens = 4096
)

// anthropicFamily speaks the Anthropic messages schema.
type anthropicFamily struct{}

type anthropicRequest struct {
	Model     string    `json:"model"`
	Stream    bool      `json:"stream"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []Message `json:"messages"`
}

func (anthropicFamily) endpoint(baseURL string, req *StreamRequest) string {
	return baseURL + "/messages"
}

func (anthropicFamily) headers(req *StreamRequest) http.Header {
	h := http.Header{}
	h.Set("x-api-key", req.APIKey)
	h.Set("anthropic-version", anthropicVersion)
	h.Set("accept", "text/event-stream")
	return h
}

// payload splits system messages out of the conversation: Anthropic
// takes them as a single top-level system string, joined by blank
// lines, while user and assistant turns stay in messages in their
// original relative order.
func (anthropicFamily) payload(req *StreamRequest) ([]byte, error) {
	var system string
	msgs := make([]Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		if m.Role == RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
			continue
		}
		msgs = append(msgs, m)
	}
	return json.Marshal(anthropicRequest{
		Model:     req.Model,
		Stream:    true,
		MaxTokens: anthropicMaxTokens,
		System:    system,
		Messages:  msgs,
	})
}

// token accepts only content_block_delta frames; Anthropic interleaves
// message_start, ping and other housekeeping events on the same stream.
func (anthropicFamily) token(frame []byte) (string, error) {
	if !gjson.ValidBytes(frame) {
		return "", ErrMalformedFrame
	}
	if gjson.GetBytes(frame, "type").Str != "content_block_delta" {
		return "", nil
	}
	if v := gjson.GetBytes(frame, "delta.text"); v.Type == gjson.String {
		return v.Str, nil
	}
	return "", nil
}
