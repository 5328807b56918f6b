package parley

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// googleFamily speaks the Gemini generateContent REST schema.
type googleFamily struct{}

type googleRequest struct {
	SystemInstruction *googleContent  `json:"system_instruction,omitempty"`
	Contents          []googleContent `json:"contents"`
}

type googleContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []googlePart `json:"parts"`
}

type googlePart struct {
	Text string `json:"text"`
}

func (googleFamily) endpoint(baseURL string, req *StreamRequest) string {
	return fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse&key=%s", baseURL, req.Model, req.APIKey)
}

func (googleFamily) headers(req *StreamRequest) http.Header {
	// No auth header; the key rides in the URL query string.
	return http.Header{}
}

// payload maps the conversation onto Gemini content turns. System
// messages are concatenated into system_instruction the same way
// Anthropic handles them; assistant turns become role "model" and
// everything else is sent as "user".
func (googleFamily) payload(req *StreamRequest) ([]byte, error) {
	var system string
	contents := make([]googleContent, 0, len(req.Messages))
	for _, m := range req.Messages {
		if m.Role == RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
			continue
		}
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		contents = append(contents, googleContent{
			Role:  role,
			Parts: []googlePart{{Text: m.Content}},
		})
	}

	greq := googleRequest{Contents: contents}
	if system != "" {
		greq.SystemInstruction = &googleContent{Parts: []googlePart{{Text: system}}}
	}
	return json.Marshal(greq)
}

func (googleFamily) token(frame []byte) (string, error) {
	if !gjson.ValidBytes(frame) {
		return "", ErrMalformedFrame
	}
	if v := gjson.GetBytes(frame, "candidates.0.content.parts.0.text"); v.Type == gjson.String {
		return v.Str, nil
	}
	return "", nil
}
