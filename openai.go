package parley

import (
	"encoding/json"
	"net/http"

	"github.com/tidwall/gjson"
)

// openAIFamily speaks the chat-completions schema shared by OpenAI and
// the aggregator services that mirror it. Aggregators additionally
// receive a referrer/title pair identifying the client.
type openAIFamily struct {
	aggregator bool
	referrer   string
	title      string
}

type openAIRequest struct {
	Model    string    `json:"model"`
	Stream   bool      `json:"stream"`
	Messages []Message `json:"messages"`
}

func (f openAIFamily) endpoint(baseURL string, req *StreamRequest) string {
	return baseURL + "/chat/completions"
}

func (f openAIFamily) headers(req *StreamRequest) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+req.APIKey)
	if f.aggregator {
		h.Set("HTTP-Referer", f.referrer)
		h.Set("X-Title", f.title)
	}
	return h
}

// payload keeps the conversation as-is: roles pass through verbatim,
// system messages included.
func (f openAIFamily) payload(req *StreamRequest) ([]byte, error) {
	msgs := req.Messages
	if msgs == nil {
		msgs = []Message{}
	}
	return json.Marshal(openAIRequest{
		Model:    req.Model,
		Stream:   true,
		Messages: msgs,
	})
}

// token pulls the delta out of one chat-completions chunk. Servers put
// text under choices[0].delta.content (chat) or choices[0].text
// (legacy completions); anything else is skipped.
func (f openAIFamily) token(frame []byte) (string, error) {
	if !gjson.ValidBytes(frame) {
		return "", ErrMalformedFrame
	}
	if v := gjson.GetBytes(frame, "choices.0.delta.content"); v.Type == gjson.String {
		return v.Str, nil
	}
	if v := gjson.GetBytes(frame, "choices.0.text"); v.Type == gjson.String {
		return v.Str, nil
	}
	return "", nil
}
