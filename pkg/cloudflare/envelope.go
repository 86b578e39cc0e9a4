package cloudflare

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Envelope is the standard Cloudflare v4 response wrapper.
// Raw preserves the exact server body so output keeps the provider's
// key order and any fields this struct doesn't model.
type Envelope struct {
	Success    bool            `json:"success"`
	Errors     []APIError      `json:"errors,omitempty"`
	Messages   []APIMessage    `json:"messages,omitempty"`
	Result     json.RawMessage `json:"result,omitempty"`
	ResultInfo *ResultInfo     `json:"result_info,omitempty"`

	raw json.RawMessage
}

// APIError is a single entry in the envelope's errors array.
type APIError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
}

// APIMessage is a single entry in the envelope's messages array.
type APIMessage struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
}

// ResultInfo carries the provider's pagination block.
type ResultInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Count      int `json:"count"`
	TotalCount int `json:"total_count"`
}

// parseEnvelope decodes a response body into an Envelope, keeping the
// raw bytes for faithful output. Returns false if body is not JSON.
func parseEnvelope(body []byte) (*Envelope, bool) {
	if !json.Valid(body) {
		return nil, false
	}
	var e Envelope
	if err := json.Unmarshal(body, &e); err != nil {
		return nil, false
	}
	e.raw = bytes.TrimSpace(body)
	return &e, true
}

// errorEnvelope builds a synthetic failure envelope for transport
// errors and non-JSON response bodies.
func errorEnvelope(code int, message string) *Envelope {
	return &Envelope{
		Success: false,
		Errors:  []APIError{{Code: code, Message: message}},
	}
}

// successEnvelope represents an empty 2xx body.
func successEnvelope() *Envelope {
	return &Envelope{Success: true}
}

// PrettyJSON renders the envelope as indented JSON. Server responses
// are re-indented from the raw body; synthetic envelopes are marshaled.
func (e *Envelope) PrettyJSON() string {
	if len(e.raw) > 0 {
		var buf bytes.Buffer
		if err := json.Indent(&buf, e.raw, "", "  "); err == nil {
			return buf.String()
		}
	}
	out, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(out)
}

// Summary returns one-line status summaries for stderr: a single
// success line, or one line per provider error.
func (e *Envelope) Summary() []string {
	if !e.Success {
		if len(e.Errors) == 0 {
			return []string{"[Error]: request failed"}
		}
		lines := make([]string, len(e.Errors))
		for i, apiErr := range e.Errors {
			if apiErr.Code != 0 {
				lines[i] = fmt.Sprintf("[Error %d]: %s", apiErr.Code, apiErr.Message)
			} else {
				lines[i] = fmt.Sprintf("[Error]: %s", apiErr.Message)
			}
		}
		return lines
	}

	var list []json.RawMessage
	if err := json.Unmarshal(e.Result, &list); err == nil && e.resultIsArray() {
		return []string{fmt.Sprintf("[Success: %d items returned]", len(list))}
	}

	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(e.Result, &obj); err == nil && obj.ID != "" {
		return []string{fmt.Sprintf("[Success: ID=%s]", obj.ID)}
	}

	return []string{"[Success]"}
}

func (e *Envelope) resultIsArray() bool {
	trimmed := bytes.TrimSpace(e.Result)
	return len(trimmed) > 0 && trimmed[0] == '['
}
