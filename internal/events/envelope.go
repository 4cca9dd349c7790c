package events

import "encoding/json"

// Envelope decodes just enough of any lifecycle event to route it.
type Envelope struct {
	EventType string `json:"event_type"`
	RequestID string `json:"request_id,omitempty"`
}

func Peek(payload []byte) (Envelope, error) {
	var env Envelope
	err := json.Unmarshal(payload, &env)
	return env, err
}
