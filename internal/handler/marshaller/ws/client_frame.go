package wsmarshaller

import (
	"encoding/json"
	"fmt"
)

// ClientFrame is one inbound WebSocket command. Exactly one of the command
// shapes is populated depending on Type.
type ClientFrame struct {
	Type     string `json:"type"` // "message" | "react" | "join" | "leave"
	User     string `json:"user,omitempty"`
	Text     string `json:"text,omitempty"`
	ID       int64  `json:"id,omitempty"`
	Reaction string `json:"reaction,omitempty"`
}

// DecodeClientFrame parses an inbound frame. A decode failure is reported to
// the caller for logging but must never close the connection.
func DecodeClientFrame(data []byte) (ClientFrame, error) {
	var f ClientFrame
	if err := json.Unmarshal(data, &f); err != nil {
		return ClientFrame{}, fmt.Errorf("decode client frame: %w", err)
	}
	if f.Type == "" {
		return ClientFrame{}, fmt.Errorf("decode client frame: missing type")
	}
	return f, nil
}
