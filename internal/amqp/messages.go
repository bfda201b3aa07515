package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// RefreshRequestMessage asks the worker to re-fetch the upstream dataset
// and replace the SQLite snapshot.
type RefreshRequestMessage struct {
	RequestedBy string    `json:"requested_by"`
	Reason      string    `json:"reason"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewRefreshRequestMessage(requestedBy, reason string) *RefreshRequestMessage {
	return &RefreshRequestMessage{
		RequestedBy: requestedBy,
		Reason:      reason,
		Timestamp:   time.Now().UTC(),
	}
}

func (m *RefreshRequestMessage) ToJSON() ([]byte, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal refresh request: %w", err)
	}
	return body, nil
}

func RefreshRequestMessageFromJSON(body []byte) (*RefreshRequestMessage, error) {
	var m RefreshRequestMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("unmarshal refresh request: %w", err)
	}
	return &m, nil
}
