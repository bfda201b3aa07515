package amqp

import (
	"testing"
	"time"
)

func TestRefreshRequestMessageJSON(t *testing.T) {
	msg := NewRefreshRequestMessage("dashboard", "manual refresh")
	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	got, err := RefreshRequestMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if got.RequestedBy != "dashboard" || got.Reason != "manual refresh" {
		t.Fatalf("got %+v", got)
	}
	if got.Timestamp.IsZero() || time.Since(got.Timestamp) > time.Minute {
		t.Fatalf("timestamp = %v", got.Timestamp)
	}
}

func TestRefreshRequestMessageFromJSONInvalid(t *testing.T) {
	if _, err := RefreshRequestMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected error")
	}
}
