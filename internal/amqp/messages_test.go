package amqp

import "testing"

func TestDayChangedMessage_RoundTrip(t *testing.T) {
	msg := NewDayChangedMessage(42, "2025-11-03")
	if msg.Timestamp.IsZero() {
		t.Error("NewDayChangedMessage() should stamp the message")
	}

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	decoded, err := DayChangedMessageFromJSON(data)
	if err != nil {
		t.Fatalf("DayChangedMessageFromJSON() error = %v", err)
	}
	if decoded.UserID != 42 {
		t.Errorf("UserID = %d, want 42", decoded.UserID)
	}
	if decoded.Date != "2025-11-03" {
		t.Errorf("Date = %q, want 2025-11-03", decoded.Date)
	}
	if !decoded.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", decoded.Timestamp, msg.Timestamp)
	}
}

func TestDayChangedMessageFromJSON_Invalid(t *testing.T) {
	if _, err := DayChangedMessageFromJSON([]byte("{not json")); err == nil {
		t.Error("DayChangedMessageFromJSON() should reject malformed payloads")
	}
}
