package amqp

import (
	"encoding/json"
	"time"
)

// DayChangedMessage announces that all entries for one user and date were
// replaced. Consumers fetch the fresh state themselves, so the payload stays
// minimal.
type DayChangedMessage struct {
	UserID    int64     `json:"user_id"`
	Date      string    `json:"date"` // ISO day, "2006-01-02"
	Timestamp time.Time `json:"timestamp"`
}

func NewDayChangedMessage(userID int64, date string) *DayChangedMessage {
	return &DayChangedMessage{
		UserID:    userID,
		Date:      date,
		Timestamp: time.Now(),
	}
}

func (m *DayChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func DayChangedMessageFromJSON(data []byte) (*DayChangedMessage, error) {
	var msg DayChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
