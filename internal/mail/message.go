// Package mail carries alert and apology emails over a durable AMQP queue and
// renders them for SMTP delivery.
package mail

import (
	"encoding/json"
	"fmt"
)

// Message types understood by the consumer.
const (
	TypeLateService = "late_service"
	TypeApology     = "apology"
)

// Message is the queue payload. Data holds the type-specific template fields.
type Message struct {
	Type string          `json:"type"`
	To   string          `json:"to"`
	Data json.RawMessage `json:"data"`
}

// LateServiceData fills the late_service template.
type LateServiceData struct {
	AlertID   string `json:"alert_id"`
	EntryID   string `json:"schedule_entry_id"`
	HotelName string `json:"hotel_name"`
	Day       string `json:"day"`
	Slot      string `json:"slot"`
	Date      string `json:"date"`
	RaisedAt  string `json:"raised_at"`
}

// ApologyData fills the apology template.
type ApologyData struct {
	HotelName string   `json:"hotel_name"`
	Day       string   `json:"day"`
	Date      string   `json:"date"`
	Slots     []string `json:"slots"`
}

// NewMessage encodes data into a Message of the given type.
func NewMessage(typ, to string, data any) (Message, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Message{}, fmt.Errorf("failed to encode %s mail data: %w", typ, err)
	}
	return Message{Type: typ, To: to, Data: raw}, nil
}
