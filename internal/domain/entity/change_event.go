package entity

import "time"

// EventType tags a cross-instance change notification.
type EventType string

const (
	EventPatientAdded EventType = "patient_added"
	EventDataChanged  EventType = "data_changed"
)

// ChangeEvent is the message fanned out to every other running instance.
// Payload is only set for EventPatientAdded.
type ChangeEvent struct {
	Type    EventType `json:"type"`
	Payload *Patient  `json:"payload,omitempty"`
	Origin  string    `json:"origin"`
	SentAt  time.Time `json:"sentAt"`
}
