package model

import "time"

type EventType string

const (
	EventBorrowed    EventType = "transaction.borrowed"
	EventReturned    EventType = "transaction.returned"
	EventFineCreated EventType = "fine.created"
	EventFinePaid    EventType = "fine.paid"
	EventFineWaived  EventType = "fine.waived"
)

// Event is the payload published to the library-events topic after each
// lifecycle operation; the stats consumer folds it into borrower_stats.
type Event struct {
	Type           EventType `json:"type"`
	Username       string    `json:"username"`
	BookUid        string    `json:"bookUid,omitempty"`
	TransactionUid string    `json:"transactionUid,omitempty"`
	FineUid        string    `json:"fineUid,omitempty"`
	Amount         string    `json:"amount,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}
