package domain

import "time"

type EventType string

const (
	EventOccupancyOpened EventType = "occupancy.opened"
	EventOccupancyClosed EventType = "occupancy.closed"
	EventStockAdjusted   EventType = "stock.adjusted"
	EventStockRevised    EventType = "stock.revised"
	EventStockDeleted    EventType = "stock.deleted"
)

// LedgerEvent is emitted after a ledger mutation has committed.
type LedgerEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}
