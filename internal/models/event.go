package models

import "time"

// Circulation event types.
const (
	EventBorrow      = "BORROW"
	EventReturn      = "RETURN"
	EventBookAdded   = "BOOK_ADDED"
	EventBookUpdated = "BOOK_UPDATED"
	EventBookDeleted = "BOOK_DELETED"
)

// CirculationEvent is a single audit log entry.
type CirculationEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	Description string    `json:"description"` // human-readable
	ActorID     string    `json:"actor_id,omitempty"`
	Metadata    any       `json:"metadata,omitempty"`
}

// CirculationStats is a point-in-time summary of the catalog and loans.
type CirculationStats struct {
	Books          int       `json:"books"`
	Copies         int       `json:"copies"`
	Available      int       `json:"available"`
	ActiveBorrows  int       `json:"activeBorrows"`
	OverdueBorrows int       `json:"overdueBorrows"`
	GeneratedAt    time.Time `json:"generatedAt"`
}
