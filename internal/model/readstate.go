package model

import "time"

// ReadStateOp names a remote read-state operation.
type ReadStateOp string

const (
	OpMarkRead ReadStateOp = "mark_read"
	OpClearAll ReadStateOp = "clear_all"
)

// ReadStateEntry records one read-state request sent to the API and how it
// ended.
type ReadStateEntry struct {
	ID string `json:"id"`

	Op ReadStateOp `json:"op"`

	// NotificationID is empty for clear-all.
	NotificationID ID `json:"notification_id"`

	// Confirmed is true only when the API answered 2xx.
	Confirmed bool `json:"confirmed"`

	Error string `json:"error,omitempty"`

	At time.Time `json:"at"`
}
