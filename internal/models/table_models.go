package models

// TableStatus is the floor state of a dining table.
type TableStatus string

const (
	TableStatusAvailable      TableStatus = "available"
	TableStatusOccupied       TableStatus = "occupied"
	TableStatusNeedsAttention TableStatus = "needs-attention"
	TableStatusBilling        TableStatus = "billing"
)

// LastActivityJustNow is written to a table when an order is placed against it.
const LastActivityJustNow = "Just now"

// IsValidTableStatus checks if the provided status string is a valid TableStatus.
func IsValidTableStatus(status string) bool {
	switch TableStatus(status) {
	case TableStatusAvailable,
		TableStatusOccupied,
		TableStatusNeedsAttention,
		TableStatusBilling:
		return true
	default:
		return false
	}
}

// Table represents a physical dining table and its current session
type Table struct {
	ID           string      `json:"id" db:"id"`
	Number       int         `json:"number" db:"number"`
	Seats        int         `json:"seats" db:"seats"`
	Status       TableStatus `json:"status" db:"status"`
	SessionID    *string     `json:"session_id" db:"session_id"`
	Waiter       *string     `json:"waiter" db:"waiter"`
	Guests       *int        `json:"guests" db:"guests"`
	OrderTotal   *int64      `json:"order_total" db:"order_total"`
	LastActivity *string     `json:"last_activity" db:"last_activity"`
}

// TableUpdate is a partial update; nil fields are left untouched.
type TableUpdate struct {
	Status       *string `json:"status"`
	SessionID    *string `json:"session_id"`
	Waiter       *string `json:"waiter"`
	Guests       *int    `json:"guests"`
	OrderTotal   *int64  `json:"order_total"`
	LastActivity *string `json:"last_activity"`
}

// IsEmpty reports whether the update carries no fields at all.
func (u TableUpdate) IsEmpty() bool {
	return u.Status == nil && u.SessionID == nil && u.Waiter == nil &&
		u.Guests == nil && u.OrderTotal == nil && u.LastActivity == nil
}
