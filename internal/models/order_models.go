package models

import "time"

// OrderStatus is the coarse lifecycle stage of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusServed    OrderStatus = "served"
	OrderStatusCompleted OrderStatus = "completed"
)

// ItemStatus is the kitchen progress of a single order line.
type ItemStatus string

const (
	ItemStatusPending   ItemStatus = "pending"
	ItemStatusPreparing ItemStatus = "preparing"
	ItemStatusReady     ItemStatus = "ready"
	ItemStatusServed    ItemStatus = "served"
)

// Priority marks rush orders for the kitchen board.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityRush   Priority = "rush"
)

// PaymentStatus of an order. Settlement itself is not handled here.
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// orderTransitions lists, for each order status, the statuses it may move to.
// Moves only go forward; staying on the same status is always allowed.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusPreparing, OrderStatusReady, OrderStatusServed, OrderStatusCompleted},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusServed, OrderStatusCompleted},
	OrderStatusReady:     {OrderStatusServed, OrderStatusCompleted},
	OrderStatusServed:    {OrderStatusCompleted},
	OrderStatusCompleted: {},
}

var itemTransitions = map[ItemStatus][]ItemStatus{
	ItemStatusPending:   {ItemStatusPreparing, ItemStatusReady, ItemStatusServed},
	ItemStatusPreparing: {ItemStatusReady, ItemStatusServed},
	ItemStatusReady:     {ItemStatusServed},
	ItemStatusServed:    {},
}

// IsValidOrderStatus checks if the provided status string is a known OrderStatus.
func IsValidOrderStatus(status string) bool {
	_, ok := orderTransitions[OrderStatus(status)]
	return ok
}

// IsValidItemStatus checks if the provided status string is a known ItemStatus.
func IsValidItemStatus(status string) bool {
	_, ok := itemTransitions[ItemStatus(status)]
	return ok
}

// IsValidPriority checks if the provided priority string is known.
func IsValidPriority(p string) bool {
	return Priority(p) == PriorityNormal || Priority(p) == PriorityRush
}

// CanTransitionTo reports whether an order in status s may be moved to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether an item in status s may be moved to next.
func (s ItemStatus) CanTransitionTo(next ItemStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range itemTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order represents one dine-in transaction at a table
type Order struct {
	ID            string        `json:"id" db:"id"`
	TableID       string        `json:"tableId" db:"table_id"`
	TableNumber   int           `json:"tableNumber" db:"table_number"`
	Status        OrderStatus   `json:"status" db:"status"`
	Priority      Priority      `json:"priority" db:"priority"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
	PaymentStatus PaymentStatus `json:"paymentStatus" db:"payment_status"`
	TotalAmount   int64         `json:"totalAmount" db:"total_amount"`
	PaidAmount    int64         `json:"paidAmount" db:"paid_amount"`
	Items         []OrderItem   `json:"items"`
}

// OrderItem is a line of an order. Name and unit price are copied from the
// menu at order time.
type OrderItem struct {
	ID         int64      `json:"id" db:"id"`
	OrderID    string     `json:"orderId" db:"order_id"`
	MenuItemID string     `json:"menuItemId" db:"menu_item_id"`
	Name       string     `json:"name" db:"menu_item_name"`
	Price      int64      `json:"price" db:"unit_price"`
	Quantity   int        `json:"quantity" db:"quantity"`
	Notes      *string    `json:"notes,omitempty" db:"notes"`
	Status     ItemStatus `json:"status" db:"status"`
}

// OrderFilters defines the available filters for listing orders.
type OrderFilters struct {
	Status  *string `form:"status"`
	TableID *string `form:"table_id"`
}
