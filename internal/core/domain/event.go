package domain

import "time"

type CartEventKind string

const (
	CartItemAdded   CartEventKind = "added"
	CartQuantitySet CartEventKind = "quantity_set"
	CartItemRemoved CartEventKind = "removed"
	CartCleared     CartEventKind = "cleared"
)

// A CartEvent describes a persisted cart mutation.
type CartEvent struct {
	SessionID string
	Kind      CartEventKind
	ProductID int64
	Qty       int
	ItemCount int
	At        time.Time
}
