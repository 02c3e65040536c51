package port

import (
	"context"
	"errors"

	"github.com/niksmo/storefront/internal/core/domain"
)

var ErrSlotNotFound = errors.New("slot not found")

// CartSlots is the durable key-value primitive holding serialized carts.
type CartSlots interface {
	// Get returns ErrSlotNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// CartStore owns the cart of a single session.
type CartStore interface {
	// Read never fails: missing or malformed data yields an empty cart.
	Read(ctx context.Context) domain.Cart
	Write(ctx context.Context, c domain.Cart) error
	// Add reports false when productID is neither in the cart nor in the
	// catalog; nothing is written in that case.
	Add(ctx context.Context, productID int64, qty int) (bool, error)
	SetQuantity(ctx context.Context, productID int64, qty int) error
	Remove(ctx context.Context, productID int64) error
	// Clear deletes the underlying slot.
	Clear(ctx context.Context) error
	ItemCount(ctx context.Context) int
}

type CartEventSink interface {
	CartChanged(ctx context.Context, evt domain.CartEvent)
}

type CheckoutResult struct {
	Validation domain.Validation
	Completed  bool
}

type Storefront interface {
	Catalog() domain.Catalog
	CheckoutForm() domain.CheckoutForm
	Cart(sessionID string) CartStore
	Checkout(
		ctx context.Context, sessionID string, values map[string]string,
	) (CheckoutResult, error)
}

type CartEventsProducer interface {
	ProduceCartEvent(context.Context, domain.CartEvent) error
}
