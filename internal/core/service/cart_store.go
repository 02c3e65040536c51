package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.CartStore = (*CartStore)(nil)

// CartStore is the cart of one session persisted in a single slot.
type CartStore struct {
	sessionID string
	key       string
	slots     port.CartSlots
	catalog   domain.Catalog
	sinks     []port.CartEventSink
	now       func() time.Time
}

// Read is for display: any failure yields an empty cart.
func (s CartStore) Read(ctx context.Context) domain.Cart {
	const op = "CartStore.Read"

	c, err := s.load(ctx)
	if err != nil {
		slog.Warn("failed to read cart slot",
			"op", op, "key", s.key, "err", err,
		)
		return domain.Cart{}
	}
	return c
}

// load returns an empty cart for a missing or malformed slot. Backend
// failures are returned so mutators never overwrite a cart they could not read.
func (s CartStore) load(ctx context.Context) (domain.Cart, error) {
	const op = "CartStore.load"

	data, err := s.slots.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, port.ErrSlotNotFound) {
			return domain.Cart{}, nil
		}
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	c, err := domain.UnmarshalCart(data)
	if err != nil {
		slog.Warn("malformed cart slot, using empty cart",
			"op", op, "key", s.key, "err", err,
		)
		return domain.Cart{}, nil
	}
	return c, nil
}

func (s CartStore) Write(ctx context.Context, c domain.Cart) error {
	const op = "CartStore.Write"

	data, err := domain.MarshalCart(c)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.slots.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s CartStore) Add(ctx context.Context, productID int64, qty int) (bool, error) {
	const op = "CartStore.Add"

	c, err := s.load(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if _, ok := c.Line(productID); !ok {
		if _, ok := s.catalog.FindByID(productID); !ok {
			slog.Debug("add ignored",
				"op", op, "productID", productID, "err", domain.ErrUnknownProduct,
			)
			return false, nil
		}
	}

	c = c.WithAdded(productID, qty)
	if err := s.Write(ctx, c); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	line, _ := c.Line(productID)
	s.notify(ctx, domain.CartItemAdded, productID, line.Qty, c)
	return true, nil
}

func (s CartStore) SetQuantity(ctx context.Context, productID int64, qty int) error {
	const op = "CartStore.SetQuantity"

	c, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c, ok := c.WithQuantity(productID, qty)
	if !ok {
		return nil
	}

	if err := s.Write(ctx, c); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	line, _ := c.Line(productID)
	s.notify(ctx, domain.CartQuantitySet, productID, line.Qty, c)
	return nil
}

func (s CartStore) Remove(ctx context.Context, productID int64) error {
	const op = "CartStore.Remove"

	c, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c, removed := c.Without(productID)

	if err := s.Write(ctx, c); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if removed {
		s.notify(ctx, domain.CartItemRemoved, productID, 0, c)
	}
	return nil
}

func (s CartStore) Clear(ctx context.Context) error {
	const op = "CartStore.Clear"

	if err := s.slots.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.notify(ctx, domain.CartCleared, 0, 0, domain.Cart{})
	return nil
}

func (s CartStore) ItemCount(ctx context.Context) int {
	return s.Read(ctx).ItemCount()
}

func (s CartStore) notify(
	ctx context.Context,
	kind domain.CartEventKind,
	productID int64,
	qty int,
	c domain.Cart,
) {
	if len(s.sinks) == 0 {
		return
	}

	evt := domain.CartEvent{
		SessionID: s.sessionID,
		Kind:      kind,
		ProductID: productID,
		Qty:       qty,
		ItemCount: c.ItemCount(),
		At:        s.now(),
	}
	for _, sink := range s.sinks {
		sink.CartChanged(ctx, evt)
	}
}
