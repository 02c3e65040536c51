package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.CartSlots = (*MemorySlots)(nil)

// MemorySlots keeps slots in process memory. Safe for concurrent use.
type MemorySlots struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewMemorySlots() *MemorySlots {
	return &MemorySlots{slots: make(map[string][]byte)}
}

func (s *MemorySlots) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "MemorySlots.Get"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.slots[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, port.ErrSlotNotFound)
	}
	return slices.Clone(v), nil
}

func (s *MemorySlots) Put(ctx context.Context, key string, value []byte) error {
	const op = "MemorySlots.Put"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots[key] = slices.Clone(value)
	return nil
}

func (s *MemorySlots) Delete(ctx context.Context, key string) error {
	const op = "MemorySlots.Delete"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.slots, key)
	return nil
}
