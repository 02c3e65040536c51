package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type storedLine struct {
	ID  *int64 `json:"id"`
	Qty *int   `json:"qty"`
}

// MarshalCart encodes the cart as a JSON array of {"id","qty"} objects.
func MarshalCart(c Cart) ([]byte, error) {
	const op = "MarshalCart"

	type line struct {
		ID  int64 `json:"id"`
		Qty int   `json:"qty"`
	}

	out := make([]line, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, line{l.ID, l.Qty})
	}

	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

// UnmarshalCart decodes a stored cart. Any payload that is not an array of
// objects with integer "id" and positive integer "qty", unique by id,
// is reported as [ErrStorageRead].
func UnmarshalCart(data []byte) (Cart, error) {
	const op = "UnmarshalCart"

	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return Cart{}, fmt.Errorf("%s: not an array: %w", op, ErrStorageRead)
	}

	var stored []storedLine
	if err := json.Unmarshal(data, &stored); err != nil {
		return Cart{}, fmt.Errorf("%s: %w: %w", op, ErrStorageRead, err)
	}

	lines := make([]CartLine, 0, len(stored))
	for i, s := range stored {
		if s.ID == nil || s.Qty == nil {
			return Cart{}, fmt.Errorf(
				"%s: line %d misses id or qty: %w", op, i, ErrStorageRead,
			)
		}
		lines = append(lines, CartLine{ID: *s.ID, Qty: *s.Qty})
	}

	c, err := NewCart(lines...)
	if err != nil {
		return Cart{}, fmt.Errorf("%s: %w: %w", op, ErrStorageRead, err)
	}
	return c, nil
}
