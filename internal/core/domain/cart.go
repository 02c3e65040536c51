package domain

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// MaxQuantity caps a single line quantity.
const MaxQuantity = math.MaxInt32

type CartLine struct {
	ID  int64
	Qty int
}

// A Cart is an ordered list of lines, at most one per product id.
//
// Cart values are immutable: transitions return a new Cart.
// The zero value is an empty cart.
type Cart struct {
	lines []CartLine
}

// NewCart builds a cart from lines, keeping their order.
// Every quantity must be at least 1 and ids must be unique.
func NewCart(lines ...CartLine) (Cart, error) {
	const op = "NewCart"

	seen := make(map[int64]struct{}, len(lines))
	for _, l := range lines {
		if l.Qty < 1 {
			return Cart{}, fmt.Errorf(
				"%s: line %d has quantity %d: %w", op, l.ID, l.Qty, ErrInvalidCart,
			)
		}
		if _, ok := seen[l.ID]; ok {
			return Cart{}, fmt.Errorf(
				"%s: duplicate line %d: %w", op, l.ID, ErrInvalidCart,
			)
		}
		seen[l.ID] = struct{}{}
	}
	return Cart{lines: slices.Clone(lines)}, nil
}

func (c Cart) Lines() []CartLine {
	return slices.Clone(c.lines)
}

func (c Cart) Len() int {
	return len(c.lines)
}

func (c Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// ItemCount is the sum of all line quantities, orphaned lines included.
func (c Cart) ItemCount() int {
	var n int
	for _, l := range c.lines {
		n += l.Qty
	}
	return n
}

func (c Cart) Line(id int64) (CartLine, bool) {
	i := c.indexOf(id)
	if i < 0 {
		return CartLine{}, false
	}
	return c.lines[i], true
}

// WithAdded increments the quantity of the line with the given id, or appends
// a new line when none exists. qty is clamped to [1, MaxQuantity].
func (c Cart) WithAdded(id int64, qty int) Cart {
	qty = clampInt(qty)
	lines := slices.Clone(c.lines)
	if i := c.indexOf(id); i >= 0 {
		lines[i].Qty = clampInt64(int64(lines[i].Qty) + int64(qty))
		return Cart{lines: lines}
	}
	return Cart{lines: append(lines, CartLine{ID: id, Qty: qty})}
}

// WithQuantity sets the quantity of an existing line. The second value is
// false and the cart unchanged when no line matches id.
func (c Cart) WithQuantity(id int64, qty int) (Cart, bool) {
	i := c.indexOf(id)
	if i < 0 {
		return c, false
	}
	lines := slices.Clone(c.lines)
	lines[i].Qty = clampInt(qty)
	return Cart{lines: lines}, true
}

// Without drops the line with the given id. The second value reports whether
// a line was dropped.
func (c Cart) Without(id int64) (Cart, bool) {
	i := c.indexOf(id)
	if i < 0 {
		return c, false
	}
	return Cart{lines: slices.Delete(slices.Clone(c.lines), i, i+1)}, true
}

func (c Cart) indexOf(id int64) int {
	return slices.IndexFunc(c.lines, func(l CartLine) bool {
		return l.ID == id
	})
}

// ClampQuantity truncates v toward zero and bounds it to [1, MaxQuantity].
// NaN yields 1.
func ClampQuantity(v float64) int {
	if math.IsNaN(v) {
		return 1
	}
	v = math.Trunc(v)
	if v < 1 {
		return 1
	}
	if v > MaxQuantity {
		return MaxQuantity
	}
	return int(v)
}

// ParseQuantity reads a user supplied quantity. Blank or non-numeric input
// yields 1, anything else goes through [ClampQuantity].
func ParseQuantity(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 1
	}
	return ClampQuantity(v)
}

func clampInt(v int) int {
	return clampInt64(int64(v))
}

func clampInt64(v int64) int {
	if v < 1 {
		return 1
	}
	if v > MaxQuantity {
		return MaxQuantity
	}
	return int(v)
}
