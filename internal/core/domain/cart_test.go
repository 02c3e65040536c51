package domain_test

import (
	"testing"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCart(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		c, err := domain.NewCart(
			domain.CartLine{ID: 2, Qty: 1},
			domain.CartLine{ID: 1, Qty: 4},
		)
		require.NoError(t, err)
		assert.Equal(t, []domain.CartLine{{ID: 2, Qty: 1}, {ID: 1, Qty: 4}}, c.Lines())
		assert.Equal(t, 5, c.ItemCount())
	})

	t.Run("ZeroQuantity", func(t *testing.T) {
		_, err := domain.NewCart(domain.CartLine{ID: 1, Qty: 0})
		assert.ErrorIs(t, err, domain.ErrInvalidCart)
	})

	t.Run("DuplicateID", func(t *testing.T) {
		_, err := domain.NewCart(
			domain.CartLine{ID: 1, Qty: 1},
			domain.CartLine{ID: 1, Qty: 2},
		)
		assert.ErrorIs(t, err, domain.ErrInvalidCart)
	})
}

func TestCartWithAdded(t *testing.T) {
	var c domain.Cart
	c = c.WithAdded(1, 2)
	c = c.WithAdded(1, 3)
	c = c.WithAdded(7, 1)

	assert.Equal(t, []domain.CartLine{{ID: 1, Qty: 5}, {ID: 7, Qty: 1}}, c.Lines())

	t.Run("NonPositiveQtyCountsAsOne", func(t *testing.T) {
		got := c.WithAdded(7, 0)
		line, ok := got.Line(7)
		require.True(t, ok)
		assert.Equal(t, 2, line.Qty)
	})

	t.Run("Saturates", func(t *testing.T) {
		got := c.WithAdded(1, domain.MaxQuantity)
		line, _ := got.Line(1)
		assert.Equal(t, domain.MaxQuantity, line.Qty)
	})

	t.Run("ReceiverUntouched", func(t *testing.T) {
		line, _ := c.Line(1)
		assert.Equal(t, 5, line.Qty)
	})
}

func TestCartWithQuantity(t *testing.T) {
	c, err := domain.NewCart(domain.CartLine{ID: 1, Qty: 3})
	require.NoError(t, err)

	tests := []struct {
		name string
		qty  int
		want int
	}{
		{"Regular", 4, 4},
		{"Zero", 0, 1},
		{"Negative", -5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.WithQuantity(1, tt.qty)
			require.True(t, ok)
			line, ok := got.Line(1)
			require.True(t, ok)
			assert.Equal(t, tt.want, line.Qty)
		})
	}

	t.Run("MissingLine", func(t *testing.T) {
		got, ok := c.WithQuantity(9, 2)
		assert.False(t, ok)
		assert.Equal(t, c.Lines(), got.Lines())
	})
}

func TestCartWithout(t *testing.T) {
	c, err := domain.NewCart(
		domain.CartLine{ID: 1, Qty: 1},
		domain.CartLine{ID: 2, Qty: 2},
		domain.CartLine{ID: 3, Qty: 3},
	)
	require.NoError(t, err)

	got, ok := c.Without(2)
	require.True(t, ok)
	assert.Equal(t, []domain.CartLine{{ID: 1, Qty: 1}, {ID: 3, Qty: 3}}, got.Lines())
	assert.Equal(t, 3, c.Len())

	_, ok = got.Without(2)
	assert.False(t, ok)
}

func TestClampQuantity(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{2.7, 2},
		{1, 1},
		{0.9, 1},
		{0, 1},
		{-5, 1},
		{1e12, domain.MaxQuantity},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.ClampQuantity(tt.in), "input %v", tt.in)
	}
}

func TestParseQuantity(t *testing.T) {
	tests := map[string]int{
		"":      1,
		"  ":    1,
		"abc":   1,
		"3":     3,
		" 4 ":   4,
		"2.7":   2,
		"0":     1,
		"-3":    1,
		"NaN":   1,
		"1e100": domain.MaxQuantity,
	}
	for in, want := range tests {
		assert.Equal(t, want, domain.ParseQuantity(in), "input %q", in)
	}
}

func TestCartCodec(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		c, err := domain.NewCart(
			domain.CartLine{ID: 3, Qty: 2},
			domain.CartLine{ID: 1, Qty: 1},
		)
		require.NoError(t, err)

		b, err := domain.MarshalCart(c)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":3,"qty":2},{"id":1,"qty":1}]`, string(b))

		got, err := domain.UnmarshalCart(b)
		require.NoError(t, err)
		assert.Equal(t, c.Lines(), got.Lines())
	})

	t.Run("EmptyCartIsEmptyArray", func(t *testing.T) {
		b, err := domain.MarshalCart(domain.Cart{})
		require.NoError(t, err)
		assert.Equal(t, "[]", string(b))
	})

	malformed := map[string]string{
		"Empty":        ``,
		"NotJSON":      `{{{`,
		"Object":       `{"id":1,"qty":1}`,
		"Null":         `null`,
		"NumberItems":  `[1,2]`,
		"NullItem":     `[null]`,
		"MissingQty":   `[{"id":1}]`,
		"FractionalID": `[{"id":1.5,"qty":1}]`,
		"StringQty":    `[{"id":1,"qty":"2"}]`,
		"ZeroQty":      `[{"id":1,"qty":0}]`,
		"Duplicate":    `[{"id":1,"qty":1},{"id":1,"qty":2}]`,
		"Truncated":    `[{"id":1,"qty":1}`,
	}
	for name, payload := range malformed {
		t.Run(name, func(t *testing.T) {
			_, err := domain.UnmarshalCart([]byte(payload))
			assert.ErrorIs(t, err, domain.ErrStorageRead)
		})
	}
}
