package view_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/niksmo/storefront/internal/adapter/view"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type plainMoney struct{}

func (plainMoney) Format(v float64) string {
	return fmt.Sprintf("Rs %.2f", v)
}

func testCatalog(t *testing.T) domain.Catalog {
	t.Helper()
	c, err := domain.NewCatalog([]domain.Product{
		{ID: 1, Name: "Mug", Description: "Big", Price: 100, Images: []string{"mug.jpg"}},
		{ID: 2, Name: "Lamp", Price: 250, Images: []string{"lamp1.jpg", "lamp2.jpg"}},
	})
	require.NoError(t, err)
	return c
}

func testCart(t *testing.T, lines ...domain.CartLine) domain.Cart {
	t.Helper()
	c, err := domain.NewCart(lines...)
	require.NoError(t, err)
	return c
}

var nav = view.Nav{ItemCount: 3, Year: 2026}

func TestListing(t *testing.T) {
	pages := view.NewPages(plainMoney{})
	got := pages.Listing(testCatalog(t), nav)

	want := view.ListingPage{
		Nav: nav,
		Products: []view.ProductCard{
			{ID: 1, Name: "Mug", Image: "mug.jpg", Price: "Rs 100.00", Href: "/product?id=1"},
			{ID: 2, Name: "Lamp", Image: "lamp1.jpg", Price: "Rs 250.00", Href: "/product?id=2"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Listing() mismatch (-want +got):\n%s", diff)
	}
}

func TestDetail(t *testing.T) {
	pages := view.NewPages(plainMoney{})
	c := testCatalog(t)

	t.Run("Found", func(t *testing.T) {
		got := pages.Detail(c, "2", "", nav)
		assert.Equal(t, int64(2), got.ID)
		assert.Equal(t, "lamp1.jpg", got.MainImage)
		assert.Equal(t, 1, got.Qty)
		assert.Equal(t, "/product?id=2", got.Return)
		require.Len(t, got.Thumbs, 2)
		assert.True(t, got.Thumbs[0].Active)
		assert.Equal(t, "/product?id=2&img=1", got.Thumbs[1].Href)
		assert.Equal(t, "Lamp thumbnail 2", got.Thumbs[1].Alt)
	})

	t.Run("ThumbnailSelected", func(t *testing.T) {
		got := pages.Detail(c, "2", "1", nav)
		assert.Equal(t, "lamp2.jpg", got.MainImage)
		assert.False(t, got.Thumbs[0].Active)
		assert.True(t, got.Thumbs[1].Active)
	})

	t.Run("ThumbnailOutOfRange", func(t *testing.T) {
		got := pages.Detail(c, "2", "9", nav)
		assert.Equal(t, "lamp1.jpg", got.MainImage)
	})

	fallbacks := map[string]string{
		"Missing":    "",
		"NonNumeric": "abc",
		"Unknown":    "9999",
		"Fraction":   "2.5",
	}
	for name, raw := range fallbacks {
		t.Run("Fallback"+name, func(t *testing.T) {
			got := pages.Detail(c, raw, "", nav)
			assert.Equal(t, int64(1), got.ID)
			assert.Equal(t, "Mug", got.Name)
		})
	}

	for _, raw := range []string{"2.0", "2e0", "0x2", "0b10", " 2 ", "+2"} {
		t.Run("NumericForm"+raw, func(t *testing.T) {
			got := pages.Detail(c, raw, "", nav)
			assert.Equal(t, int64(2), got.ID, raw)
		})
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{"7", 7, true},
		{"-3", -3, true},
		{"1.0", 1, true},
		{"1e3", 1000, true},
		{"0x1F", 31, true},
		{"0o17", 15, true},
		{"0b101", 5, true},
		{"", 0, false},
		{"1.5", 0, false},
		{"abc", 0, false},
		{"1_000", 0, false},
		{"0x1p4", 0, false},
		{"Infinity", 0, false},
		{"NaN", 0, false},
		{"1e30", 0, false},
		{"0x", 0, false},
	}
	for _, tt := range tests {
		id, ok := view.ParseID(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, id, tt.raw)
	}
}

func TestCartView(t *testing.T) {
	pages := view.NewPages(plainMoney{})
	c := testCatalog(t)

	t.Run("Empty", func(t *testing.T) {
		got := pages.CartView(c, domain.Cart{}, nav)
		assert.True(t, got.Empty)
		assert.Empty(t, got.Rows)
		assert.Zero(t, got.TotalAmount)
	})

	t.Run("Total", func(t *testing.T) {
		cart := testCart(t, domain.CartLine{ID: 1, Qty: 2}, domain.CartLine{ID: 2, Qty: 1})
		got := pages.CartView(c, cart, nav)

		assert.False(t, got.Empty)
		assert.Equal(t, 450.0, got.TotalAmount)
		assert.Equal(t, "Rs 450.00", got.Total)
		require.Len(t, got.Rows, 2)
		assert.Equal(t, view.CartRow{
			ID: 1, Name: "Mug", Image: "mug.jpg", UnitPrice: "Rs 100.00",
			Qty: 2, Subtotal: "Rs 200.00", SubtotalAmount: 200,
		}, got.Rows[0])

		cart, ok := cart.WithQuantity(1, 3)
		require.True(t, ok)
		got = pages.CartView(c, cart, nav)
		assert.Equal(t, 650.0, got.TotalAmount)
	})

	t.Run("OrphanSkipped", func(t *testing.T) {
		cart := testCart(t,
			domain.CartLine{ID: 404, Qty: 7},
			domain.CartLine{ID: 2, Qty: 1},
		)
		got := pages.CartView(c, cart, nav)

		assert.False(t, got.Empty)
		require.Len(t, got.Rows, 1)
		assert.Equal(t, int64(2), got.Rows[0].ID)
		assert.Equal(t, 250.0, got.TotalAmount)
	})

	t.Run("OnlyOrphans", func(t *testing.T) {
		got := pages.CartView(c, testCart(t, domain.CartLine{ID: 404, Qty: 1}), nav)
		assert.False(t, got.Empty)
		assert.Empty(t, got.Rows)
		assert.Equal(t, "Rs 0.00", got.Total)
	})
}

func TestCheckout(t *testing.T) {
	pages := view.NewPages(plainMoney{})
	form := domain.DefaultCheckoutForm()
	values := map[string]string{"name": "", "address": "1 Main St", "email": "nope"}

	t.Run("Errors", func(t *testing.T) {
		res := port.CheckoutResult{Validation: form.Validate(values)}
		got := pages.Checkout(form, values, res, nav)

		assert.False(t, got.Completed)
		require.Len(t, got.Fields, len(form.Fields))
		byName := make(map[string]view.FormField)
		for _, f := range got.Fields {
			byName[f.Name] = f
		}
		assert.Equal(t, "This field is required.", byName["name"].Error)
		assert.Equal(t, "Please enter a valid email.", byName["email"].Error)
		assert.Empty(t, byName["address"].Error)
		assert.Equal(t, "1 Main St", byName["address"].Value)
	})

	t.Run("FirstVisit", func(t *testing.T) {
		got := pages.Checkout(form, nil, port.CheckoutResult{}, nav)
		for _, f := range got.Fields {
			assert.Empty(t, f.Error)
			assert.Empty(t, f.Value)
		}
	})

	t.Run("Completed", func(t *testing.T) {
		got := pages.Checkout(form, values, port.CheckoutResult{Completed: true}, nav)
		assert.True(t, got.Completed)
		for _, f := range got.Fields {
			assert.Empty(t, f.Value)
		}
	})
}

func TestRenderer(t *testing.T) {
	r, err := view.NewRenderer()
	require.NoError(t, err)
	pages := view.NewPages(plainMoney{})
	c := testCatalog(t)
	cart := testCart(t, domain.CartLine{ID: 1, Qty: 2}, domain.CartLine{ID: 2, Qty: 1})

	render := func(p view.Page) string {
		var buf bytes.Buffer
		require.NoError(t, r.Render(&buf, p))
		return buf.String()
	}

	t.Run("Idempotent", func(t *testing.T) {
		all := []view.Page{
			pages.Listing(c, nav),
			pages.Detail(c, "2", "1", nav),
			pages.CartView(c, cart, nav),
			pages.Checkout(domain.DefaultCheckoutForm(), nil, port.CheckoutResult{}, nav),
		}
		for _, p := range all {
			assert.Equal(t, render(p), render(p))
		}
	})

	t.Run("Listing", func(t *testing.T) {
		out := render(pages.Listing(c, nav))
		assert.Contains(t, out, `<span id="navCartCount">3</span>`)
		assert.Contains(t, out, `href="/product?id=2"`)
		assert.Less(t, strings.Index(out, "Mug"), strings.Index(out, "Lamp"))
	})

	t.Run("Flash", func(t *testing.T) {
		n := nav
		n.Flash = "Added to cart!"
		assert.Contains(t, render(pages.Listing(c, n)), "Added to cart!")
		assert.NotContains(t, render(pages.Listing(c, nav)), `class="flash"`)
	})

	t.Run("CartStates", func(t *testing.T) {
		out := render(pages.CartView(c, cart, nav))
		assert.Contains(t, out, `<section id="cartEmpty" class="hidden">`)
		assert.Contains(t, out, `<section id="cartContent">`)
		assert.Contains(t, out, "Rs 450.00")

		out = render(pages.CartView(c, domain.Cart{}, nav))
		assert.Contains(t, out, `<section id="cartEmpty">`)
		assert.Contains(t, out, `<section id="cartContent" class="hidden">`)
	})

	t.Run("CheckoutCompleted", func(t *testing.T) {
		p := pages.Checkout(domain.DefaultCheckoutForm(), nil, port.CheckoutResult{Completed: true}, nav)
		out := render(p)
		assert.Contains(t, out, `<p id="orderMessage">`)
		assert.Contains(t, out, `class="hidden"`)
	})

	t.Run("Escapes", func(t *testing.T) {
		evil, err := domain.NewCatalog([]domain.Product{
			{ID: 1, Name: "<script>x</script>", Images: []string{"a.jpg"}},
		})
		require.NoError(t, err)
		out := render(pages.Listing(evil, nav))
		assert.NotContains(t, out, "<script>x</script>")
	})
}
