// Package view builds page models from catalog and cart state and renders
// them as HTML. Builders are pure: the same input always yields the same page.
package view

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

// Nav is the state shared by every page header and footer.
type Nav struct {
	ItemCount int
	Flash     string
	Year      int
}

type (
	ListingPage struct {
		Nav
		Products []ProductCard
	}

	ProductCard struct {
		ID    int64
		Name  string
		Image string
		Price string
		Href  string
	}
)

type (
	DetailPage struct {
		Nav
		ID          int64
		Name        string
		Description string
		Price       string
		MainImage   string
		Thumbs      []Thumb
		Qty         int
		Return      string
	}

	Thumb struct {
		Index  int
		Src    string
		Alt    string
		Href   string
		Active bool
	}
)

type (
	CartPage struct {
		Nav
		Empty       bool
		Rows        []CartRow
		Total       string
		TotalAmount float64
	}

	CartRow struct {
		ID             int64
		Name           string
		Image          string
		UnitPrice      string
		Qty            int
		Subtotal       string
		SubtotalAmount float64
	}
)

type (
	CheckoutPage struct {
		Nav
		Fields    []FormField
		Completed bool
	}

	FormField struct {
		Name     string
		Label    string
		Kind     string
		Required bool
		Value    string
		Error    string
	}
)

// Formatter renders money amounts.
type Formatter interface {
	Format(amount float64) string
}

type Pages struct {
	money Formatter
}

func NewPages(money Formatter) Pages {
	return Pages{money}
}

// ProductHref is the address of the detail view of a product.
func ProductHref(id int64) string {
	return "/product?id=" + strconv.FormatInt(id, 10)
}

// Listing shows every product in catalog order.
func (p Pages) Listing(c domain.Catalog, nav Nav) ListingPage {
	products := c.Products()
	page := ListingPage{
		Nav:      nav,
		Products: make([]ProductCard, 0, len(products)),
	}
	for _, product := range products {
		page.Products = append(page.Products, ProductCard{
			ID:    product.ID,
			Name:  product.Name,
			Image: product.PrimaryImage(),
			Price: p.money.Format(product.Price),
			Href:  ProductHref(product.ID),
		})
	}
	return page
}

// Detail resolves rawID against the catalog, falling back to the first
// product, and selects the main image by rawImage (the first by default).
func (p Pages) Detail(c domain.Catalog, rawID, rawImage string, nav Nav) DetailPage {
	id, _ := ParseID(rawID)
	product, _ := c.Resolve(id)

	selected, err := strconv.Atoi(strings.TrimSpace(rawImage))
	if err != nil || selected < 0 || selected >= len(product.Images) {
		selected = 0
	}

	page := DetailPage{
		Nav:         nav,
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       p.money.Format(product.Price),
		MainImage:   product.Images[selected],
		Qty:         1,
		Return:      ProductHref(product.ID),
	}

	page.Thumbs = make([]Thumb, 0, len(product.Images))
	for i, src := range product.Images {
		q := url.Values{}
		q.Set("id", strconv.FormatInt(product.ID, 10))
		q.Set("img", strconv.Itoa(i))
		page.Thumbs = append(page.Thumbs, Thumb{
			Index:  i,
			Src:    src,
			Alt:    fmt.Sprintf("%s thumbnail %d", product.Name, i+1),
			Href:   "/product?" + q.Encode(),
			Active: i == selected,
		})
	}
	return page
}

// CartView lists resolvable cart lines with live subtotals. Lines whose
// product is not in the catalog are skipped and excluded from the total.
func (p Pages) CartView(c domain.Catalog, cart domain.Cart, nav Nav) CartPage {
	page := CartPage{Nav: nav, Empty: cart.IsEmpty()}

	for _, line := range cart.Lines() {
		product, ok := c.FindByID(line.ID)
		if !ok {
			continue
		}
		subtotal := product.Price * float64(line.Qty)
		page.TotalAmount += subtotal
		page.Rows = append(page.Rows, CartRow{
			ID:             product.ID,
			Name:           product.Name,
			Image:          product.PrimaryImage(),
			UnitPrice:      p.money.Format(product.Price),
			Qty:            line.Qty,
			Subtotal:       p.money.Format(subtotal),
			SubtotalAmount: subtotal,
		})
	}

	page.Total = p.money.Format(page.TotalAmount)
	return page
}

// Checkout shows the form with submitted values and per-field errors, or
// the confirmation when res is completed.
func (p Pages) Checkout(
	form domain.CheckoutForm,
	values map[string]string,
	res port.CheckoutResult,
	nav Nav,
) CheckoutPage {
	page := CheckoutPage{
		Nav:       nav,
		Completed: res.Completed,
		Fields:    make([]FormField, 0, len(form.Fields)),
	}

	for _, spec := range form.Fields {
		f := FormField{
			Name:     spec.Name,
			Label:    spec.Label,
			Kind:     string(spec.Kind),
			Required: spec.Required,
		}
		if !res.Completed {
			f.Value = values[spec.Name]
		}
		if fieldErr, ok := res.Validation.For(spec.Name); ok {
			f.Error = fieldErr.Message()
		}
		page.Fields = append(page.Fields, f)
	}
	return page
}

// ParseID reads a product id from an address parameter. Besides plain
// integers it accepts any numeric literal with an integral value, such as
// "2.0", "2e0" or "0x2". Digit separators are rejected.
func ParseID(raw string) (int64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.Contains(s, "_") {
		return 0, false
	}

	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, true
	}

	if len(s) > 2 && s[0] == '0' {
		if base, ok := radixPrefixes[s[1]]; ok {
			id, err := strconv.ParseInt(s[2:], base, 64)
			return id, err == nil
		}
	}

	if strings.ContainsAny(s, "xXpP") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

var radixPrefixes = map[byte]int{
	'x': 16, 'X': 16,
	'o': 8, 'O': 8,
	'b': 2, 'B': 2,
}
