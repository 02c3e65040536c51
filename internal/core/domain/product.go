package domain

import (
	"fmt"
	"slices"
)

type Product struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	Images      []string
}

// PrimaryImage returns the first image reference of the product.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// A Catalog is the read-only, ordered list of purchasable products.
//
// The zero value is an empty catalog. Use [NewCatalog] to build one.
type Catalog struct {
	products []Product
	index    map[int64]int
}

// NewCatalog validates products and returns a catalog keeping their order.
//
// Product ids must be unique, prices non-negative and every product must
// carry at least one image.
func NewCatalog(products []Product) (Catalog, error) {
	const op = "NewCatalog"

	c := Catalog{
		products: make([]Product, 0, len(products)),
		index:    make(map[int64]int, len(products)),
	}

	for _, p := range products {
		if _, ok := c.index[p.ID]; ok {
			return Catalog{}, fmt.Errorf(
				"%s: duplicate product id %d: %w", op, p.ID, ErrInvalidCatalog,
			)
		}
		if p.Price < 0 {
			return Catalog{}, fmt.Errorf(
				"%s: product %d has negative price: %w", op, p.ID, ErrInvalidCatalog,
			)
		}
		if len(p.Images) == 0 {
			return Catalog{}, fmt.Errorf(
				"%s: product %d has no images: %w", op, p.ID, ErrInvalidCatalog,
			)
		}
		p.Images = slices.Clone(p.Images)
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}

	return c, nil
}

// Products returns a copy of the catalog in catalog order.
func (c Catalog) Products() []Product {
	return slices.Clone(c.products)
}

func (c Catalog) Len() int {
	return len(c.products)
}

func (c Catalog) FindByID(id int64) (Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// Resolve returns the product with the given id or the first product of the
// catalog when the id is unknown. The second value reports whether the id
// was found.
//
// Resolve panics on an empty catalog.
func (c Catalog) Resolve(id int64) (Product, bool) {
	if p, ok := c.FindByID(id); ok {
		return p, true
	}
	return c.products[0], false
}
