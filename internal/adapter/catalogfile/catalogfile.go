// Package catalogfile loads the product catalog from YAML.
package catalogfile

import (
	"bytes"
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"github.com/niksmo/storefront/internal/core/domain"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type (
	file struct {
		Products []product `yaml:"products"`
	}

	product struct {
		ID          int64    `yaml:"id"`
		Name        string   `yaml:"name"`
		Description string   `yaml:"description"`
		Price       float64  `yaml:"price"`
		Images      []string `yaml:"images"`
	}
)

// Load reads the catalog at path, or the built-in catalog when path is empty.
func Load(path string) (domain.Catalog, error) {
	const op = "catalogfile.Load"
	log := slog.With("op", op)

	if path == "" {
		log.Info("using built-in catalog")
		return Parse(defaultCatalog)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("%s: %w", op, err)
	}

	c, err := Parse(data)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("catalog loaded", "path", path, "nProducts", c.Len())
	return c, nil
}

// Parse decodes a YAML document with a top level "products" list.
// Unknown keys are rejected.
func Parse(data []byte) (domain.Catalog, error) {
	const op = "catalogfile.Parse"

	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return domain.Catalog{}, fmt.Errorf("%s: %w", op, err)
	}

	if len(f.Products) == 0 {
		return domain.Catalog{}, fmt.Errorf(
			"%s: no products: %w", op, domain.ErrInvalidCatalog,
		)
	}

	c, err := domain.NewCatalog(toDomain(f.Products))
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func toDomain(ps []product) []domain.Product {
	out := make([]domain.Product, 0, len(ps))
	for _, p := range ps {
		out = append(out, domain.Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Images:      p.Images,
		})
	}
	return out
}
