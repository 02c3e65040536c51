package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templatesFS embed.FS

// A Page is a model the Renderer knows how to render.
type Page interface {
	templateName() string
}

func (ListingPage) templateName() string  { return "listing" }
func (DetailPage) templateName() string   { return "detail" }
func (CartPage) templateName() string     { return "cart" }
func (CheckoutPage) templateName() string { return "checkout" }

type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer() (Renderer, error) {
	const op = "view.NewRenderer"

	r := Renderer{templates: make(map[string]*template.Template)}
	for _, name := range []string{"listing", "detail", "cart", "checkout"} {
		t, err := template.New(name).ParseFS(
			templatesFS, "templates/layout.html", "templates/"+name+".html",
		)
		if err != nil {
			return Renderer{}, fmt.Errorf("%s: %w", op, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

// Render executes the page template into w. Output is buffered so a failed
// execution never writes a partial page.
func (r Renderer) Render(w io.Writer, p Page) error {
	const op = "Renderer.Render"

	t, ok := r.templates[p.templateName()]
	if !ok {
		return fmt.Errorf("%s: no template %q", op, p.templateName())
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
