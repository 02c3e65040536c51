package httphandler

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/niksmo/storefront/internal/adapter/metrics"
	"github.com/niksmo/storefront/internal/adapter/view"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

const addedNotice = "Added to cart!"

type PageRenderer interface {
	Render(w io.Writer, p view.Page) error
}

// PagesHandler serves the four HTML views and the form actions that
// mutate the cart. Mutations redirect back so a reload never repeats them.
type PagesHandler struct {
	store    port.Storefront
	pages    view.Pages
	renderer PageRenderer
	now      func() time.Time
}

func RegisterPages(
	r chi.Router, store port.Storefront, pages view.Pages, renderer PageRenderer,
) {
	h := PagesHandler{store, pages, renderer, time.Now}
	r.Get("/", h.Listing)
	r.Get("/product", h.Detail)
	r.Get("/cart", h.Cart)
	r.Get("/checkout", h.Checkout)
	r.Post("/cart/add", h.AddToCart)
	r.Post("/cart/update", h.UpdateQuantity)
	r.Post("/cart/remove", h.RemoveFromCart)
	r.Post("/checkout", h.SubmitCheckout)
}

func (h PagesHandler) Listing(w http.ResponseWriter, r *http.Request) {
	const op = "PagesHandler.Listing"
	log := slog.With("op", op)

	nav := h.nav(w, r, h.cart(r))
	h.render(w, http.StatusOK, h.pages.Listing(h.store.Catalog(), nav), log)
}

func (h PagesHandler) Detail(w http.ResponseWriter, r *http.Request) {
	const op = "PagesHandler.Detail"
	log := slog.With("op", op)

	q := r.URL.Query()
	nav := h.nav(w, r, h.cart(r))
	page := h.pages.Detail(h.store.Catalog(), q.Get("id"), q.Get("img"), nav)
	h.render(w, http.StatusOK, page, log)
}

func (h PagesHandler) Cart(w http.ResponseWriter, r *http.Request) {
	const op = "PagesHandler.Cart"
	log := slog.With("op", op)

	cart := h.cart(r)
	nav := h.nav(w, r, cart)
	page := h.pages.CartView(h.store.Catalog(), cart.Read(r.Context()), nav)
	h.render(w, http.StatusOK, page, log)
}

func (h PagesHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	const op = "PagesHandler.Checkout"
	log := slog.With("op", op)

	nav := h.nav(w, r, h.cart(r))
	page := h.pages.Checkout(
		h.store.CheckoutForm(), nil, port.CheckoutResult{}, nav,
	)
	h.render(w, http.StatusOK, page, log)
}

func (h PagesHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	const op = "PagesHandler.AddToCart"
	log := slog.With("op", op)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	back := safeReturn(r.PostForm.Get("return"), "/")
	id, ok := view.ParseID(r.PostForm.Get("id"))
	if !ok {
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	qty := domain.ParseQuantity(r.PostForm.Get("qty"))
	added, err := h.cart(r).Add(r.Context(), id, qty)
	if err != nil {
		log.Error("failed to add to cart", "err", err)
		http.Error(w, "cart unavailable", http.StatusServiceUnavailable)
		return
	}

	if added {
		setFlash(w, addedNotice)
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (h PagesHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	const op = "PagesHandler.UpdateQuantity"
	log := slog.With("op", op)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	if id, ok := view.ParseID(r.PostForm.Get("id")); ok {
		qty := domain.ParseQuantity(r.PostForm.Get("qty"))
		if err := h.cart(r).SetQuantity(r.Context(), id, qty); err != nil {
			log.Error("failed to set quantity", "err", err)
			http.Error(w, "cart unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (h PagesHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	const op = "PagesHandler.RemoveFromCart"
	log := slog.With("op", op)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	if id, ok := view.ParseID(r.PostForm.Get("id")); ok {
		if err := h.cart(r).Remove(r.Context(), id); err != nil {
			log.Error("failed to remove from cart", "err", err)
			http.Error(w, "cart unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// SubmitCheckout re-renders the form with field errors and status 422 on
// rejection, and the confirmation otherwise.
func (h PagesHandler) SubmitCheckout(w http.ResponseWriter, r *http.Request) {
	const op = "PagesHandler.SubmitCheckout"
	log := slog.With("op", op)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	form := h.store.CheckoutForm()
	values := make(map[string]string, len(form.Fields))
	for _, f := range form.Fields {
		values[f.Name] = r.PostForm.Get(f.Name)
	}

	res, err := h.store.Checkout(r.Context(), SessionID(r.Context()), values)
	if err != nil {
		log.Error("failed to checkout", "err", err)
		http.Error(w, "checkout unavailable", http.StatusServiceUnavailable)
		return
	}
	metrics.CheckoutSubmitted(res.Completed)

	status := http.StatusOK
	if !res.Completed {
		status = http.StatusUnprocessableEntity
	}

	nav := h.nav(w, r, h.cart(r))
	h.render(w, status, h.pages.Checkout(form, values, res, nav), log)
}

func (h PagesHandler) cart(r *http.Request) port.CartStore {
	return h.store.Cart(SessionID(r.Context()))
}

func (h PagesHandler) nav(
	w http.ResponseWriter, r *http.Request, cart port.CartStore,
) view.Nav {
	return view.Nav{
		ItemCount: cart.ItemCount(r.Context()),
		Flash:     popFlash(w, r),
		Year:      h.now().Year(),
	}
}

func (h PagesHandler) render(
	w http.ResponseWriter, status int, p view.Page, log *slog.Logger,
) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, p); err != nil {
		log.Error("failed to render page", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

// safeReturn keeps redirects on this site.
func safeReturn(raw, fallback string) string {
	if !strings.HasPrefix(raw, "/") ||
		strings.HasPrefix(raw, "//") ||
		strings.HasPrefix(raw, "/\\") {
		return fallback
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return raw
}
