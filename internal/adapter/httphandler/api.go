package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/niksmo/storefront/internal/adapter/metrics"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

// APIHandler exposes the catalog, the session cart and checkout as JSON.
type APIHandler struct {
	store port.Storefront
}

func RegisterAPI(r chi.Router, store port.Storefront) {
	h := APIHandler{store}
	r.Get("/products", h.ListProducts)
	r.Get("/products/{id}", h.GetProduct)
	r.Get("/cart", h.GetCart)
	r.Post("/cart/items", h.AddItem)
	r.Put("/cart/items/{id}", h.SetQuantity)
	r.Delete("/cart/items/{id}", h.RemoveItem)
	r.Post("/checkout", h.Checkout)
}

func (h APIHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ps := h.store.Catalog().Products()
	out := make([]Product, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProduct(p))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h APIHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, ok := h.store.Catalog().FindByID(id)
	if !ok {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	respondJSON(w, http.StatusOK, toProduct(p))
}

func (h APIHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart := h.cart(r).Read(r.Context())
	respondJSON(w, http.StatusOK, h.toCart(cart))
}

func (h APIHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	const op = "APIHandler.AddItem"
	log := slog.With("op", op)

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	qty := 1
	if req.Qty != nil {
		qty = domain.ClampQuantity(*req.Qty)
	}

	store := h.cart(r)
	added, err := store.Add(r.Context(), req.ID, qty)
	if err != nil {
		log.Error("failed to add to cart", "err", err)
		respondError(w, http.StatusServiceUnavailable, "cart unavailable")
		return
	}

	respondJSON(w, http.StatusOK, AddItemResponse{
		Added: added,
		Cart:  h.toCart(store.Read(r.Context())),
	})
}

func (h APIHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	const op = "APIHandler.SetQuantity"
	log := slog.With("op", op)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	store := h.cart(r)
	err = store.SetQuantity(r.Context(), id, domain.ClampQuantity(req.Qty))
	if err != nil {
		log.Error("failed to set quantity", "err", err)
		respondError(w, http.StatusServiceUnavailable, "cart unavailable")
		return
	}
	respondJSON(w, http.StatusOK, h.toCart(store.Read(r.Context())))
}

func (h APIHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	const op = "APIHandler.RemoveItem"
	log := slog.With("op", op)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	store := h.cart(r)
	if err := store.Remove(r.Context(), id); err != nil {
		log.Error("failed to remove from cart", "err", err)
		respondError(w, http.StatusServiceUnavailable, "cart unavailable")
		return
	}
	respondJSON(w, http.StatusOK, h.toCart(store.Read(r.Context())))
}

func (h APIHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	const op = "APIHandler.Checkout"
	log := slog.With("op", op)

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res, err := h.store.Checkout(r.Context(), SessionID(r.Context()), req.Fields)
	if err != nil {
		log.Error("failed to checkout", "err", err)
		respondError(w, http.StatusServiceUnavailable, "checkout unavailable")
		return
	}
	metrics.CheckoutSubmitted(res.Completed)

	if !res.Completed {
		out := CheckoutResponse{}
		for _, fe := range res.Validation.Errors {
			out.Errors = append(out.Errors, FieldError{
				Field:   fe.Field,
				Message: fe.Message(),
			})
		}
		respondJSON(w, http.StatusUnprocessableEntity, out)
		return
	}
	respondJSON(w, http.StatusOK, CheckoutResponse{Completed: true})
}

func (h APIHandler) cart(r *http.Request) port.CartStore {
	return h.store.Cart(SessionID(r.Context()))
}

// toCart skips lines whose product left the catalog, like the cart page.
func (h APIHandler) toCart(c domain.Cart) Cart {
	catalog := h.store.Catalog()
	out := Cart{Lines: []CartLine{}, ItemCount: c.ItemCount()}
	for _, l := range c.Lines() {
		p, ok := catalog.FindByID(l.ID)
		if !ok {
			continue
		}
		subtotal := p.Price * float64(l.Qty)
		out.Lines = append(out.Lines, CartLine{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Qty:      l.Qty,
			Subtotal: subtotal,
		})
		out.Total += subtotal
	}
	return out
}

func toProduct(p domain.Product) Product {
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Images:      p.Images,
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "err", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, ErrorResponse{Error: msg})
}
