package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/product", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/product", "418"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/product?id=1", nil))

	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/product", "418"))
	assert.Equal(t, before+1, after)
}

func TestCartSink(t *testing.T) {
	c := cartMutations.WithLabelValues(string(domain.CartItemAdded))
	before := testutil.ToFloat64(c)

	CartSink{}.CartChanged(t.Context(), domain.CartEvent{Kind: domain.CartItemAdded})

	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestCheckoutSubmitted(t *testing.T) {
	completed := checkouts.WithLabelValues("completed")
	rejected := checkouts.WithLabelValues("rejected")
	c0, r0 := testutil.ToFloat64(completed), testutil.ToFloat64(rejected)

	CheckoutSubmitted(false)
	CheckoutSubmitted(true)
	CheckoutSubmitted(false)

	assert.Equal(t, c0+1, testutil.ToFloat64(completed))
	assert.Equal(t, r0+2, testutil.ToFloat64(rejected))
}
