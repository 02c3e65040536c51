package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.Storefront = (*Service)(nil)

const defaultKeyPrefix = "cart:"

type Service struct {
	catalog   domain.Catalog
	form      domain.CheckoutForm
	slots     port.CartSlots
	keyPrefix string
	sinks     []port.CartEventSink
	now       func() time.Time
}

type Opt func(*Service)

// KeyPrefixOpt sets the prefix of slot keys, "cart:" by default.
func KeyPrefixOpt(prefix string) Opt {
	return func(s *Service) {
		s.keyPrefix = prefix
	}
}

func CheckoutFormOpt(form domain.CheckoutForm) Opt {
	return func(s *Service) {
		s.form = form
	}
}

// SinksOpt registers sinks notified after every persisted cart mutation.
func SinksOpt(sinks ...port.CartEventSink) Opt {
	return func(s *Service) {
		s.sinks = append(s.sinks, sinks...)
	}
}

func ClockOpt(now func() time.Time) Opt {
	return func(s *Service) {
		s.now = now
	}
}

func New(catalog domain.Catalog, slots port.CartSlots, opts ...Opt) Service {
	s := Service{
		catalog:   catalog,
		form:      domain.DefaultCheckoutForm(),
		slots:     slots,
		keyPrefix: defaultKeyPrefix,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func (s Service) Catalog() domain.Catalog {
	return s.catalog
}

func (s Service) CheckoutForm() domain.CheckoutForm {
	return s.form
}

func (s Service) Cart(sessionID string) port.CartStore {
	return CartStore{
		sessionID: sessionID,
		key:       s.keyPrefix + sessionID,
		slots:     s.slots,
		catalog:   s.catalog,
		sinks:     s.sinks,
		now:       s.now,
	}
}

// Checkout validates the submitted values and, when all fields pass, clears
// the session cart. Nothing is sent anywhere.
func (s Service) Checkout(
	ctx context.Context, sessionID string, values map[string]string,
) (port.CheckoutResult, error) {
	const op = "Service.Checkout"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return port.CheckoutResult{}, fmt.Errorf("%s: %w", op, err)
	}

	v := s.form.Validate(values)
	if !v.OK() {
		log.Debug("checkout rejected", "nErrors", len(v.Errors))
		return port.CheckoutResult{Validation: v}, nil
	}

	if err := s.Cart(sessionID).Clear(ctx); err != nil {
		return port.CheckoutResult{Validation: v}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("checkout completed")
	return port.CheckoutResult{Validation: v, Completed: true}, nil
}
