package kafka

import (
	"context"
	"log/slog"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/sony/gobreaker/v2"
	"github.com/twmb/franz-go/pkg/kgo"
)

const defaultProduceTimeout = 2 * time.Second

var (
	_ port.CartEventsProducer = (*CartEventsProducer)(nil)
	_ port.CartEventSink      = (*CartEventsProducer)(nil)
)

// A CartEventsProducer publishes [domain.CartEvent] keyed by session id,
// so events of one visitor keep their order within a partition.
//
// Produce calls go through a circuit breaker: while the broker is failing
// events are dropped without waiting on it.
type CartEventsProducer struct {
	cl       ProducerClient
	encoder  Encoder
	breaker  *gobreaker.CircuitBreaker[struct{}]
	timeout  time.Duration
	opPrefix string
}

func NewCartEventsProducer(opts ...ProducerOpt) (CartEventsProducer, error) {
	const op = "NewCartEventsProducer"

	options := producerOpts{
		settings: defaultBreakerSettings(),
		timeout:  defaultProduceTimeout,
	}
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return CartEventsProducer{}, opErr(err, op)
		}
	}

	if options.cl == nil || options.encoder == nil {
		return CartEventsProducer{}, opErr(ErrTooFewOpts, op)
	}

	if options.settings.Name == "" {
		options.settings.Name = "cart-events"
	}

	return CartEventsProducer{
		cl:       options.cl,
		encoder:  options.encoder,
		breaker:  gobreaker.NewCircuitBreaker[struct{}](options.settings),
		timeout:  options.timeout,
		opPrefix: "CartEventsProducer",
	}, nil
}

func defaultBreakerSettings() gobreaker.Settings {
	return gobreaker.Settings{
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("breaker state changed",
				"op", "CartEventsProducer.breaker",
				"name", name, "from", from.String(), "to", to.String(),
			)
		},
	}
}

func (p CartEventsProducer) Close() {
	const op = "Close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p CartEventsProducer) ProduceCartEvent(
	ctx context.Context, evt domain.CartEvent,
) error {
	const op = "ProduceCartEvent"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	r, err := p.createRecord(evt)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	_, err = p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.cl.ProduceSync(ctx, r).FirstErr()
	})
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

// CartChanged publishes evt and logs failures. A cart mutation is already
// persisted when this runs and is never rolled back.
func (p CartEventsProducer) CartChanged(
	ctx context.Context, evt domain.CartEvent,
) {
	const op = "CartChanged"
	log := slog.With("op", makeOp(p.opPrefix, op))

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.ProduceCartEvent(ctx, evt); err != nil {
		log.Warn("cart event dropped", "kind", evt.Kind, "err", err)
	}
}

func (p CartEventsProducer) createRecord(
	evt domain.CartEvent,
) (*kgo.Record, error) {
	const op = "createRecord"

	b, err := p.encoder.Encode(cartEventToSchemaV1(evt))
	if err != nil {
		return nil, opErr(err, p.opPrefix, op)
	}
	return &kgo.Record{Key: []byte(evt.SessionID), Value: b}, nil
}
