package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

type MockProducerClient struct {
	mock.Mock
}

func (c *MockProducerClient) ProduceSync(
	ctx context.Context, rs ...*kgo.Record,
) kgo.ProduceResults {
	args := c.Called(ctx, rs)
	var res kgo.ProduceResults
	for _, r := range rs {
		res = append(res, kgo.ProduceResult{Record: r, Err: args.Error(0)})
	}
	return res
}

func (c *MockProducerClient) Close() {
	c.Called()
}

type MockEncoder struct {
	mock.Mock
}

func (e *MockEncoder) Encode(v any) ([]byte, error) {
	args := e.Called(v)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

var testEvent = domain.CartEvent{
	SessionID: "sid-1",
	Kind:      domain.CartItemAdded,
	ProductID: 3,
	Qty:       2,
	ItemCount: 5,
	At:        time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC),
}

func TestNewCartEventsProducer(t *testing.T) {
	t.Run("NoOpts", func(t *testing.T) {
		_, err := NewCartEventsProducer()
		assert.ErrorIs(t, err, ErrTooFewOpts)
	})

	t.Run("NoEncoder", func(t *testing.T) {
		_, err := NewCartEventsProducer(ProducerWithClientOpt(new(MockProducerClient)))
		assert.ErrorIs(t, err, ErrTooFewOpts)
	})

	t.Run("NilArgs", func(t *testing.T) {
		_, err := NewCartEventsProducer(ProducerWithClientOpt(nil))
		assert.Error(t, err)
		_, err = NewCartEventsProducer(ProducerEncoderOpt(nil))
		assert.Error(t, err)
		_, err = NewCartEventsProducer(ProducerTimeoutOpt(0))
		assert.Error(t, err)
	})
}

func TestProduceCartEvent(t *testing.T) {
	t.Run("Regular", func(t *testing.T) {
		cl := new(MockProducerClient)
		enc := new(MockEncoder)

		wantSchema := schema.CartEventV1{
			SessionID:  "sid-1",
			Kind:       "added",
			ProductID:  3,
			Qty:        2,
			ItemCount:  5,
			OccurredAt: testEvent.At,
		}
		enc.On("Encode", wantSchema).Return([]byte("payload"), nil)
		cl.On("ProduceSync", mock.Anything, mock.MatchedBy(func(rs []*kgo.Record) bool {
			return len(rs) == 1 &&
				string(rs[0].Key) == "sid-1" &&
				string(rs[0].Value) == "payload"
		})).Return(nil)

		p, err := NewCartEventsProducer(
			ProducerWithClientOpt(cl), ProducerEncoderOpt(enc),
		)
		require.NoError(t, err)

		require.NoError(t, p.ProduceCartEvent(t.Context(), testEvent))
		cl.AssertExpectations(t)
		enc.AssertExpectations(t)
	})

	t.Run("EncodeError", func(t *testing.T) {
		cl := new(MockProducerClient)
		enc := new(MockEncoder)
		enc.On("Encode", mock.Anything).Return(nil, errors.New("bad value"))

		p, err := NewCartEventsProducer(
			ProducerWithClientOpt(cl), ProducerEncoderOpt(enc),
		)
		require.NoError(t, err)

		err = p.ProduceCartEvent(t.Context(), testEvent)
		assert.ErrorContains(t, err, "bad value")
		cl.AssertNotCalled(t, "ProduceSync", mock.Anything, mock.Anything)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		cl := new(MockProducerClient)
		p, err := NewCartEventsProducer(
			ProducerWithClientOpt(cl), ProducerEncoderOpt(new(MockEncoder)),
		)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		assert.ErrorIs(t, p.ProduceCartEvent(ctx, testEvent), context.Canceled)
	})

	t.Run("BreakerOpens", func(t *testing.T) {
		brokerErr := errors.New("broker unavailable")
		cl := new(MockProducerClient)
		cl.On("ProduceSync", mock.Anything, mock.Anything).Return(brokerErr)
		enc := new(MockEncoder)
		enc.On("Encode", mock.Anything).Return([]byte("payload"), nil)

		p, err := NewCartEventsProducer(
			ProducerWithClientOpt(cl),
			ProducerEncoderOpt(enc),
			ProducerBreakerOpt(gobreaker.Settings{
				Timeout: time.Minute,
				ReadyToTrip: func(c gobreaker.Counts) bool {
					return c.ConsecutiveFailures >= 2
				},
			}),
		)
		require.NoError(t, err)

		assert.ErrorIs(t, p.ProduceCartEvent(t.Context(), testEvent), brokerErr)
		assert.ErrorIs(t, p.ProduceCartEvent(t.Context(), testEvent), brokerErr)
		assert.ErrorIs(t, p.ProduceCartEvent(t.Context(), testEvent), gobreaker.ErrOpenState)
		cl.AssertNumberOfCalls(t, "ProduceSync", 2)
	})
}

func TestCartChanged(t *testing.T) {
	cl := new(MockProducerClient)
	cl.On("ProduceSync", mock.Anything, mock.Anything).Return(errors.New("down"))
	enc := new(MockEncoder)
	enc.On("Encode", mock.Anything).Return([]byte("payload"), nil)

	p, err := NewCartEventsProducer(
		ProducerWithClientOpt(cl), ProducerEncoderOpt(enc),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	assert.NotPanics(t, func() { p.CartChanged(ctx, testEvent) })
	cl.AssertNumberOfCalls(t, "ProduceSync", 1)
}

func TestClose(t *testing.T) {
	cl := new(MockProducerClient)
	cl.On("Close").Return()
	p, err := NewCartEventsProducer(
		ProducerWithClientOpt(cl), ProducerEncoderOpt(new(MockEncoder)),
	)
	require.NoError(t, err)

	p.Close()
	cl.AssertExpectations(t)
}
