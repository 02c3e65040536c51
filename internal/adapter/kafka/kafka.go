// Package kafka publishes cart activity to a Kafka topic.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/pkg/retry"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/sony/gobreaker/v2"
	"github.com/twmb/franz-go/pkg/kgo"
)

var (
	ErrTooFewOpts = errors.New("too few options")
)

type ProducerOpt func(*producerOpts) error

type producerOpts struct {
	cl       ProducerClient
	encoder  Encoder
	settings gobreaker.Settings
	timeout  time.Duration
}

// ProducerClientOpt dials the seed brokers and pings them. Extra options
// are appended to the client configuration, e.g. [kgo.DialTLSConfig].
func ProducerClientOpt(
	ctx context.Context, seedBrokers []string, topic string, extra ...kgo.Opt,
) ProducerOpt {
	return func(opts *producerOpts) error {
		kopts := append([]kgo.Opt{
			kgo.SeedBrokers(seedBrokers...),
			kgo.DefaultProduceTopicAlways(),
			kgo.DefaultProduceTopic(topic),
			kgo.RequiredAcks(kgo.AllISRAcks()),
		}, extra...)

		cl, err := kgo.NewClient(kopts...)
		if err != nil {
			return err
		}

		err = retry.Do(ctx, pingRetryConfig(), func() error {
			return cl.Ping(ctx)
		})
		if err != nil {
			cl.Close()
			return err
		}
		opts.cl = cl
		return nil
	}
}

// ProducerWithClientOpt uses an existing client.
func ProducerWithClientOpt(cl ProducerClient) ProducerOpt {
	return func(opts *producerOpts) error {
		if cl == nil {
			return errors.New("producer client is nil")
		}
		opts.cl = cl
		return nil
	}
}

func ProducerEncoderOpt(encoder Encoder) ProducerOpt {
	return func(opts *producerOpts) error {
		if encoder == nil {
			return errors.New("encoder is nil")
		}
		opts.encoder = encoder
		return nil
	}
}

// ProducerBreakerOpt overrides the circuit breaker settings.
func ProducerBreakerOpt(settings gobreaker.Settings) ProducerOpt {
	return func(opts *producerOpts) error {
		opts.settings = settings
		return nil
	}
}

// ProducerTimeoutOpt bounds a single produce call.
func ProducerTimeoutOpt(d time.Duration) ProducerOpt {
	return func(opts *producerOpts) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		opts.timeout = d
		return nil
	}
}

func pingRetryConfig() retry.RetryConfig {
	return retry.RetryConfig{
		MaxAttempts: 5,
		Backoff:     retry.ExponentialBackoff(200 * time.Millisecond),
	}
}

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}

func cartEventToSchemaV1(v domain.CartEvent) (s schema.CartEventV1) {
	s.SessionID = v.SessionID
	s.Kind = string(v.Kind)
	s.ProductID = v.ProductID
	s.Qty = int64(v.Qty)
	s.ItemCount = int64(v.ItemCount)
	s.OccurredAt = v.At
	return
}
