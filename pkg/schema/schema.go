// Package schema holds the Avro contracts of published events and their
// Schema Registry aware serdes.
package schema

import (
	"context"
	"fmt"

	"github.com/hamba/avro/v2"
	"github.com/twmb/franz-go/pkg/sr"
)

// SchemaIdentifier returns the registry id of schemaText under subject,
// registering it when absent.
type SchemaIdentifier interface {
	DetermineID(ctx context.Context, subject, schemaText string) (int, error)
}

type RegistryIdentifier struct {
	client *sr.Client
}

func NewRegistryIdentifier(client *sr.Client) RegistryIdentifier {
	return RegistryIdentifier{client}
}

func (ri RegistryIdentifier) DetermineID(
	ctx context.Context, subject, schemaText string,
) (int, error) {
	const op = "RegistryIdentifier.DetermineID"

	ss, err := ri.client.CreateSchema(
		ctx, subject, sr.Schema{Schema: schemaText, Type: sr.TypeAvro},
	)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return ss.ID, nil
}

func AvroEncodeFn(s avro.Schema) func(v any) ([]byte, error) {
	return func(v any) ([]byte, error) {
		return avro.Marshal(s, v)
	}
}

func AvroDecodeFn(s avro.Schema) func([]byte, any) error {
	return func(data []byte, v any) error {
		return avro.Unmarshal(s, data, v)
	}
}
