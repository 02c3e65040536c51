package schema

import (
	"time"

	"github.com/hamba/avro/v2"
)

const CartEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront",
	"name": "cart_event",
	"fields": [
		{"name": "session_id", "type": "string"},
		{"name": "kind", "type": {
			"type": "enum",
			"name": "cart_event_kind",
			"symbols": ["added", "quantity_set", "removed", "cleared"]
		}},
		{"name": "product_id", "type": "long"},
		{"name": "qty", "type": "long"},
		{"name": "item_count", "type": "long"},
		{"name": "occurred_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

type CartEventV1 struct {
	SessionID  string    `avro:"session_id"`
	Kind       string    `avro:"kind"`
	ProductID  int64     `avro:"product_id"`
	Qty        int64     `avro:"qty"`
	ItemCount  int64     `avro:"item_count"`
	OccurredAt time.Time `avro:"occurred_at"`
}

// CartEventV1Avro panics if the schema text does not parse.
func CartEventV1Avro() avro.Schema {
	return avro.MustParse(CartEventSchemaTextV1)
}
