package grpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// The ledger speaks JSON over gRPC; the codec is selected by the
// "application/grpc+json" content subtype on both ends.
const codecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return codecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
