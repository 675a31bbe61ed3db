// Package rpc exposes the gateway's services over gRPC on the shared h2c
// port. Messages travel as JSON: the service descriptors are maintained by
// hand and the codec below replaces protobuf, so clients dial with
// grpc.CallContentSubtype("json").
package rpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// CodecName is the content-subtype carried in the gRPC content-type.
const CodecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("json codec: %w", err)
	}
	return nil
}

func (jsonCodec) Name() string { return CodecName }

// Codec returns the registered JSON codec, for grpc.ForceServerCodec.
func Codec() encoding.Codec { return jsonCodec{} }
