package codec

import (
	"fmt"

	"google.golang.org/protobuf/proto"
)

// Protobuf encodes values that implement proto.Message. Decode needs a
// constructor for the concrete message type
// (e.g. func() proto.Message { return &schemapb.TableInfo{} }).
type Protobuf struct {
	new func() proto.Message
}

func NewProtobuf(ctor func() proto.Message) Protobuf {
	return Protobuf{new: ctor}
}

func (c Protobuf) Encode(v any) ([]byte, error) {
	m, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("codec: Protobuf cannot encode %T", v)
	}
	return proto.Marshal(m)
}

func (c Protobuf) Decode(b []byte) (any, error) {
	m := c.new()
	err := proto.Unmarshal(b, m)
	return m, err
}
