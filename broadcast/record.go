package broadcast

import (
	"errors"
	"fmt"

	"github.com/birdayz/sigchain/serde"
)

// ErrKindMismatch is returned when a record key disagrees with the kind in
// its value.
var ErrKindMismatch = errors.New("record key does not match message kind")

var (
	keySerde   = serde.Text[string]()
	valueSerde = serde.JSON[Message]()
)

// EncodeRecord returns the key and value msg is published with. The key is
// the message kind.
func EncodeRecord(msg Message) (key, value []byte, err error) {
	key, err = keySerde.Serializer(msg.Kind)
	if err != nil {
		return nil, nil, fmt.Errorf("encode key: %w", err)
	}
	value, err = valueSerde.Serializer(msg)
	if err != nil {
		return nil, nil, fmt.Errorf("encode message: %w", err)
	}
	return key, value, nil
}

// DecodeRecord reverses EncodeRecord.
func DecodeRecord(key, value []byte) (Message, error) {
	kind, err := keySerde.Deserializer(key)
	if err != nil {
		return Message{}, fmt.Errorf("decode key: %w", err)
	}
	msg, err := valueSerde.Deserializer(value)
	if err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	if msg.Kind != kind {
		return Message{}, fmt.Errorf("%w: %q vs %q", ErrKindMismatch, kind, msg.Kind)
	}
	return msg, nil
}
