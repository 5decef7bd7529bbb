package serde

import "errors"

// ErrEmptyText is returned when an empty value passes through a Text serde.
var ErrEmptyText = errors.New("empty text")

// Text encodes string-kinded values as their raw bytes. Empty values are
// rejected both ways, so a record key is never blank.
func Text[T ~string]() Serde[T] {
	return Serde[T]{
		Serializer: func(v T) ([]byte, error) {
			if v == "" {
				return nil, ErrEmptyText
			}
			return []byte(v), nil
		},
		Deserializer: func(data []byte) (T, error) {
			if len(data) == 0 {
				return "", ErrEmptyText
			}
			return T(data), nil
		},
	}
}
