package serde

import (
	"bytes"
	"encoding/json"
	"fmt"
)

func JSONSerializer[T any]() Serializer[T] {
	return func(t T) ([]byte, error) {
		serialized, err := json.Marshal(t)
		if err != nil {
			return nil, err
		}
		return serialized, nil
	}
}

// IndentedJSONSerializer writes two-space indented JSON followed by a
// newline, for files meant to be read by people.
func IndentedJSONSerializer[T any]() Serializer[T] {
	return func(t T) ([]byte, error) {
		serialized, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(serialized, '\n'), nil
	}
}

func JSONDeserializer[T any]() Deserializer[T] {
	return func(b []byte) (T, error) {
		var deserialized T
		if err := json.Unmarshal(b, &deserialized); err != nil {
			return *new(T), err
		}
		return deserialized, nil
	}
}

// StrictJSONDeserializer rejects unknown fields and trailing data.
func StrictJSONDeserializer[T any]() Deserializer[T] {
	return func(b []byte) (T, error) {
		var deserialized T
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&deserialized); err != nil {
			return *new(T), err
		}
		if dec.More() {
			return *new(T), fmt.Errorf("trailing data after JSON value")
		}
		return deserialized, nil
	}
}

func JSON[T any]() Serde[T] {
	return Serde[T]{
		Serializer:   JSONSerializer[T](),
		Deserializer: JSONDeserializer[T](),
	}
}

// IndentedJSON is JSON with indented output and strict input.
func IndentedJSON[T any]() Serde[T] {
	return Serde[T]{
		Serializer:   IndentedJSONSerializer[T](),
		Deserializer: StrictJSONDeserializer[T](),
	}
}
