// Package broadcast publishes messages from the signal chain to listeners
// outside the process.
package broadcast

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Message kinds.
const (
	KindBroadcast   = "broadcast"
	KindAcquisition = "acquisition"
	KindTopology    = "topology"
)

// Message is one published event. Timestamp is taken from the global
// timestamp source and expressed in samples at SampleRate.
type Message struct {
	Kind       string    `json:"kind"`
	Text       string    `json:"text"`
	Timestamp  int64     `json:"timestamp"`
	SampleRate float64   `json:"sampleRate"`
	Time       time.Time `json:"time"`
}

// Broadcaster delivers messages. Publish blocks until the message is
// accepted or ctx is done.
type Broadcaster interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Nop drops every message.
type Nop struct{}

func (Nop) Publish(context.Context, Message) error { return nil }
func (Nop) Close() error { return nil }

// Recorder keeps every published message in memory.
type Recorder struct {
	mu   sync.Mutex
	msgs []Message
}

func (r *Recorder) Publish(_ context.Context, msg Message) error {
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Close() error { return nil }

// Messages returns a copy of the recorded messages.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.msgs)
}

var (
	_ Broadcaster = Nop{}
	_ Broadcaster = (*Recorder)(nil)
)
