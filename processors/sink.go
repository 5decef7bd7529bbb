package processors

import "github.com/birdayz/sigchain/node"

const SinkType = "Sink"

// Sink terminates a chain.
type Sink struct {
	node.Base
}

func NewSink(name string) *Sink {
	return &Sink{Base: node.NewBase(SinkType, name)}
}

func (s *Sink) IsSink() bool { return true }
