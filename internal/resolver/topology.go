package resolver

import (
	"fmt"
	"slices"

	"github.com/birdayz/sigchain/node"
)

// Fixed ids of the nodes that exist outside the user-editable graph.
const (
	RecordNodeID    = 900
	AudioNodeID     = 901
	OutputNodeID    = 902
	MessageCenterID = 904
)

// Connection links one output channel to one input channel. Event
// connections use node.EventChannel on both ends.
type Connection struct {
	SourceID      int `json:"sourceId"`
	SourceChannel int `json:"sourceChannel"`
	DestID        int `json:"destId"`
	DestChannel   int `json:"destChannel"`
}

// IsEvent reports whether c carries the event side-channel.
func (c Connection) IsEvent() bool {
	return c.SourceChannel == node.EventChannel
}

func (c Connection) String() string {
	if c.IsEvent() {
		return fmt.Sprintf("%d:events -> %d:events", c.SourceID, c.DestID)
	}
	return fmt.Sprintf("%d:%d -> %d:%d", c.SourceID, c.SourceChannel, c.DestID, c.DestChannel)
}

// Topology is the flattened connection list handed to the execution engine.
// It is derived from the graph on every pass and never persisted.
type Topology struct {
	Connections   []Connection `json:"connections"`
	AudioMonitors []int        `json:"audioMonitors,omitempty"`
	RecordNodes   []int        `json:"recordNodes,omitempty"`
}

// Equal reports whether both topologies hold the same connections in the
// same order.
func (t *Topology) Equal(o *Topology) bool {
	if t == nil || o == nil {
		return t == o
	}
	return slices.Equal(t.Connections, o.Connections) &&
		slices.Equal(t.AudioMonitors, o.AudioMonitors) &&
		slices.Equal(t.RecordNodes, o.RecordNodes)
}

// Into returns the connections that end at dest, in emission order.
func (t *Topology) Into(dest int) []Connection {
	var out []Connection
	for _, c := range t.Connections {
		if c.DestID == dest {
			out = append(out, c)
		}
	}
	return out
}

// Between returns the connections from src to dest, in emission order.
func (t *Topology) Between(src, dest int) []Connection {
	var out []Connection
	for _, c := range t.Connections {
		if c.SourceID == src && c.DestID == dest {
			out = append(out, c)
		}
	}
	return out
}
