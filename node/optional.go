package node

import "context"

// TimestampClock is implemented by nodes that can serve as the global time
// reference.
type TimestampClock interface {
	Timestamp(stream int) int64
	SampleRate(stream int) float64
}

// RecordSink is implemented by record nodes. The resolver resets the source
// list at the start of every pass, then registers each upstream node that
// delivers data to the sink.
type RecordSink interface {
	ResetSources()
	RegisterSource(src Processor)
	SetBlockSize(samples int)
}

// ChannelMatcher lets a destination choose the input slot for an incoming
// channel. next is the next free input slot; returning -1 skips the channel.
type ChannelMatcher interface {
	MatchInput(ch Channel, next int) int
}

// Readier reports whether the node's parameters allow acquisition to start.
type Readier interface {
	IsReady() error
}

// Acquirer is implemented by nodes holding acquisition resources.
type Acquirer interface {
	StartAcquisition(ctx context.Context) error
	StopAcquisition(ctx context.Context) error
}

// ConfigHandler receives free-form configuration messages.
type ConfigHandler interface {
	HandleConfigMessage(msg string) (string, error)
}
