package sigchain

import (
	"log/slog"

	"github.com/birdayz/sigchain/broadcast"
	"github.com/birdayz/sigchain/chainstore"
	"github.com/birdayz/sigchain/graph"
	"github.com/birdayz/sigchain/node"
	"github.com/go-logr/logr"
)

// Option is a function that configures a Controller
type Option func(*Controller)

// WithLog sets the logger for the controller and everything it owns
var WithLog = func(log *slog.Logger) Option {
	return func(c *Controller) {
		c.log = log
	}
}

// WithLogr routes logging through a logr sink
var WithLogr = func(l logr.Logger) Option {
	return func(c *Controller) {
		c.log = slog.New(logr.ToSlogHandler(l))
	}
}

// WithFactory sets the processor factory. Defaults to the built-in processors.
var WithFactory = func(f node.Factory) Option {
	return func(c *Controller) {
		c.factory = f
	}
}

// WithViews sets the receiver of view refreshes and status messages
var WithViews = func(v graph.Views) Option {
	return func(c *Controller) {
		c.views = v
	}
}

// WithBlockSize sets the device buffer size pushed to record nodes
var WithBlockSize = func(samples int) Option {
	return func(c *Controller) {
		c.blockSize = samples
	}
}

// WithRecoveryFile enables writing the current chain to path after every
// edit.
var WithRecoveryFile = func(path string) Option {
	return func(c *Controller) {
		c.recoveryPath = path
	}
}

// WithBroadcaster sets where broadcast, acquisition and topology messages go
var WithBroadcaster = func(b broadcast.Broadcaster) Option {
	return func(c *Controller) {
		c.broadcaster = b
	}
}

// WithLibrary sets the named chain library used by SaveChain and LoadChain
var WithLibrary = func(l *chainstore.Library) Option {
	return func(c *Controller) {
		c.library = l
	}
}

// WithHistoryLimit bounds the number of undoable actions. Zero keeps all.
var WithHistoryLimit = func(n int) Option {
	return func(c *Controller) {
		c.history.limit = n
	}
}

// NullWriter is a writer that discards all data
type NullWriter struct{}

func (NullWriter) Write(p []byte) (int, error) { return len(p), nil }

// NullLogger creates a logger that discards all output
func NullLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(NullWriter{}, nil))
}
