package processors

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/birdayz/sigchain/node"
)

const SignalSourceType = "SignalSource"

const (
	defaultChannels   = 4
	defaultSampleRate = 30000.0
)

var ErrNoChannels = errors.New("source has no channels")

// SignalSource produces a fixed number of continuous channels and serves as
// a timestamp clock for its single stream.
type SignalSource struct {
	node.Base

	sampleRate float64
	samples    atomic.Int64
	running    atomic.Bool
}

func NewSignalSource(name string) *SignalSource {
	return &SignalSource{Base: node.NewBase(SignalSourceType, name), sampleRate: defaultSampleRate}
}

func (s *SignalSource) IsSource() bool { return true }
func (s *SignalSource) GeneratesTimestamps() bool { return true }

// Update builds the output channels from the "channels" and "sampleRate"
// parameters. A source has no upstream, so upstream is ignored.
func (s *SignalSource) Update([]node.Processor) error {
	n, err := intParam(&s.Base, "channels", defaultChannels)
	if err != nil {
		return err
	}
	rate, err := floatParam(&s.Base, "sampleRate", defaultSampleRate)
	if err != nil {
		return err
	}
	s.sampleRate = rate

	chs := make([]node.Channel, 0, n)
	for i := range n {
		chs = append(chs, node.Channel{
			Origin:     s.ID(),
			Index:      i,
			Name:       fmt.Sprintf("CH%d", i+1),
			SampleRate: rate,
		})
	}
	s.SetOutputs(chs)
	return nil
}

func (s *SignalSource) IsReady() error {
	if s.NumOutputs() == 0 {
		return fmt.Errorf("%w: %s (%d)", ErrNoChannels, s.Name(), s.ID())
	}
	return nil
}

// Advance moves the sample clock forward by n samples.
func (s *SignalSource) Advance(n int64) {
	s.samples.Add(n)
}

func (s *SignalSource) Timestamp(int) int64 {
	return s.samples.Load()
}

func (s *SignalSource) SampleRate(int) float64 {
	return s.sampleRate
}

func (s *SignalSource) StartAcquisition(context.Context) error {
	s.samples.Store(0)
	s.running.Store(true)
	return nil
}

func (s *SignalSource) StopAcquisition(context.Context) error {
	s.running.Store(false)
	return nil
}

// Running reports whether acquisition is active.
func (s *SignalSource) Running() bool {
	return s.running.Load()
}

var (
	_ node.TimestampClock = (*SignalSource)(nil)
	_ node.Acquirer       = (*SignalSource)(nil)
	_ node.Readier        = (*SignalSource)(nil)
)
