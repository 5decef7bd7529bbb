package sigchain

import (
	"context"
	"time"

	"github.com/birdayz/sigchain/broadcast"
	"github.com/birdayz/sigchain/graph"
	"github.com/birdayz/sigchain/internal/engine"
)

// StartAcquisition resolves the chain, checks that every processor is ready
// and starts the ones holding acquisition resources.
func (c *Controller) StartAcquisition(ctx context.Context) error {
	c.mu.Lock()
	defer c.flush(ctx)
	if c.engine.Running() {
		return engine.ErrAlreadyRunning
	}

	c.updateConnections()
	procs := c.graph.Processors()
	if err := engine.Ready(procs); err != nil {
		c.log.Warn("Processors not ready", "err", err)
		return err
	}
	if !c.hasRecordNode() {
		c.log.Info("No record node in signal chain")
	}

	c.graph.ResetSoftwareClock()
	if err := c.engine.Start(ctx, procs); err != nil {
		return err
	}
	c.queue(c.message(broadcast.KindAcquisition, "start"))
	return nil
}

// StopAcquisition stops every started processor. It is a no-op when not
// acquiring.
func (c *Controller) StopAcquisition(ctx context.Context) error {
	c.mu.Lock()
	defer c.flush(ctx)
	if !c.engine.Running() {
		return nil
	}
	err := c.engine.Stop(ctx)
	c.queue(c.message(broadcast.KindAcquisition, "stop"))
	return err
}

func (c *Controller) IsAcquiring() bool {
	return c.engine.Running()
}

// BroadcastMessage publishes text stamped with the global timestamp.
func (c *Controller) BroadcastMessage(ctx context.Context, text string) error {
	c.mu.Lock()
	msg := c.message(broadcast.KindBroadcast, text)
	c.mu.Unlock()
	return c.publish(ctx, msg)
}

// TimestampSources lists the processors that can serve as global clock.
func (c *Controller) TimestampSources() []graph.TimestampSource {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph.TimestampSources()
}

// SetTimestampSource selects candidate index and stream as the global clock.
// An index of -1 selects the software clock.
func (c *Controller) SetTimestampSource(index, stream int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph.SetTimestampSource(index, stream)
}

// GlobalTimestamp returns the current time in samples of the global clock.
func (c *Controller) GlobalTimestamp() (int64, float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph.GlobalTimestamp(), c.graph.GlobalSampleRate()
}

func (c *Controller) hasRecordNode() bool {
	for _, p := range c.graph.Processors() {
		if p.IsRecordNode() {
			return true
		}
	}
	return false
}

func (c *Controller) message(kind, text string) broadcast.Message {
	return broadcast.Message{
		Kind:       kind,
		Text:       text,
		Timestamp:  c.graph.GlobalTimestamp(),
		SampleRate: c.graph.GlobalSampleRate(),
		Time:       time.Now(),
	}
}

// queue holds msg until mu is released. c.mu must be held.
func (c *Controller) queue(msg broadcast.Message) {
	c.outbox = append(c.outbox, msg)
}

// flush releases c.mu, then publishes what was queued while it was held, so
// a slow broadcaster never stalls other calls. Messages of concurrent calls
// may interleave.
func (c *Controller) flush(ctx context.Context) {
	msgs := c.outbox
	c.outbox = nil
	c.mu.Unlock()
	for _, msg := range msgs {
		c.publish(ctx, msg)
	}
}

func (c *Controller) publish(ctx context.Context, msg broadcast.Message) error {
	err := c.broadcaster.Publish(ctx, msg)
	if err != nil {
		c.log.Warn("Could not publish message", "kind", msg.Kind, "err", err)
	}
	return err
}
