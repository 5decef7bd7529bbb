package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/birdayz/sigchain/internal/resolver"
	"github.com/birdayz/sigchain/node"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNotReady       = errors.New("processors not ready")
	ErrAlreadyRunning = errors.New("acquisition already running")
)

// Engine holds the connection list read by the real-time side and drives the
// acquisition lifecycle of the processors.
type Engine struct {
	log *slog.Logger

	current atomic.Pointer[resolver.Topology]

	mu      sync.Mutex
	running []node.Acquirer
	active  bool
}

func New(log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{log: log}
}

// Swap publishes t as a whole and returns the previous topology.
func (e *Engine) Swap(t *resolver.Topology) *resolver.Topology {
	old := e.current.Swap(t)
	switch {
	case old.Equal(t):
		e.log.Debug("Topology unchanged")
	case t == nil:
		e.log.Info("Topology cleared")
	default:
		e.log.Info("Topology swapped", "connections", len(t.Connections))
	}
	return old
}

// Current returns the published topology, or nil before the first Swap.
func (e *Engine) Current() *resolver.Topology {
	return e.current.Load()
}

// Running reports whether acquisition was started and not yet stopped.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Ready asks every processor that implements node.Readier whether it can
// acquire. All failures are reported.
func Ready(procs []node.Processor) error {
	var errs error
	for _, p := range procs {
		if r, ok := p.(node.Readier); ok {
			if err := r.IsReady(); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s (%d): %w", p.Name(), p.ID(), err))
			}
		}
	}
	if errs != nil {
		return fmt.Errorf("%w: %w", ErrNotReady, errs)
	}
	return nil
}

// Start calls StartAcquisition on every processor that holds acquisition
// resources, concurrently. If any of them fails, the ones that did start are
// stopped again and the first error is returned.
func (e *Engine) Start(ctx context.Context, procs []node.Processor) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active {
		return ErrAlreadyRunning
	}

	var (
		started []node.Acquirer
		smu     sync.Mutex
	)
	grp, gctx := errgroup.WithContext(ctx)
	for _, p := range procs {
		a, ok := p.(node.Acquirer)
		if !ok {
			continue
		}
		grp.Go(func() error {
			if err := a.StartAcquisition(gctx); err != nil {
				return fmt.Errorf("start %s (%d): %w", p.Name(), p.ID(), err)
			}
			smu.Lock()
			started = append(started, a)
			smu.Unlock()
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		e.log.Error("Acquisition start failed", "err", err)
		if stopErr := stopAll(context.WithoutCancel(ctx), started); stopErr != nil {
			e.log.Warn("Could not stop started processors", "err", stopErr)
		}
		return err
	}

	e.running = started
	e.active = true
	e.log.Info("Acquisition started", "processors", len(started))
	return nil
}

// Stop calls StopAcquisition on every started processor and aggregates the
// errors.
func (e *Engine) Stop(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active {
		return nil
	}
	err := stopAll(ctx, e.running)
	e.running = nil
	e.active = false
	e.log.Info("Acquisition stopped")
	return err
}

func stopAll(ctx context.Context, as []node.Acquirer) error {
	var errs error
	for _, a := range as {
		errs = multierr.Append(errs, a.StopAcquisition(ctx))
	}
	return errs
}
