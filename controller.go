package sigchain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/birdayz/sigchain/broadcast"
	"github.com/birdayz/sigchain/chainstore"
	"github.com/birdayz/sigchain/graph"
	"github.com/birdayz/sigchain/internal/engine"
	"github.com/birdayz/sigchain/internal/recovery"
	"github.com/birdayz/sigchain/internal/resolver"
	"github.com/birdayz/sigchain/node"
	"github.com/birdayz/sigchain/processors"
	"github.com/birdayz/sigchain/serde"
	"go.uber.org/multierr"
)

var (
	ErrInvalidBlockSize = errors.New("block size must be positive")
	ErrAcquiring        = errors.New("not allowed while acquiring")
	ErrNoLibrary        = errors.New("no chain library configured")
	ErrNoConfigHandler  = errors.New("processor does not handle config messages")
)

// Controller owns a signal chain. It applies edits to the graph, keeps the
// resolved connection list published to the execution engine, records undo
// history and writes the recovery file. All methods are safe for concurrent
// use.
type Controller struct {
	log          *slog.Logger
	factory      node.Factory
	views        graph.Views
	blockSize    int
	recoveryPath string
	broadcaster  broadcast.Broadcaster
	library      *chainstore.Library

	mu       sync.Mutex
	graph    *graph.Graph
	resolver *resolver.Resolver
	engine   *engine.Engine
	recovery *recovery.File[graph.Document]
	history  History
	outbox   []broadcast.Message
}

// New creates a controller with an empty signal chain.
func New(opts ...Option) (*Controller, error) {
	c := &Controller{
		log:         NullLogger(),
		blockSize:   resolver.DefaultBlockSize,
		broadcaster: broadcast.Nop{},
		history:     History{limit: DefaultHistoryLimit},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.blockSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, c.blockSize)
	}
	if c.factory == nil {
		c.factory = processors.DefaultRegistry()
	}

	gopts := []graph.Option{graph.WithLog(c.log.WithGroup("graph"))}
	if c.views != nil {
		gopts = append(gopts, graph.WithViews(c.views))
	}
	c.graph = graph.New(c.factory, gopts...)
	c.resolver = resolver.New(
		resolver.WithLog(c.log.WithGroup("resolver")),
		resolver.WithBlockSize(c.blockSize),
	)
	c.engine = engine.New(c.log.WithGroup("engine"))
	if c.recoveryPath != "" {
		c.recovery = recovery.New(c.recoveryPath, serde.IndentedJSON[graph.Document]())
	}
	return c, nil
}

// MustNew is like New but panics on invalid configuration.
func MustNew(opts ...Option) *Controller {
	c, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// AddProcessor creates a processor from desc between the processors with
// ids sourceID and destID. Either may be node.None.
func (c *Controller) AddProcessor(ctx context.Context, desc node.Description, sourceID, destID int) (node.Processor, error) {
	var p node.Processor
	err := c.edit(ctx, "add "+desc.Type, func() error {
		src, dst, err := c.lookupPair(sourceID, destID)
		if err != nil {
			return err
		}
		p, err = c.graph.CreateProcessor(desc, src, dst)
		return err
	})
	return p, err
}

// MoveProcessor re-inserts processor id between sourceID and destID.
func (c *Controller) MoveProcessor(ctx context.Context, id, sourceID, destID int, movingDownstream bool) error {
	return c.edit(ctx, "move", func() error {
		p, err := c.lookup(id)
		if err != nil {
			return err
		}
		src, dst, err := c.lookupPair(sourceID, destID)
		if err != nil {
			return err
		}
		return c.graph.MoveProcessor(p, src, dst, movingDownstream)
	})
}

// DeleteProcessors removes the given processors and refreshes whatever they
// fed.
func (c *Controller) DeleteProcessors(ctx context.Context, ids ...int) error {
	return c.edit(ctx, "delete", func() error {
		ps := make([]node.Processor, 0, len(ids))
		for _, id := range ids {
			p, err := c.lookup(id)
			if err != nil {
				return err
			}
			ps = append(ps, p)
		}
		return c.graph.DeleteNodes(ps...)
	})
}

// SwitchIO selects path on a splitter or merger.
func (c *Controller) SwitchIO(ctx context.Context, id, path int) error {
	return c.edit(ctx, "switch io", func() error {
		p, err := c.find(id)
		if err != nil {
			return err
		}
		return c.graph.SwitchIO(p, path)
	})
}

// ConnectMergerSource feeds processor sourceID into slot path of merger
// mergerID.
func (c *Controller) ConnectMergerSource(ctx context.Context, mergerID, sourceID, path int) error {
	return c.edit(ctx, "connect merger", func() error {
		m, src, err := c.lookupPair(mergerID, sourceID)
		if err != nil {
			return err
		}
		if m == nil || m.AsMerger() == nil {
			return fmt.Errorf("%w: %d is not a merger", graph.ErrInvalidMove, mergerID)
		}
		return c.graph.ConnectMergerSource(m.AsMerger(), src, path)
	})
}

// ClearSignalChain removes every processor.
func (c *Controller) ClearSignalChain(ctx context.Context) error {
	return c.replace(ctx, "clear", func() error {
		c.graph.ClearSignalChain()
		return nil
	})
}

// ImportChain replaces the current chain with doc.
func (c *Controller) ImportChain(ctx context.Context, doc graph.Document) error {
	return c.replace(ctx, "load", func() error {
		return c.graph.Import(doc)
	})
}

// ExportChain returns the current chain.
func (c *Controller) ExportChain() graph.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph.Export()
}

// SaveChain stores the current chain in the library under name.
func (c *Controller) SaveChain(ctx context.Context, name string) error {
	if c.library == nil {
		return ErrNoLibrary
	}
	return c.library.Save(ctx, name, c.ExportChain())
}

// LoadChain replaces the current chain with the one stored under name.
func (c *Controller) LoadChain(ctx context.Context, name string) error {
	if c.library == nil {
		return ErrNoLibrary
	}
	doc, err := c.library.Load(ctx, name)
	if err != nil {
		return err
	}
	return c.ImportChain(ctx, doc)
}

// Recover loads the chain from the recovery file if there is one. History
// starts empty afterwards.
func (c *Controller) Recover(ctx context.Context) (bool, error) {
	if c.recovery == nil {
		return false, nil
	}
	doc, ok, err := c.recovery.Read()
	if err != nil || !ok {
		return false, err
	}

	c.mu.Lock()
	defer c.flush(ctx)
	if c.engine.Running() {
		return false, ErrAcquiring
	}
	if err := c.graph.Import(doc); err != nil {
		return false, err
	}
	c.history.clear()
	c.updateConnections()
	c.log.Info("Recovered signal chain", "path", c.recoveryPath, "nodes", len(doc.Nodes))
	return true, nil
}

// Undo reverts the last edit.
func (c *Controller) Undo(ctx context.Context) error {
	return c.step(ctx, true)
}

// Redo applies the last undone edit again.
func (c *Controller) Redo(ctx context.Context) error {
	return c.step(ctx, false)
}

func (c *Controller) step(ctx context.Context, undo bool) error {
	c.mu.Lock()
	defer c.flush(ctx)
	if c.engine.Running() {
		return ErrAcquiring
	}

	var (
		a   Action
		doc graph.Document
		err error
	)
	if undo {
		a, err = c.history.undo()
		doc = a.Before
	} else {
		a, err = c.history.redo()
		doc = a.After
	}
	if err != nil {
		return err
	}

	cur := c.graph.Export()
	if err := c.graph.Import(doc); err != nil {
		c.history.push(a, undo)
		if rerr := c.graph.Import(cur); rerr != nil {
			c.log.Error("Could not restore signal chain", "err", rerr)
		}
		c.updateConnections()
		return err
	}
	c.log.Debug("History step", "action", a.Name, "undo", undo)
	c.updateConnections()
	return nil
}

// History returns the names of the undoable edits, oldest first.
func (c *Controller) History() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Names()
}

func (c *Controller) CanUndo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.CanUndo()
}

func (c *Controller) CanRedo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.CanRedo()
}

// UpdateConnections resolves the chain and publishes the result to the
// engine.
func (c *Controller) UpdateConnections(ctx context.Context) *resolver.Topology {
	c.mu.Lock()
	defer c.flush(ctx)
	return c.updateConnections()
}

// Topology returns the connection list currently published to the engine.
func (c *Controller) Topology() *resolver.Topology {
	return c.engine.Current()
}

// Processor returns the processor with the given id, or nil.
func (c *Controller) Processor(id int) node.Processor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph.ProcessorByID(id)
}

// Processors returns every processor in scan order.
func (c *Controller) Processors() []node.Processor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph.Processors()
}

// Roots returns the first processor of every signal chain.
func (c *Controller) Roots() []node.Processor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph.Roots()
}

// ViewSignalChain returns the processors of chain i along the active paths.
func (c *Controller) ViewSignalChain(i int) []node.Processor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph.ViewSignalChain(i)
}

// HasRecordNode reports whether any record node is part of the chain.
func (c *Controller) HasRecordNode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasRecordNode()
}

// SendConfigMessage passes msg to processor id and returns its reply.
func (c *Controller) SendConfigMessage(id int, msg string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, err := c.find(id)
	if err != nil {
		return "", err
	}
	h, ok := p.(node.ConfigHandler)
	if !ok {
		return "", fmt.Errorf("%w: %s (%d)", ErrNoConfigHandler, p.Name(), id)
	}
	return h.HandleConfigMessage(msg)
}

// Close stops acquisition and releases the broadcaster and the library.
func (c *Controller) Close() error {
	err := c.StopAcquisition(context.Background())
	err = multierr.Append(err, c.broadcaster.Close())
	if c.library != nil {
		err = multierr.Append(err, c.library.Close())
	}
	return err
}

// edit applies fn to the graph. If the chain changed, even when fn also
// reported a settings error, the change becomes undoable and the topology is
// refreshed.
func (c *Controller) edit(ctx context.Context, name string, fn func() error) error {
	c.mu.Lock()
	defer c.flush(ctx)

	before := c.graph.Export()
	err := fn()
	after := c.graph.Export()
	if reflect.DeepEqual(before, after) {
		return err
	}

	c.history.record(Action{Name: name, Before: before, After: after})
	c.updateConnections()
	return err
}

// replace is edit for operations that rebuild every processor, which the
// engine cannot follow while acquiring.
func (c *Controller) replace(ctx context.Context, name string, fn func() error) error {
	return c.edit(ctx, name, func() error {
		if c.engine.Running() {
			return ErrAcquiring
		}
		return fn()
	})
}

func (c *Controller) updateConnections() *resolver.Topology {
	t := c.resolver.Resolve(c.graph)
	if old := c.engine.Swap(t); !old.Equal(t) {
		c.queue(c.message(broadcast.KindTopology, fmt.Sprintf("%d connections", len(t.Connections))))
	}
	if c.recovery != nil {
		if err := c.recovery.Write(c.graph.Export()); err != nil {
			c.log.Warn("Could not write recovery file", "path", c.recoveryPath, "err", err)
		}
	}
	return t
}

func (c *Controller) lookup(id int) (node.Processor, error) {
	if id == node.None {
		return nil, nil
	}
	p := c.graph.ProcessorByID(id)
	if p == nil {
		return nil, fmt.Errorf("%w: %d", graph.ErrUnknownNode, id)
	}
	return p, nil
}

// find is lookup for ids that must name a processor.
func (c *Controller) find(id int) (node.Processor, error) {
	p, err := c.lookup(id)
	if err == nil && p == nil {
		err = fmt.Errorf("%w: %d", graph.ErrUnknownNode, id)
	}
	return p, err
}

func (c *Controller) lookupPair(a, b int) (node.Processor, node.Processor, error) {
	pa, err := c.lookup(a)
	if err != nil {
		return nil, nil, err
	}
	pb, err := c.lookup(b)
	if err != nil {
		return nil, nil, err
	}
	return pa, pb, nil
}
