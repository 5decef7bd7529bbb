package graph

import (
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/birdayz/sigchain/node"
)

const (
	// FirstNodeID is the first id handed out by a fresh graph.
	FirstNodeID = 100

	// MaxSignalChains caps the number of independent chains.
	MaxSignalChains = 8
)

// Graph owns every processor of the signal chain. All links between
// processors are ids resolved through the registry. A Graph must only be
// mutated from one goroutine.
type Graph struct {
	log     *slog.Logger
	factory node.Factory
	views   Views
	now     func() time.Time

	nodes  map[int]node.Processor
	order  []int
	roots  []int
	nextID int

	loading bool

	ts timestamps
}

// Option configures a Graph.
type Option func(*Graph)

// WithLog sets the logger.
var WithLog = func(log *slog.Logger) Option {
	return func(g *Graph) {
		g.log = log
	}
}

// WithViews sets the receiver of view refreshes and status messages.
var WithViews = func(v Views) Option {
	return func(g *Graph) {
		g.views = v
	}
}

// WithClock replaces the wall clock used by the software timestamp fallback.
var WithClock = func(now func() time.Time) Option {
	return func(g *Graph) {
		g.now = now
	}
}

// New creates an empty graph whose processors are built by factory.
func New(factory node.Factory, opts ...Option) *Graph {
	g := &Graph{
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		factory: factory,
		views:   nopViews{},
		now:     time.Now,
		nodes:   map[int]node.Processor{},
		nextID:  FirstNodeID,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.ts.reset(g.now())
	return g
}

// ProcessorByID returns the processor with the given id, or nil.
func (g *Graph) ProcessorByID(id int) node.Processor {
	if id == node.None {
		return nil
	}
	return g.nodes[id]
}

// Processors returns all processors in scan order.
func (g *Graph) Processors() []node.Processor {
	out := make([]node.Processor, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Roots returns the entry points of the signal chains in order.
func (g *Graph) Roots() []node.Processor {
	out := make([]node.Processor, 0, len(g.roots))
	for _, id := range g.roots {
		out = append(out, g.nodes[id])
	}
	return out
}

// RootIDs returns the root ids in order.
func (g *Graph) RootIDs() []int {
	return slices.Clone(g.roots)
}

// IsRoot reports whether p is a chain entry point.
func (g *Graph) IsRoot(p node.Processor) bool {
	return p != nil && slices.Contains(g.roots, p.ID())
}

// Len returns the number of processors.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// NextID returns the id the next created processor will receive.
func (g *Graph) NextID() int {
	return g.nextID
}

// Loading reports whether a bulk signal-chain load is in progress.
func (g *Graph) Loading() bool {
	return g.loading
}

// ViewSignalChain returns the processors of chain i, following active links.
func (g *Graph) ViewSignalChain(i int) []node.Processor {
	if i < 0 || i >= len(g.roots) {
		return nil
	}
	var out []node.Processor
	seen := map[int]bool{}
	for p := g.nodes[g.roots[i]]; p != nil && !seen[p.ID()]; p = g.ProcessorByID(p.DestID()) {
		seen[p.ID()] = true
		out = append(out, p)
	}
	return out
}

func (g *Graph) register(p node.Processor) {
	g.nodes[p.ID()] = p
	g.order = append(g.order, p.ID())
}

func (g *Graph) unregister(p node.Processor) {
	delete(g.nodes, p.ID())
	g.order = slices.DeleteFunc(g.order, func(id int) bool { return id == p.ID() })
}

// snapshot captures everything a rejected mutation has to restore.
type snapshot struct {
	links  map[int]node.Links
	order  []int
	roots  []int
	nextID int
	ts     timestamps
}

func (g *Graph) snapshot() snapshot {
	s := snapshot{
		links:  make(map[int]node.Links, len(g.nodes)),
		order:  slices.Clone(g.order),
		roots:  slices.Clone(g.roots),
		nextID: g.nextID,
		ts:     g.ts.clone(),
	}
	for id, p := range g.nodes {
		s.links[id] = p.Links()
	}
	return s
}

// restore rolls the graph back to s. Processors created after s are dropped.
func (g *Graph) restore(s snapshot) {
	for id := range g.nodes {
		if _, ok := s.links[id]; !ok {
			delete(g.nodes, id)
		}
	}
	for id, l := range s.links {
		if p, ok := g.nodes[id]; ok {
			p.SetLinks(l)
		}
	}
	g.order = s.order
	g.roots = s.roots
	g.nextID = s.nextID
	g.ts = s.ts
}
