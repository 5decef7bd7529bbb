package resolver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/birdayz/sigchain/node"
)

// ErrMergerPathMismatch is the panic value raised when traversal reaches a
// merger from a node that occupies neither of its slots.
var ErrMergerPathMismatch = errors.New("merger path mismatch")

// DefaultBlockSize is the device buffer size pushed to record nodes when none
// is configured.
const DefaultBlockSize = 1024

// Graph is the read view of the signal chain the resolver walks.
type Graph interface {
	Roots() []node.Processor
	ProcessorByID(id int) node.Processor
}

// Resolver turns the logical graph into a flat connection list.
type Resolver struct {
	log       *slog.Logger
	blockSize int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLog sets the logger.
var WithLog = func(log *slog.Logger) Option {
	return func(r *Resolver) {
		r.log = log
	}
}

// WithBlockSize sets the device buffer size pushed to record nodes.
var WithBlockSize = func(n int) Option {
	return func(r *Resolver) {
		r.blockSize = n
	}
}

func New(opts ...Option) *Resolver {
	r := &Resolver{
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		blockSize: DefaultBlockSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// entry is a pending feed from a concrete source into a concrete destination.
type entry struct {
	source     node.Processor
	key        []int
	continuous bool
	events     bool
}

// hop is one step of the walk through splitters and mergers that separate a
// concrete source from the concrete nodes it feeds.
type hop struct {
	node       node.Processor
	prev       node.Processor
	key        []int
	continuous bool
	events     bool
}

type pass struct {
	g   Graph
	log *slog.Logger

	splitters []*node.Splitter
	paths     map[int]int

	connected map[int]bool
	queued    map[int]bool

	dests   []node.Processor
	pending map[int][]entry

	monitors []node.Processor
	messages []node.Processor
}

// Resolve walks every chain from its root and returns the connection list.
// Splitters are switched through both paths during the walk and restored to
// their previous path before Resolve returns. Two calls on an unchanged
// graph return equal topologies.
//
// Resolve panics with ErrMergerPathMismatch if a merger is reached from a
// node that is not one of its sources.
func (r *Resolver) Resolve(g Graph) *Topology {
	p := &pass{
		g:         g,
		log:       r.log,
		paths:     map[int]int{},
		connected: map[int]bool{},
		queued:    map[int]bool{},
		pending:   map[int][]entry{},
	}
	defer p.restoreSplitters()

	p.resetRecordSinks(g.Roots())
	for _, root := range g.Roots() {
		p.walk(root)
	}

	t := p.materialize(r.blockSize)
	r.log.Debug("Resolved connections", "connections", len(t.Connections), "roots", len(g.Roots()))
	return t
}

// walk visits every concrete node reachable from root. Concrete nodes are
// kept on an explicit work stack; a node is expanded once per pass.
func (p *pass) walk(root node.Processor) {
	work := []node.Processor{root}
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		if p.connected[cur.ID()] {
			continue
		}

		if cur.Kind() != node.KindProcessor {
			// A splitter heading a chain carries no data of its own.
			work = p.explore(nil, hop{node: cur, continuous: true, events: true}, work)
			p.connected[cur.ID()] = true
			continue
		}

		if cur.IsAudioMonitor() {
			p.monitors = append(p.monitors, cur)
		}
		if cur.IsSource() {
			p.messages = append(p.messages, cur)
		}

		first := hop{
			node:       p.g.ProcessorByID(cur.DestID()),
			prev:       cur,
			continuous: true,
			events:     true,
		}
		work = p.explore(cur, first, work)
		p.connected[cur.ID()] = true
	}
}

// explore follows src through splitters and mergers until it reaches
// concrete nodes, records a pending entry for each of them and pushes the
// ones not yet expanded onto work.
func (p *pass) explore(src node.Processor, start hop, work []node.Processor) []node.Processor {
	hops := []hop{start}
	for len(hops) > 0 {
		h := hops[len(hops)-1]
		hops = hops[:len(hops)-1]
		n := h.node
		if n == nil {
			continue
		}

		switch n.Kind() {
		case node.KindSplitter:
			s := n.AsSplitter()
			p.visitSplitter(s)
			// Path 1 is pushed first so path 0 is explored first.
			for _, path := range []int{1, 0} {
				s.SwitchPath(path)
				next := h
				next.node = p.g.ProcessorByID(s.DestID())
				next.prev = s
				hops = append(hops, next)
			}

		case node.KindMerger:
			m := n.AsMerger()
			slot := m.SlotOf(idOf(h.prev))
			if slot < 0 {
				panic(fmt.Errorf("%w: merger %d is not fed by %d", ErrMergerPathMismatch, m.ID(), idOf(h.prev)))
			}
			hops = append(hops, hop{
				node:       p.g.ProcessorByID(m.DestID()),
				prev:       m,
				key:        append([]int{slot}, h.key...),
				continuous: h.continuous && m.ForwardContinuous(slot),
				events:     h.events && m.ForwardEvents(slot),
			})

		default:
			if src != nil {
				p.addPending(n, entry{source: src, key: h.key, continuous: h.continuous, events: h.events})
			}
			if !p.connected[n.ID()] && !p.queued[n.ID()] {
				p.queued[n.ID()] = true
				work = append(work, n)
			}
		}
	}
	return work
}

// resetRecordSinks clears the sources of every record node reachable from
// roots, including the branches a splitter does not currently feed, so a
// record node that lost its feeds ends the pass with none registered.
func (p *pass) resetRecordSinks(roots []node.Processor) {
	seen := map[int]bool{}
	work := slices.Clone(roots)
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		if cur == nil || seen[cur.ID()] {
			continue
		}
		seen[cur.ID()] = true

		if rec, ok := cur.(node.RecordSink); ok && cur.IsRecordNode() {
			rec.ResetSources()
		}
		next := []int{cur.DestID()}
		if s := cur.AsSplitter(); s != nil {
			next = []int{s.DestFor(0), s.DestFor(1)}
		}
		for _, id := range next {
			work = append(work, p.g.ProcessorByID(id))
		}
	}
}

func (p *pass) visitSplitter(s *node.Splitter) {
	if _, ok := p.paths[s.ID()]; ok {
		return
	}
	p.paths[s.ID()] = s.Path()
	p.splitters = append(p.splitters, s)
}

func (p *pass) restoreSplitters() {
	for _, s := range p.splitters {
		s.SwitchPath(p.paths[s.ID()])
	}
}

func (p *pass) addPending(dest node.Processor, e entry) {
	entries, seen := p.pending[dest.ID()]
	if !seen {
		p.dests = append(p.dests, dest)
	}
	for _, x := range entries {
		if x.source == e.source && slices.Equal(x.key, e.key) {
			return
		}
	}
	p.pending[dest.ID()] = append(entries, e)
}

// materialize emits the fixed audio links, the audio-monitor and
// message-center links, then the feeds of every destination in discovery
// order, ordered by merger key within one destination.
func (p *pass) materialize(blockSize int) *Topology {
	t := &Topology{}
	seen := map[Connection]bool{}
	add := func(c Connection) {
		if !seen[c] {
			seen[c] = true
			t.Connections = append(t.Connections, c)
		}
	}

	add(Connection{AudioNodeID, 0, OutputNodeID, 0})
	add(Connection{AudioNodeID, 1, OutputNodeID, 1})

	audioNext := 0
	for _, m := range p.monitors {
		for ch := range 2 {
			add(Connection{m.ID(), m.NumOutputs() + ch, AudioNodeID, audioNext})
			audioNext++
		}
		t.AudioMonitors = append(t.AudioMonitors, m.ID())
	}

	for _, s := range p.messages {
		add(Connection{s.ID(), node.EventChannel, MessageCenterID, node.EventChannel})
	}

	for _, dest := range p.dests {
		entries := p.pending[dest.ID()]
		slices.SortStableFunc(entries, func(a, b entry) int {
			return slices.Compare(a.key, b.key)
		})

		matcher, _ := dest.(node.ChannelMatcher)
		next := 0
		for _, e := range entries {
			if e.continuous {
				for i, ch := range e.source.Outputs() {
					idx := next
					if matcher != nil {
						idx = matcher.MatchInput(ch, next)
					}
					if idx < 0 {
						continue
					}
					add(Connection{e.source.ID(), i, dest.ID(), idx})
					next = max(next, idx+1)
				}
			}
			if e.events {
				add(Connection{e.source.ID(), node.EventChannel, dest.ID(), node.EventChannel})
			}
		}

		if rec, ok := dest.(node.RecordSink); ok && dest.IsRecordNode() {
			for _, e := range entries {
				rec.RegisterSource(e.source)
			}
			rec.SetBlockSize(blockSize)
			t.RecordNodes = append(t.RecordNodes, dest.ID())
		}
	}
	return t
}

func idOf(p node.Processor) int {
	if p == nil {
		return node.None
	}
	return p.ID()
}
