package graph

import (
	"fmt"
	"slices"

	"github.com/birdayz/sigchain/node"
	"go.uber.org/multierr"
)

// Validate checks that every link points at a registered node that links
// back, that sources have no upstream and sinks no downstream, and that the
// root set holds exactly the nodes without a live source, mergers excluded.
func (g *Graph) Validate() error {
	var errs error
	fail := func(format string, args ...any) {
		errs = multierr.Append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInconsistent}, args...)...))
	}

	for _, id := range g.order {
		p := g.nodes[id]
		if p.IsSource() && node.Live(p) {
			fail("source %d has an upstream node", id)
		}

		for _, src := range upstreamIDs(p) {
			sp, ok := g.nodes[src]
			switch {
			case !ok:
				fail("%d has dangling source %d", id, src)
			case !pointsTo(sp, id):
				fail("%d names %d as source but %d does not feed it", id, src, src)
			}
		}

		dests := downstreamIDs(p)
		if p.IsSink() && len(dests) > 0 {
			fail("sink %d has a downstream node", id)
		}
		for _, dst := range dests {
			dp, ok := g.nodes[dst]
			switch {
			case !ok:
				fail("%d has dangling destination %d", id, dst)
			case !fedBy(dp, id):
				fail("%d names %d as destination but %d is not fed by it", id, dst, dst)
			}
		}

		if m := p.AsMerger(); m != nil && m.LiveSources() == 0 && m.DestID() != node.None {
			fail("merger %d has no source but feeds %d", id, m.DestID())
		}
	}

	if len(g.roots) > MaxSignalChains {
		fail("%d roots exceed the limit", len(g.roots))
	}
	for i, id := range g.roots {
		p, ok := g.nodes[id]
		switch {
		case !ok:
			fail("root %d is not registered", id)
		case node.Live(p):
			fail("root %d has a source", id)
		case p.Kind() == node.KindMerger:
			fail("merger %d is a root", id)
		case slices.Index(g.roots, id) != i:
			fail("root %d is listed twice", id)
		}
	}
	for _, id := range g.order {
		p := g.nodes[id]
		if !node.Live(p) && p.Kind() != node.KindMerger && !slices.Contains(g.roots, id) {
			fail("%d has no source but is not a root", id)
		}
	}
	return errs
}

func upstreamIDs(p node.Processor) []int {
	var ids []int
	if m := p.AsMerger(); m != nil {
		for slot := range 2 {
			if id := m.SourceFor(slot); id != node.None {
				ids = append(ids, id)
			}
		}
		return ids
	}
	if id := p.SourceID(); id != node.None {
		ids = append(ids, id)
	}
	return ids
}

func downstreamIDs(p node.Processor) []int {
	var ids []int
	if s := p.AsSplitter(); s != nil {
		for path := range 2 {
			if id := s.DestFor(path); id != node.None {
				ids = append(ids, id)
			}
		}
		return ids
	}
	if id := p.DestID(); id != node.None {
		ids = append(ids, id)
	}
	return ids
}
