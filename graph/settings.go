package graph

import (
	"fmt"

	"github.com/birdayz/sigchain/node"
	"go.uber.org/multierr"
)

// UpdateSettings walks downstream from start and lets every node recompute
// its channel shape. Both branches of every splitter are visited: branch 0
// to completion first, then branch 1, using an explicit stack.
//
// The call is a no-op unless loading matches the bulk-load state of the
// graph, so hooks fired from inside processors cannot trigger a partial pass
// in the middle of a load. When loading, nodes with a source also apply their
// persisted parameters once their shape is current.
func (g *Graph) UpdateSettings(start node.Processor, loading bool) error {
	if loading != g.loading {
		return nil
	}
	err := g.propagate(start, loading)
	g.views.UpdateViews(start, true)
	return err
}

func (g *Graph) propagate(start node.Processor, loading bool) error {
	p := start
	if p != nil && p.Kind() == node.KindMerger {
		if src := g.ProcessorByID(p.SourceID()); src != nil {
			p = src
		}
	}

	var (
		errs    error
		pending []*node.Splitter
		pushed  = map[int]bool{}
		steps   = 0
		limit   = 2*len(g.nodes) + 2
	)
	for {
		for p != nil {
			if steps++; steps > limit*limit {
				return multierr.Append(errs, fmt.Errorf("%w: settings pass does not terminate at %d", ErrInconsistent, p.ID()))
			}
			errs = multierr.Append(errs, g.refresh(p, loading))

			if s := p.AsSplitter(); s != nil && !pushed[s.ID()] {
				pushed[s.ID()] = true
				pending = append(pending, s)
				p = g.ProcessorByID(s.DestFor(0))
				continue
			}
			p = g.ProcessorByID(p.DestID())
		}
		if len(pending) == 0 {
			return errs
		}
		s := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		p = g.ProcessorByID(s.DestFor(1))
	}
}

func (g *Graph) refresh(p node.Processor, loading bool) error {
	up := g.upstream(p)
	if err := p.Update(up); err != nil {
		return fmt.Errorf("update %s (%d): %w", p.Name(), p.ID(), err)
	}
	if !loading || !node.Live(p) {
		return nil
	}
	if err := p.LoadParameters(); err != nil {
		return fmt.Errorf("load parameters %s (%d): %w", p.Name(), p.ID(), err)
	}
	if err := p.Update(up); err != nil {
		return fmt.Errorf("update %s (%d): %w", p.Name(), p.ID(), err)
	}
	return nil
}

// BeginLoad starts a bulk signal-chain load. Created processors skip their
// settings pass until EndLoad.
func (g *Graph) BeginLoad() {
	g.loading = true
}

// EndLoad propagates settings from every root with loading semantics, ends
// the bulk load and refreshes the views once.
func (g *Graph) EndLoad() error {
	if !g.loading {
		return nil
	}
	var errs error
	for _, r := range g.Roots() {
		errs = multierr.Append(errs, g.propagate(r, true))
	}
	g.loading = false
	g.views.UpdateViews(g.lastRoot(), true)
	return errs
}
