package graph

import (
	"errors"
	"fmt"
	"slices"

	"github.com/birdayz/sigchain/node"
	"go.uber.org/multierr"
)

// CreateProcessor instantiates desc and wires it between source and dest,
// either of which may be nil. A source processor placed behind another node
// starts a new chain. A node is never attached downstream of a sink or
// upstream of a source.
//
// When a bulk load is in progress the settings pass is deferred to EndLoad.
func (g *Graph) CreateProcessor(desc node.Description, source, dest node.Processor) (node.Processor, error) {
	if err := g.owns(source, dest); err != nil {
		return nil, err
	}

	p, err := g.factory.Create(desc)
	if err == nil && p == nil {
		err = node.ErrNilProcessor
	}
	if err != nil {
		g.log.Warn("Could not create processor", "type", desc.Type, "err", err)
		g.views.StatusMessage("Not a valid processor.")
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDescription, desc, err)
	}

	snap := g.snapshot()

	if desc.NodeID > 0 {
		if _, ok := g.nodes[desc.NodeID]; ok {
			g.log.Warn("Could not create processor", "type", desc.Type, "id", desc.NodeID, "err", ErrDuplicateNodeID)
			g.views.StatusMessage(fmt.Sprintf("Processor id %d is already in use.", desc.NodeID))
			return nil, fmt.Errorf("%w: %d", ErrDuplicateNodeID, desc.NodeID)
		}
		p.SetID(desc.NodeID)
		g.nextID = max(g.nextID, desc.NodeID+1)
	} else {
		p.SetID(g.nextID)
		g.nextID++
	}
	if desc.Params != nil {
		p.SetParameters(desc.Params)
	}
	g.register(p)

	g.log.Debug("Creating processor", "id", p.ID(), "type", desc.Type, "source", idOf(source), "dest", idOf(dest))

	err = g.wire(p, source, dest)
	g.addTimestampCandidate(p)
	if err == nil {
		g.pruneRoots()
	}
	if err != nil {
		g.restore(snap)
		g.log.Warn("Processor creation rolled back", "type", desc.Type, "err", err)
		g.views.StatusMessage(statusFor(err))
		g.views.UpdateViews(g.lastRoot(), false)
		return nil, err
	}

	if !g.loading || !node.Live(p) {
		if err := p.LoadParameters(); err != nil {
			g.log.Warn("Could not load parameters", "id", p.ID(), "err", err)
		}
	}

	g.views.StatusMessage(fmt.Sprintf("New %s created", p.Name()))

	if g.loading {
		g.views.UpdateViews(p, false)
		return p, nil
	}
	return p, g.UpdateSettings(p, false)
}

// wire attaches a freshly registered p and runs the root-node check for p
// and for every node that lost its source on the way.
func (g *Graph) wire(p, source, dest node.Processor) error {
	// A merger without sources feeds nothing; p starts a chain of its own.
	if source != nil && (source.IsSink() || source == p || dry(source)) {
		source = nil
	}
	if dest != nil && (dest.IsSource() || dest == p || dest == source || p.IsSink() || (source == nil && dry(p))) {
		dest = nil
	}

	if !p.IsSource() && source != nil && dest != nil && g.reachable(dest)[source.ID()] {
		return fmt.Errorf("%w: %d already feeds %d", ErrInvalidMove, dest.ID(), source.ID())
	}

	var orphans []node.Processor
	old := node.Processor(nil)
	if source != nil {
		old = g.ProcessorByID(source.DestID())
	}

	if p.IsSource() && source != nil {
		// A source dropped behind a node forks a new chain that takes over
		// whatever followed that node.
		target := dest
		if target == nil {
			target = old
		}
		if old != nil {
			if old == target {
				setSource(old, source.ID(), p.ID())
				setDest(source, old.ID(), node.None)
			} else {
				g.detachFromDest(source)
				orphans = append(orphans, old)
			}
		}
		if target != nil {
			g.attachDest(p, target)
		}
		g.pruneRoots()
		err := g.insertRootAfter(p, source)
		return g.checkOrphans(err, orphans)
	}

	if p.IsSource() {
		if dest != nil {
			g.attachDest(p, dest)
		}
		g.pruneRoots()
		return g.checkOrphans(g.checkForNewRootNodes(p, modeAdd), nil)
	}

	if source != nil {
		if dest == nil && old != nil && !p.IsSink() {
			dest = old
		}
		if old != nil {
			if old == dest {
				setSource(old, source.ID(), p.ID())
				p.SetDestID(old.ID())
			} else {
				g.detachFromDest(source)
				orphans = append(orphans, old)
			}
		}
		setDest(source, node.None, p.ID())
		p.SetSourceID(source.ID())
	}
	if dest != nil {
		g.attachDest(p, dest)
	}
	g.pruneRoots()
	return g.checkOrphans(g.checkForNewRootNodes(p, modeAdd), orphans)
}

// attachDest makes dst the live destination of p. The previous source of the
// destination slot loses its downstream link.
func (g *Graph) attachDest(p, dst node.Processor) {
	if !fedBy(dst, p.ID()) {
		g.detachFromSource(dst)
		dst.SetSourceID(p.ID())
	}
	p.SetDestID(dst.ID())
}

func (g *Graph) checkOrphans(err error, orphans []node.Processor) error {
	for _, o := range orphans {
		if err != nil {
			break
		}
		err = g.checkForNewRootNodes(o, modeAdd)
	}
	return err
}

// MoveProcessor detaches p, splices its neighbours together and re-inserts
// it between newSource and newDest. The root set is recomputed for the whole
// graph. Settings are propagated once: from the old destination when moving
// downstream, otherwise from p.
func (g *Graph) MoveProcessor(p, newSource, newDest node.Processor, movingDownstream bool) error {
	if err := g.owns(p, newSource, newDest); err != nil {
		return err
	}
	if p == nil || p.Kind() == node.KindMerger || newSource == p || newDest == p {
		return ErrInvalidMove
	}

	snap := g.snapshot()

	origSrc := g.ProcessorByID(p.SourceID())
	origDest := g.ProcessorByID(p.DestID())
	g.splice(p, origSrc, origDest)
	p.SetSourceID(node.None)
	p.SetDestID(node.None)
	g.roots = slices.DeleteFunc(g.roots, func(id int) bool { return id == p.ID() })

	below := g.reachable(p)
	if (newSource != nil && below[newSource.ID()]) || (newDest != nil && below[newDest.ID()]) {
		g.restore(snap)
		return fmt.Errorf("%w: %d would feed itself", ErrInvalidMove, p.ID())
	}

	g.log.Debug("Moving processor", "id", p.ID(), "source", idOf(newSource), "dest", idOf(newDest))

	err := g.wire(p, newSource, newDest)
	if err == nil {
		err = g.checkForNewRootNodes(p, modeMove)
	}
	if err != nil {
		g.restore(snap)
		g.views.StatusMessage(statusFor(err))
		return err
	}

	start := p
	if movingDownstream && origDest != nil {
		start = origDest
	}
	return g.UpdateSettings(start, false)
}

// splice connects the neighbours of a plain node or splitter around it.
func (g *Graph) splice(p, src, dst node.Processor) {
	if src != nil {
		setDest(src, p.ID(), idOf(dst))
	}
	if dst != nil {
		setSource(dst, p.ID(), idOf(src))
	}
}

// RemoveProcessor splices p out of the graph and drops it from the registry.
// The view of p is removed only after every link to it is gone.
func (g *Graph) RemoveProcessor(p node.Processor) error {
	if p == nil {
		return nil
	}
	if err := g.owns(p); err != nil {
		return err
	}

	snap := g.snapshot()

	origDest := g.ProcessorByID(p.DestID())
	var orphans []node.Processor

	if m := p.AsMerger(); m != nil {
		g.spliceMerger(m, origDest)
	} else {
		g.splice(p, g.ProcessorByID(p.SourceID()), origDest)
	}
	if origDest != nil && !node.Live(origDest) {
		orphans = append(orphans, origDest)
	}

	var err error
	if s := p.AsSplitter(); s != nil {
		// The branch that was not live loses its feed as well.
		s.SwitchIO()
		if alt := g.ProcessorByID(s.DestID()); alt != nil {
			setSource(alt, p.ID(), node.None)
			s.SetDestID(node.None)
			err = g.checkForNewRootNodes(alt, modeAdd)
		}
		s.SwitchIO()
	}

	if err == nil {
		err = g.checkForNewRootNodes(p, modeDelete)
	}
	err = g.checkOrphans(err, orphans)
	if err != nil {
		g.restore(snap)
		g.views.StatusMessage(statusFor(err))
		return err
	}

	g.removeTimestampCandidate(p)
	p.SetLinks(node.Links{})
	g.unregister(p)
	g.pruneRoots()

	g.log.Debug("Removed processor", "id", p.ID())
	g.views.RemoveView(p)
	return nil
}

// spliceMerger reconnects the sources of a merger that is being removed.
func (g *Graph) spliceMerger(m *node.Merger, dst node.Processor) {
	a := g.ProcessorByID(m.SourceFor(0))
	b := g.ProcessorByID(m.SourceFor(1))

	if dst == nil {
		for _, src := range []node.Processor{a, b} {
			if src != nil {
				setDest(src, m.ID(), node.None)
			}
		}
		return
	}

	var primary, other node.Processor
	switch {
	case a != nil && b == nil:
		primary = a
	case a == nil && b != nil:
		primary = b
	case a != nil && b != nil:
		primary, other = a, b
		if m.Path() == 1 {
			primary, other = b, a
		}
	}

	if primary == nil {
		setSource(dst, m.ID(), node.None)
		return
	}
	setDest(primary, m.ID(), dst.ID())
	setSource(dst, m.ID(), primary.ID())
	if other != nil {
		setDest(other, m.ID(), node.None)
	}
}

// DeleteNodes removes every processor in ps and refreshes the settings of
// the nodes that were fed by them.
func (g *Graph) DeleteNodes(ps ...node.Processor) error {
	var affected []int
	for _, p := range ps {
		if p == nil {
			continue
		}
		if s := p.AsSplitter(); s != nil {
			affected = append(affected, s.DestFor(0), s.DestFor(1))
		} else {
			affected = append(affected, p.DestID())
		}
	}

	var errs error
	for _, p := range ps {
		if err := g.RemoveProcessor(p); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		return errs
	}

	refreshed := false
	for _, id := range affected {
		if p := g.ProcessorByID(id); p != nil {
			refreshed = true
			errs = multierr.Append(errs, g.UpdateSettings(p, false))
		}
	}
	if !refreshed {
		g.views.UpdateViews(nil, true)
	}
	return errs
}

// ConnectMergerSource wires src into slot path of m and activates that slot.
// Whatever src fed before loses its source; whatever occupied the slot loses
// its destination.
func (g *Graph) ConnectMergerSource(m *node.Merger, src node.Processor, path int) error {
	if m == nil || src == nil {
		return fmt.Errorf("%w: nil merger or source", ErrUnknownNode)
	}
	if err := g.owns(m, src); err != nil {
		return err
	}
	if path != 0 && path != 1 {
		return fmt.Errorf("%w: %d", ErrInvalidPath, path)
	}
	if src.IsSink() || src == node.Processor(m) || g.reachable(m)[src.ID()] {
		return fmt.Errorf("%w: %d cannot feed merger %d", ErrInvalidMove, src.ID(), m.ID())
	}

	snap := g.snapshot()

	if prev := g.ProcessorByID(m.SourceFor(path)); prev != nil && prev != src {
		setDest(prev, m.ID(), node.None)
	}
	if other := m.SlotOf(src.ID()); other >= 0 && other != path {
		m.SetSourceFor(other, node.None)
	}
	if old := g.ProcessorByID(src.DestID()); old != nil && old != node.Processor(m) {
		g.detachFromDest(src)
	}
	m.SwitchPath(path)
	m.SetSourceFor(path, src.ID())
	setDest(src, node.None, m.ID())

	if err := g.checkForNewRootNodes(m, modeMove); err != nil {
		g.restore(snap)
		g.views.StatusMessage(statusFor(err))
		return err
	}
	return g.UpdateSettings(m, false)
}

// SwitchIO selects path on a splitter or merger.
func (g *Graph) SwitchIO(p node.Processor, path int) error {
	if err := g.owns(p); err != nil {
		return err
	}
	if path != 0 && path != 1 {
		return fmt.Errorf("%w: %d", ErrInvalidPath, path)
	}
	switch p.Kind() {
	case node.KindSplitter:
		p.AsSplitter().SwitchPath(path)
	case node.KindMerger:
		p.AsMerger().SwitchPath(path)
	default:
		return fmt.Errorf("%w: %s has no paths", ErrInvalidPath, p.Name())
	}
	g.views.UpdateViews(p, true)
	return nil
}

// ClearSignalChain removes every processor and resets the id counter, the
// root set and the timestamp registry.
func (g *Graph) ClearSignalChain() {
	for _, p := range g.Processors() {
		p.SetLinks(node.Links{})
		g.views.RemoveView(p)
	}
	clear(g.nodes)
	g.order = nil
	g.roots = nil
	g.nextID = FirstNodeID
	g.ts.reset(g.now())
	g.log.Debug("Signal chain cleared")
	g.views.UpdateViews(nil, true)
}

// owns checks that every non-nil p is registered in g.
func (g *Graph) owns(ps ...node.Processor) error {
	for _, p := range ps {
		if p == nil {
			continue
		}
		if g.nodes[p.ID()] != p {
			return fmt.Errorf("%w: %d", ErrUnknownNode, p.ID())
		}
	}
	return nil
}

func (g *Graph) lastRoot() node.Processor {
	if len(g.roots) == 0 {
		return nil
	}
	return g.nodes[g.roots[len(g.roots)-1]]
}

// dry reports whether p is a merger with no occupied source slot.
func dry(p node.Processor) bool {
	m := p.AsMerger()
	return m != nil && m.LiveSources() == 0
}

func idOf(p node.Processor) int {
	if p == nil {
		return node.None
	}
	return p.ID()
}

func statusFor(err error) string {
	if errors.Is(err, ErrTooManyChains) {
		return "Signal chain error: maximum of 8 signal chains."
	}
	return err.Error()
}
