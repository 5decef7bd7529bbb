package graph

import (
	"slices"

	"github.com/birdayz/sigchain/node"
)

type rootMode int

const (
	// modeAdd checks a node that was just created or lost its source.
	modeAdd rootMode = iota
	// modeDelete hands the root entry of a removed node to its successor.
	modeDelete
	// modeMove recomputes the root set from scratch.
	modeMove
)

func (m rootMode) String() string {
	switch m {
	case modeAdd:
		return "add"
	case modeDelete:
		return "delete"
	case modeMove:
		return "move"
	default:
		return "unknown"
	}
}

// checkForNewRootNodes keeps the root set in line with the links around p.
// It returns ErrTooManyChains when the check would exceed MaxSignalChains;
// the caller must roll the mutation back.
func (g *Graph) checkForNewRootNodes(p node.Processor, mode rootMode) error {
	var err error
	switch mode {
	case modeAdd:
		err = g.rootsAfterAdd(p)
	case modeDelete:
		err = g.rootsAfterDelete(p)
	case modeMove:
		err = g.rescanRoots()
	}
	if err != nil {
		g.log.Warn("Root node check failed", "node", p.ID(), "mode", mode, "err", err)
	}
	return err
}

func (g *Graph) rootsAfterAdd(p node.Processor) error {
	if node.Live(p) {
		return nil
	}
	if m := p.AsMerger(); m != nil {
		if dst := g.collapse(m); dst != nil {
			return g.rootsAfterAdd(dst)
		}
		return nil
	}
	if slices.Contains(g.roots, p.ID()) {
		return nil
	}
	if dst := g.ProcessorByID(p.DestID()); dst != nil {
		if i := slices.Index(g.roots, dst.ID()); i >= 0 {
			g.log.Debug("Replacing root", "old", dst.ID(), "new", p.ID())
			g.roots[i] = p.ID()
			return nil
		}
	}
	return g.addRoot(p.ID())
}

func (g *Graph) rootsAfterDelete(p node.Processor) error {
	i := slices.Index(g.roots, p.ID())
	if i < 0 {
		return nil
	}
	dst := g.ProcessorByID(p.DestID())
	switch {
	case dst == nil || node.Live(dst):
		g.roots = slices.Delete(g.roots, i, i+1)
	case dst.Kind() == node.KindMerger:
		g.roots = slices.Delete(g.roots, i, i+1)
		if next := g.collapse(dst.AsMerger()); next != nil && !node.Live(next) {
			return g.insertRoot(i, next)
		}
	default:
		g.roots = slices.Delete(g.roots, i, i+1)
		return g.insertRoot(i, dst)
	}
	return nil
}

// rescanRoots rebuilds the root set: a node is a root iff it has no live
// source and is not a merger. Existing entries keep their order and new
// roots are appended in scan order.
func (g *Graph) rescanRoots() error {
	for changed := true; changed; {
		changed = false
		for _, id := range g.order {
			if m := g.nodes[id].AsMerger(); m != nil && g.collapse(m) != nil {
				changed = true
			}
		}
	}

	want := map[int]bool{}
	for _, id := range g.order {
		p := g.nodes[id]
		if !node.Live(p) && p.Kind() != node.KindMerger {
			want[id] = true
		}
	}
	roots := slices.DeleteFunc(slices.Clone(g.roots), func(id int) bool { return !want[id] })
	for _, id := range g.order {
		if want[id] && !slices.Contains(roots, id) {
			roots = append(roots, id)
		}
	}
	if len(roots) > MaxSignalChains {
		return ErrTooManyChains
	}
	g.roots = roots
	return nil
}

// collapse detaches a merger that lost both sources from its destination and
// returns that destination. It returns nil when the merger still has a
// source or no destination.
func (g *Graph) collapse(m *node.Merger) node.Processor {
	if m.LiveSources() > 0 || m.DestID() == node.None {
		return nil
	}
	g.roots = slices.DeleteFunc(g.roots, func(id int) bool { return id == m.ID() })
	dst := g.detachFromDest(m)
	g.log.Debug("Merger collapsed", "merger", m.ID(), "dest", dst.ID())
	return dst
}

func (g *Graph) addRoot(id int) error {
	if slices.Contains(g.roots, id) {
		return nil
	}
	if len(g.roots) >= MaxSignalChains {
		return ErrTooManyChains
	}
	g.roots = append(g.roots, id)
	return nil
}

func (g *Graph) insertRoot(i int, p node.Processor) error {
	if slices.Contains(g.roots, p.ID()) {
		return nil
	}
	if len(g.roots) >= MaxSignalChains {
		return ErrTooManyChains
	}
	g.roots = slices.Insert(g.roots, min(i, len(g.roots)), p.ID())
	return nil
}

// insertRootAfter places p right behind the root of the chain holding src.
func (g *Graph) insertRootAfter(p, src node.Processor) error {
	root := g.chainRoot(src)
	i := slices.Index(g.roots, root.ID())
	if i < 0 {
		return g.addRoot(p.ID())
	}
	return g.insertRoot(i+1, p)
}

// chainRoot walks upstream from p to the entry point of its chain.
func (g *Graph) chainRoot(p node.Processor) node.Processor {
	cur := p
	for range len(g.nodes) {
		next := g.ProcessorByID(cur.SourceID())
		if m := cur.AsMerger(); m != nil && next == nil {
			next = g.ProcessorByID(m.SourceFor(1 - m.Path()))
		}
		if next == nil {
			break
		}
		cur = next
	}
	return cur
}

// pruneRoots drops entries that no longer qualify as roots.
func (g *Graph) pruneRoots() {
	g.roots = slices.DeleteFunc(g.roots, func(id int) bool {
		p, ok := g.nodes[id]
		return !ok || node.Live(p) || p.Kind() == node.KindMerger
	})
}
