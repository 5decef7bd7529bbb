package graph

import "github.com/birdayz/sigchain/node"

// setSource rewires the upstream link of dst that currently points at old so
// it points at src. Mergers keep the slot of old, or use the active slot when
// old is not connected.
func setSource(dst node.Processor, old, src int) {
	if m := dst.AsMerger(); m != nil {
		slot := m.SlotOf(old)
		if slot < 0 {
			slot = m.Path()
		}
		m.SetSourceFor(slot, src)
		return
	}
	dst.SetSourceID(src)
}

// setDest rewires the downstream link of src that currently points at old so
// it points at dst. Splitters keep the path of old, or use the active path
// when old is not connected.
func setDest(src node.Processor, old, dst int) {
	if s := src.AsSplitter(); s != nil {
		path := s.PathOf(old)
		if path < 0 {
			path = s.Path()
		}
		s.SetDestFor(path, dst)
		return
	}
	src.SetDestID(dst)
}

// pointsTo reports whether src has a downstream link to id on any path.
func pointsTo(src node.Processor, id int) bool {
	if s := src.AsSplitter(); s != nil {
		return s.PathOf(id) >= 0
	}
	return id != node.None && src.DestID() == id
}

// fedBy reports whether dst has an upstream link to id in any slot.
func fedBy(dst node.Processor, id int) bool {
	if m := dst.AsMerger(); m != nil {
		return m.SlotOf(id) >= 0
	}
	return id != node.None && dst.SourceID() == id
}

// upstream returns the nodes passed to Update for p.
func (g *Graph) upstream(p node.Processor) []node.Processor {
	if m := p.AsMerger(); m != nil {
		return []node.Processor{g.ProcessorByID(m.SourceFor(0)), g.ProcessorByID(m.SourceFor(1))}
	}
	if src := g.ProcessorByID(p.SourceID()); src != nil {
		return []node.Processor{src}
	}
	return nil
}

// reachable returns every node reachable from p through any link,
// including inactive splitter branches.
func (g *Graph) reachable(p node.Processor) map[int]bool {
	seen := map[int]bool{}
	stack := []node.Processor{p}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, id := range downstreamIDs(cur) {
			if n := g.ProcessorByID(id); n != nil && !seen[id] {
				seen[id] = true
				stack = append(stack, n)
			}
		}
	}
	return seen
}

// detachFromSource clears the upstream link of dst that holds src, and the
// matching downstream link of src.
func (g *Graph) detachFromSource(dst node.Processor) {
	srcID := dst.SourceID()
	src := g.ProcessorByID(srcID)
	if src == nil {
		return
	}
	if pointsTo(src, dst.ID()) {
		setDest(src, dst.ID(), node.None)
	}
	setSource(dst, srcID, node.None)
}

// detachFromDest clears the downstream link of src and the matching upstream
// link of its destination. It returns the detached destination.
func (g *Graph) detachFromDest(src node.Processor) node.Processor {
	dst := g.ProcessorByID(src.DestID())
	if dst == nil {
		return nil
	}
	if fedBy(dst, src.ID()) {
		setSource(dst, src.ID(), node.None)
	}
	setDest(src, dst.ID(), node.None)
	return dst
}

// connect links src to dst, using the active splitter path of src and the
// active merger slot of dst.
func connect(src, dst node.Processor) {
	src.SetDestID(dst.ID())
	dst.SetSourceID(src.ID())
}
