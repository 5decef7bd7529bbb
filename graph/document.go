package graph

import (
	"fmt"
	"slices"

	"github.com/birdayz/sigchain/node"
)

// DocumentVersion is the current chain document format.
const DocumentVersion = 1

// Document is the persisted form of a signal chain.
type Document struct {
	Version         int         `json:"version"`
	Nodes           []NodeState `json:"nodes"`
	Roots           []int       `json:"roots"`
	TimestampSource int         `json:"timestampSource,omitempty"`
	TimestampStream int         `json:"timestampStream,omitempty"`
}

// NodeState is one processor of a Document.
type NodeState struct {
	node.Description
	Links      node.Links  `json:"links"`
	Forwarding *Forwarding `json:"forwarding,omitempty"`
}

// Forwarding holds the per-slot flags of a merger.
type Forwarding struct {
	Continuous [2]bool `json:"continuous"`
	Events     [2]bool `json:"events"`
}

// Export captures the current chain.
func (g *Graph) Export() Document {
	doc := Document{
		Version:         DocumentVersion,
		Roots:           slices.Clone(g.roots),
		TimestampSource: g.ts.source,
		TimestampStream: g.ts.stream,
	}
	for _, p := range g.Processors() {
		params := p.Parameters()
		if len(params) == 0 {
			params = nil
		}
		ns := NodeState{
			Description: node.Description{
				Type:   p.Type(),
				Name:   p.Name(),
				NodeID: p.ID(),
				Params: params,
			},
			Links: p.Links(),
		}
		if m := p.AsMerger(); m != nil {
			ns.Forwarding = &Forwarding{
				Continuous: [2]bool{m.ForwardContinuous(0), m.ForwardContinuous(1)},
				Events:     [2]bool{m.ForwardEvents(0), m.ForwardEvents(1)},
			}
		}
		doc.Nodes = append(doc.Nodes, ns)
	}
	return doc
}

// Import replaces the current chain with doc. Processors are created in
// document order under bulk-load mode, links are restored verbatim and a
// single settings pass runs from every root at the end. An inconsistent
// document leaves the graph empty.
func (g *Graph) Import(doc Document) error {
	if doc.Version != DocumentVersion {
		return fmt.Errorf("%w: unsupported document version %d", ErrInconsistent, doc.Version)
	}

	g.ClearSignalChain()
	g.BeginLoad()

	if err := g.importNodes(doc); err != nil {
		g.ClearSignalChain()
		g.loading = false
		g.views.StatusMessage("Could not load signal chain.")
		return err
	}

	for _, p := range g.Processors() {
		if !node.Live(p) {
			if err := p.LoadParameters(); err != nil {
				g.log.Warn("Could not load parameters", "id", p.ID(), "err", err)
			}
		}
	}

	g.log.Info("Signal chain loaded", "nodes", len(g.nodes), "chains", len(g.roots))
	return g.EndLoad()
}

func (g *Graph) importNodes(doc Document) error {
	for _, ns := range doc.Nodes {
		if ns.NodeID <= 0 {
			return fmt.Errorf("%w: node %q without id", ErrInconsistent, ns.Type)
		}
		if _, ok := g.nodes[ns.NodeID]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateNodeID, ns.NodeID)
		}
		p, err := g.factory.Create(ns.Description)
		if err == nil && p == nil {
			err = node.ErrNilProcessor
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidDescription, ns.Description, err)
		}
		p.SetID(ns.NodeID)
		p.SetParameters(ns.Params)
		if err := setLinks(p, ns.Links); err != nil {
			return err
		}
		if m := p.AsMerger(); m != nil && ns.Forwarding != nil {
			for slot := range 2 {
				m.SetForwarding(slot, ns.Forwarding.Continuous[slot], ns.Forwarding.Events[slot])
			}
		}
		g.register(p)
		g.nextID = max(g.nextID, ns.NodeID+1)
	}

	for _, p := range g.Processors() {
		g.addTimestampCandidate(p)
	}
	if slices.Contains(g.ts.candidates, doc.TimestampSource) {
		g.ts.source = doc.TimestampSource
		g.ts.stream = doc.TimestampStream
	}

	g.roots = slices.Clone(doc.Roots)
	return g.Validate()
}

func setLinks(p node.Processor, l node.Links) error {
	if l.Path != 0 && l.Path != 1 {
		return fmt.Errorf("%w: node %d path %d", ErrInvalidPath, p.ID(), l.Path)
	}
	p.SetLinks(l)
	return nil
}
