// Package graph maintains the signal chain: the registry of processors, the
// links between them, the set of chain entry points and the global timestamp
// source.
//
// # Overview
//
// A Graph is the single owner of every processor. Processors refer to their
// neighbours by id, and every mutation keeps those links mutually consistent:
// if A names B as its destination, B names A as its source (mergers and
// splitters track two slots each and follow the same rule per slot).
//
// The mutation API consists of:
//
//   - CreateProcessor: instantiate a processor through the node factory and
//     insert it between two neighbours
//   - MoveProcessor: splice a processor out and re-insert it elsewhere
//   - RemoveProcessor / DeleteNodes: splice a processor out and drop it
//   - ConnectMergerSource / SwitchIO: rewire merger slots and splitter paths
//
// Each of them ends with a root-node check, and each rejected mutation
// restores a snapshot of all links, so the previous graph stays intact.
//
// # Roots
//
// A root is a processor without a live source: the entry point of one
// independent chain. At most MaxSignalChains roots may exist. Mergers are
// never roots. A merger that loses both sources detaches from its
// destination, which then becomes a root in its own right.
//
// # Settings propagation
//
// After a structural change UpdateSettings walks downstream from the
// affected node and calls Update on every processor. Splitter branches are
// handled with an explicit stack: branch 0 is walked to completion, then
// branch 1. During a bulk load (BeginLoad/EndLoad) the passes are deferred
// and run once per root when the load ends.
//
// # Basic Usage
//
//	g := graph.New(processors.DefaultRegistry(), graph.WithLog(log))
//
//	src, _ := g.CreateProcessor(node.Description{Type: processors.SignalSourceType}, nil, nil)
//	flt, _ := g.CreateProcessor(node.Description{Type: processors.FilterType}, src, nil)
//	_, _ = g.CreateProcessor(node.Description{Type: processors.SinkType}, flt, nil)
//
//	// Remove the filter; the source now feeds the sink directly.
//	_ = g.RemoveProcessor(flt)
package graph
