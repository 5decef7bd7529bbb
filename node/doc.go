// Package node defines the processor abstraction the signal-chain graph is
// built from.
//
// A Processor is a unit with a stable integer id, a set of continuous output
// channels plus one event side-channel, and links to its neighbours. Links
// are plain node ids, never pointers: the graph package owns every node in a
// single registry and resolves links by lookup, so removing a node can never
// leave a dangling reference behind.
//
// Three kinds of node exist:
//
//	KindProcessor  ordinary node with one source and one destination
//	KindSplitter   one source, two alternative destinations, one active path
//	KindMerger     two source slots, one destination, per-slot forwarding flags
//
// Graph code pattern-matches on Kind and uses AsSplitter/AsMerger to reach the
// specialised view, so no runtime type inspection is needed to tell them apart.
//
// Processors that implement the optional interfaces in this package
// (TimestampClock, RecordSink, Acquirer, Readier, ConfigHandler, ChannelMatcher)
// receive the matching callbacks from the graph, resolver and engine.
package node
