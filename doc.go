// Package sigchain manages a signal chain of processors: a directed graph
// of sources, filters, sinks, splitters and mergers that is resolved into a
// flat connection list for a block-based execution engine.
//
// A Controller applies edits such as adding, moving and deleting
// processors, keeps the resolved topology published, records undo history
// and optionally persists the chain to a recovery file and a named library.
package sigchain
