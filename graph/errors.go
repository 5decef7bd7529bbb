package graph

import "errors"

var (
	// ErrTooManyChains is returned when a mutation would create more than
	// MaxSignalChains independent chains. The mutation is rolled back.
	ErrTooManyChains = errors.New("maximum of 8 signal chains")

	// ErrInvalidDescription is returned when the factory cannot create a
	// processor. The graph is left unchanged.
	ErrInvalidDescription = errors.New("not a valid processor")

	// ErrUnknownNode is returned when an id does not belong to the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrDuplicateNodeID is returned when a restored id is already taken.
	ErrDuplicateNodeID = errors.New("node id already in use")

	// ErrInvalidMove is returned for moves that would break the chain, such
	// as moving a node below itself.
	ErrInvalidMove = errors.New("invalid move")

	// ErrInvalidPath is returned when a splitter path or merger slot is not 0 or 1.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInconsistent is returned by Validate and Import when links do not
	// point back at each other or the root set is wrong.
	ErrInconsistent = errors.New("inconsistent graph")
)
