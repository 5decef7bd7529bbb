package graph

import "github.com/birdayz/sigchain/node"

// Views receives the externally visible side effects of graph mutations:
// view refreshes, view teardown and status messages.
type Views interface {
	UpdateViews(p node.Processor, updateGraphViewer bool)
	RemoveView(p node.Processor)
	StatusMessage(msg string)
}

type nopViews struct{}

func (nopViews) UpdateViews(node.Processor, bool) {}
func (nopViews) RemoveView(node.Processor) {}
func (nopViews) StatusMessage(string) {}
