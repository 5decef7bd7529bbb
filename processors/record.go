package processors

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/birdayz/sigchain/node"
)

const RecordNodeType = "RecordNode"

var ErrNothingToRecord = errors.New("record node has no sources")

// RecordNode is the sink that writes every stream it receives. The resolver
// registers each upstream node on every pass; the source list is read by
// the acquisition side concurrently and guarded by mu.
type RecordNode struct {
	node.Base

	mu        sync.Mutex
	sources   []int
	blockSize int
	recording bool
}

func NewRecordNode(name string) *RecordNode {
	return &RecordNode{Base: node.NewBase(RecordNodeType, name)}
}

func (r *RecordNode) IsSink() bool { return true }
func (r *RecordNode) IsRecordNode() bool { return true }

func (r *RecordNode) ResetSources() {
	r.mu.Lock()
	r.sources = nil
	r.mu.Unlock()
}

func (r *RecordNode) RegisterSource(src node.Processor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !slices.Contains(r.sources, src.ID()) {
		r.sources = append(r.sources, src.ID())
	}
}

func (r *RecordNode) SetBlockSize(samples int) {
	r.mu.Lock()
	r.blockSize = samples
	r.mu.Unlock()
}

// Sources returns the registered upstream ids in registration order.
func (r *RecordNode) Sources() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.sources)
}

func (r *RecordNode) BlockSize() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.blockSize
}

func (r *RecordNode) StartAcquisition(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sources) == 0 {
		return ErrNothingToRecord
	}
	r.recording = true
	return nil
}

func (r *RecordNode) StopAcquisition(context.Context) error {
	r.mu.Lock()
	r.recording = false
	r.mu.Unlock()
	return nil
}

func (r *RecordNode) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

var (
	_ node.RecordSink = (*RecordNode)(nil)
	_ node.Acquirer   = (*RecordNode)(nil)
)
