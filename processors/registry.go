package processors

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/birdayz/sigchain/node"
)

var ErrDuplicateType = errors.New("processor type already registered")

// Constructor builds a processor from its description.
type Constructor func(desc node.Description) node.Processor

// Registry maps processor types to constructors. It implements node.Factory.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

func NewRegistry() *Registry {
	return &Registry{ctors: map[string]Constructor{}}
}

// DefaultRegistry returns a registry holding every built-in processor.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(SignalSourceType, func(d node.Description) node.Processor { return NewSignalSource(d.Name) })
	r.MustRegister(FilterType, func(d node.Description) node.Processor { return NewFilter(d.Name) })
	r.MustRegister(SinkType, func(d node.Description) node.Processor { return NewSink(d.Name) })
	r.MustRegister(RecordNodeType, func(d node.Description) node.Processor { return NewRecordNode(d.Name) })
	r.MustRegister(AudioMonitorType, func(d node.Description) node.Processor { return NewAudioMonitor(d.Name) })
	r.MustRegister(node.SplitterType, func(d node.Description) node.Processor { return node.NewSplitter(d.Name) })
	r.MustRegister(node.MergerType, func(d node.Description) node.Processor { return node.NewMerger(d.Name) })
	return r
}

func (r *Registry) Register(typ string, c Constructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ctors[typ]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateType, typ)
	}
	r.ctors[typ] = c
	return nil
}

func (r *Registry) MustRegister(typ string, c Constructor) {
	if err := r.Register(typ, c); err != nil {
		panic(err)
	}
}

// Create implements node.Factory.
func (r *Registry) Create(desc node.Description) (node.Processor, error) {
	r.mu.RLock()
	c, ok := r.ctors[desc.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", node.ErrUnknownType, desc.Type)
	}
	p := c(desc)
	if p == nil {
		return nil, fmt.Errorf("%w: %q", node.ErrNilProcessor, desc.Type)
	}
	return p, nil
}

// Types returns the registered types in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.ctors))
}

var _ node.Factory = (*Registry)(nil)
