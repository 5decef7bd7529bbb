package graph

import (
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/birdayz/sigchain/node"
)

const (
	typeSource   = "Source"
	typeFilter   = "Filter"
	typeSink     = "Sink"
	typeSplitter = node.SplitterType
	typeMerger   = node.MergerType
)

// testProc records every Update and LoadParameters call.
type testProc struct {
	node.Base

	source bool
	sink   bool
	clock  int64
	loaded int
	log    *[]int
}

func (p *testProc) IsSource() bool { return p.source }
func (p *testProc) IsSink() bool { return p.sink }
func (p *testProc) GeneratesTimestamps() bool { return p.source }

func (p *testProc) Update(up []node.Processor) error {
	*p.log = append(*p.log, p.ID())
	if p.source {
		p.SetOutputs([]node.Channel{
			{Origin: p.ID(), Index: 0, Name: "CH1"},
			{Origin: p.ID(), Index: 1, Name: "CH2"},
		})
		return nil
	}
	return p.Base.Update(up)
}

func (p *testProc) LoadParameters() error {
	p.loaded++
	return p.Base.LoadParameters()
}

func (p *testProc) Timestamp(int) int64 { return p.clock }
func (p *testProc) SampleRate(int) float64 { return 30000 }

type fixture struct {
	t       *testing.T
	g       *Graph
	updates []int
}

func (f *fixture) factory() node.Factory {
	return node.FactoryFunc(func(d node.Description) (node.Processor, error) {
		switch d.Type {
		case typeSource, typeFilter, typeSink:
			return &testProc{
				Base:   node.NewBase(d.Type, d.Name),
				source: d.Type == typeSource,
				sink:   d.Type == typeSink,
				log:    &f.updates,
			}, nil
		case typeSplitter:
			return node.NewSplitter(d.Name), nil
		case typeMerger:
			return node.NewMerger(d.Name), nil
		}
		return nil, fmt.Errorf("%w: %q", node.ErrUnknownType, d.Type)
	})
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{t: t}
	f.g = New(f.factory(), opts...)
	return f
}

func (f *fixture) add(typ string, source, dest node.Processor) node.Processor {
	f.t.Helper()
	p, err := f.g.CreateProcessor(node.Description{Type: typ}, source, dest)
	assert.NoError(f.t, err)
	return p
}

func (f *fixture) proc(p node.Processor) *testProc {
	return p.(*testProc)
}

// chain returns the ids of chain i following active links.
func (f *fixture) chain(i int) []int {
	var ids []int
	for _, p := range f.g.ViewSignalChain(i) {
		ids = append(ids, p.ID())
	}
	return ids
}

func (f *fixture) valid() {
	f.t.Helper()
	assert.NoError(f.t, f.g.Validate())
}

func (f *fixture) resetUpdates() {
	f.updates = nil
}
