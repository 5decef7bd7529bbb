package graph

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/birdayz/sigchain/node"
	"go.uber.org/mock/gomock"
)

func TestCreateProcessor(t *testing.T) {
	t.Run("simple chain", func(t *testing.T) {
		f := newFixture(t)
		a := f.add(typeSource, nil, nil)
		b := f.add(typeFilter, a, nil)
		c := f.add(typeSink, b, nil)

		assert.Equal(t, []int{100, 101, 102}, []int{a.ID(), b.ID(), c.ID()})
		assert.Equal(t, []int{100}, f.g.RootIDs())
		assert.Equal(t, []int{100, 101, 102}, f.chain(0))
		assert.Equal(t, 103, f.g.NextID())
		assert.Equal(t, 2, c.NumOutputs())
		f.valid()
	})

	t.Run("insert between source and its destination", func(t *testing.T) {
		f := newFixture(t)
		a := f.add(typeSource, nil, nil)
		s := f.add(typeSink, a, nil)
		x := f.add(typeFilter, a, s)
		y := f.add(typeFilter, a, nil)

		assert.Equal(t, []int{a.ID(), y.ID(), x.ID(), s.ID()}, f.chain(0))
		assert.Equal(t, []int{100}, f.g.RootIDs())
		f.valid()
	})

	t.Run("source behind a node forks a new chain", func(t *testing.T) {
		f := newFixture(t)
		a := f.add(typeSource, nil, nil)
		flt := f.add(typeFilter, a, nil)
		s := f.add(typeSink, flt, nil)
		b := f.add(typeSource, flt, nil)

		assert.Equal(t, []int{a.ID(), b.ID()}, f.g.RootIDs())
		assert.Equal(t, []int{a.ID(), flt.ID()}, f.chain(0))
		assert.Equal(t, []int{b.ID(), s.ID()}, f.chain(1))
		f.valid()
	})

	t.Run("nothing follows a sink", func(t *testing.T) {
		f := newFixture(t)
		a := f.add(typeSource, nil, nil)
		s := f.add(typeSink, a, nil)
		x := f.add(typeFilter, s, nil)

		assert.Equal(t, node.None, x.SourceID())
		assert.Equal(t, node.None, s.DestID())
		assert.Equal(t, []int{a.ID(), x.ID()}, f.g.RootIDs())
		f.valid()
	})

	t.Run("source never gets an upstream node", func(t *testing.T) {
		f := newFixture(t)
		a := f.add(typeSource, nil, nil)
		x := f.add(typeFilter, nil, a)

		assert.Equal(t, node.None, a.SourceID())
		assert.Equal(t, node.None, x.DestID())
		assert.Equal(t, []int{a.ID(), x.ID()}, f.g.RootIDs())
		f.valid()
	})

	t.Run("invalid description reports status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		views := NewMockViews(ctrl)
		views.EXPECT().StatusMessage("Not a valid processor.")

		f := newFixture(t, WithViews(views))
		_, err := f.g.CreateProcessor(node.Description{Type: "Nope"}, nil, nil)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidDescription))
		assert.True(t, errors.Is(err, node.ErrUnknownType))
		assert.Equal(t, 0, f.g.Len())
		assert.Equal(t, FirstNodeID, f.g.NextID())
	})

	t.Run("pre-assigned ids", func(t *testing.T) {
		f := newFixture(t)
		p, err := f.g.CreateProcessor(node.Description{Type: typeSource, NodeID: 250}, nil, nil)
		assert.NoError(t, err)
		assert.Equal(t, 250, p.ID())
		assert.Equal(t, 251, f.g.NextID())

		q := f.add(typeFilter, p, nil)
		assert.Equal(t, 251, q.ID())

		_, err = f.g.CreateProcessor(node.Description{Type: typeSource, NodeID: 250}, nil, nil)
		assert.True(t, errors.Is(err, ErrDuplicateNodeID))
		assert.Equal(t, 2, f.g.Len())
	})

	t.Run("duplicate id reports status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		views := NewMockViews(ctrl)
		views.EXPECT().StatusMessage("Processor id 250 is already in use.")
		views.EXPECT().StatusMessage(gomock.Any()).AnyTimes()
		views.EXPECT().UpdateViews(gomock.Any(), gomock.Any()).AnyTimes()

		f := newFixture(t, WithViews(views))
		_, err := f.g.CreateProcessor(node.Description{Type: typeSource, NodeID: 250}, nil, nil)
		assert.NoError(t, err)
		before := f.g.Export()

		_, err = f.g.CreateProcessor(node.Description{Type: typeFilter, NodeID: 250}, nil, nil)
		assert.True(t, errors.Is(err, ErrDuplicateNodeID))
		assert.Equal(t, before, f.g.Export())
		assert.Equal(t, 251, f.g.NextID())
	})

	t.Run("unknown neighbour", func(t *testing.T) {
		f := newFixture(t)
		other := newFixture(t)
		stranger := other.add(typeSource, nil, nil)

		_, err := f.g.CreateProcessor(node.Description{Type: typeFilter}, stranger, nil)
		assert.True(t, errors.Is(err, ErrUnknownNode))
	})

	t.Run("parameters applied outside a load", func(t *testing.T) {
		f := newFixture(t)
		p, err := f.g.CreateProcessor(node.Description{Type: typeSource, Params: map[string]string{"gain": "3"}}, nil, nil)
		assert.NoError(t, err)
		v, ok := f.proc(p).Param("gain")
		assert.True(t, ok)
		assert.Equal(t, "3", v)
		assert.Equal(t, 1, f.proc(p).loaded)
	})
}

func TestSignalChainLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	views := NewMockViews(ctrl)
	views.EXPECT().StatusMessage("Signal chain error: maximum of 8 signal chains.").Times(2)
	views.EXPECT().StatusMessage(gomock.Any()).AnyTimes()
	views.EXPECT().UpdateViews(gomock.Any(), gomock.Any()).AnyTimes()

	f := newFixture(t, WithViews(views))
	var first node.Processor
	for i := range MaxSignalChains {
		p := f.add(typeSource, nil, nil)
		if i == 0 {
			first = p
		}
	}
	assert.Equal(t, MaxSignalChains, len(f.g.RootIDs()))

	_, err := f.g.CreateProcessor(node.Description{Type: typeSource}, nil, nil)
	assert.True(t, errors.Is(err, ErrTooManyChains))
	assert.Equal(t, MaxSignalChains, f.g.Len())
	assert.Equal(t, 108, f.g.NextID())
	assert.Zero(t, f.g.ProcessorByID(108))

	_, err = f.g.CreateProcessor(node.Description{Type: typeSource}, first, nil)
	assert.True(t, errors.Is(err, ErrTooManyChains))
	assert.Equal(t, node.None, first.DestID())

	x := f.add(typeFilter, first, nil)
	assert.Equal(t, 108, x.ID())
	assert.Equal(t, MaxSignalChains, len(f.g.RootIDs()))
	f.valid()
}

func TestRemoveProcessor(t *testing.T) {
	t.Run("splices neighbours", func(t *testing.T) {
		f := newFixture(t)
		a := f.add(typeSource, nil, nil)
		flt := f.add(typeFilter, a, nil)
		s := f.add(typeSink, flt, nil)

		assert.NoError(t, f.g.RemoveProcessor(flt))
		assert.Equal(t, []int{a.ID(), s.ID()}, f.chain(0))
		assert.Zero(t, f.g.ProcessorByID(flt.ID()))
		assert.Equal(t, node.Links{}, flt.Links())
		f.valid()
	})

	t.Run("root hands over to its destination", func(t *testing.T) {
		f := newFixture(t)
		a := f.add(typeSource, nil, nil)
		flt := f.add(typeFilter, a, nil)
		f.add(typeSink, flt, nil)

		assert.NoError(t, f.g.RemoveProcessor(a))
		assert.Equal(t, []int{flt.ID()}, f.g.RootIDs())
		src, _ := f.g.GlobalTimestampSource()
		assert.Zero(t, src)
		f.valid()
	})

	t.Run("splitter branches", func(t *testing.T) {
		f := newFixture(t)
		a := f.add(typeSource, nil, nil)
		sp := f.add(typeSplitter, a, nil)
		f1 := f.add(typeFilter, sp, nil)
		assert.NoError(t, f.g.SwitchIO(sp, 1))
		f2 := f.add(typeFilter, sp, nil)
		assert.NoError(t, f.g.SwitchIO(sp, 0))
		f.valid()

		assert.NoError(t, f.g.RemoveProcessor(sp))
		assert.Equal(t, []int{a.ID(), f2.ID()}, f.g.RootIDs())
		assert.Equal(t, []int{a.ID(), f1.ID()}, f.chain(0))
		assert.Equal(t, []int{f2.ID()}, f.chain(1))
		f.valid()
	})

	t.Run("removed view after links", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		views := NewMockViews(ctrl)
		views.EXPECT().StatusMessage(gomock.Any()).AnyTimes()
		views.EXPECT().UpdateViews(gomock.Any(), gomock.Any()).AnyTimes()

		f := newFixture(t, WithViews(views))
		a := f.add(typeSource, nil, nil)
		views.EXPECT().RemoveView(a).Do(func(p node.Processor) {
			assert.Zero(t, f.g.ProcessorByID(p.ID()))
		})
		assert.NoError(t, f.g.RemoveProcessor(a))
		assert.Equal(t, 0, len(f.g.RootIDs()))
	})
}

// mergerFixture builds A -> M <- B, M -> K with slot B active.
func mergerFixture(t *testing.T) (f *fixture, a, b node.Processor, m *node.Merger, k node.Processor) {
	t.Helper()
	f = newFixture(t)
	a = f.add(typeSource, nil, nil)
	b = f.add(typeSource, nil, nil)
	m = f.add(typeMerger, a, nil).AsMerger()
	k = f.add(typeSink, m, nil)
	assert.NoError(t, f.g.ConnectMergerSource(m, b, 1))
	return f, a, b, m, k
}

func TestMerger(t *testing.T) {
	t.Run("connect second source", func(t *testing.T) {
		f, a, b, m, k := mergerFixture(t)
		assert.Equal(t, a.ID(), m.SourceFor(0))
		assert.Equal(t, b.ID(), m.SourceFor(1))
		assert.Equal(t, 1, m.Path())
		assert.Equal(t, []int{a.ID(), b.ID()}, f.g.RootIDs())
		assert.Equal(t, 4, k.NumOutputs())
		f.valid()
	})

	t.Run("collapses when both sources are removed", func(t *testing.T) {
		f, a, b, m, k := mergerFixture(t)

		assert.NoError(t, f.g.RemoveProcessor(a))
		assert.Equal(t, []int{b.ID()}, f.g.RootIDs())
		assert.Equal(t, m.ID(), k.SourceID())
		f.valid()

		assert.NoError(t, f.g.RemoveProcessor(b))
		assert.Equal(t, []int{k.ID()}, f.g.RootIDs())
		assert.Equal(t, node.None, k.SourceID())
		assert.Equal(t, node.None, m.DestID())
		f.valid()
	})

	t.Run("removal keeps the active source", func(t *testing.T) {
		f, a, b, m, k := mergerFixture(t)

		assert.NoError(t, f.g.RemoveProcessor(m))
		assert.Equal(t, b.ID(), k.SourceID())
		assert.Equal(t, k.ID(), b.DestID())
		assert.Equal(t, node.None, a.DestID())
		assert.Equal(t, []int{a.ID(), b.ID()}, f.g.RootIDs())
		f.valid()
	})

	t.Run("removal with a single source", func(t *testing.T) {
		f := newFixture(t)
		a := f.add(typeSource, nil, nil)
		m := f.add(typeMerger, a, nil)
		k := f.add(typeSink, m, nil)

		assert.NoError(t, f.g.RemoveProcessor(m))
		assert.Equal(t, []int{a.ID(), k.ID()}, f.chain(0))
		f.valid()
	})

	t.Run("without sources it feeds nothing", func(t *testing.T) {
		f := newFixture(t)
		m := f.add(typeMerger, nil, nil)
		x := f.add(typeFilter, m, nil)
		k := f.add(typeSink, x, nil)

		assert.Equal(t, node.None, m.DestID())
		assert.Equal(t, node.None, x.SourceID())
		assert.Equal(t, []int{x.ID()}, f.g.RootIDs())
		assert.Equal(t, []int{x.ID(), k.ID()}, f.chain(0))
		f.valid()

		assert.NoError(t, f.g.SwitchIO(m, 1))
		sp := f.add(typeSplitter, m, nil)
		assert.Equal(t, []int{x.ID(), sp.ID()}, f.g.RootIDs())
		f.valid()
	})

	t.Run("new merger keeps its destination's source", func(t *testing.T) {
		f := newFixture(t)
		a := f.add(typeSource, nil, nil)
		k := f.add(typeSink, a, nil)
		m := f.add(typeMerger, nil, k)

		assert.Equal(t, a.ID(), k.SourceID())
		assert.Equal(t, node.None, m.DestID())
		assert.Equal(t, []int{a.ID()}, f.g.RootIDs())
		f.valid()
	})

	t.Run("move behind an emptied merger starts a chain", func(t *testing.T) {
		f := newFixture(t)
		a := f.add(typeSource, nil, nil)
		m := f.add(typeMerger, a, nil)
		k := f.add(typeSink, m, nil)
		x := f.add(typeFilter, nil, nil)

		assert.NoError(t, f.g.RemoveProcessor(a))
		assert.NoError(t, f.g.MoveProcessor(x, m, nil, false))
		assert.Equal(t, node.None, x.SourceID())
		assert.Equal(t, node.None, m.DestID())
		assert.Equal(t, []int{k.ID(), x.ID()}, f.g.RootIDs())
		f.valid()
	})

	t.Run("cannot be moved", func(t *testing.T) {
		f, a, _, m, _ := mergerFixture(t)
		err := f.g.MoveProcessor(m, a, nil, false)
		assert.True(t, errors.Is(err, ErrInvalidMove))
	})

	t.Run("connect rejects bad input", func(t *testing.T) {
		f, a, _, m, k := mergerFixture(t)
		assert.True(t, errors.Is(f.g.ConnectMergerSource(m, a, 2), ErrInvalidPath))
		assert.True(t, errors.Is(f.g.ConnectMergerSource(m, k, 0), ErrInvalidMove))
		f.valid()
	})

	t.Run("settings start at the active source", func(t *testing.T) {
		f, _, b, m, k := mergerFixture(t)
		f.resetUpdates()
		assert.NoError(t, f.g.UpdateSettings(m, false))
		assert.Equal(t, []int{b.ID(), k.ID()}, f.updates)
	})
}

func TestMoveProcessor(t *testing.T) {
	build := func(t *testing.T) (*fixture, []node.Processor) {
		f := newFixture(t)
		a := f.add(typeSource, nil, nil)
		f1 := f.add(typeFilter, a, nil)
		f2 := f.add(typeFilter, f1, nil)
		s := f.add(typeSink, f2, nil)
		return f, []node.Processor{a, f1, f2, s}
	}

	t.Run("downstream", func(t *testing.T) {
		f, ps := build(t)
		a, f1, f2, s := ps[0], ps[1], ps[2], ps[3]
		f.resetUpdates()

		assert.NoError(t, f.g.MoveProcessor(f1, f2, s, true))
		assert.Equal(t, []int{a.ID(), f2.ID(), f1.ID(), s.ID()}, f.chain(0))
		assert.Equal(t, []int{f2.ID(), f1.ID(), s.ID()}, f.updates)
		f.valid()
	})

	t.Run("upstream", func(t *testing.T) {
		f, ps := build(t)
		a, f1, f2, s := ps[0], ps[1], ps[2], ps[3]
		f.resetUpdates()

		assert.NoError(t, f.g.MoveProcessor(f2, a, f1, false))
		assert.Equal(t, []int{a.ID(), f2.ID(), f1.ID(), s.ID()}, f.chain(0))
		assert.Equal(t, []int{f2.ID(), f1.ID(), s.ID()}, f.updates)
		f.valid()
	})

	t.Run("detach into a new chain", func(t *testing.T) {
		f, ps := build(t)
		a, f1, f2, s := ps[0], ps[1], ps[2], ps[3]

		assert.NoError(t, f.g.MoveProcessor(f1, nil, nil, false))
		assert.Equal(t, []int{a.ID(), f1.ID()}, f.g.RootIDs())
		assert.Equal(t, []int{a.ID(), f2.ID(), s.ID()}, f.chain(0))
		f.valid()
	})

	t.Run("cycle is rejected", func(t *testing.T) {
		f, ps := build(t)
		a, f1, f2, s := ps[0], ps[1], ps[2], ps[3]
		x := f.add(typeFilter, nil, nil)

		err := f.g.MoveProcessor(x, f2, f1, false)
		assert.True(t, errors.Is(err, ErrInvalidMove))
		assert.Equal(t, []int{a.ID(), f1.ID(), f2.ID(), s.ID()}, f.chain(0))
		assert.Equal(t, []int{a.ID(), x.ID()}, f.g.RootIDs())

		_, err = f.g.CreateProcessor(node.Description{Type: typeFilter}, f2, f1)
		assert.True(t, errors.Is(err, ErrInvalidMove))
		assert.Equal(t, 5, f.g.Len())

		assert.True(t, errors.Is(f.g.MoveProcessor(f1, f1, nil, false), ErrInvalidMove))
		f.valid()
	})
}

func TestUpdateSettings(t *testing.T) {
	t.Run("visits splitter branches in order", func(t *testing.T) {
		f := newFixture(t)
		a := f.add(typeSource, nil, nil)
		sp := f.add(typeSplitter, a, nil)
		f1 := f.add(typeFilter, sp, nil)
		s1 := f.add(typeSink, f1, nil)
		assert.NoError(t, f.g.SwitchIO(sp, 1))
		f2 := f.add(typeFilter, sp, nil)

		f.resetUpdates()
		assert.NoError(t, f.g.UpdateSettings(a, false))
		assert.Equal(t, []int{a.ID(), f1.ID(), s1.ID(), f2.ID()}, f.updates)
		assert.Equal(t, 2, f2.NumOutputs())
	})

	t.Run("ignored while the load state differs", func(t *testing.T) {
		f := newFixture(t)
		a := f.add(typeSource, nil, nil)

		f.g.BeginLoad()
		f.resetUpdates()
		assert.NoError(t, f.g.UpdateSettings(a, false))
		assert.Equal(t, 0, len(f.updates))

		assert.NoError(t, f.g.UpdateSettings(a, true))
		assert.Equal(t, []int{a.ID()}, f.updates)
		assert.NoError(t, f.g.EndLoad())
	})

	t.Run("bulk load defers parameters of live nodes", func(t *testing.T) {
		f := newFixture(t)
		f.g.BeginLoad()
		assert.True(t, f.g.Loading())

		a, err := f.g.CreateProcessor(node.Description{Type: typeSource}, nil, nil)
		assert.NoError(t, err)
		flt, err := f.g.CreateProcessor(node.Description{Type: typeFilter, Params: map[string]string{"gain": "2"}}, a, nil)
		assert.NoError(t, err)

		assert.Equal(t, 1, f.proc(a).loaded)
		assert.Equal(t, 0, f.proc(flt).loaded)
		assert.Equal(t, 0, len(f.updates))

		assert.NoError(t, f.g.EndLoad())
		assert.False(t, f.g.Loading())
		assert.Equal(t, 1, f.proc(flt).loaded)
		v, _ := f.proc(flt).Param("gain")
		assert.Equal(t, "2", v)
		assert.Equal(t, []int{a.ID(), flt.ID(), flt.ID()}, f.updates)
	})
}

func TestTimestamps(t *testing.T) {
	now := time.Unix(1000, 0)
	f := newFixture(t, WithClock(func() time.Time { return now }))

	assert.Equal(t, SoftwareClockRate, f.g.GlobalSampleRate())
	now = now.Add(1500 * time.Millisecond)
	assert.Equal(t, int64(1500), f.g.GlobalTimestamp())

	a := f.add(typeSource, nil, nil)
	b := f.add(typeSource, nil, nil)
	f.add(typeFilter, a, nil)
	assert.Equal(t, []TimestampSource{
		{NodeID: a.ID(), Name: typeSource, Active: true},
		{NodeID: b.ID(), Name: typeSource},
	}, f.g.TimestampSources())

	assert.NoError(t, f.g.SetTimestampSource(1, 2))
	f.proc(b).clock = 77
	src, stream := f.g.GlobalTimestampSource()
	assert.Equal(t, b, src)
	assert.Equal(t, 2, stream)
	assert.Equal(t, int64(77), f.g.GlobalTimestamp())
	assert.Equal(t, 30000.0, f.g.GlobalSampleRate())

	assert.True(t, errors.Is(f.g.SetTimestampSource(5, 0), ErrUnknownNode))

	assert.NoError(t, f.g.RemoveProcessor(b))
	src, _ = f.g.GlobalTimestampSource()
	assert.Equal(t, a, src)

	assert.NoError(t, f.g.RemoveProcessor(a))
	src, _ = f.g.GlobalTimestampSource()
	assert.Zero(t, src)
	assert.Equal(t, int64(0), f.g.GlobalTimestamp())
	now = now.Add(20 * time.Millisecond)
	assert.Equal(t, int64(20), f.g.GlobalTimestamp())
}

func TestDeleteNodes(t *testing.T) {
	t.Run("refreshes what followed", func(t *testing.T) {
		f := newFixture(t)
		a := f.add(typeSource, nil, nil)
		f1 := f.add(typeFilter, a, nil)
		f2 := f.add(typeFilter, f1, nil)
		s := f.add(typeSink, f2, nil)

		f.resetUpdates()
		assert.NoError(t, f.g.DeleteNodes(f1, f2))
		assert.Equal(t, []int{a.ID(), s.ID()}, f.chain(0))
		assert.Equal(t, []int{s.ID()}, f.updates)
		f.valid()
	})

	t.Run("empty selection refreshes views", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		views := NewMockViews(ctrl)
		views.EXPECT().UpdateViews(nil, true)

		f := newFixture(t, WithViews(views))
		assert.NoError(t, f.g.DeleteNodes())
	})
}

func TestSwitchIO(t *testing.T) {
	f := newFixture(t)
	a := f.add(typeSource, nil, nil)
	sp := f.add(typeSplitter, a, nil)

	assert.True(t, errors.Is(f.g.SwitchIO(a, 1), ErrInvalidPath))
	assert.True(t, errors.Is(f.g.SwitchIO(sp, 2), ErrInvalidPath))
	assert.NoError(t, f.g.SwitchIO(sp, 1))
	assert.Equal(t, 1, sp.AsSplitter().Path())
}

func TestClearSignalChain(t *testing.T) {
	f := newFixture(t)
	a := f.add(typeSource, nil, nil)
	f.add(typeSink, a, nil)

	f.g.ClearSignalChain()
	assert.Equal(t, 0, f.g.Len())
	assert.Equal(t, 0, len(f.g.RootIDs()))
	assert.Equal(t, FirstNodeID, f.g.NextID())
	assert.Equal(t, 0, len(f.g.TimestampSources()))
	assert.Equal(t, 0, len(f.g.ViewSignalChain(0)))
}

func TestDocument(t *testing.T) {
	build := func(t *testing.T) *fixture {
		f := newFixture(t)
		a := f.add(typeSource, nil, nil)
		b := f.add(typeSource, nil, nil)
		flt, err := f.g.CreateProcessor(node.Description{Type: typeFilter, Params: map[string]string{"gain": "2"}}, a, nil)
		assert.NoError(t, err)
		m := f.add(typeMerger, flt, nil).AsMerger()
		f.add(typeSink, m, nil)
		assert.NoError(t, f.g.ConnectMergerSource(m, b, 1))
		f.valid()
		return f
	}

	t.Run("round trip", func(t *testing.T) {
		doc := build(t).g.Export()
		assert.Equal(t, DocumentVersion, doc.Version)
		assert.Equal(t, 5, len(doc.Nodes))

		g := newFixture(t)
		assert.NoError(t, g.g.Import(doc))
		assert.Equal(t, doc, g.g.Export())
		assert.Equal(t, 105, g.g.NextID())
		assert.Equal(t, 4, g.g.ProcessorByID(104).NumOutputs())
		v, _ := g.proc(g.g.ProcessorByID(102)).Param("gain")
		assert.Equal(t, "2", v)
		g.valid()
	})

	t.Run("inconsistent links", func(t *testing.T) {
		doc := build(t).g.Export()
		doc.Nodes = slices.Clone(doc.Nodes)
		doc.Nodes[4].Links.Dest = 999

		g := newFixture(t)
		err := g.g.Import(doc)
		assert.True(t, errors.Is(err, ErrInconsistent))
		assert.Equal(t, 0, g.g.Len())
		assert.False(t, g.g.Loading())
	})

	t.Run("missing root", func(t *testing.T) {
		doc := build(t).g.Export()
		doc.Roots = doc.Roots[:1]

		g := newFixture(t)
		assert.True(t, errors.Is(g.g.Import(doc), ErrInconsistent))
	})

	t.Run("unsupported version", func(t *testing.T) {
		g := newFixture(t)
		assert.Error(t, g.g.Import(Document{Version: 7}))
	})
}
