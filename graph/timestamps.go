package graph

import (
	"fmt"
	"slices"
	"time"

	"github.com/birdayz/sigchain/node"
)

// SoftwareClockRate is the sample rate reported when no processor provides
// the global timestamp; the software clock counts milliseconds.
const SoftwareClockRate = 1000.0

// timestamps tracks the candidate list and the selected global source.
type timestamps struct {
	candidates []int
	source     int
	stream     int
	start      time.Time
}

func (t *timestamps) reset(now time.Time) {
	t.candidates = nil
	t.source = node.None
	t.stream = 0
	t.start = now
}

func (t timestamps) clone() timestamps {
	t.candidates = slices.Clone(t.candidates)
	return t
}

// TimestampSource describes one candidate for the global time reference.
type TimestampSource struct {
	NodeID int
	Name   string
	Stream int
	Active bool
}

func (g *Graph) addTimestampCandidate(p node.Processor) {
	if !p.GeneratesTimestamps() || slices.Contains(g.ts.candidates, p.ID()) {
		return
	}
	g.ts.candidates = append(g.ts.candidates, p.ID())
	g.sortCandidates()
	if g.ts.source == node.None {
		g.ts.source = p.ID()
		g.ts.stream = 0
		g.log.Debug("Global timestamp source set", "node", p.ID())
	}
}

// removeTimestampCandidate drops p and promotes the next candidate in scan
// order when p was the active source.
func (g *Graph) removeTimestampCandidate(p node.Processor) {
	i := slices.Index(g.ts.candidates, p.ID())
	if i < 0 {
		return
	}
	g.ts.candidates = slices.Delete(g.ts.candidates, i, i+1)
	if g.ts.source != p.ID() {
		return
	}
	g.ts.stream = 0
	if len(g.ts.candidates) == 0 {
		g.ts.source = node.None
		g.ts.start = g.now()
		g.log.Debug("Global timestamp source reverted to software clock")
		return
	}
	g.ts.source = g.ts.candidates[0]
	g.log.Debug("Global timestamp source promoted", "node", g.ts.source)
}

func (g *Graph) sortCandidates() {
	pos := make(map[int]int, len(g.order))
	for i, id := range g.order {
		pos[id] = i
	}
	slices.SortStableFunc(g.ts.candidates, func(a, b int) int {
		return pos[a] - pos[b]
	})
}

// SetTimestampSource selects candidate index and stream as the global time
// reference. An index of -1 selects the software clock.
func (g *Graph) SetTimestampSource(index, stream int) error {
	if index == -1 {
		g.ts.source = node.None
		g.ts.stream = 0
		g.ts.start = g.now()
		return nil
	}
	if index < 0 || index >= len(g.ts.candidates) {
		return fmt.Errorf("%w: timestamp source index %d", ErrUnknownNode, index)
	}
	g.ts.source = g.ts.candidates[index]
	g.ts.stream = stream
	return nil
}

// TimestampSources lists the candidates in scan order.
func (g *Graph) TimestampSources() []TimestampSource {
	out := make([]TimestampSource, 0, len(g.ts.candidates))
	for _, id := range g.ts.candidates {
		src := TimestampSource{NodeID: id, Name: g.nodes[id].Name()}
		if id == g.ts.source {
			src.Active = true
			src.Stream = g.ts.stream
		}
		out = append(out, src)
	}
	return out
}

// GlobalTimestampSource returns the selected processor and stream. The
// processor is nil when the software clock is in use.
func (g *Graph) GlobalTimestampSource() (node.Processor, int) {
	return g.ProcessorByID(g.ts.source), g.ts.stream
}

// GlobalTimestamp returns the current time in samples of the global source,
// or milliseconds of the software clock.
func (g *Graph) GlobalTimestamp() int64 {
	if c, ok := g.ProcessorByID(g.ts.source).(node.TimestampClock); ok {
		return c.Timestamp(g.ts.stream)
	}
	return g.now().Sub(g.ts.start).Milliseconds()
}

// GlobalSampleRate returns the sample rate of the global source.
func (g *Graph) GlobalSampleRate() float64 {
	if c, ok := g.ProcessorByID(g.ts.source).(node.TimestampClock); ok {
		return c.SampleRate(g.ts.stream)
	}
	return SoftwareClockRate
}

// ResetSoftwareClock restarts the software clock at zero.
func (g *Graph) ResetSoftwareClock() {
	g.ts.start = g.now()
}
