package node

import "fmt"

// None is the id used for an absent link.
const None = 0

// EventChannel is the channel index reserved for the event side-channel.
const EventChannel = -1

// Kind is the closed set of node variants.
type Kind int

const (
	KindProcessor Kind = iota
	KindSplitter
	KindMerger
)

func (k Kind) String() string {
	switch k {
	case KindProcessor:
		return "Processor"
	case KindSplitter:
		return "Splitter"
	case KindMerger:
		return "Merger"
	default:
		return "Unknown"
	}
}

// Channel describes one continuous output channel.
type Channel struct {
	// Origin is the id of the node that produced the channel.
	Origin     int     `json:"origin"`
	Stream     int     `json:"stream"`
	Index      int     `json:"index"`
	Name       string  `json:"name"`
	SampleRate float64 `json:"sampleRate"`
}

func (c Channel) String() string {
	return fmt.Sprintf("%s[%d/%d]", c.Name, c.Origin, c.Index)
}

// Links is a snapshot of every link slot a node carries. Plain nodes only use
// Source and Dest; splitters use Dests and Path, mergers use Sources and Path.
type Links struct {
	Source  int    `json:"source,omitempty"`
	Dest    int    `json:"dest,omitempty"`
	Sources [2]int `json:"sources,omitempty"`
	Dests   [2]int `json:"dests,omitempty"`
	Path    int    `json:"path,omitempty"`
}

// Processor is a node of the signal chain.
type Processor interface {
	ID() int
	SetID(id int)
	Name() string
	Type() string
	Kind() Kind

	// AsSplitter returns the splitter view of the node, or nil.
	AsSplitter() *Splitter
	// AsMerger returns the merger view of the node, or nil.
	AsMerger() *Merger

	// SourceID returns the id of the live upstream node. For a merger this is
	// the source in the active slot.
	SourceID() int
	// DestID returns the id of the live downstream node. For a splitter this
	// is the destination on the active path.
	DestID() int
	SetSourceID(id int)
	SetDestID(id int)
	Links() Links
	SetLinks(l Links)

	IsSource() bool
	IsSink() bool
	GeneratesTimestamps() bool
	IsAudioMonitor() bool
	IsRecordNode() bool

	// Outputs returns the continuous output channels computed by the last
	// Update call.
	Outputs() []Channel
	NumOutputs() int

	// Update recomputes the channel shape from the upstream nodes. Plain
	// nodes receive zero or one upstream node, mergers always receive two
	// entries (slot A, slot B), either of which may be nil.
	Update(upstream []Processor) error
	// LoadParameters applies parameters restored from a saved chain.
	LoadParameters() error
	Parameters() map[string]string
	SetParameters(params map[string]string)
}

// Live reports whether the node has at least one upstream link.
func Live(p Processor) bool {
	if m := p.AsMerger(); m != nil {
		return m.LiveSources() > 0
	}
	return p.SourceID() != None
}
