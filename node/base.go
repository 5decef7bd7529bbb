package node

import "maps"

// Base implements the bookkeeping shared by every processor. Concrete
// processors embed it and override the classifiers and Update as needed.
type Base struct {
	id     int
	name   string
	typ    string
	source int
	dest   int

	outputs []Channel

	params  map[string]string
	pending map[string]string
}

// NewBase returns a Base for a node of the given type.
func NewBase(typ, name string) Base {
	if name == "" {
		name = typ
	}
	return Base{
		name:   name,
		typ:    typ,
		params: map[string]string{},
	}
}

func (b *Base) ID() int { return b.id }
func (b *Base) SetID(id int) { b.id = id }
func (b *Base) Name() string { return b.name }
func (b *Base) Type() string { return b.typ }
func (b *Base) Kind() Kind { return KindProcessor }
func (b *Base) AsSplitter() *Splitter { return nil }
func (b *Base) AsMerger() *Merger { return nil }

func (b *Base) SourceID() int { return b.source }
func (b *Base) DestID() int { return b.dest }
func (b *Base) SetSourceID(id int) { b.source = id }
func (b *Base) SetDestID(id int) { b.dest = id }

func (b *Base) Links() Links {
	return Links{Source: b.source, Dest: b.dest}
}

func (b *Base) SetLinks(l Links) {
	b.source = l.Source
	b.dest = l.Dest
}

func (b *Base) IsSource() bool { return false }
func (b *Base) IsSink() bool { return false }
func (b *Base) GeneratesTimestamps() bool { return false }
func (b *Base) IsAudioMonitor() bool { return false }
func (b *Base) IsRecordNode() bool { return false }

func (b *Base) Outputs() []Channel { return b.outputs }
func (b *Base) NumOutputs() int { return len(b.outputs) }

// SetOutputs replaces the output channel list.
func (b *Base) SetOutputs(chs []Channel) {
	b.outputs = chs
}

// Update copies the channels of the single upstream node.
func (b *Base) Update(upstream []Processor) error {
	b.outputs = nil
	for _, up := range upstream {
		if up == nil {
			continue
		}
		b.outputs = append(b.outputs, up.Outputs()...)
	}
	return nil
}

// Param returns an applied parameter value.
func (b *Base) Param(key string) (string, bool) {
	v, ok := b.params[key]
	return v, ok
}

// SetParameters stages parameters; they take effect on LoadParameters.
func (b *Base) SetParameters(params map[string]string) {
	b.pending = maps.Clone(params)
}

func (b *Base) LoadParameters() error {
	if b.params == nil {
		b.params = map[string]string{}
	}
	maps.Copy(b.params, b.pending)
	b.pending = nil
	return nil
}

// Parameters returns the applied parameters merged with any staged ones.
func (b *Base) Parameters() map[string]string {
	out := maps.Clone(b.params)
	if out == nil {
		out = map[string]string{}
	}
	maps.Copy(out, b.pending)
	return out
}
