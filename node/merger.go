package node

// MergerType is the registry type of the built-in merger.
const MergerType = "Merger"

// Merger combines up to two upstream nodes into one destination. Slot A
// channels always precede slot B channels. Each slot carries its own
// forwarding flags for continuous data and for events.
type Merger struct {
	Base

	sources    [2]int
	path       int
	continuous [2]bool
	events     [2]bool
}

func NewMerger(name string) *Merger {
	return &Merger{
		Base:       NewBase(MergerType, name),
		continuous: [2]bool{true, true},
		events:     [2]bool{true, true},
	}
}

func (m *Merger) Kind() Kind { return KindMerger }
func (m *Merger) AsMerger() *Merger { return m }

// Path returns the active slot, 0 or 1.
func (m *Merger) Path() int { return m.path }

// SwitchPath selects the active slot.
func (m *Merger) SwitchPath(path int) {
	mustPath(path)
	m.path = path
}

// SwitchIO toggles the active slot.
func (m *Merger) SwitchIO() {
	m.path = 1 - m.path
}

// SwitchToSource activates the slot holding id. It reports false if id is
// not connected to the merger.
func (m *Merger) SwitchToSource(id int) bool {
	slot := m.SlotOf(id)
	if slot < 0 {
		return false
	}
	m.path = slot
	return true
}

// SlotOf returns the slot wired to id, or -1.
func (m *Merger) SlotOf(id int) int {
	if id == None {
		return -1
	}
	for slot, s := range m.sources {
		if s == id {
			return slot
		}
	}
	return -1
}

func (m *Merger) SourceFor(slot int) int {
	mustPath(slot)
	return m.sources[slot]
}

func (m *Merger) SetSourceFor(slot, id int) {
	mustPath(slot)
	m.sources[slot] = id
}

// LiveSources counts the occupied slots.
func (m *Merger) LiveSources() int {
	n := 0
	for _, s := range m.sources {
		if s != None {
			n++
		}
	}
	return n
}

func (m *Merger) ForwardContinuous(slot int) bool {
	mustPath(slot)
	return m.continuous[slot]
}

func (m *Merger) ForwardEvents(slot int) bool {
	mustPath(slot)
	return m.events[slot]
}

// SetForwarding sets which data of slot reaches the destination.
func (m *Merger) SetForwarding(slot int, continuous, events bool) {
	mustPath(slot)
	m.continuous[slot] = continuous
	m.events[slot] = events
}

func (m *Merger) SourceID() int { return m.sources[m.path] }
func (m *Merger) SetSourceID(id int) { m.sources[m.path] = id }

func (m *Merger) Links() Links {
	return Links{Dest: m.DestID(), Sources: m.sources, Path: m.path}
}

func (m *Merger) SetLinks(l Links) {
	mustPath(l.Path)
	m.SetDestID(l.Dest)
	m.sources = l.Sources
	m.path = l.Path
}

// Update concatenates the forwarded channels of slot A and slot B.
func (m *Merger) Update(upstream []Processor) error {
	var chs []Channel
	for slot, up := range upstream {
		if slot > 1 || up == nil || !m.continuous[slot] {
			continue
		}
		chs = append(chs, up.Outputs()...)
	}
	m.SetOutputs(chs)
	return nil
}
