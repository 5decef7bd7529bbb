package node

import "fmt"

// SplitterType is the registry type of the built-in splitter.
const SplitterType = "Splitter"

// Splitter passes its input to one of two destinations. Only the destination
// on the active path is exposed through DestID; the other stays wired and is
// visited by the resolver and by settings propagation.
type Splitter struct {
	Base

	dests [2]int
	path  int
}

func NewSplitter(name string) *Splitter {
	return &Splitter{Base: NewBase(SplitterType, name)}
}

func (s *Splitter) Kind() Kind { return KindSplitter }
func (s *Splitter) AsSplitter() *Splitter { return s }

// Path returns the active path, 0 or 1.
func (s *Splitter) Path() int { return s.path }

// SwitchPath selects the active path. Destinations are left untouched.
func (s *Splitter) SwitchPath(path int) {
	mustPath(path)
	s.path = path
}

// SwitchIO toggles the active path.
func (s *Splitter) SwitchIO() {
	s.path = 1 - s.path
}

// DestFor returns the destination wired to path.
func (s *Splitter) DestFor(path int) int {
	mustPath(path)
	return s.dests[path]
}

// SetDestFor wires path to id.
func (s *Splitter) SetDestFor(path, id int) {
	mustPath(path)
	s.dests[path] = id
}

// PathOf returns the path wired to id, or -1.
func (s *Splitter) PathOf(id int) int {
	if id == None {
		return -1
	}
	for p, d := range s.dests {
		if d == id {
			return p
		}
	}
	return -1
}

func (s *Splitter) DestID() int { return s.dests[s.path] }
func (s *Splitter) SetDestID(id int) { s.dests[s.path] = id }

func (s *Splitter) Links() Links {
	return Links{Source: s.SourceID(), Dests: s.dests, Path: s.path}
}

func (s *Splitter) SetLinks(l Links) {
	mustPath(l.Path)
	s.SetSourceID(l.Source)
	s.dests = l.Dests
	s.path = l.Path
}

func mustPath(path int) {
	if path != 0 && path != 1 {
		panic(fmt.Sprintf("node: invalid path %d", path))
	}
}
