package sigchain

import (
	"errors"
	"slices"

	"github.com/birdayz/sigchain/graph"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultHistoryLimit is the number of undoable actions kept unless
// WithHistoryLimit says otherwise.
const DefaultHistoryLimit = 100

// Action is one undoable edit, stored as the chain before and after it.
type Action struct {
	Name   string
	Before graph.Document
	After  graph.Document
}

// History keeps undoable and redoable actions. Recording a new action drops
// everything that could have been redone.
type History struct {
	done   []Action
	undone []Action
	limit  int
}

func (h *History) record(a Action) {
	h.done = append(h.done, a)
	if h.limit > 0 && len(h.done) > h.limit {
		h.done = slices.Delete(h.done, 0, len(h.done)-h.limit)
	}
	h.undone = nil
}

func (h *History) undo() (Action, error) {
	if len(h.done) == 0 {
		return Action{}, ErrNothingToUndo
	}
	a := h.done[len(h.done)-1]
	h.done = h.done[:len(h.done)-1]
	h.undone = append(h.undone, a)
	return a, nil
}

func (h *History) redo() (Action, error) {
	if len(h.undone) == 0 {
		return Action{}, ErrNothingToRedo
	}
	a := h.undone[len(h.undone)-1]
	h.undone = h.undone[:len(h.undone)-1]
	h.done = append(h.done, a)
	return a, nil
}

// push reverts a failed undo or redo.
func (h *History) push(a Action, undone bool) {
	if undone {
		h.undone = h.undone[:len(h.undone)-1]
		h.done = append(h.done, a)
		return
	}
	h.done = h.done[:len(h.done)-1]
	h.undone = append(h.undone, a)
}

func (h *History) clear() {
	h.done = nil
	h.undone = nil
}

// Names returns the undoable action names, oldest first.
func (h *History) Names() []string {
	out := make([]string, 0, len(h.done))
	for _, a := range h.done {
		out = append(out, a.Name)
	}
	return out
}

func (h *History) CanUndo() bool { return len(h.done) > 0 }
func (h *History) CanRedo() bool { return len(h.undone) > 0 }
