package store

import "github.com/idilsaglam/todotable/internal/model"

// Status tracks the lifecycle of the bulk fetch. Create, update and delete
// never change it.
type Status int

const (
	Idle Status = iota
	Loading
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// State is the collection held by the store. Values handed out by the store
// are copies; changing them does not affect the store.
type State struct {
	Todos  []model.Todo
	Status Status
	// Err is the message of the last failed fetch, cleared by a successful one.
	Err string
}

func (s State) clone() State {
	out := s
	out.Todos = make([]model.Todo, len(s.Todos))
	copy(out.Todos, s.Todos)
	return out
}

// Find returns the todo with the given id.
func (s State) Find(id int) (model.Todo, bool) {
	if i := s.index(id); i >= 0 {
		return s.Todos[i], true
	}
	return model.Todo{}, false
}

// Counts returns how many todos are done and pending.
func (s State) Counts() (done, pending int) {
	for _, t := range s.Todos {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

func (s State) index(id int) int {
	for i, t := range s.Todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}
