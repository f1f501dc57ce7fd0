package model

import "fmt"

// Todo is the domain model for a todo entry as held by the remote store.
// Only the three canonical fields are kept; anything else the remote
// returns is dropped on decode.
type Todo struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Draft is a candidate todo as edited in a form, before it is sent anywhere.
// A nil Completed means no choice was made yet.
type Draft struct {
	Title     string
	Completed *bool
}

// DraftOf returns a draft pre-filled from an existing todo.
func DraftOf(t Todo) Draft {
	c := t.Completed
	return Draft{Title: t.Title, Completed: &c}
}

// Todo turns the draft into a record with the given id.
// Callers validate first; a nil Completed becomes false.
func (d Draft) Todo(id int) Todo {
	t := Todo{ID: id, Title: d.Title}
	if d.Completed != nil {
		t.Completed = *d.Completed
	}
	return t
}

// Labels shown to the user for the completed field.
const (
	CompletedLabel    = "Completed"
	NotCompletedLabel = "Not completed"
)

// Label renders a completed flag the way the table and forms show it.
func Label(completed bool) string {
	if completed {
		return CompletedLabel
	}
	return NotCompletedLabel
}

// ParseLabel is the inverse of Label. Matching is exact.
func ParseLabel(s string) (bool, error) {
	switch s {
	case CompletedLabel:
		return true, nil
	case NotCompletedLabel:
		return false, nil
	}
	return false, fmt.Errorf("unknown completed label %q", s)
}

// Bool is a small helper for building drafts.
func Bool(b bool) *bool { return &b }
