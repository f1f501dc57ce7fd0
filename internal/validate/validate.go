// Package validate checks candidate todos before they are sent to the remote store.
package validate

import (
	"strings"

	"github.com/idilsaglam/todotable/internal/model"
)

// Field names reported in Errors.
const (
	FieldTitle     = "title"
	FieldCompleted = "completed"
)

// Messages shown next to a failing field.
const (
	MsgTitleRequired     = "Todo is Required"
	MsgCompletedRequired = "Completed is Required"
)

// Errors maps a field name to its message. Both fields are always present;
// an empty message means the field passed.
type Errors map[string]string

// Any reports whether at least one field failed.
func (e Errors) Any() bool {
	for _, msg := range e {
		if msg != "" {
			return true
		}
	}
	return false
}

// Todo validates every field of d. It never fails; the result says what is wrong.
func Todo(d model.Draft) Errors {
	return Errors{
		FieldTitle:     Field(FieldTitle, d),
		FieldCompleted: Field(FieldCompleted, d),
	}
}

// Field validates a single field of d. Unknown field names pass.
func Field(name string, d model.Draft) string {
	switch name {
	case FieldTitle:
		if strings.TrimSpace(d.Title) == "" {
			return MsgTitleRequired
		}
	case FieldCompleted:
		// false is a real answer; only a missing choice fails
		if d.Completed == nil {
			return MsgCompletedRequired
		}
	}
	return ""
}
