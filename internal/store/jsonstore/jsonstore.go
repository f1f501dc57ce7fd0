package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/idilsaglam/todotable/internal/model"
)

// JSON snapshot of a todo collection. Single file, human-readable, portable.
// Used by export/import only; the running app never reads it back on its own.

// DefaultFile is used when no path is given.
const DefaultFile = "todos.json"

// Load reads a snapshot. A missing file is an error here: importing nothing
// by accident is worse than failing.
func Load(path string) ([]model.Todo, error) {
	if path == "" {
		path = DefaultFile
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read file: %s does not exist", path)
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var todos []model.Todo
	if err := json.Unmarshal(b, &todos); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, nil
}

// Save writes todos to path, replacing any existing file.
func Save(path string, todos []model.Todo) error {
	if path == "" {
		path = DefaultFile
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	b, err := json.MarshalIndent(todos, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
