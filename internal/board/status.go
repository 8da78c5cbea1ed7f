package board

import (
	"fmt"
	"strings"
)

// Status is the kanban column a task lives in.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusInReview   Status = "IN_REVIEW"
	StatusDone       Status = "DONE"
)

// Statuses returns the four columns in board order (left to right).
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusInReview, StatusDone}
}

// Valid reports whether s is one of the four board columns.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusInReview, StatusDone:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// statusAliases maps integration spellings onto the canonical tags.
// Keys are upper-cased with '-' and ' ' folded to '_'.
var statusAliases = map[string]Status{
	"TODO":        StatusTodo,
	"TO_DO":       StatusTodo,
	"IN_PROGRESS": StatusInProgress,
	"INPROGRESS":  StatusInProgress,
	"IN_REVIEW":   StatusInReview,
	"REVIEW":      StatusInReview,
	"DONE":        StatusDone,
}

// ParseStatus normalizes a status tag. "TO_DO", "todo", "in-progress" and
// friends all map onto the four canonical values.
func ParseStatus(s string) (Status, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if st, ok := statusAliases[key]; ok {
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}
