package events

import (
	"time"
)

// Event is the base interface for all board events.
type Event interface {
	EventType() string
	ProjectCode() string
	TaskID() string // Display ID; empty for column- and project-level events
}

// Topic constants
const (
	TopicTask    = "task"
	TopicColumn  = "column"
	TopicProject = "project"
)

// Event type constants
const (
	EventTypeTaskCreated       = "task.created"
	EventTypeTaskUpdated       = "task.updated"
	EventTypeTaskMoved         = "task.moved"
	EventTypeTaskStatusChanged = "task.status_changed"
	EventTypeTaskDeleted       = "task.deleted"
	EventTypeColumnRenumbered  = "column.renumbered"
	EventTypeColumnReordered   = "column.reordered"
	EventTypeProjectCreated    = "project.created"
)

// TaskCreatedEvent is published when a task lands on the board.
type TaskCreatedEvent struct {
	Project   string
	ID        string
	Status    string
	Position  int64
	Timestamp time.Time
}

func (e TaskCreatedEvent) EventType() string   { return EventTypeTaskCreated }
func (e TaskCreatedEvent) ProjectCode() string { return e.Project }
func (e TaskCreatedEvent) TaskID() string      { return e.ID }

// TaskUpdatedEvent is published when a task's content changes without a move.
type TaskUpdatedEvent struct {
	Project   string
	ID        string
	Timestamp time.Time
}

func (e TaskUpdatedEvent) EventType() string   { return EventTypeTaskUpdated }
func (e TaskUpdatedEvent) ProjectCode() string { return e.Project }
func (e TaskUpdatedEvent) TaskID() string      { return e.ID }

// TaskMovedEvent is published when a task gets a new position, in the same
// column or another one.
type TaskMovedEvent struct {
	Project    string
	ID         string
	From       string
	To         string
	Position   int64
	Renumbered bool
	Timestamp  time.Time
}

func (e TaskMovedEvent) EventType() string   { return EventTypeTaskMoved }
func (e TaskMovedEvent) ProjectCode() string { return e.Project }
func (e TaskMovedEvent) TaskID() string      { return e.ID }

// TaskStatusChangedEvent is published when a task changes column.
// Automatic lists the statuses Git automation advanced through.
type TaskStatusChangedEvent struct {
	Project   string
	ID        string
	From      string
	To        string
	Automatic []string
	Timestamp time.Time
}

func (e TaskStatusChangedEvent) EventType() string   { return EventTypeTaskStatusChanged }
func (e TaskStatusChangedEvent) ProjectCode() string { return e.Project }
func (e TaskStatusChangedEvent) TaskID() string      { return e.ID }

// TaskDeletedEvent is published when a task is removed.
type TaskDeletedEvent struct {
	Project   string
	ID        string
	Status    string
	Timestamp time.Time
}

func (e TaskDeletedEvent) EventType() string   { return EventTypeTaskDeleted }
func (e TaskDeletedEvent) ProjectCode() string { return e.Project }
func (e TaskDeletedEvent) TaskID() string      { return e.ID }

// ColumnRenumberedEvent is published when a column is re-laid at even spacing.
type ColumnRenumberedEvent struct {
	Project   string
	Status    string
	Changed   int
	Timestamp time.Time
}

func (e ColumnRenumberedEvent) EventType() string   { return EventTypeColumnRenumbered }
func (e ColumnRenumberedEvent) ProjectCode() string { return e.Project }
func (e ColumnRenumberedEvent) TaskID() string      { return "" }

// ColumnReorderedEvent is published after a bulk position update.
type ColumnReorderedEvent struct {
	Project   string
	Status    string
	Tasks     int
	Timestamp time.Time
}

func (e ColumnReorderedEvent) EventType() string   { return EventTypeColumnReordered }
func (e ColumnReorderedEvent) ProjectCode() string { return e.Project }
func (e ColumnReorderedEvent) TaskID() string      { return "" }

// ProjectCreatedEvent is published when a project is created.
type ProjectCreatedEvent struct {
	Project   string
	Title     string
	Timestamp time.Time
}

func (e ProjectCreatedEvent) EventType() string   { return EventTypeProjectCreated }
func (e ProjectCreatedEvent) ProjectCode() string { return e.Project }
func (e ProjectCreatedEvent) TaskID() string      { return "" }

// TopicOf returns the topic an event is published on.
func TopicOf(e Event) string {
	switch e.(type) {
	case ColumnRenumberedEvent, ColumnReorderedEvent:
		return TopicColumn
	case ProjectCreatedEvent:
		return TopicProject
	default:
		return TopicTask
	}
}
