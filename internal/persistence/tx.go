package persistence

import (
	"context"
	"database/sql"

	"github.com/aristath/taskblaster/internal/board"
)

// Tx is the set of reads and writes the board needs inside one unit of work.
type Tx interface {
	// Projects
	CreateProject(ctx context.Context, p *board.Project) error
	ProjectByCode(ctx context.Context, code string) (*board.Project, error)
	ListProjects(ctx context.Context) ([]*board.Project, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	NextTaskSequence(ctx context.Context, projectID int64) (int64, error)

	// Tasks
	InsertTask(ctx context.Context, t *board.Task) error
	TaskByDisplayID(ctx context.Context, displayID string) (*board.Task, error)
	UpdateTask(ctx context.Context, t *board.Task) error
	DeleteTask(ctx context.Context, id int64) error
	ListTasks(ctx context.Context, projectID int64) ([]*board.Task, error)
	ColumnTasks(ctx context.Context, projectID int64, status board.Status) ([]*board.Task, error)
	ColumnSlots(ctx context.Context, projectID int64, status board.Status) ([]board.Slot, error)
	MaxPosition(ctx context.Context, projectID int64, status board.Status) (int64, bool, error)
	SetPositions(ctx context.Context, slots []board.Slot) error

	// Tags
	EnsureTag(ctx context.Context, name, color string) error
	TagColor(ctx context.Context, name string) (string, error)
	SetTaskTags(ctx context.Context, taskID int64, tags []string) error
	TaskTags(ctx context.Context, taskID int64) ([]string, error)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type sqlTx struct {
	q querier
}

var _ Tx = (*sqlTx)(nil)
