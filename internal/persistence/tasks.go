package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/aristath/taskblaster/internal/board"
)

const taskColumns = `id, display_id, project_id, title, description, status, position, priority,
	story_points, prompt, git_feature_branch, git_pull_request_url, is_blocked, blocked_reason,
	started_at, completed_at, created_at, updated_at`

func scanTask(r rowScanner) (*board.Task, error) {
	task := &board.Task{}
	var (
		storyPoints sql.NullInt64
		startedAt   sql.NullTime
		completedAt sql.NullTime
	)
	err := r.Scan(&task.ID, &task.DisplayID, &task.ProjectID, &task.Title, &task.Description,
		&task.Status, &task.Position, &task.Priority, &storyPoints, &task.Prompt,
		&task.GitFeatureBranch, &task.GitPullRequestURL, &task.IsBlocked, &task.BlockedReason,
		&startedAt, &completedAt, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if storyPoints.Valid {
		sp := int(storyPoints.Int64)
		task.StoryPoints = &sp
	}
	if startedAt.Valid {
		ts := startedAt.Time
		task.StartedAt = &ts
	}
	if completedAt.Valid {
		ts := completedAt.Time
		task.CompletedAt = &ts
	}
	task.Tags = []string{}
	return task, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

// InsertTask inserts a task and fills in its ID and timestamps.
func (t *sqlTx) InsertTask(ctx context.Context, task *board.Task) error {
	now := time.Now().UTC()
	task.CreatedAt, task.UpdatedAt = now, now

	res, err := t.q.ExecContext(ctx, `
		INSERT INTO tasks (display_id, project_id, title, description, status, position, priority,
			story_points, prompt, git_feature_branch, git_pull_request_url, is_blocked, blocked_reason,
			started_at, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, task.DisplayID, task.ProjectID, task.Title, task.Description, task.Status, task.Position, task.Priority,
		nullInt(task.StoryPoints), task.Prompt, task.GitFeatureBranch, task.GitPullRequestURL, task.IsBlocked,
		task.BlockedReason, nullTime(task.StartedAt), nullTime(task.CompletedAt), now, now)
	if err != nil {
		return fmt.Errorf("failed to insert task %s: %w", task.DisplayID, classify(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read task id: %w", err)
	}
	task.ID = id
	return nil
}

// TaskByDisplayID loads a task by its human-readable identifier.
func (t *sqlTx) TaskByDisplayID(ctx context.Context, displayID string) (*board.Task, error) {
	task, err := scanTask(t.q.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE display_id = ?`, displayID))
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", displayID, classify(err))
	}
	return task, t.loadTags(ctx, []*board.Task{task})
}

// UpdateTask writes every mutable field of task. Identity and project never change.
func (t *sqlTx) UpdateTask(ctx context.Context, task *board.Task) error {
	task.UpdatedAt = time.Now().UTC()

	res, err := t.q.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, status = ?, position = ?, priority = ?, story_points = ?,
			prompt = ?, git_feature_branch = ?, git_pull_request_url = ?, is_blocked = ?,
			blocked_reason = ?, started_at = ?, completed_at = ?, updated_at = ?
		WHERE id = ?
	`, task.Title, task.Description, task.Status, task.Position, task.Priority, nullInt(task.StoryPoints),
		task.Prompt, task.GitFeatureBranch, task.GitPullRequestURL, task.IsBlocked,
		task.BlockedReason, nullTime(task.StartedAt), nullTime(task.CompletedAt), task.UpdatedAt, task.ID)
	if err != nil {
		return fmt.Errorf("failed to update task %s: %w", task.DisplayID, classify(err))
	}
	return expectOne(res, fmt.Sprintf("task %d", task.ID))
}

// DeleteTask removes a task; its tag links cascade.
func (t *sqlTx) DeleteTask(ctx context.Context, id int64) error {
	res, err := t.q.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task %d: %w", id, classify(err))
	}
	return expectOne(res, fmt.Sprintf("task %d", id))
}

// ListTasks returns every task in a project in board order: column left to
// right, then position.
func (t *sqlTx) ListTasks(ctx context.Context, projectID int64) ([]*board.Task, error) {
	return t.queryTasks(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE project_id = ?
		ORDER BY CASE status
			WHEN 'TODO' THEN 0
			WHEN 'IN_PROGRESS' THEN 1
			WHEN 'IN_REVIEW' THEN 2
			WHEN 'DONE' THEN 3
			ELSE 4
		END, position, id
	`, projectID)
}

// ColumnTasks returns one column's tasks in display order.
func (t *sqlTx) ColumnTasks(ctx context.Context, projectID int64, status board.Status) ([]*board.Task, error) {
	return t.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE project_id = ? AND status = ? ORDER BY position, id`, projectID, status)
}

func (t *sqlTx) queryTasks(ctx context.Context, query string, args ...any) ([]*board.Task, error) {
	rows, err := t.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", classify(err))
	}

	tasks := []*board.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}
	// Close before loading tags: the in-memory store has a single connection.
	rows.Close()

	if err := t.loadTags(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ColumnSlots returns the ordered (id, position) pairs of one column.
// Ties on position fall back to id so the order is stable.
func (t *sqlTx) ColumnSlots(ctx context.Context, projectID int64, status board.Status) ([]board.Slot, error) {
	rows, err := t.q.QueryContext(ctx, `
		SELECT id, position FROM tasks
		WHERE project_id = ? AND status = ?
		ORDER BY position, id
	`, projectID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query column %s: %w", status, classify(err))
	}
	defer rows.Close()

	slots := []board.Slot{}
	for rows.Next() {
		var s board.Slot
		if err := rows.Scan(&s.TaskID, &s.Position); err != nil {
			return nil, fmt.Errorf("failed to scan slot: %w", err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column %s: %w", status, err)
	}
	return slots, nil
}

// MaxPosition returns the largest position in a column; ok is false for an
// empty column.
func (t *sqlTx) MaxPosition(ctx context.Context, projectID int64, status board.Status) (int64, bool, error) {
	var top sql.NullInt64
	err := t.q.QueryRowContext(ctx,
		`SELECT MAX(position) FROM tasks WHERE project_id = ? AND status = ?`, projectID, status).Scan(&top)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read max position of %s: %w", status, classify(err))
	}
	return top.Int64, top.Valid, nil
}

// SetPositions writes new positions for a batch of tasks.
func (t *sqlTx) SetPositions(ctx context.Context, slots []board.Slot) error {
	now := time.Now().UTC()
	for _, s := range slots {
		res, err := t.q.ExecContext(ctx, `UPDATE tasks SET position = ?, updated_at = ? WHERE id = ?`, s.Position, now, s.TaskID)
		if err != nil {
			return fmt.Errorf("failed to set position of task %d: %w", s.TaskID, classify(err))
		}
		if err := expectOne(res, fmt.Sprintf("task %d", s.TaskID)); err != nil {
			return err
		}
	}
	return nil
}

func (t *sqlTx) loadTags(ctx context.Context, tasks []*board.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	byID := make(map[int64]*board.Task, len(tasks))
	args := make([]any, 0, len(tasks))
	for _, task := range tasks {
		byID[task.ID] = task
		args = append(args, task.ID)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(args)), ",")

	rows, err := t.q.QueryContext(ctx,
		`SELECT task_id, tag FROM task_tags WHERE task_id IN (`+placeholders+`) ORDER BY tag`, args...)
	if err != nil {
		return fmt.Errorf("failed to query task tags: %w", classify(err))
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return fmt.Errorf("failed to scan task tag: %w", err)
		}
		if task, ok := byID[id]; ok {
			task.Tags = append(task.Tags, tag)
		}
	}
	return rows.Err()
}

func expectOne(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, board.ErrNotFound)
	}
	return nil
}
