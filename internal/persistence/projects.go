package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/taskblaster/internal/board"
)

const projectColumns = `id, code, title, description, next_task_sequence, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(r rowScanner) (*board.Project, error) {
	p := &board.Project{}
	if err := r.Scan(&p.ID, &p.Code, &p.Title, &p.Description, &p.NextTaskSequence, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

// CreateProject inserts p and fills in its ID. A taken code is a validation error.
func (t *sqlTx) CreateProject(ctx context.Context, p *board.Project) error {
	now := time.Now().UTC()
	if p.NextTaskSequence < 1 {
		p.NextTaskSequence = 1
	}
	p.CreatedAt, p.UpdatedAt = now, now

	res, err := t.q.ExecContext(ctx, `
		INSERT INTO projects (code, title, description, next_task_sequence, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.Code, p.Title, p.Description, p.NextTaskSequence, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert project %s: %w", p.Code, classify(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read project id: %w", err)
	}
	p.ID = id
	return nil
}

// ProjectByCode loads a project by its code.
func (t *sqlTx) ProjectByCode(ctx context.Context, code string) (*board.Project, error) {
	p, err := scanProject(t.q.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE code = ?`, code))
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", code, classify(err))
	}
	return p, nil
}

// ListProjects returns every project, newest first.
func (t *sqlTx) ListProjects(ctx context.Context) ([]*board.Project, error) {
	rows, err := t.q.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", classify(err))
	}
	defer rows.Close()

	projects := []*board.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}
	return projects, nil
}

// CodeExists reports whether a project already uses code.
func (t *sqlTx) CodeExists(ctx context.Context, code string) (bool, error) {
	var n int
	if err := t.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects WHERE code = ?`, code).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check project code: %w", classify(err))
	}
	return n > 0, nil
}

// NextTaskSequence returns the project's current sequence value and bumps
// the counter in the same statement. Callers must be inside WithTx so the
// value and the task insert commit together.
func (t *sqlTx) NextTaskSequence(ctx context.Context, projectID int64) (int64, error) {
	var seq int64
	err := t.q.QueryRowContext(ctx, `
		UPDATE projects
		SET next_task_sequence = next_task_sequence + 1, updated_at = ?
		WHERE id = ?
		RETURNING next_task_sequence - 1
	`, time.Now().UTC(), projectID).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("failed to advance task sequence for project %d: %w", projectID, classify(err))
	}
	return seq, nil
}
