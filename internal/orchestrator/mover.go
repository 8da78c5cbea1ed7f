package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/aristath/taskblaster/internal/board"
	"github.com/aristath/taskblaster/internal/events"
	"github.com/aristath/taskblaster/internal/persistence"
)

// Mover is the single entry point for creating, moving and editing tasks.
// Each operation is one storage transaction: it reads the affected column,
// decides positions and status, and writes the result, or writes nothing.
type Mover struct {
	store   persistence.Store
	bus     events.Publisher
	now     func() time.Time
	retry   RetryConfig
	breaker *gobreaker.CircuitBreaker
	locks   *board.ColumnLocks
	logger  *slog.Logger
}

// Option configures a Mover.
type Option func(*Mover)

// WithPublisher sets the bus mutations are announced on.
func WithPublisher(p events.Publisher) Option { return func(m *Mover) { m.bus = p } }

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option { return func(m *Mover) { m.now = now } }

// WithRetry overrides DefaultRetryConfig.
func WithRetry(cfg RetryConfig) Option { return func(m *Mover) { m.retry = cfg } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(m *Mover) { m.logger = l } }

// NewMover creates a Mover over store.
func NewMover(store persistence.Store, opts ...Option) *Mover {
	m := &Mover{
		store:  store,
		bus:    events.Discard,
		now:    time.Now,
		retry:  DefaultRetryConfig(),
		locks:  board.NewColumnLocks(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.breaker = newBreaker(m.logger)
	return m
}

// NewTask describes a task to create. Zero Status means TODO and zero
// Priority means MEDIUM.
type NewTask struct {
	Title             string
	Description       string
	Status            board.Status
	Priority          board.Priority
	StoryPoints       *int
	Prompt            string
	GitFeatureBranch  string
	GitPullRequestURL string
	IsBlocked         bool
	BlockedReason     string
	Tags              []string
}

// ReorderIntent is a drag-and-drop move: put the task before whatever is
// currently at Index in column Status, counted without the task itself.
// An empty Status keeps the task's column.
type ReorderIntent struct {
	Index  int
	Status board.Status
}

// TaskPatch is a full task update. Nil fields keep their stored value.
// Git fields that are present act as fresh automation signals.
type TaskPatch struct {
	Title             *string
	Description       *string
	Status            *board.Status
	Priority          *board.Priority
	StoryPoints       *int
	Prompt            *string
	GitFeatureBranch  *string
	GitPullRequestURL *string
	IsBlocked         *bool
	BlockedReason     *string
	Tags              []string // nil keeps the tags
}

// PositionUpdate is one row of a bulk column reorder.
type PositionUpdate struct {
	TaskID   string `json:"taskId"`
	Position int64  `json:"position"`
}

// ColumnView is one column of a board, in display order.
type ColumnView struct {
	Status board.Status  `json:"status"`
	Tasks  []*board.Task `json:"tasks"`
}

// BoardView is every column of a project.
type BoardView struct {
	Project *board.Project `json:"project"`
	Columns []ColumnView   `json:"columns"`
}

// unit is the bookkeeping of one attempt: events to publish on commit.
type unit struct {
	events []events.Event
}

func (u *unit) emit(e events.Event) { u.events = append(u.events, e) }

// exec runs fn in a retried transaction holding the column locks named by
// keys, and publishes the events fn emitted once the transaction commits.
func (m *Mover) exec(ctx context.Context, op string, keys func(ctx context.Context) ([]board.ColumnKey, error), fn func(tx persistence.Tx, u *unit) error) error {
	var u *unit
	var prepare func(ctx context.Context) (func(), error)
	if keys != nil {
		prepare = func(ctx context.Context) (func(), error) {
			ks, err := keys(ctx)
			if err != nil {
				return nil, err
			}
			return m.locks.LockAll(ks...), nil
		}
	}

	start := m.now()
	err := runTx(ctx, m.store, m.breaker, m.retry, prepare, func(tx persistence.Tx) error {
		u = &unit{}
		return fn(tx, u)
	})
	if err != nil {
		level := slog.LevelWarn
		if board.CodeOf(err) == board.CodeInternal {
			level = slog.LevelError
		}
		m.logger.Log(ctx, level, "board operation failed", "op", op, "code", board.CodeOf(err), "error", err)
		return err
	}

	m.logger.Debug("board operation", "op", op, "events", len(u.events), "duration", m.now().Sub(start))
	for _, e := range u.events {
		m.bus.Publish(events.TopicOf(e), e)
	}
	return nil
}

// resolve loads a project and one of its tasks, rejecting tasks that belong
// to another project.
func resolve(ctx context.Context, tx persistence.Tx, code, displayID string) (*board.Project, *board.Task, error) {
	project, err := tx.ProjectByCode(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	task, err := tx.TaskByDisplayID(ctx, displayID)
	if err != nil {
		return nil, nil, err
	}
	if task.ProjectID != project.ID {
		return nil, nil, fmt.Errorf("task %s is not in project %s: %w", displayID, code, board.ErrOwnershipMismatch)
	}
	return project, task, nil
}

// columnsOf peeks at the task's current column so the matching lock can be
// taken before the transaction starts. The transaction re-checks it.
func (m *Mover) columnsOf(code, displayID string, extra ...board.Status) func(ctx context.Context) ([]board.ColumnKey, error) {
	return func(ctx context.Context) ([]board.ColumnKey, error) {
		var keys []board.ColumnKey
		err := m.store.View(ctx, func(tx persistence.Tx) error {
			project, task, err := resolve(ctx, tx, code, displayID)
			if err != nil {
				return err
			}
			keys = append(keys, board.ColumnKey{ProjectID: project.ID, Status: task.Status})
			for _, s := range extra {
				if s != "" {
					keys = append(keys, board.ColumnKey{ProjectID: project.ID, Status: s})
				}
			}
			return nil
		})
		return keys, err
	}
}

// stale fails the attempt when the task left the column the lock was taken for.
func stale(task *board.Task, locked board.Status) error {
	if task.Status != locked {
		return fmt.Errorf("task %s moved concurrently: %w", task.DisplayID, board.ErrConflict)
	}
	return nil
}

// appendPosition returns the bottom-of-column key for status.
func appendPosition(ctx context.Context, tx persistence.Tx, projectID int64, status board.Status) (int64, error) {
	top, ok, err := tx.MaxPosition(ctx, projectID, status)
	if err != nil {
		return 0, err
	}
	if !ok {
		pos, _ := board.Allocate(nil, 0)
		return pos, nil
	}
	pos, _ := board.Allocate([]int64{top}, 1)
	return pos, nil
}

// columnWithout returns the slots of a column minus one task.
func columnWithout(ctx context.Context, tx persistence.Tx, projectID int64, status board.Status, taskID int64) ([]board.Slot, error) {
	slots, err := tx.ColumnSlots(ctx, projectID, status)
	if err != nil {
		return nil, err
	}
	out := slots[:0]
	for _, s := range slots {
		if s.TaskID != taskID {
			out = append(out, s)
		}
	}
	return out, nil
}

// compact re-lays the column a task just left.
func (m *Mover) compact(ctx context.Context, tx persistence.Tx, u *unit, project *board.Project, status board.Status, left int64) error {
	column, err := columnWithout(ctx, tx, project.ID, status, left)
	if err != nil {
		return err
	}
	changes := board.Compact(column)
	if len(changes) == 0 {
		return nil
	}
	if err := tx.SetPositions(ctx, changes); err != nil {
		return err
	}
	u.emit(events.ColumnRenumberedEvent{Project: project.Code, Status: string(status), Changed: len(changes), Timestamp: m.now()})
	return nil
}

// GetTask returns one task of a project.
func (m *Mover) GetTask(ctx context.Context, code, displayID string) (*board.Task, error) {
	var task *board.Task
	err := m.store.View(ctx, func(tx persistence.Tx) error {
		var err error
		_, task, err = resolve(ctx, tx, code, displayID)
		return err
	})
	return task, err
}

// ListTasks returns every task of a project ordered by column then position.
func (m *Mover) ListTasks(ctx context.Context, code string) ([]*board.Task, error) {
	var tasks []*board.Task
	err := m.store.View(ctx, func(tx persistence.Tx) error {
		project, err := tx.ProjectByCode(ctx, code)
		if err != nil {
			return err
		}
		tasks, err = tx.ListTasks(ctx, project.ID)
		return err
	})
	return tasks, err
}

// Column returns one column in display order.
func (m *Mover) Column(ctx context.Context, code string, status board.Status) ([]*board.Task, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", board.ErrInvalidStatus, status)
	}
	var tasks []*board.Task
	err := m.store.View(ctx, func(tx persistence.Tx) error {
		project, err := tx.ProjectByCode(ctx, code)
		if err != nil {
			return err
		}
		tasks, err = tx.ColumnTasks(ctx, project.ID, status)
		return err
	})
	return tasks, err
}

// Board returns every column of a project.
func (m *Mover) Board(ctx context.Context, code string) (*BoardView, error) {
	view := &BoardView{}
	err := m.store.View(ctx, func(tx persistence.Tx) error {
		project, err := tx.ProjectByCode(ctx, code)
		if err != nil {
			return err
		}
		view.Project = project
		for _, s := range board.Statuses() {
			tasks, err := tx.ColumnTasks(ctx, project.ID, s)
			if err != nil {
				return err
			}
			view.Columns = append(view.Columns, ColumnView{Status: s, Tasks: tasks})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func validateNewTask(nt *NewTask) error {
	nt.Title = strings.TrimSpace(nt.Title)
	if nt.Title == "" {
		return fmt.Errorf("%w: title is required", board.ErrValidation)
	}
	if nt.Status == "" {
		nt.Status = board.StatusTodo
	}
	if !nt.Status.Valid() {
		return fmt.Errorf("%w: %q", board.ErrInvalidStatus, nt.Status)
	}
	if nt.Priority == "" {
		nt.Priority = board.PriorityMedium
	}
	if !nt.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", board.ErrValidation, nt.Priority)
	}
	if nt.StoryPoints != nil && *nt.StoryPoints < 0 {
		return fmt.Errorf("%w: story points must not be negative", board.ErrValidation)
	}
	tags, err := persistence.NormalizeTags(nt.Tags)
	if err != nil {
		return err
	}
	sort.Strings(tags)
	nt.Tags = tags
	return nil
}

// CreateTask adds a task at the bottom of its column. The display ID comes
// from the project counter, read and bumped in the same transaction.
func (m *Mover) CreateTask(ctx context.Context, code string, nt NewTask) (*board.Task, error) {
	if err := validateNewTask(&nt); err != nil {
		return nil, err
	}
	decision := board.Decide(nt.Status, board.GitSignals{
		FeatureBranch:  nt.GitFeatureBranch,
		PullRequestURL: nt.GitPullRequestURL,
	})

	keys := func(ctx context.Context) ([]board.ColumnKey, error) {
		var keys []board.ColumnKey
		err := m.store.View(ctx, func(tx persistence.Tx) error {
			project, err := tx.ProjectByCode(ctx, code)
			if err != nil {
				return err
			}
			keys = []board.ColumnKey{{ProjectID: project.ID, Status: decision.Status}}
			return nil
		})
		return keys, err
	}

	var task *board.Task
	err := m.exec(ctx, "create_task", keys, func(tx persistence.Tx, u *unit) error {
		project, err := tx.ProjectByCode(ctx, code)
		if err != nil {
			return err
		}
		seq, err := tx.NextTaskSequence(ctx, project.ID)
		if err != nil {
			return err
		}
		pos, err := appendPosition(ctx, tx, project.ID, decision.Status)
		if err != nil {
			return err
		}

		task = &board.Task{
			DisplayID:         board.DisplayID(project.Code, seq),
			ProjectID:         project.ID,
			Title:             nt.Title,
			Description:       nt.Description,
			Status:            decision.Status,
			Position:          pos,
			Priority:          nt.Priority,
			StoryPoints:       nt.StoryPoints,
			Prompt:            nt.Prompt,
			GitFeatureBranch:  strings.TrimSpace(nt.GitFeatureBranch),
			GitPullRequestURL: strings.TrimSpace(nt.GitPullRequestURL),
			IsBlocked:         nt.IsBlocked,
			BlockedReason:     nt.BlockedReason,
		}
		board.Stamp(task, "", decision.Status, m.now().UTC(), decision.Visited...)

		if err := tx.InsertTask(ctx, task); err != nil {
			return err
		}
		if err := tx.SetTaskTags(ctx, task.ID, nt.Tags); err != nil {
			return err
		}
		task.Tags = nt.Tags

		u.emit(events.TaskCreatedEvent{Project: project.Code, ID: task.DisplayID, Status: string(task.Status), Position: pos, Timestamp: m.now()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.logAutomation(ctx, task.DisplayID, nt.Status, decision)
	return task, nil
}

// logAutomation records a status that Git signals pushed past baseline.
func (m *Mover) logAutomation(ctx context.Context, displayID string, baseline board.Status, d board.Decision) {
	if !d.Advanced() {
		return
	}
	m.logger.InfoContext(ctx, "git automation advanced task",
		"task", displayID, "from", baseline, "to", d.Status, "visited", d.Visited)
}

// Reorder moves a task to an index within its column, or into another
// column at that index when intent.Status names a different one.
func (m *Mover) Reorder(ctx context.Context, code, displayID string, intent ReorderIntent) (*board.Task, error) {
	if intent.Status != "" && !intent.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", board.ErrInvalidStatus, intent.Status)
	}
	if intent.Index < 0 {
		return nil, fmt.Errorf("%w: index must not be negative", board.ErrValidation)
	}

	var task *board.Task
	var locked board.Status
	keys := func(ctx context.Context) ([]board.ColumnKey, error) {
		ks, err := m.columnsOf(code, displayID, intent.Status)(ctx)
		if err == nil {
			locked = ks[0].Status
		}
		return ks, err
	}

	err := m.exec(ctx, "reorder", keys, func(tx persistence.Tx, u *unit) error {
		project, t, err := resolve(ctx, tx, code, displayID)
		if err != nil {
			return err
		}
		if err := stale(t, locked); err != nil {
			return err
		}

		from := t.Status
		to := intent.Status
		if to == "" {
			to = from
		}

		column, err := columnWithout(ctx, tx, project.ID, to, t.ID)
		if err != nil {
			return err
		}
		placed := board.Place(column, intent.Index, t.ID)
		for i := range placed.Changes {
			if placed.Changes[i].TaskID == t.ID {
				// The moving row is written by UpdateTask below
				placed.Changes = append(placed.Changes[:i], placed.Changes[i+1:]...)
				break
			}
		}
		if err := tx.SetPositions(ctx, placed.Changes); err != nil {
			return err
		}

		now := m.now().UTC()
		t.Position = placed.Position
		t.Status = to
		board.Stamp(t, from, to, now)
		t.UpdatedAt = now
		if err := tx.UpdateTask(ctx, t); err != nil {
			return err
		}

		if placed.Renumbered {
			u.emit(events.ColumnRenumberedEvent{Project: project.Code, Status: string(to), Changed: len(placed.Changes) + 1, Timestamp: now})
		}
		if from != to {
			if err := m.compact(ctx, tx, u, project, from, t.ID); err != nil {
				return err
			}
			u.emit(events.TaskStatusChangedEvent{Project: project.Code, ID: t.DisplayID, From: string(from), To: string(to), Timestamp: now})
		}
		u.emit(events.TaskMovedEvent{Project: project.Code, ID: t.DisplayID, From: string(from), To: string(to), Position: t.Position, Renumbered: placed.Renumbered, Timestamp: now})
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// moveColumn appends t to the bottom of status to and re-lays the column it
// left. It does not write t itself.
func (m *Mover) moveColumn(ctx context.Context, tx persistence.Tx, u *unit, project *board.Project, t *board.Task, to board.Status, visited []board.Status) error {
	from := t.Status
	pos, err := appendPosition(ctx, tx, project.ID, to)
	if err != nil {
		return err
	}
	now := m.now().UTC()
	t.Status = to
	t.Position = pos
	board.Stamp(t, from, to, now, visited...)

	if err := m.compact(ctx, tx, u, project, from, t.ID); err != nil {
		return err
	}

	auto := make([]string, len(visited))
	for i, s := range visited {
		auto[i] = string(s)
	}
	u.emit(events.TaskStatusChangedEvent{Project: project.Code, ID: t.DisplayID, From: string(from), To: string(to), Automatic: auto, Timestamp: now})
	u.emit(events.TaskMovedEvent{Project: project.Code, ID: t.DisplayID, From: string(from), To: string(to), Position: pos, Timestamp: now})
	return nil
}

// ChangeStatus moves a task to the bottom of another column. Changing to the
// current status is a no-op.
func (m *Mover) ChangeStatus(ctx context.Context, code, displayID string, status board.Status) (*board.Task, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", board.ErrInvalidStatus, status)
	}

	var task *board.Task
	var locked board.Status
	keys := func(ctx context.Context) ([]board.ColumnKey, error) {
		ks, err := m.columnsOf(code, displayID, status)(ctx)
		if err == nil {
			locked = ks[0].Status
		}
		return ks, err
	}

	err := m.exec(ctx, "change_status", keys, func(tx persistence.Tx, u *unit) error {
		project, t, err := resolve(ctx, tx, code, displayID)
		if err != nil {
			return err
		}
		if err := stale(t, locked); err != nil {
			return err
		}
		task = t
		if t.Status == status {
			return nil
		}

		// An explicit move carries no fresh Git signals.
		decision := board.Decide(status, board.GitSignals{})
		if err := m.moveColumn(ctx, tx, u, project, t, decision.Status, decision.Visited); err != nil {
			return err
		}
		t.UpdatedAt = m.now().UTC()
		return tx.UpdateTask(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func applyPatch(t *board.Task, p TaskPatch) error {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return fmt.Errorf("%w: title is required", board.ErrValidation)
		}
		t.Title = title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		if !p.Priority.Valid() {
			return fmt.Errorf("%w: unknown priority %q", board.ErrValidation, *p.Priority)
		}
		t.Priority = *p.Priority
	}
	if p.StoryPoints != nil {
		if *p.StoryPoints < 0 {
			return fmt.Errorf("%w: story points must not be negative", board.ErrValidation)
		}
		sp := *p.StoryPoints
		t.StoryPoints = &sp
	}
	if p.Prompt != nil {
		t.Prompt = *p.Prompt
	}
	if p.GitFeatureBranch != nil {
		t.GitFeatureBranch = strings.TrimSpace(*p.GitFeatureBranch)
	}
	if p.GitPullRequestURL != nil {
		t.GitPullRequestURL = strings.TrimSpace(*p.GitPullRequestURL)
	}
	if p.IsBlocked != nil {
		t.IsBlocked = *p.IsBlocked
	}
	if p.BlockedReason != nil {
		t.BlockedReason = *p.BlockedReason
	}
	return nil
}

// UpdateTask applies a full edit. The explicit status, or the stored one
// when absent, is the policy baseline and the Git fields in the patch push it
// forward. Edits that keep the status never move the card.
func (m *Mover) UpdateTask(ctx context.Context, code, displayID string, patch TaskPatch) (*board.Task, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", board.ErrInvalidStatus, *patch.Status)
	}
	var tags []string
	if patch.Tags != nil {
		var err error
		if tags, err = persistence.NormalizeTags(patch.Tags); err != nil {
			return nil, err
		}
		sort.Strings(tags)
	}
	sig := board.GitSignals{}
	if patch.GitFeatureBranch != nil {
		sig.FeatureBranch = *patch.GitFeatureBranch
	}
	if patch.GitPullRequestURL != nil {
		sig.PullRequestURL = *patch.GitPullRequestURL
	}

	var task *board.Task
	var locked, baseline board.Status
	var decision board.Decision
	keys := func(ctx context.Context) ([]board.ColumnKey, error) {
		// Lock every column a policy outcome could land in.
		ks, err := m.columnsOf(code, displayID, board.Statuses()...)(ctx)
		if err == nil {
			locked = ks[0].Status
		}
		return ks, err
	}

	err := m.exec(ctx, "update_task", keys, func(tx persistence.Tx, u *unit) error {
		project, t, err := resolve(ctx, tx, code, displayID)
		if err != nil {
			return err
		}
		if err := stale(t, locked); err != nil {
			return err
		}
		if err := applyPatch(t, patch); err != nil {
			return err
		}

		baseline = t.Status
		if patch.Status != nil {
			baseline = *patch.Status
		}
		decision = board.Decide(baseline, sig)
		now := m.now().UTC()

		if decision.Status != t.Status {
			if err := m.moveColumn(ctx, tx, u, project, t, decision.Status, decision.Visited); err != nil {
				return err
			}
		} else {
			board.Stamp(t, t.Status, t.Status, now)
		}

		t.UpdatedAt = now
		if err := tx.UpdateTask(ctx, t); err != nil {
			return err
		}
		if tags != nil {
			if err := tx.SetTaskTags(ctx, t.ID, tags); err != nil {
				return err
			}
			t.Tags = tags
		}
		u.emit(events.TaskUpdatedEvent{Project: project.Code, ID: t.DisplayID, Timestamp: now})
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.logAutomation(ctx, task.DisplayID, baseline, decision)
	return task, nil
}

// SetTags replaces a task's tags.
func (m *Mover) SetTags(ctx context.Context, code, displayID string, tags []string) (*board.Task, error) {
	return m.UpdateTask(ctx, code, displayID, TaskPatch{Tags: append([]string{}, tags...)})
}

// BulkReorder writes caller-supplied positions for tasks of one column.
// The whole batch is rejected if any entry is a duplicate, unknown, or
// outside the column; positions are otherwise applied as given.
func (m *Mover) BulkReorder(ctx context.Context, code string, status board.Status, updates []PositionUpdate) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", board.ErrInvalidStatus, status)
	}
	seen := make(map[string]bool, len(updates))
	for _, up := range updates {
		if seen[up.TaskID] {
			return fmt.Errorf("%w: task %s listed twice", board.ErrValidation, up.TaskID)
		}
		seen[up.TaskID] = true
		if up.Position <= 0 {
			return fmt.Errorf("%w: task %s: position must be positive", board.ErrValidation, up.TaskID)
		}
	}

	keys := func(ctx context.Context) ([]board.ColumnKey, error) {
		var keys []board.ColumnKey
		err := m.store.View(ctx, func(tx persistence.Tx) error {
			project, err := tx.ProjectByCode(ctx, code)
			if err != nil {
				return err
			}
			keys = []board.ColumnKey{{ProjectID: project.ID, Status: status}}
			return nil
		})
		return keys, err
	}

	return m.exec(ctx, "bulk_reorder", keys, func(tx persistence.Tx, u *unit) error {
		project, err := tx.ProjectByCode(ctx, code)
		if err != nil {
			return err
		}

		slots := make([]board.Slot, 0, len(updates))
		for _, up := range updates {
			t, err := tx.TaskByDisplayID(ctx, up.TaskID)
			if err != nil {
				return fmt.Errorf("%w: task %s: %v", board.ErrValidation, up.TaskID, err)
			}
			if t.ProjectID != project.ID {
				return fmt.Errorf("%w: task %s is not in project %s", board.ErrValidation, up.TaskID, code)
			}
			if t.Status != status {
				return fmt.Errorf("%w: task %s is in %s, not %s", board.ErrValidation, up.TaskID, t.Status, status)
			}
			slots = append(slots, board.Slot{TaskID: t.ID, Position: up.Position})
		}

		if err := tx.SetPositions(ctx, slots); err != nil {
			return err
		}
		u.emit(events.ColumnReorderedEvent{Project: project.Code, Status: string(status), Tasks: len(slots), Timestamp: m.now()})
		return nil
	})
}

// DeleteTask removes a task. The rest of the column keeps its positions.
func (m *Mover) DeleteTask(ctx context.Context, code, displayID string) error {
	var locked board.Status
	keys := func(ctx context.Context) ([]board.ColumnKey, error) {
		ks, err := m.columnsOf(code, displayID)(ctx)
		if err == nil {
			locked = ks[0].Status
		}
		return ks, err
	}

	return m.exec(ctx, "delete_task", keys, func(tx persistence.Tx, u *unit) error {
		project, t, err := resolve(ctx, tx, code, displayID)
		if err != nil {
			return err
		}
		if err := stale(t, locked); err != nil {
			return err
		}
		if err := tx.DeleteTask(ctx, t.ID); err != nil {
			return err
		}
		u.emit(events.TaskDeletedEvent{Project: project.Code, ID: t.DisplayID, Status: string(t.Status), Timestamp: m.now()})
		return nil
	})
}
