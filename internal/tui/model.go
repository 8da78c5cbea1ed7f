// Package tui is a terminal kanban board. Cards are moved with the
// keyboard the way the web client drags them: within a column the whole
// column is re-laid out with a bulk reorder, across columns the card gets a
// status change.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/taskblaster/internal/board"
	"github.com/aristath/taskblaster/internal/events"
	"github.com/aristath/taskblaster/internal/orchestrator"
)

// refreshInterval picks up changes made by other processes sharing the
// database, which never reach this process's bus.
const refreshInterval = 3 * time.Second

// Client is the part of the Mover the board drives.
type Client interface {
	Board(ctx context.Context, code string) (*orchestrator.BoardView, error)
	CreateTask(ctx context.Context, code string, nt orchestrator.NewTask) (*board.Task, error)
	ChangeStatus(ctx context.Context, code, displayID string, status board.Status) (*board.Task, error)
	BulkReorder(ctx context.Context, code string, status board.Status, updates []orchestrator.PositionUpdate) error
}

type boardMsg struct {
	view *orchestrator.BoardView
	err  error
}

type mutationMsg struct {
	op  string
	err error
}

type tickMsg time.Time

// Model is the root Bubble Tea model for the board.
type Model struct {
	ctx      context.Context
	client   Client
	code     string
	eventSub <-chan events.Event

	board    *orchestrator.BoardView
	col      int
	row      int
	form     taskForm
	help     help.Model
	keys     keyMap
	width    int
	height   int
	err      error
	quitting bool
}

// New creates a board for project code. bus may be nil.
func New(ctx context.Context, client Client, code string, bus *events.EventBus) Model {
	m := Model{
		ctx:    ctx,
		client: client,
		code:   code,
		form:   newTaskForm(),
		help:   help.New(),
		keys:   defaultKeys,
	}
	if bus != nil {
		m.eventSub = bus.SubscribeAll(256)
	}
	return m
}

// Init loads the board and starts listening for events.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), waitForEvent(m.eventSub), tick())
}

func (m Model) load() tea.Cmd {
	ctx, client, code := m.ctx, m.client, m.code
	return func() tea.Msg {
		view, err := client.Board(ctx, code)
		return boardMsg{view: view, err: err}
	}
}

func (m Model) mutate(op string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return mutationMsg{op: op, err: fn(ctx)}
	}
}

// waitForEvent returns a command that waits for the next event from the event bus.
func waitForEvent(sub <-chan events.Event) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-sub
		if !ok {
			return nil // bus closed
		}
		return event
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The form is modal.
	if m.form.visible {
		if _, ok := msg.(tea.KeyMsg); ok {
			form, nt, cmd := m.form.Update(msg)
			m.form = form
			if nt != nil {
				return m, m.createTask(*nt)
			}
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.form.SetSize(msg.Width, msg.Height)

	case boardMsg:
		if msg.err != nil {
			m.err = msg.err
			break
		}
		m.board = msg.view
		m.err = nil
		m.clamp()

	case mutationMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("%s: %w", msg.op, msg.err)
		}
		return m, m.load()

	case tickMsg:
		return m, tea.Batch(m.load(), tick())

	case events.Event:
		cmds := []tea.Cmd{waitForEvent(m.eventSub)}
		if msg.ProjectCode() == m.code {
			cmds = append(cmds, m.load())
		}
		return m, tea.Batch(cmds...)

	default:
		if m.form.visible {
			form, _, cmd := m.form.Update(msg)
			m.form = form
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Refresh):
		return m, m.load()
	case key.Matches(msg, m.keys.New):
		status := board.StatusTodo
		if col := m.column(); col != nil {
			status = col.Status
		}
		return m, m.form.Open(status)
	case key.Matches(msg, m.keys.Left):
		m.focusColumn(m.col - 1)
	case key.Matches(msg, m.keys.Right):
		m.focusColumn(m.col + 1)
	case key.Matches(msg, m.keys.Up):
		if m.row > 0 {
			m.row--
		}
	case key.Matches(msg, m.keys.Down):
		if col := m.column(); col != nil && m.row < len(col.Tasks)-1 {
			m.row++
		}
	case key.Matches(msg, m.keys.MoveUp):
		return m, m.reorder(-1)
	case key.Matches(msg, m.keys.MoveDown):
		return m, m.reorder(1)
	case key.Matches(msg, m.keys.MoveLeft):
		return m, m.shift(-1)
	case key.Matches(msg, m.keys.MoveRight):
		return m, m.shift(1)
	}
	return m, nil
}

func (m *Model) column() *orchestrator.ColumnView {
	if m.board == nil || m.col < 0 || m.col >= len(m.board.Columns) {
		return nil
	}
	return &m.board.Columns[m.col]
}

func (m *Model) selected() *board.Task {
	col := m.column()
	if col == nil || m.row < 0 || m.row >= len(col.Tasks) {
		return nil
	}
	return col.Tasks[m.row]
}

func (m *Model) focusColumn(i int) {
	if m.board == nil || i < 0 || i >= len(m.board.Columns) {
		return
	}
	m.col = i
	m.clamp()
}

func (m *Model) clamp() {
	if m.board == nil {
		return
	}
	m.col = min(max(m.col, 0), len(m.board.Columns)-1)
	col := m.column()
	if col == nil {
		m.row = 0
		return
	}
	m.row = min(max(m.row, 0), max(len(col.Tasks)-1, 0))
}

// reorder swaps the selected card with its neighbour and lays the whole
// column out again at SpacingUnit steps.
func (m *Model) reorder(delta int) tea.Cmd {
	col := m.column()
	if col == nil {
		return nil
	}
	to := m.row + delta
	if m.row >= len(col.Tasks) || to < 0 || to >= len(col.Tasks) {
		return nil
	}

	tasks := col.Tasks
	tasks[m.row], tasks[to] = tasks[to], tasks[m.row]
	updates := make([]orchestrator.PositionUpdate, len(tasks))
	for i, t := range tasks {
		t.Position = int64(i+1) * board.SpacingUnit
		updates[i] = orchestrator.PositionUpdate{TaskID: t.DisplayID, Position: t.Position}
	}
	m.row = to

	client, code, status := m.client, m.code, col.Status
	return m.mutate("reorder", func(ctx context.Context) error {
		return client.BulkReorder(ctx, code, status, updates)
	})
}

// shift moves the selected card to the bottom of the adjacent column.
func (m *Model) shift(delta int) tea.Cmd {
	task := m.selected()
	if task == nil {
		return nil
	}
	target := m.col + delta
	if target < 0 || target >= len(m.board.Columns) {
		return nil
	}

	from := m.column()
	from.Tasks = append(from.Tasks[:m.row:m.row], from.Tasks[m.row+1:]...)
	dest := &m.board.Columns[target]
	dest.Tasks = append(dest.Tasks, task)
	m.col = target
	m.row = len(dest.Tasks) - 1

	client, code, id, status := m.client, m.code, task.DisplayID, dest.Status
	task.Status = status
	return m.mutate("move", func(ctx context.Context) error {
		_, err := client.ChangeStatus(ctx, code, id, status)
		return err
	})
}

func (m Model) createTask(nt orchestrator.NewTask) tea.Cmd {
	client, code := m.client, m.code
	return m.mutate("create", func(ctx context.Context) error {
		_, err := client.CreateTask(ctx, code, nt)
		return err
	})
}

// View renders the board.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if m.form.visible {
		return m.form.View()
	}

	title := m.code
	if m.board != nil && m.board.Project != nil {
		title = fmt.Sprintf("%s · %s", m.board.Project.Code, m.board.Project.Title)
	}
	header := StyleTitle.Render(title)

	helpBar := StyleHelp.Render(m.help.View(m.keys))
	status := ""
	if m.err != nil {
		status = StyleError.Render(m.err.Error())
	}

	available := m.height - lipgloss.Height(header) - lipgloss.Height(helpBar) - 1
	var columns []string
	if m.board != nil && len(m.board.Columns) > 0 {
		width := m.width / len(m.board.Columns)
		for i, col := range m.board.Columns {
			selected := -1
			if i == m.col {
				selected = m.row
			}
			columns = append(columns, columnPane{column: col, selected: selected, width: width, height: available}.View())
		}
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, columns...)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status, helpBar)
}
