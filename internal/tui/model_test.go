package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aristath/taskblaster/internal/board"
	"github.com/aristath/taskblaster/internal/events"
	"github.com/aristath/taskblaster/internal/orchestrator"
)

type fakeClient struct {
	mu       sync.Mutex
	view     *orchestrator.BoardView
	bulk     []orchestrator.PositionUpdate
	bulkCol  board.Status
	moved    string
	movedTo  board.Status
	created  *orchestrator.NewTask
	loads    int
	failWith error
}

func (f *fakeClient) Board(ctx context.Context, code string) (*orchestrator.BoardView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	return f.view, nil
}

func (f *fakeClient) CreateTask(ctx context.Context, code string, nt orchestrator.NewTask) (*board.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = &nt
	return &board.Task{Title: nt.Title}, f.failWith
}

func (f *fakeClient) ChangeStatus(ctx context.Context, code, displayID string, status board.Status) (*board.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.moved, f.movedTo = displayID, status
	return &board.Task{DisplayID: displayID, Status: status}, f.failWith
}

func (f *fakeClient) BulkReorder(ctx context.Context, code string, status board.Status, updates []orchestrator.PositionUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bulkCol, f.bulk = status, updates
	return f.failWith
}

func card(id, title string, status board.Status, pos int64) *board.Task {
	return &board.Task{DisplayID: id, Title: title, Status: status, Position: pos, Priority: board.PriorityMedium}
}

func sampleBoard() *orchestrator.BoardView {
	return &orchestrator.BoardView{
		Project: &board.Project{Code: "WEB", Title: "Website"},
		Columns: []orchestrator.ColumnView{
			{Status: board.StatusTodo, Tasks: []*board.Task{
				card("WEB-1", "a", board.StatusTodo, 10),
				card("WEB-2", "b", board.StatusTodo, 20),
				card("WEB-3", "c", board.StatusTodo, 25),
			}},
			{Status: board.StatusInProgress},
			{Status: board.StatusInReview},
			{Status: board.StatusDone},
		},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loaded returns a model that has received the sample board.
func loaded(t *testing.T, client *fakeClient) Model {
	t.Helper()
	client.view = sampleBoard()
	m := New(context.Background(), client, "WEB", nil)
	updated, _ := m.Update(boardMsg{view: client.view})
	return updated.(Model)
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var updated tea.Model
		updated, cmd = m.Update(runes(k))
		m = updated.(Model)
	}
	return m, cmd
}

func TestMoveCardDownSendsBulkReorder(t *testing.T) {
	client := &fakeClient{}
	m := loaded(t, client)

	m, cmd := press(t, m, "J")
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	if mm, ok := msg.(mutationMsg); !ok || mm.err != nil {
		t.Fatalf("unexpected message %#v", msg)
	}

	want := []orchestrator.PositionUpdate{
		{TaskID: "WEB-2", Position: 10},
		{TaskID: "WEB-1", Position: 20},
		{TaskID: "WEB-3", Position: 30},
	}
	if client.bulkCol != board.StatusTodo {
		t.Errorf("bulk column = %s, want TODO", client.bulkCol)
	}
	if len(client.bulk) != len(want) {
		t.Fatalf("bulk = %+v, want %+v", client.bulk, want)
	}
	for i := range want {
		if client.bulk[i] != want[i] {
			t.Errorf("bulk[%d] = %+v, want %+v", i, client.bulk[i], want[i])
		}
	}
	if m.row != 1 {
		t.Errorf("selection should follow the card, row = %d", m.row)
	}
}

func TestMoveCardUpAtTopIsNoop(t *testing.T) {
	m := loaded(t, &fakeClient{})

	if _, cmd := press(t, m, "K"); cmd != nil {
		t.Error("moving the top card up should do nothing")
	}
}

func TestMoveCardRightChangesStatus(t *testing.T) {
	client := &fakeClient{}
	m := loaded(t, client)

	m, cmd := press(t, m, "j", "L")
	if cmd == nil {
		t.Fatal("expected a command")
	}
	cmd()

	if client.moved != "WEB-2" || client.movedTo != board.StatusInProgress {
		t.Errorf("moved %s to %s, want WEB-2 to IN_PROGRESS", client.moved, client.movedTo)
	}
	if m.col != 1 || m.row != 0 {
		t.Errorf("focus = (%d,%d), want (1,0)", m.col, m.row)
	}
	if n := len(m.board.Columns[0].Tasks); n != 2 {
		t.Errorf("source column has %d tasks, want 2", n)
	}
}

func TestMoveCardLeftFromFirstColumnIsNoop(t *testing.T) {
	m := loaded(t, &fakeClient{})

	if _, cmd := press(t, m, "H"); cmd != nil {
		t.Error("expected no command")
	}
}

func TestNavigationClamps(t *testing.T) {
	m := loaded(t, &fakeClient{})

	m, _ = press(t, m, "j", "j", "j", "j")
	if m.row != 2 {
		t.Errorf("row = %d, want 2", m.row)
	}
	m, _ = press(t, m, "l")
	if m.col != 1 || m.row != 0 {
		t.Errorf("empty column focus = (%d,%d), want (1,0)", m.col, m.row)
	}
	m, _ = press(t, m, "l", "l", "l")
	if m.col != 3 {
		t.Errorf("col = %d, want 3", m.col)
	}
}

func TestMutationErrorIsShownAndReloads(t *testing.T) {
	client := &fakeClient{view: sampleBoard()}
	m := New(context.Background(), client, "WEB", nil)

	updated, cmd := m.Update(mutationMsg{op: "move", err: board.ErrConflict})
	m = updated.(Model)
	if !errors.Is(m.err, board.ErrConflict) {
		t.Errorf("err = %v", m.err)
	}
	if cmd == nil {
		t.Fatal("expected reload")
	}
	if _, ok := cmd().(boardMsg); !ok {
		t.Error("expected a board reload")
	}
}

func TestEventsForOtherProjectsIgnored(t *testing.T) {
	bus := events.NewEventBus()
	defer bus.Close()
	client := &fakeClient{view: sampleBoard()}
	m := New(context.Background(), client, "WEB", bus)

	_, cmd := m.Update(events.TaskCreatedEvent{Project: "OTHER", ID: "OTHER-1"})
	if cmd == nil {
		t.Fatal("expected to keep listening")
	}
	if client.loads != 0 {
		t.Errorf("reloaded for another project")
	}
}

func TestTaskFieldsNewTask(t *testing.T) {
	fs := &taskFields{
		title:    "  Write docs ",
		priority: "HIGH",
		status:   "IN_REVIEW",
		points:   "5",
		branch:   "feature/docs",
	}
	nt := fs.newTask()
	if nt.Title != "Write docs" || nt.Priority != board.PriorityHigh || nt.Status != board.StatusInReview {
		t.Errorf("newTask() = %+v", nt)
	}
	if nt.StoryPoints == nil || *nt.StoryPoints != 5 {
		t.Errorf("story points = %v", nt.StoryPoints)
	}
	if nt.GitFeatureBranch != "feature/docs" {
		t.Errorf("branch = %q", nt.GitFeatureBranch)
	}

	fs.points = ""
	if nt := fs.newTask(); nt.StoryPoints != nil {
		t.Errorf("empty points should stay unset")
	}
}

func TestValidPoints(t *testing.T) {
	for _, tc := range []struct {
		in    string
		valid bool
	}{{"", true}, {"3", true}, {" 8 ", true}, {"-1", false}, {"many", false}} {
		if err := validPoints(tc.in); (err == nil) != tc.valid {
			t.Errorf("validPoints(%q) = %v", tc.in, err)
		}
	}
}

func TestNewOpensFormInFocusedColumn(t *testing.T) {
	m := loaded(t, &fakeClient{})
	m, _ = press(t, m, "l", "n")
	if !m.form.visible {
		t.Fatal("form should be visible")
	}
	if m.form.fields.status != string(board.StatusInProgress) {
		t.Errorf("form column = %s, want IN_PROGRESS", m.form.fields.status)
	}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if updated.(Model).form.visible {
		t.Error("esc should close the form")
	}
}

func TestView(t *testing.T) {
	m := loaded(t, &fakeClient{})
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() before size = %q", got)
	}
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	view := updated.(Model).View()
	if view == "" || view == "Initializing..." {
		t.Errorf("expected a rendered board")
	}
}
