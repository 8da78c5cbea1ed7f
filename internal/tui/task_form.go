package tui

import (
	"errors"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/taskblaster/internal/board"
	"github.com/aristath/taskblaster/internal/orchestrator"
)

// taskFields holds the form bindings. The form keeps pointers into it, so
// it lives on the heap and survives copies of taskForm.
type taskFields struct {
	title       string
	description string
	priority    string
	status      string
	points      string
	branch      string
}

// taskForm is the new-task overlay.
type taskForm struct {
	form    *huh.Form
	fields  *taskFields
	width   int
	height  int
	visible bool
}

func newTaskForm() taskForm {
	f := taskForm{}
	f.build(board.StatusTodo)
	return f
}

func (f *taskForm) build(status board.Status) {
	f.fields = &taskFields{
		priority: string(board.PriorityMedium),
		status:   string(status),
	}

	statuses := make([]huh.Option[string], 0, 4)
	for _, s := range board.Statuses() {
		statuses = append(statuses, huh.NewOption(string(s), string(s)))
	}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Title").
				Value(&f.fields.title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("title is required")
					}
					return nil
				}),

			huh.NewText().
				Key("description").
				Title("Description").
				Value(&f.fields.description),

			huh.NewSelect[string]().
				Key("priority").
				Title("Priority").
				Options(huh.NewOptions(
					string(board.PriorityLow),
					string(board.PriorityMedium),
					string(board.PriorityHigh),
					string(board.PriorityCritical),
				)...).
				Value(&f.fields.priority),
		).Title("New Task"),

		huh.NewGroup(
			huh.NewSelect[string]().
				Key("status").
				Title("Column").
				Options(statuses...).
				Value(&f.fields.status),

			huh.NewInput().
				Key("points").
				Title("Story Points").
				Placeholder("optional").
				Value(&f.fields.points).
				Validate(validPoints),

			huh.NewInput().
				Key("branch").
				Title("Feature Branch").
				Placeholder("optional, starts the task").
				Value(&f.fields.branch),
		).Title("Placement"),
	)
	if f.width > 0 {
		f.form.WithWidth(f.width - 8).WithHeight(f.height - 8)
	}
}

func validPoints(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return errors.New("story points must be a non-negative number")
	}
	return nil
}

// newTask converts the filled-in fields.
func (fs *taskFields) newTask() orchestrator.NewTask {
	nt := orchestrator.NewTask{
		Title:            strings.TrimSpace(fs.title),
		Description:      fs.description,
		Priority:         board.Priority(fs.priority),
		Status:           board.Status(fs.status),
		GitFeatureBranch: strings.TrimSpace(fs.branch),
	}
	if n, err := strconv.Atoi(strings.TrimSpace(fs.points)); err == nil {
		nt.StoryPoints = &n
	}
	return nt
}

// Open shows a fresh form preset to the given column.
func (f *taskForm) Open(status board.Status) tea.Cmd {
	f.visible = true
	f.build(status)
	return f.form.Init()
}

// Update feeds msg to the form. It returns the task to create once the
// form completes, or nil while it is still being filled in or was cancelled.
func (f taskForm) Update(msg tea.Msg) (taskForm, *orchestrator.NewTask, tea.Cmd) {
	if !f.visible {
		return f, nil, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		f.visible = false
		return f, nil, nil
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	switch f.form.State {
	case huh.StateCompleted:
		f.visible = false
		nt := f.fields.newTask()
		return f, &nt, nil
	case huh.StateAborted:
		f.visible = false
		return f, nil, nil
	}
	return f, nil, cmd
}

func (f taskForm) View() string {
	if !f.visible {
		return ""
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(max(f.width-4, 20)).
		Height(max(f.height-4, 10))

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("62")).
		Render("+ New Task")

	return lipgloss.JoinVertical(lipgloss.Left, title, style.Render(f.form.View()))
}

func (f *taskForm) SetSize(w, h int) {
	f.width = w
	f.height = h
	if f.form != nil {
		f.form.WithWidth(w - 8).WithHeight(h - 8)
	}
}
