package orchestrator

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/aristath/taskblaster/internal/board"
	"github.com/aristath/taskblaster/internal/events"
	"github.com/aristath/taskblaster/internal/persistence"
)

const maxCodeLen = 6

var codePattern = regexp.MustCompile(`^[A-Z0-9]{1,10}$`)

// NewProject describes a project to create. An empty Code is derived from
// the title.
type NewProject struct {
	Code        string
	Title       string
	Description string
}

// codeBase derives a code stem from a title: its upper-cased letters and
// digits, at most maxCodeLen of them.
func codeBase(title string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(title) {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			continue
		}
		b.WriteRune(r)
		if b.Len() == maxCodeLen {
			break
		}
	}
	if b.Len() == 0 {
		return "PRJ"
	}
	return b.String()
}

// generateCode returns the first unused code for title: the stem itself,
// then the stem shortened to make room for 2, 3, ...
func generateCode(ctx context.Context, tx persistence.Tx, title string) (string, error) {
	base := codeBase(title)
	for n := 1; ; n++ {
		code := base
		if n > 1 {
			suffix := strconv.Itoa(n)
			stem := base
			if len(stem)+len(suffix) > maxCodeLen {
				stem = stem[:maxCodeLen-len(suffix)]
			}
			code = stem + suffix
		}
		exists, err := tx.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
}

// CreateProject creates a project, generating its code when none is given.
func (m *Mover) CreateProject(ctx context.Context, np NewProject) (*board.Project, error) {
	np.Title = strings.TrimSpace(np.Title)
	if np.Title == "" {
		return nil, fmt.Errorf("%w: title is required", board.ErrValidation)
	}
	np.Code = strings.ToUpper(strings.TrimSpace(np.Code))
	if np.Code != "" && !codePattern.MatchString(np.Code) {
		return nil, fmt.Errorf("%w: project code %q must be 1-10 letters or digits", board.ErrValidation, np.Code)
	}

	var project *board.Project
	err := m.exec(ctx, "create_project", nil, func(tx persistence.Tx, u *unit) error {
		code := np.Code
		if code == "" {
			var err error
			if code, err = generateCode(ctx, tx, np.Title); err != nil {
				return err
			}
		}
		project = &board.Project{Code: code, Title: np.Title, Description: np.Description}
		if err := tx.CreateProject(ctx, project); err != nil {
			return err
		}
		u.emit(events.ProjectCreatedEvent{Project: code, Title: project.Title, Timestamp: m.now()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// Project returns a project by code.
func (m *Mover) Project(ctx context.Context, code string) (*board.Project, error) {
	var project *board.Project
	err := m.store.View(ctx, func(tx persistence.Tx) error {
		var err error
		project, err = tx.ProjectByCode(ctx, code)
		return err
	})
	return project, err
}

// ListProjects returns every project.
func (m *Mover) ListProjects(ctx context.Context) ([]*board.Project, error) {
	var projects []*board.Project
	err := m.store.View(ctx, func(tx persistence.Tx) error {
		var err error
		projects, err = tx.ListProjects(ctx)
		return err
	})
	return projects, err
}
