package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aristath/taskblaster/internal/board"
	"github.com/aristath/taskblaster/internal/orchestrator"
)

// Target is what a plan is applied to. *orchestrator.Mover implements it.
type Target interface {
	EnsureTags(ctx context.Context, tags []orchestrator.Tag) error
	Project(ctx context.Context, code string) (*board.Project, error)
	CreateProject(ctx context.Context, np orchestrator.NewProject) (*board.Project, error)
	CreateTask(ctx context.Context, code string, nt orchestrator.NewTask) (*board.Task, error)
}

// Report summarizes an Apply.
type Report struct {
	Tags            int
	Projects        int
	Tasks           int
	SkippedProjects []string
	// DisplayIDs maps "CODE/key" to the display ID the task was given.
	DisplayIDs map[string]string
}

func (t *TaskFixture) toNewTask() (orchestrator.NewTask, error) {
	nt := orchestrator.NewTask{
		Title:             t.Title,
		Description:       t.Description,
		Priority:          board.Priority(strings.ToUpper(strings.TrimSpace(t.Priority))),
		StoryPoints:       t.StoryPoints,
		Prompt:            t.Prompt,
		GitFeatureBranch:  t.Branch,
		GitPullRequestURL: t.PullRequest,
		IsBlocked:         t.Blocked,
		BlockedReason:     t.BlockedReason,
		Tags:              t.Tags,
	}
	if t.Status != "" {
		status, err := board.ParseStatus(t.Status)
		if err != nil {
			return nt, err
		}
		nt.Status = status
	}
	return nt, nil
}

// Apply runs plan against target. Projects that already exist are left
// alone together with their tasks, so seeding twice is harmless.
func Apply(ctx context.Context, target Target, plan []Step, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = slog.Default()
	}
	report := &Report{DisplayIDs: make(map[string]string)}
	skipped := make(map[string]bool)

	for _, step := range plan {
		switch step.Kind {
		case StepTag:
			if err := target.EnsureTags(ctx, []orchestrator.Tag{{Name: step.Tag.Name, Color: step.Tag.Color}}); err != nil {
				return report, fmt.Errorf("tag %s: %w", step.Tag.Name, err)
			}
			report.Tags++

		case StepProject:
			p := step.Project
			_, err := target.Project(ctx, p.Code)
			if err == nil {
				logger.Info("project exists, skipping", "project", p.Code)
				skipped[p.Code] = true
				report.SkippedProjects = append(report.SkippedProjects, p.Code)
				continue
			}
			if !errors.Is(err, board.ErrNotFound) {
				return report, fmt.Errorf("failed to look up %s: %w", p.Code, err)
			}
			if _, err := target.CreateProject(ctx, orchestrator.NewProject{Code: p.Code, Title: p.Title, Description: p.Description}); err != nil {
				return report, fmt.Errorf("project %s: %w", p.Code, err)
			}
			logger.Info("project created", "project", p.Code)
			report.Projects++

		case StepTask:
			p, t := step.Project, step.Task
			if skipped[p.Code] {
				continue
			}
			nt, err := t.toNewTask()
			if err != nil {
				return report, fmt.Errorf("task %s/%s: %w", p.Code, t.Key, err)
			}
			task, err := target.CreateTask(ctx, p.Code, nt)
			if err != nil {
				return report, fmt.Errorf("task %s/%s: %w", p.Code, t.Key, err)
			}
			logger.Debug("task created", "task", task.DisplayID, "key", t.Key, "status", task.Status)
			report.DisplayIDs[p.Code+"/"+t.Key] = task.DisplayID
			report.Tasks++
		}
	}
	return report, nil
}
