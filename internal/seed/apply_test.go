package seed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/aristath/taskblaster/internal/board"
	"github.com/aristath/taskblaster/internal/orchestrator"
	"github.com/aristath/taskblaster/internal/persistence"
)

func newMover(t *testing.T) *orchestrator.Mover {
	t.Helper()
	store, err := persistence.NewMemoryStore(context.Background())
	if err != nil {
		t.Fatalf("NewMemoryStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return orchestrator.NewMover(store, orchestrator.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func planFor(t *testing.T, src string) []Step {
	t.Helper()
	f, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	plan, err := Plan(f)
	if err != nil {
		t.Fatal(err)
	}
	return plan
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	m := newMover(t)
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	report, err := Apply(ctx, m, planFor(t, sampleFixture), quiet)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if report.Tags != 1 || report.Projects != 1 || report.Tasks != 3 {
		t.Errorf("report = %+v", report)
	}

	// schema must be created before api
	schemaID, apiID := report.DisplayIDs["WEB/schema"], report.DisplayIDs["WEB/api"]
	_, schemaSeq, _ := board.ParseDisplayID(schemaID)
	_, apiSeq, _ := board.ParseDisplayID(apiID)
	if schemaSeq >= apiSeq {
		t.Errorf("schema %s should precede api %s", schemaID, apiID)
	}

	schema, err := m.GetTask(ctx, "WEB", schemaID)
	if err != nil {
		t.Fatal(err)
	}
	if schema.Status != board.StatusDone || schema.CompletedAt == nil {
		t.Errorf("schema status=%s completedAt=%v", schema.Status, schema.CompletedAt)
	}
	if len(schema.Tags) != 1 || schema.Tags[0] != "backend" {
		t.Errorf("schema tags = %v", schema.Tags)
	}

	api, err := m.GetTask(ctx, "WEB", apiID)
	if err != nil {
		t.Fatal(err)
	}
	if api.Status != board.StatusInProgress {
		t.Errorf("a seeded branch should start the task, got %s", api.Status)
	}

	color, err := m.TagColor(ctx, "backend")
	if err != nil {
		t.Fatal(err)
	}
	if color != "#112233" {
		t.Errorf("tag color = %q, want #112233", color)
	}
}

func TestApplySkipsExistingProjects(t *testing.T) {
	ctx := context.Background()
	m := newMover(t)

	if _, err := m.CreateProject(ctx, orchestrator.NewProject{Code: "WEB", Title: "Existing"}); err != nil {
		t.Fatal(err)
	}

	report, err := Apply(ctx, m, planFor(t, sampleFixture), nil)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if report.Tasks != 0 || len(report.SkippedProjects) != 1 || report.SkippedProjects[0] != "WEB" {
		t.Errorf("report = %+v", report)
	}

	tasks, err := m.ListTasks(ctx, "WEB")
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected untouched project, got %d tasks", len(tasks))
	}
}

func TestApplyInvalidStatus(t *testing.T) {
	ctx := context.Background()
	m := newMover(t)

	plan := planFor(t, "projects:\n  - code: A\n    title: A\n    tasks:\n      - {title: X, status: someday}\n")
	_, err := Apply(ctx, m, plan, nil)
	if !errors.Is(err, board.ErrInvalidStatus) {
		t.Errorf("expected invalid status, got %v", err)
	}
}
