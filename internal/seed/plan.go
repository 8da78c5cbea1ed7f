package seed

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gammazero/toposort"
)

// StepKind says what a Step creates.
type StepKind int

const (
	StepTag StepKind = iota
	StepProject
	StepTask
)

// Step is one creation in a seed plan.
type Step struct {
	Kind    StepKind
	Tag     *TagFixture
	Project *ProjectFixture
	Task    *TaskFixture
}

func tagNode(name string) string       { return "tag:" + name }
func projectNode(code string) string   { return "project:" + code }
func taskNode(code, key string) string { return "task:" + code + "/" + key }

// Plan orders a fixture so every tag and project exists before the tasks
// that use it, and every task comes after the tasks it lists in After.
// Tasks without a key get one from their index.
func Plan(f *Fixture) ([]Step, error) {
	steps := make(map[string]Step)
	var edges []toposort.Edge

	add := func(id string, step Step) error {
		if _, exists := steps[id]; exists {
			return fmt.Errorf("duplicate %s", id)
		}
		steps[id] = step
		return nil
	}

	declared := make(map[string]bool)
	for i := range f.Tags {
		tag := &f.Tags[i]
		tag.Name = strings.ToLower(strings.TrimSpace(tag.Name))
		if tag.Name == "" {
			return nil, fmt.Errorf("tag %d has no name", i)
		}
		id := tagNode(tag.Name)
		if err := add(id, Step{Kind: StepTag, Tag: tag}); err != nil {
			return nil, err
		}
		declared[tag.Name] = true
		edges = append(edges, toposort.Edge{nil, id})
	}

	for i := range f.Projects {
		p := &f.Projects[i]
		p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
		if p.Code == "" {
			return nil, fmt.Errorf("project %d (%q) has no code", i, p.Title)
		}
		pid := projectNode(p.Code)
		if err := add(pid, Step{Kind: StepProject, Project: p}); err != nil {
			return nil, err
		}
		edges = append(edges, toposort.Edge{nil, pid})

		keys := make(map[string]bool, len(p.Tasks))
		for j := range p.Tasks {
			t := &p.Tasks[j]
			if t.Key == "" {
				t.Key = "#" + strconv.Itoa(j+1)
			}
			if keys[t.Key] {
				return nil, fmt.Errorf("project %s: duplicate task key %q", p.Code, t.Key)
			}
			keys[t.Key] = true
		}

		for j := range p.Tasks {
			t := &p.Tasks[j]
			id := taskNode(p.Code, t.Key)
			if err := add(id, Step{Kind: StepTask, Project: p, Task: t}); err != nil {
				return nil, err
			}
			edges = append(edges, toposort.Edge{pid, id})
			for _, dep := range t.After {
				if !keys[dep] {
					return nil, fmt.Errorf("task %s/%s comes after unknown task %q", p.Code, t.Key, dep)
				}
				edges = append(edges, toposort.Edge{taskNode(p.Code, dep), id})
			}
			for _, tag := range t.Tags {
				if name := strings.ToLower(strings.TrimSpace(tag)); declared[name] {
					edges = append(edges, toposort.Edge{tagNode(name), id})
				}
			}
		}
	}

	sorted, err := toposort.Toposort(edges)
	if err != nil {
		return nil, fmt.Errorf("seed order contains a cycle: %w", err)
	}

	plan := make([]Step, 0, len(steps))
	for _, id := range sorted {
		if id != nil {
			plan = append(plan, steps[id.(string)])
		}
	}
	if len(plan) != len(steps) {
		return nil, fmt.Errorf("seed plan lost %d steps", len(steps)-len(plan))
	}
	return plan, nil
}
