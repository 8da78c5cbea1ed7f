package seed

import (
	"strings"
	"testing"
)

func indexOf(plan []Step) map[string]int {
	idx := make(map[string]int)
	for i, s := range plan {
		switch s.Kind {
		case StepTag:
			idx[tagNode(s.Tag.Name)] = i
		case StepProject:
			idx[projectNode(s.Project.Code)] = i
		case StepTask:
			idx[taskNode(s.Project.Code, s.Task.Key)] = i
		}
	}
	return idx
}

func TestPlanOrder(t *testing.T) {
	f, err := Parse(strings.NewReader(sampleFixture))
	if err != nil {
		t.Fatal(err)
	}
	plan, err := Plan(f)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(plan) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(plan))
	}

	idx := indexOf(plan)
	before := func(a, b string) {
		t.Helper()
		ia, okA := idx[a]
		ib, okB := idx[b]
		if !okA || !okB {
			t.Fatalf("missing step %s or %s in %v", a, b, idx)
		}
		if ia >= ib {
			t.Errorf("%s (step %d) should come before %s (step %d)", a, ia, b, ib)
		}
	}
	before("project:WEB", "task:WEB/schema")
	before("project:WEB", "task:WEB/#3")
	before("tag:backend", "task:WEB/schema")
	before("task:WEB/schema", "task:WEB/api")
}

func TestPlanErrors(t *testing.T) {
	tests := []struct {
		name        string
		fixture     string
		errContains string
	}{
		{
			name:        "cycle",
			fixture:     "projects:\n  - code: A\n    tasks:\n      - {key: x, title: X, after: [y]}\n      - {key: y, title: Y, after: [x]}\n",
			errContains: "cycle",
		},
		{
			name:        "unknown after",
			fixture:     "projects:\n  - code: A\n    tasks:\n      - {key: x, title: X, after: [nope]}\n",
			errContains: "unknown task",
		},
		{
			name:        "duplicate key",
			fixture:     "projects:\n  - code: A\n    tasks:\n      - {key: x, title: X}\n      - {key: x, title: Y}\n",
			errContains: "duplicate task key",
		},
		{
			name:        "duplicate project",
			fixture:     "projects:\n  - {code: A, title: One}\n  - {code: a, title: Two}\n",
			errContains: "duplicate project:A",
		},
		{
			name:        "missing code",
			fixture:     "projects:\n  - {title: Nameless}\n",
			errContains: "no code",
		},
		{
			name:        "unnamed tag",
			fixture:     "tags:\n  - {color: \"#000000\"}\n",
			errContains: "no name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(strings.NewReader(tt.fixture))
			if err != nil {
				t.Fatal(err)
			}
			_, err = Plan(f)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error %q should contain %q", err, tt.errContains)
			}
		})
	}
}
