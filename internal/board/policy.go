package board

import (
	"strings"
	"time"
)

// GitSignals are the Git fields supplied with a request. Only fields the
// caller actually sent belong here; persisted values never re-trigger
// automation.
type GitSignals struct {
	FeatureBranch  string
	PullRequestURL string
}

func (g GitSignals) hasBranch() bool { return strings.TrimSpace(g.FeatureBranch) != "" }
func (g GitSignals) hasPR() bool     { return strings.TrimSpace(g.PullRequestURL) != "" }

// Decision is the result of running the transition policy.
type Decision struct {
	Status  Status
	Visited []Status // Statuses automation advanced through, in order
}

// Advanced reports whether automation moved the status at all.
func (d Decision) Advanced() bool { return len(d.Visited) > 0 }

// Decide applies the automatic Git progression on top of baseline.
//
// A feature branch moves TODO to IN_PROGRESS; a pull request URL then moves
// IN_PROGRESS to IN_REVIEW. Rules only push forward and never revert, and any
// status other than TODO/IN_PROGRESS passes through untouched.
func Decide(baseline Status, sig GitSignals) Decision {
	d := Decision{Status: baseline}

	if sig.hasBranch() && d.Status == StatusTodo {
		d.Status = StatusInProgress
		d.Visited = append(d.Visited, StatusInProgress)
	}
	if sig.hasPR() && d.Status == StatusInProgress {
		d.Status = StatusInReview
		d.Visited = append(d.Visited, StatusInReview)
	}

	return d
}

// Stamp maintains startedAt and completedAt for a task moving from one
// status to another. visited lists intermediate statuses automation passed
// through (see Decision.Visited).
//
// startedAt is written once per task lifetime, the first time the task is
// in IN_PROGRESS. completedAt is set on entering DONE and cleared on leaving it.
func Stamp(t *Task, from, to Status, now time.Time, visited ...Status) {
	if t.StartedAt == nil {
		entered := to == StatusInProgress
		for _, s := range visited {
			if s == StatusInProgress {
				entered = true
			}
		}
		if entered {
			ts := now
			t.StartedAt = &ts
		}
	}

	if from == to {
		return
	}
	switch {
	case to == StatusDone:
		ts := now
		t.CompletedAt = &ts
	case from == StatusDone:
		t.CompletedAt = nil
	}
}
