package board

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Priority is a task's urgency.
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Project owns tasks and hands out their display identifiers.
type Project struct {
	ID               int64     `json:"id"`
	Code             string    `json:"code"` // Immutable, prefix of every display ID
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	NextTaskSequence int64     `json:"nextTaskSequence"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Task is a card on the board.
type Task struct {
	ID                int64      `json:"id"`
	DisplayID         string     `json:"taskId"` // e.g. "WEBRED-7"
	ProjectID         int64      `json:"projectId"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	Status            Status     `json:"status"`
	Position          int64      `json:"position"`
	Priority          Priority   `json:"priority"`
	StoryPoints       *int       `json:"storyPoints,omitempty"`
	Prompt            string     `json:"prompt,omitempty"`
	GitFeatureBranch  string     `json:"gitFeatureBranch,omitempty"`
	GitPullRequestURL string     `json:"gitPullRequestUrl,omitempty"`
	IsBlocked         bool       `json:"isBlocked"`
	BlockedReason     string     `json:"blockedReason,omitempty"`
	Tags              []string   `json:"tags"`
	StartedAt         *time.Time `json:"startedAt,omitempty"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// Slot is one entry of a column: a task and its ordering key.
type Slot struct {
	TaskID   int64 `json:"taskId"`
	Position int64 `json:"position"`
}

// DisplayID formats a human-readable task identifier.
func DisplayID(code string, seq int64) string {
	return fmt.Sprintf("%s-%d", code, seq)
}

// ParseDisplayID splits "CODE-7" into its project code and sequence.
// The code itself may not contain '-', so the last dash is the separator.
func ParseDisplayID(id string) (string, int64, error) {
	i := strings.LastIndexByte(id, '-')
	if i <= 0 || i == len(id)-1 {
		return "", 0, fmt.Errorf("%w: malformed task id %q", ErrValidation, id)
	}
	seq, err := strconv.ParseInt(id[i+1:], 10, 64)
	if err != nil || seq < 1 {
		return "", 0, fmt.Errorf("%w: malformed task id %q", ErrValidation, id)
	}
	return id[:i], seq, nil
}
