package api

import (
	"fmt"
	"strings"

	"github.com/aristath/taskblaster/internal/board"
	"github.com/aristath/taskblaster/internal/orchestrator"
)

type createProjectRequest struct {
	Code        string `json:"code"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type createTaskRequest struct {
	Title             string   `json:"title" binding:"required"`
	Description       string   `json:"description"`
	Status            string   `json:"status"`
	Priority          string   `json:"priority"`
	StoryPoints       *int     `json:"storyPoints"`
	Prompt            string   `json:"prompt"`
	GitFeatureBranch  string   `json:"gitFeatureBranch"`
	GitPullRequestURL string   `json:"gitPullRequestUrl"`
	IsBlocked         bool     `json:"isBlocked"`
	BlockedReason     string   `json:"blockedReason"`
	Tags              []string `json:"tags"`
}

func (r createTaskRequest) toNewTask() (orchestrator.NewTask, error) {
	nt := orchestrator.NewTask{
		Title:             r.Title,
		Description:       r.Description,
		Priority:          board.Priority(strings.ToUpper(strings.TrimSpace(r.Priority))),
		StoryPoints:       r.StoryPoints,
		Prompt:            r.Prompt,
		GitFeatureBranch:  r.GitFeatureBranch,
		GitPullRequestURL: r.GitPullRequestURL,
		IsBlocked:         r.IsBlocked,
		BlockedReason:     r.BlockedReason,
		Tags:              r.Tags,
	}
	if r.Status != "" {
		s, err := board.ParseStatus(r.Status)
		if err != nil {
			return nt, err
		}
		nt.Status = s
	}
	return nt, nil
}

// updateTaskRequest is a PUT body; absent fields keep their stored value.
type updateTaskRequest struct {
	Title             *string   `json:"title"`
	Description       *string   `json:"description"`
	Status            *string   `json:"status"`
	Priority          *string   `json:"priority"`
	StoryPoints       *int      `json:"storyPoints"`
	Prompt            *string   `json:"prompt"`
	GitFeatureBranch  *string   `json:"gitFeatureBranch"`
	GitPullRequestURL *string   `json:"gitPullRequestUrl"`
	IsBlocked         *bool     `json:"isBlocked"`
	BlockedReason     *string   `json:"blockedReason"`
	Tags              *[]string `json:"tags"`
}

func (r updateTaskRequest) toPatch() (orchestrator.TaskPatch, error) {
	p := orchestrator.TaskPatch{
		Title:             r.Title,
		Description:       r.Description,
		StoryPoints:       r.StoryPoints,
		Prompt:            r.Prompt,
		GitFeatureBranch:  r.GitFeatureBranch,
		GitPullRequestURL: r.GitPullRequestURL,
		IsBlocked:         r.IsBlocked,
		BlockedReason:     r.BlockedReason,
	}
	if r.Status != nil {
		s, err := board.ParseStatus(*r.Status)
		if err != nil {
			return p, err
		}
		p.Status = &s
	}
	if r.Priority != nil {
		prio := board.Priority(strings.ToUpper(strings.TrimSpace(*r.Priority)))
		p.Priority = &prio
	}
	if r.Tags != nil {
		p.Tags = append([]string{}, (*r.Tags)...)
	}
	return p, nil
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// positionRequest moves one card. NewPosition is the target index in the
// destination column, not an ordering key.
type positionRequest struct {
	NewPosition *int   `json:"newPosition" binding:"required"`
	Status      string `json:"status"`
}

type positionUpdate struct {
	TaskID      string `json:"taskId" binding:"required"`
	NewPosition int64  `json:"newPosition"`
}

type bulkPositionsRequest struct {
	PositionUpdates []positionUpdate `json:"positionUpdates" binding:"required,dive"`
}

func (r bulkPositionsRequest) toUpdates() []orchestrator.PositionUpdate {
	out := make([]orchestrator.PositionUpdate, len(r.PositionUpdates))
	for i, u := range r.PositionUpdates {
		out[i] = orchestrator.PositionUpdate{TaskID: u.TaskID, Position: u.NewPosition}
	}
	return out
}

type tagsRequest struct {
	Tags []string `json:"tags"`
}

// columnPosition is one row of the positions read endpoint.
type columnPosition struct {
	TaskID   string `json:"taskId"`
	Position int64  `json:"position"`
}

func parseStatusParam(raw string) (board.Status, error) {
	s, err := board.ParseStatus(raw)
	if err != nil {
		return "", fmt.Errorf("column %q: %w", raw, err)
	}
	return s, nil
}
