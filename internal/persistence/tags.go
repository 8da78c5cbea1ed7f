package persistence

import (
	"context"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"

	"github.com/aristath/taskblaster/internal/board"
)

var tagPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// tagPalette is cycled through by name hash so a tag keeps its colour.
var tagPalette = []string{
	"#EF4444", "#F97316", "#F59E0B", "#84CC16", "#10B981",
	"#06B6D4", "#3B82F6", "#6366F1", "#8B5CF6", "#EC4899",
}

// NormalizeTags lower-cases, trims and de-duplicates tag names, rejecting
// anything that is not hyphen-separated lower-case alphanumerics.
func NormalizeTags(tags []string) ([]string, error) {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, raw := range tags {
		tag := strings.ToLower(strings.TrimSpace(raw))
		if !tagPattern.MatchString(tag) || len(tag) > 100 {
			return nil, fmt.Errorf("%w: invalid tag %q", board.ErrValidation, raw)
		}
		if seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out, nil
}

func tagColor(name string) string {
	h := fnv.New32a()
	h.Write([]byte(name))
	return tagPalette[h.Sum32()%uint32(len(tagPalette))]
}

// EnsureTag creates a tag unless it exists. An empty color picks one from
// the palette; an existing tag keeps its color.
func (t *sqlTx) EnsureTag(ctx context.Context, name, color string) error {
	if color == "" {
		color = tagColor(name)
	}
	_, err := t.q.ExecContext(ctx, `INSERT INTO tags (name, color) VALUES (?, ?) ON CONFLICT(name) DO NOTHING`, name, color)
	if err != nil {
		return fmt.Errorf("failed to create tag %s: %w", name, classify(err))
	}
	return nil
}

// TagColor returns a tag's color.
func (t *sqlTx) TagColor(ctx context.Context, name string) (string, error) {
	var color string
	if err := t.q.QueryRowContext(ctx, `SELECT color FROM tags WHERE name = ?`, name).Scan(&color); err != nil {
		return "", fmt.Errorf("tag %s: %w", name, classify(err))
	}
	return color, nil
}

// SetTaskTags replaces a task's tags, creating missing tags on the way.
func (t *sqlTx) SetTaskTags(ctx context.Context, taskID int64, tags []string) error {
	tags, err := NormalizeTags(tags)
	if err != nil {
		return err
	}

	if _, err := t.q.ExecContext(ctx, `DELETE FROM task_tags WHERE task_id = ?`, taskID); err != nil {
		return fmt.Errorf("failed to clear tags of task %d: %w", taskID, classify(err))
	}

	for _, tag := range tags {
		if err := t.EnsureTag(ctx, tag, ""); err != nil {
			return err
		}
		_, err := t.q.ExecContext(ctx, `INSERT INTO task_tags (task_id, tag) VALUES (?, ?)`, taskID, tag)
		if err != nil {
			return fmt.Errorf("failed to tag task %d with %s: %w", taskID, tag, classify(err))
		}
	}
	return nil
}

// TaskTags returns a task's tags in name order.
func (t *sqlTx) TaskTags(ctx context.Context, taskID int64) ([]string, error) {
	task := &board.Task{ID: taskID, Tags: []string{}}
	if err := t.loadTags(ctx, []*board.Task{task}); err != nil {
		return nil, err
	}
	return task.Tags, nil
}
